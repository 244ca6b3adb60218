package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/jamesainslie/renamer/pkg/renamer/datetime"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// AudioExtensions are handled by the audio mapper.
var AudioExtensions = []string{".mp3"}

// Frames read from an ID3v2 tag.
const (
	frameArtist        = "TPE1"
	frameAlbum         = "TALB"
	frameTrack         = "TRCK"
	frameRecordingTime = "TDRC"
	frameYear          = "TYER"
)

var audioFrames = []string{frameArtist, frameAlbum, frameTrack, frameRecordingTime, frameYear}

type audioExtractor struct {
	offset string
}

// Extract reads artist, album, track, year and recording time. Frames the tag
// does not have stay nil.
func (e *audioExtractor) Extract(path string) (*types.Metadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: audioFrames})
	if err != nil {
		return nil, fmt.Errorf("reading id3 tag: %w", err)
	}
	defer tag.Close()

	md := &types.Metadata{
		Artist: textFrame(tag, frameArtist),
		Album:  textFrame(tag, frameAlbum),
		Track:  textFrame(tag, frameTrack),
	}

	recorded := textFrame(tag, frameRecordingTime)
	if recorded == nil {
		recorded = textFrame(tag, frameYear)
	}
	if recorded != nil {
		md.CreationInstant = datetime.ParseOptional(*recorded, e.offset)
		md.Year = leadingYear(*recorded)
	}

	return md, nil
}

// textFrame returns the frame text, or nil when the tag lacks the frame.
func textFrame(tag *id3v2.Tag, id string) *string {
	if len(tag.GetFrames(id)) == 0 {
		return nil
	}
	text := strings.TrimRight(tag.GetTextFrame(id).Text, "\x00")
	return &text
}

// leadingYear parses the four-digit year that starts an ID3 timestamp.
func leadingYear(s string) *int {
	if len(s) < 4 {
		return nil
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return nil
	}
	return &year
}
