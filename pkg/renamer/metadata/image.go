package metadata

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/jamesainslie/renamer/pkg/renamer/datetime"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

// ImageExtensions are handled by the image mapper.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// exifExtensions may carry an EXIF block goexif can read.
var exifExtensions = []string{".jpg", ".jpeg", ".tif", ".tiff"}

type imageExtractor struct {
	offset string
}

// Extract reads the pixel dimensions and, for JPEG and TIFF, the EXIF
// capture time.
func (e *imageExtractor) Extract(path string) (*types.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}

	md := &types.Metadata{
		Width:  types.Ptr(cfg.Width),
		Height: types.Ptr(cfg.Height),
	}

	if Extensions(exifExtensions...)(path) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return md, nil
		}
		md.CreationInstant = e.captureTime(f, path)
	}

	return md, nil
}

// captureTime prefers DateTimeOriginal and falls back to DateTime.
func (e *imageExtractor) captureTime(r io.Reader, path string) *time.Time {
	x, err := exif.Decode(r)
	if err != nil {
		logger.Debug("no exif data", "path", filepath.Base(path), "error", err)
		return nil
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		text, err := tag.StringVal()
		if err != nil {
			continue
		}
		if t := datetime.ParseOptional(strings.Trim(text, "\x00 "), e.offset); t != nil {
			return t
		}
	}
	return nil
}
