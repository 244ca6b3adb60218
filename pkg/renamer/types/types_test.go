package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	mod := time.Date(2024, 6, 8, 15, 30, 45, 0, time.UTC)

	t.Run("file seeds proposal from original", func(t *testing.T) {
		item, err := NewItem("/photos/IMG_0001.JPG", ItemOptions{
			IsFile:         true,
			Size:           2048,
			FSModification: &mod,
		})
		require.NoError(t, err)

		assert.Equal(t, "IMG_0001", item.OriginalName)
		assert.Equal(t, ".JPG", item.OriginalExtension)
		assert.Equal(t, Proposal{Name: "IMG_0001", Extension: ".JPG"}, item.Proposed)
		assert.Equal(t, "/photos", item.Dir())
		assert.False(t, item.Changed())
		assert.Nil(t, item.FSCreation)
		assert.Equal(t, &mod, item.FSModification)
	})

	t.Run("directory keeps dots in name", func(t *testing.T) {
		item, err := NewItem("/music/v1.2 release", ItemOptions{IsFile: false})
		require.NoError(t, err)

		assert.Equal(t, "v1.2 release", item.OriginalName)
		assert.Empty(t, item.OriginalExtension)
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		_, err := NewItem("", ItemOptions{})
		assert.ErrorIs(t, err, ErrEmptyPath)
	})
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantExt  string
	}{
		{input: "report.pdf", wantName: "report", wantExt: ".pdf"},
		{input: "archive.tar.gz", wantName: "archive.tar", wantExt: ".gz"},
		{input: ".bashrc", wantName: ".bashrc", wantExt: ""},
		{input: "README", wantName: "README", wantExt: ""},
		{input: "trailing.", wantName: "trailing.", wantExt: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, ext := SplitName(tt.input)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestItem_Changed(t *testing.T) {
	item, err := NewItem("/a/b.txt", ItemOptions{IsFile: true})
	require.NoError(t, err)

	item.Proposed.Name = "c"
	assert.True(t, item.Changed())
	assert.Equal(t, "c.txt", item.Proposed.Filename())
	assert.Equal(t, "b.txt", item.OriginalFilename())

	item.Proposed = Proposal{Name: "b", Extension: ".md"}
	assert.True(t, item.Changed())
}

func TestItem_MetadataAccessors(t *testing.T) {
	var empty Item
	assert.Nil(t, empty.ContentCreation())
	assert.Nil(t, empty.Width())
	assert.Nil(t, empty.Height())

	created := time.Date(2005, 10, 12, 12, 0, 5, 0, time.UTC)
	item := Item{Metadata: &Metadata{
		CreationInstant: &created,
		Width:           Ptr(640),
		Height:          Ptr(480),
	}}
	assert.Equal(t, created, *item.ContentCreation())
	assert.Equal(t, 640, *item.Width())
	assert.Equal(t, 480, *item.Height())
}

func TestMetadata_IsEmpty(t *testing.T) {
	var nilMeta *Metadata
	assert.True(t, nilMeta.IsEmpty())
	assert.True(t, (&Metadata{}).IsEmpty())

	// An empty artist string is known, not unknown.
	assert.False(t, (&Metadata{Artist: Ptr("")}).IsEmpty())
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "bytes with B suffix", input: "512B", want: 512},
		{name: "kilobytes", input: "100K", want: 100 * KiB},
		{name: "megabytes with iB", input: "50MiB", want: 50 * MiB},
		{name: "gigabytes lowercase", input: "2g", want: 2 * GiB},
		{name: "terabytes with B", input: "1TB", want: TiB},
		{name: "surrounding whitespace", input: "  100M  ", want: 100 * MiB},
		{name: "decimal values truncated", input: "1.5G", want: 1610612736},
		{name: "empty string", input: "", wantErr: true},
		{name: "invalid suffix", input: "100X", wantErr: true},
		{name: "negative value", input: "-100M", wantErr: true},
		{name: "invalid format", input: "100M100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "1.0 KiB", FormatSize(KiB))
	assert.Equal(t, "1.5 MiB", FormatSize(1536*KiB))
	assert.Equal(t, "2.0 KiB", Item{Size: 2048}.HumanSize())
}
