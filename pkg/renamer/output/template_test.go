package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFormatter_Default(t *testing.T) {
	f, err := Get("template")
	require.NoError(t, err)

	out := format(t, f, sampleResult())
	assert.Equal(t, "IMG_0001.jpg -> 20240608_153045.jpg\nIMG_0002.jpg -> 20240608_153045 (1).jpg\n", out)
}

func TestTemplateFormatter_Functions(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{name: "bytes", tmpl: `{{bytes .TotalSize}}`, want: "3.0 KiB"},
		{name: "duration", tmpl: `{{duration .Stats.ScanDuration}}`, want: "20ms"},
		{name: "target", tmpl: `{{range .Changed}}{{target .}};{{end}}`, want: "/photos/20240608_153045.jpg;/photos/2023/20240608_153045 (1).jpg;"},
		{name: "fields", tmpl: `{{.Rule}} {{len .Rows}} {{.Stats.Changed}}`, want: "datetime YYYY_MM_DD_TOGETHER HH_MM_SS_24_TOGETHER 3 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := format(t, NewTemplateFormatter(tt.tmpl), sampleResult())
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTemplateFormatter_SetTemplate(t *testing.T) {
	f := NewTemplateFormatter("first")
	assert.Equal(t, "first", format(t, f, sampleResult()))

	f.SetTemplate("second")
	assert.Equal(t, "second", format(t, f, sampleResult()))
}

func TestTemplateFormatter_InvalidTemplate(t *testing.T) {
	f := NewTemplateFormatter("{{range}")
	assert.Error(t, f.Format(nil, sampleResult()))
}
