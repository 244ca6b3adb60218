package output

import (
	"bytes"
)

// PathsFormatter formats output as one target path per line.
// Only rows whose name changes are listed, suitable for piping to other tools.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, row := range r.ChangedRows() {
		w.WriteString(targetPath(row))
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{}
	})
}

// Ensure PathsFormatter implements Formatter.
var _ Formatter = (*PathsFormatter)(nil)

// NullFormatter formats output as null-delimited target paths.
// It produces paths separated by null bytes (0x00), suitable for use with
// xargs -0 or other tools that support null-delimited input.
type NullFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *NullFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, row := range r.ChangedRows() {
		w.WriteString(targetPath(row))
		w.WriteByte(0)
	}
	return nil
}

func init() {
	Register("null", func() Formatter {
		return &NullFormatter{}
	})
}

// Ensure NullFormatter implements Formatter.
var _ Formatter = (*NullFormatter)(nil)
