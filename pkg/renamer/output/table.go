package output

import (
	"bytes"
	"encoding/csv"
	"strings"
)

// TSVFormatter formats output as tab-separated values.
// It produces a simple table with a header row followed by data rows.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(strings.Join(columnHeaders, "\t"))
	w.WriteByte('\n')

	for _, row := range r.Rows {
		fields := columns(r, row)
		for i, field := range fields {
			fields[i] = escapeTSV(field)
		}
		w.WriteString(strings.Join(fields, "\t"))
		w.WriteByte('\n')
	}

	return nil
}

var tsvEscaper = strings.NewReplacer("\\", `\\`, "\t", `\t`, "\n", `\n`)

// escapeTSV escapes characters that would break the row structure.
func escapeTSV(s string) string {
	return tsvEscaper.Replace(s)
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as comma-separated values with proper quoting.
// It uses encoding/csv for RFC 4180 compliant output.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columnHeaders); err != nil {
		return err
	}

	for _, row := range r.Rows {
		if err := writer.Write(columns(r, row)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table.
// It produces a table with header, separator, and data rows using | delimiters.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString("| " + strings.Join(columnHeaders, " | ") + " |\n")
	w.WriteString(strings.Repeat("|------", len(columnHeaders)) + "|\n")

	for _, row := range r.Rows {
		fields := columns(r, row)
		for i, field := range fields {
			fields[i] = escapeMarkdownPipe(field)
		}
		w.WriteString("| " + strings.Join(fields, " | ") + " |\n")
	}

	return nil
}

// escapeMarkdownPipe escapes pipe characters in a string for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
