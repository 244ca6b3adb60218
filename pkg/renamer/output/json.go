package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// document is the structure shared by the json and yaml formatters.
type document struct {
	Rows  []Row    `json:"rows" yaml:"rows"`
	Stats docStats `json:"stats" yaml:"stats"`
	Meta  docMeta  `json:"meta" yaml:"meta"`
}

// docStats carries durations as strings.
type docStats struct {
	Items        int    `json:"items" yaml:"items"`
	Changed      int    `json:"changed" yaml:"changed"`
	Failed       int    `json:"failed" yaml:"failed"`
	CacheHits    int64  `json:"cache_hits" yaml:"cache_hits"`
	ScanDuration string `json:"scan_duration,omitempty" yaml:"scan_duration,omitempty"`
	RuleDuration string `json:"rule_duration,omitempty" yaml:"rule_duration,omitempty"`
}

type docMeta struct {
	Source      string   `json:"source" yaml:"source"`
	Rule        string   `json:"rule" yaml:"rule"`
	Applied     bool     `json:"applied" yaml:"applied"`
	ManifestID  string   `json:"manifest_id,omitempty" yaml:"manifest_id,omitempty"`
	TotalSize   int64    `json:"total_size" yaml:"total_size"`
	Warnings    []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Interrupted bool     `json:"interrupted" yaml:"interrupted"`
}

// buildDocument converts a Result to the serialized structure.
func buildDocument(r *Result) document {
	rows := r.Rows
	if rows == nil {
		rows = []Row{}
	}

	return document{
		Rows: rows,
		Stats: docStats{
			Items:        r.Stats.Items,
			Changed:      r.Stats.Changed,
			Failed:       r.Stats.Failed,
			CacheHits:    r.Stats.CacheHits,
			ScanDuration: formatDurationString(r.Stats.ScanDuration),
			RuleDuration: formatDurationString(r.Stats.RuleDuration),
		},
		Meta: docMeta{
			Source:      r.Source,
			Rule:        r.Rule,
			Applied:     r.Applied,
			ManifestID:  r.ManifestID,
			TotalSize:   r.TotalSize(),
			Warnings:    r.Warnings,
			Interrupted: r.Interrupted,
		},
	}
}

// formatDurationString formats a duration as a string for serialized output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with rows, stats, and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(r))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one row per line).
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, row := range r.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
