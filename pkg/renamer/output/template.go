package output

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/dustin/go-humanize"
)

// TemplateFormatter formats output using a custom Go text/template.
// It supports custom template functions for common formatting operations.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// templateData is the data passed to the template.
// It wraps Result to add computed fields.
type templateData struct {
	*Result
	TotalSize int64
	Changed   []Row
}

// NewTemplateFormatter creates a new template formatter with the given template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate sets or updates the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil // Reset compiled template
}

// templateFuncs returns the custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// duration formats a time.Duration in a human-friendly way.
		// Usage: {{duration .Stats.RuleDuration}}
		"duration": formatDuration,

		// bytes formats a size in bytes as a human-readable string.
		// Usage: {{bytes .Size}}
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(size))
		},

		// target returns the absolute path a row is renamed to.
		// Usage: {{target .}}
		"target": targetPath,
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Compile template if needed
	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}

	// Prepare data with computed fields
	data := templateData{
		Result:    r,
		TotalSize: r.TotalSize(),
		Changed:   r.ChangedRows(),
	}

	return f.template.Execute(w, data)
}

// defaultTemplate is the template used when no custom template is provided.
const defaultTemplate = `{{range .Changed}}{{.Original}} -> {{.Proposed}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
