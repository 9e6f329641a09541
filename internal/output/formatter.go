package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/countfunc/countfunc/internal/logger"
	"gopkg.in/yaml.v3"
)

// Report is the result of a run.
type Report struct {
	// Count is the number of distinct qualified names.
	Count int
	// Names lists every distinct name; nil unless the listing was requested.
	Names []string
}

// countDocument is the structured form of a report without a listing.
type countDocument struct {
	Count int `yaml:"count" json:"count"`
}

// listingDocument is the structured form of a report with a listing, which
// is present even when empty.
type listingDocument struct {
	Count int      `yaml:"count" json:"count"`
	Names []string `yaml:"names" json:"names"`
}

// document returns the value encoded by the structured formatters.
func (r *Report) document() interface{} {
	if r.Names == nil {
		return countDocument{Count: r.Count}
	}
	return listingDocument{Count: r.Count, Names: r.Names}
}

// NewReport builds a report from a list of distinct names. The listing is
// kept only when printAll is set.
func NewReport(names []string, printAll bool) *Report {
	r := &Report{Count: len(names)}
	if printAll {
		r.Names = names
		if r.Names == nil {
			r.Names = []string{}
		}
	}
	return r
}

// Formatter writes a report in one format.
type Formatter interface {
	FormatToWriter(w io.Writer, report *Report) error
}

// GetFormatter returns the formatter for format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// TextFormatter writes the count as a tagged line followed by the untagged
// listing, one name per line.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// FormatToWriter writes text output to a writer.
func (f *TextFormatter) FormatToWriter(w io.Writer, report *Report) error {
	log := logger.New(w)
	log.Logf("result: %d", report.Count)
	if report.Names == nil {
		return nil
	}

	log.Logf(" with --print-all:")
	for _, name := range report.Names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// YAMLFormatter formats reports as YAML output.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// FormatToWriter writes YAML output to a writer.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, report *Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(report.document())
}

// JSONFormatter formats reports as JSON output.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(report.document())
}
