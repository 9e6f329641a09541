// Package output renders the final report of a run.
package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is the default tagged line output.
	FormatText Format = "text"

	// FormatYAML is a YAML document
	FormatYAML Format = "yaml"

	// FormatJSON is a JSON document
	FormatJSON Format = "json"
)

// ValidFormats lists every accepted format name.
var ValidFormats = []string{string(FormatText), string(FormatYAML), string(FormatJSON)}

// ParseFormat parses a format string into a Format value.
// Accepts: "text", "yaml", "json" (case-insensitive)
// Returns an error for invalid format values.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText, nil
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected text, yaml, or json)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsStructured reports whether the format produces a single document, in
// which case diagnostics must not share its stream.
func (f Format) IsStructured() bool {
	return f == FormatYAML || f == FormatJSON
}
