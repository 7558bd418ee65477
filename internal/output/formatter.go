// Package output renders command results as tables, JSON or YAML.
package output

import (
	"fmt"
	"io"
)

// Format represents the output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formatter formats data for output.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates a formatter for the given format. Unknown formats fall back to a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// Print formats data to w in the named format.
func Print(w io.Writer, format string, data any) error {
	if err := NewFormatter(Format(format)).Format(w, data); err != nil {
		return fmt.Errorf("output.Print: %w", err)
	}
	return nil
}
