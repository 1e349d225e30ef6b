// Package output serializes table rows in the supported output formats.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents output format types.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatJSONL, FormatYAML}

// ParseFormat resolves a case-insensitive format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Writer serializes rows of one table.
type Writer interface {
	// Begin announces the column names. It must be called once, before Write.
	Begin(names []string) error

	// Write outputs a single row.
	Write(rec Record) error

	// Close flushes buffered output. It does not close the underlying io.Writer.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	indent    string
	delimiter rune
}

// WithIndent sets the JSON indentation string. Empty means compact output.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(d rune) WriterOption {
	return func(c *writerConfig) {
		c.delimiter = d
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		indent:    "  ",
		delimiter: ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatCSV:
		return NewCSVWriter(w, cfg.delimiter), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
