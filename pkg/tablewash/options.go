// Package tablewash provides the public API for cleaning delimited-text tables:
// load, run the sanitizer passes, write.
package tablewash

import (
	"github.com/jmylchreest/tablewash/pkg/sanitizer"
	"github.com/jmylchreest/tablewash/pkg/tableio"
)

// Config holds all tablewash configuration.
type Config struct {
	// Pass settings
	Sanitize sanitizer.Config `json:"sanitize" yaml:"sanitize"`

	// Input settings
	Encoding         string   `json:"encoding" yaml:"encoding" validate:"required"`
	FallbackEncoding string   `json:"fallback_encoding" yaml:"fallback_encoding" validate:"required"`
	Delimiter        string   `json:"delimiter" yaml:"delimiter" validate:"len=1"`
	NAValues         []string `json:"na_values,omitempty" yaml:"na_values,omitempty"`
	MaxInputSize     string   `json:"max_input_size,omitempty" yaml:"max_input_size,omitempty"` // e.g. "512MB"; empty is unlimited

	// Output settings
	Format string `json:"format" yaml:"format" validate:"oneof=csv json jsonl yaml yml"`
	Indent string `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	load := tableio.DefaultLoadOptions()
	return Config{
		Sanitize:         sanitizer.DefaultConfig(),
		Encoding:         load.Encoding,
		FallbackEncoding: load.FallbackEncoding,
		Delimiter:        string(load.Delimiter),
		Format:           "csv",
		Indent:           "  ",
	}
}

// Option configures a Washer.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithThreshold sets the missing-value fraction above which a column is dropped.
func WithThreshold(threshold float64) Option {
	return func(c *Config) {
		c.Sanitize.MissingThreshold = threshold
	}
}

// WithEncoding sets the primary input encoding ("auto" detects it).
func WithEncoding(label string) Option {
	return func(c *Config) {
		c.Encoding = label
	}
}

// WithFallbackEncoding sets the encoding tried when the primary one fails.
func WithFallbackEncoding(label string) Option {
	return func(c *Config) {
		c.FallbackEncoding = label
	}
}

// WithDelimiter sets the field delimiter for input and CSV output.
func WithDelimiter(d string) Option {
	return func(c *Config) {
		c.Delimiter = d
	}
}

// WithNAValues sets the field values read as missing.
func WithNAValues(values ...string) Option {
	return func(c *Config) {
		c.NAValues = values
	}
}

// WithMaxInputSize bounds the input size, e.g. "512MB".
func WithMaxInputSize(size string) Option {
	return func(c *Config) {
		c.MaxInputSize = size
	}
}

// WithFormat sets the output format (csv, json, jsonl, yaml).
func WithFormat(format string) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithIndent sets the JSON output indentation. Empty means compact.
func WithIndent(indent string) Option {
	return func(c *Config) {
		c.Indent = indent
	}
}
