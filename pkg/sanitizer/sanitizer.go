// Package sanitizer provides the cleaning passes applied to a loaded table.
// Passes run in a fixed order: prune, impute, coerce, normalize, dedupe.
package sanitizer

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/tablewash/pkg/table"
)

// Pass transforms a table in place.
type Pass interface {
	// Apply runs the pass over t, recording what it did in stats.
	// A pass either completes for the whole table or returns an error.
	Apply(t *table.Table, stats *Stats) error

	// Name returns the pass name for logging and stats.
	Name() string
}

// Config holds the tunables of the standard passes.
type Config struct {
	// MissingThreshold is the largest tolerated fraction of missing cells
	// in a column. Columns above it are dropped. Default: 0.9.
	MissingThreshold float64 `json:"missing_threshold" yaml:"missing_threshold" validate:"gte=0,lte=1"`
}

// DefaultConfig returns the default pass configuration.
func DefaultConfig() Config {
	return Config{
		MissingThreshold: 0.9,
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid sanitizer config: %w", err)
	}
	return nil
}

// Standard returns the pass chain in its required order. The coercer must
// run after the imputer so imputation decides numeric versus textual from
// observed values only.
func Standard(cfg Config) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewChain(
		NewPruner(cfg.MissingThreshold),
		NewImputer(),
		NewCoercer(),
		NewNormalizer(),
		NewDeduplicator(),
	), nil
}
