package sanitizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// Chain applies passes in sequence.
type Chain struct {
	passes []Pass
}

// NewChain creates a chain that applies passes in the order provided.
//
// Example:
//
//	chain := sanitizer.NewChain(
//	    sanitizer.NewPruner(0.5),
//	    sanitizer.NewImputer(),
//	)
func NewChain(passes ...Pass) *Chain {
	return &Chain{
		passes: passes,
	}
}

// Run applies every pass to t and returns the collected stats.
// It stops at the first failing pass; t must then be discarded.
// Rectangularity is checked at every pass boundary, and a panicking pass
// is reported as ErrUnexpectedProcessing rather than crashing the caller.
func (c *Chain) Run(ctx context.Context, t *table.Table) (*Stats, error) {
	start := time.Now()
	stats := NewStats()
	stats.InputRows = t.NumRows()
	stats.InputColumns = t.NumCols()

	if err := t.Validate(); err != nil {
		return stats, classify("input", err)
	}

	for _, p := range c.passes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		phase := stats.AddPhase(p.Name())
		passStart := time.Now()
		err := applySafely(p, t, stats)
		phase.Duration = time.Since(passStart)
		if err != nil {
			return stats, classify(p.Name(), err)
		}
		if err := t.Validate(); err != nil {
			return stats, classify(p.Name(), err)
		}

		logger.ForPass(p.Name()).Debug("pass complete",
			"rows", t.NumRows(),
			"columns", t.NumCols(),
			"duration", phase.Duration)
	}

	stats.OutputRows = t.NumRows()
	stats.OutputColumns = t.NumCols()
	stats.TotalDuration = time.Since(start)
	return stats, nil
}

// Name returns the names of all chained passes.
func (c *Chain) Name() string {
	names := make([]string, len(c.passes))
	for i, p := range c.passes {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}

func applySafely(p Pass, t *table.Table, stats *Stats) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrUnexpectedProcessing, r)
		}
	}()
	return p.Apply(t, stats)
}
