package sanitizer

import (
	"strings"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// Normalizer trims leading and trailing whitespace from every text cell
// of textual columns. Internal whitespace is left alone.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Name returns "normalize".
func (n *Normalizer) Name() string { return "normalize" }

// Apply trims textual columns in place.
func (n *Normalizer) Apply(t *table.Table, stats *Stats) error {
	trimmed := 0
	for _, col := range t.Columns() {
		if col.Kind != table.Textual {
			continue
		}
		for i, cell := range col.Cells {
			if !cell.IsText() {
				continue
			}
			s := cell.String()
			if ts := strings.TrimSpace(s); ts != s {
				col.Cells[i] = table.Text(ts)
				trimmed++
			}
		}
	}

	stats.TrimmedCells += trimmed
	if phase := stats.GetPhase(n.Name()); phase != nil {
		phase.Details["trimmed_cells"] = trimmed
	}
	logger.ForPass(n.Name()).Info("surrounding whitespace removed from text columns", "cells", trimmed)
	return nil
}
