package sanitizer

import (
	"strings"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// Deduplicator removes rows identical to an earlier row across all columns.
// The first occurrence is kept and row order is preserved.
type Deduplicator struct{}

// NewDeduplicator creates a deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Name returns "dedupe".
func (d *Deduplicator) Name() string { return "dedupe" }

// Apply drops the duplicate rows.
func (d *Deduplicator) Apply(t *table.Table, stats *Stats) error {
	rows := t.NumRows()
	cols := t.Columns()
	keep := make([]bool, rows)
	seen := make(map[string]struct{}, rows)

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		sb.Reset()
		for _, col := range cols {
			sb.WriteString(col.Cells[r].Key())
			sb.WriteByte(0x1f)
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep[r] = true
	}

	removed := rows - len(seen)
	if removed > 0 {
		if err := t.KeepRows(keep); err != nil {
			return err
		}
	}

	stats.DuplicateRows += removed
	if phase := stats.GetPhase(d.Name()); phase != nil {
		phase.Details["removed_rows"] = removed
	}
	if removed > 0 {
		logger.ForPass(d.Name()).Info("duplicate rows removed", "count", removed)
	}
	return nil
}
