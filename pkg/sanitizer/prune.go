package sanitizer

import (
	"fmt"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// Pruner drops columns whose fraction of missing cells is strictly greater
// than Threshold. A column exactly at the threshold is kept, and an empty
// table keeps all of its columns.
type Pruner struct {
	Threshold float64
}

// NewPruner creates a pruner with the given missing-value threshold in [0,1].
func NewPruner(threshold float64) *Pruner {
	return &Pruner{Threshold: threshold}
}

// Name returns "prune".
func (p *Pruner) Name() string { return "prune" }

// Apply drops the columns above the threshold.
func (p *Pruner) Apply(t *table.Table, stats *Stats) error {
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("missing threshold %v outside [0,1]", p.Threshold)
	}

	rows := t.NumRows()
	if rows == 0 {
		return nil
	}

	log := logger.ForPass(p.Name())
	var drop []string
	for _, col := range t.Columns() {
		missing := col.MissingCount()
		ratio := float64(missing) / float64(rows)
		if ratio > p.Threshold {
			log.Debug("dropping column", "column", col.Name, "missing", missing, "ratio", ratio)
			drop = append(drop, col.Name)
		}
	}

	t.DropColumns(drop...)
	stats.DroppedColumns = append(stats.DroppedColumns, drop...)
	if phase := stats.GetPhase(p.Name()); phase != nil {
		phase.Details["dropped_columns"] = len(drop)
	}
	if len(drop) > 0 {
		log.Info("columns removed for excess missing values", "count", len(drop), "threshold", p.Threshold)
	}
	return nil
}
