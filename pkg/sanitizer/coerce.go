package sanitizer

import (
	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// Coercer turns a textual column numeric when every one of its cells
// parses as a number. The decision is per column: a single unparseable
// cell leaves the whole column textual and untouched.
type Coercer struct{}

// NewCoercer creates a coercer.
func NewCoercer() *Coercer {
	return &Coercer{}
}

// Name returns "coerce".
func (c *Coercer) Name() string { return "coerce" }

// Apply reinterprets every fully numeric textual column.
func (c *Coercer) Apply(t *table.Table, stats *Stats) error {
	log := logger.ForPass(c.Name())
	coerced := 0

	for _, col := range t.Columns() {
		if col.Kind != table.Textual || col.Len() == 0 {
			continue
		}
		parsed, ok := parseColumn(col)
		if !ok {
			continue
		}
		col.Cells = parsed
		col.Kind = table.Numeric
		stats.CoercedColumns = append(stats.CoercedColumns, col.Name)
		coerced++
		log.Debug("column coerced to numeric", "column", col.Name)
	}

	if phase := stats.GetPhase(c.Name()); phase != nil {
		phase.Details["coerced_columns"] = coerced
	}
	return nil
}

// parseColumn returns the numeric cells of col, or false if any cell
// (missing cells included) does not parse.
func parseColumn(col *table.Column) ([]table.Cell, bool) {
	out := make([]table.Cell, col.Len())
	for i, cell := range col.Cells {
		f, ok := cell.Float()
		if !ok {
			return nil, false
		}
		out[i] = table.Number(f)
	}
	return out, true
}
