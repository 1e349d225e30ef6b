package sanitizer

import (
	"testing"

	"github.com/jmylchreest/tablewash/pkg/table"
)

// build creates a table from rows of plain values: nil is missing,
// string is text, int and float64 are numeric.
func build(t *testing.T, names []string, rows ...[]any) *table.Table {
	t.Helper()
	tbl, err := table.New(names...)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	for _, row := range rows {
		cells := make([]table.Cell, len(row))
		for i, v := range row {
			switch v := v.(type) {
			case nil:
				cells[i] = table.Missing()
			case string:
				cells[i] = table.Text(v)
			case int:
				cells[i] = table.Number(float64(v))
			case float64:
				cells[i] = table.Number(v)
			default:
				t.Fatalf("unsupported cell value %T", v)
			}
		}
		if err := tbl.AppendRow(cells...); err != nil {
			t.Fatalf("AppendRow() error = %v", err)
		}
	}
	return tbl
}

// apply runs a single pass with a fresh stats record.
func apply(t *testing.T, p Pass, tbl *table.Table) (*Stats, error) {
	t.Helper()
	stats := NewStats()
	stats.AddPhase(p.Name())
	return stats, p.Apply(tbl, stats)
}

func column(t *testing.T, tbl *table.Table, name string) *table.Column {
	t.Helper()
	col, ok := tbl.Column(name)
	if !ok {
		t.Fatalf("column %q not found in %v", name, tbl.Names())
	}
	return col
}

func texts(col *table.Column) []string {
	out := make([]string, col.Len())
	for i, c := range col.Cells {
		out[i] = c.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
