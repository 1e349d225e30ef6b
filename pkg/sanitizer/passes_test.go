package sanitizer

import (
	"errors"
	"math"
	"testing"

	"github.com/jmylchreest/tablewash/pkg/table"
)

// --- Pruner Tests ---

func TestPruner_ThresholdBoundary(t *testing.T) {
	// 10 rows: "at" has 9 missing (0.9), "over" has 10 missing (1.0),
	// "few" has 1 missing.
	names := []string{"at", "over", "few"}
	var rows [][]any
	for i := 0; i < 10; i++ {
		var at, few any = nil, "v"
		if i == 0 {
			at = "x"
			few = nil
		}
		rows = append(rows, []any{at, nil, few})
	}
	tbl := build(t, names, rows...)

	stats, err := apply(t, NewPruner(0.9), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := tbl.Names(); !equalStrings(got, []string{"at", "few"}) {
		t.Errorf("columns = %v, want [at few]", got)
	}
	if tbl.NumRows() != 10 {
		t.Errorf("row count changed to %d", tbl.NumRows())
	}
	if !equalStrings(stats.DroppedColumns, []string{"over"}) {
		t.Errorf("DroppedColumns = %v", stats.DroppedColumns)
	}
	if got := stats.GetPhase("prune").Details["dropped_columns"]; got != 1 {
		t.Errorf("phase dropped_columns = %d, want 1", got)
	}
}

func TestPruner_Thresholds(t *testing.T) {
	// column "a": 1 of 3 missing
	tests := []struct {
		name      string
		threshold float64
		wantKept  bool
	}{
		{"default keeps", 0.9, true},
		{"exactly one third keeps", 1.0 / 3.0, true},
		{"below fraction drops", 0.3, false},
		{"zero drops any missing", 0, false},
		{"one keeps everything", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := build(t, []string{"a"}, []any{"1"}, []any{nil}, []any{"1"})
			if _, err := apply(t, NewPruner(tt.threshold), tbl); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			_, kept := tbl.Column("a")
			if kept != tt.wantKept {
				t.Errorf("kept = %v, want %v", kept, tt.wantKept)
			}
		})
	}
}

func TestPruner_EmptyTableKeepsColumns(t *testing.T) {
	tbl := build(t, []string{"a", "b"})
	if _, err := apply(t, NewPruner(0), tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if tbl.NumCols() != 2 {
		t.Errorf("expected both columns kept, got %v", tbl.Names())
	}
}

func TestPruner_InvalidThreshold(t *testing.T) {
	tbl := build(t, []string{"a"}, []any{"1"})
	if _, err := apply(t, NewPruner(1.5), tbl); err == nil {
		t.Fatal("expected error for threshold above 1")
	}
}

// --- Imputer Tests ---

func TestImputer_NumericMedian(t *testing.T) {
	tbl := build(t, []string{"n"},
		[]any{"4"}, []any{nil}, []any{"1"}, []any{" 10 "}, []any{nil}, []any{"2"})

	stats, err := apply(t, NewImputer(), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	col := column(t, tbl, "n")
	// median of {4, 1, 10, 2} = 3
	for _, i := range []int{1, 4} {
		cell := col.Cells[i]
		if !cell.IsNumber() {
			t.Fatalf("row %d: expected typed numeric fill, got %q", i, cell.String())
		}
		if f, _ := cell.Float(); f != 3 {
			t.Errorf("row %d: fill = %v, want 3", i, f)
		}
	}
	if col.Cells[0].IsNumber() {
		t.Error("observed values must stay as loaded until coercion")
	}
	if len(stats.Imputations) != 1 || stats.Imputations[0].Strategy != "median" || stats.Imputations[0].Filled != 2 {
		t.Errorf("unexpected imputation record: %+v", stats.Imputations)
	}
}

func TestImputer_OddMedian(t *testing.T) {
	tbl := build(t, []string{"n"}, []any{5}, []any{nil}, []any{1}, []any{3})
	if _, err := apply(t, NewImputer(), tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := column(t, tbl, "n").Cells[1].String(); got != "3" {
		t.Errorf("fill = %q, want 3", got)
	}
}

func TestImputer_MedianOfLargeValuesStaysFinite(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want float64
	}{
		{"near max", "1.7e308", "1.75e308", 1.725e308},
		{"both max", math.MaxFloat64, math.MaxFloat64, math.MaxFloat64},
		{"opposite extremes", -math.MaxFloat64, math.MaxFloat64, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := build(t, []string{"a"}, []any{tt.a}, []any{nil}, []any{tt.b})
			if _, err := apply(t, NewImputer(), tbl); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			got, ok := column(t, tbl, "a").Cells[1].Float()
			if !ok {
				t.Fatalf("fill is not numeric: %v", column(t, tbl, "a").Cells[1])
			}
			if math.IsInf(got, 0) || math.IsNaN(got) {
				t.Fatalf("fill = %v, want a finite value", got)
			}
			if math.Abs(got-tt.want) > 1e-12*math.Abs(tt.want) {
				t.Errorf("fill = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImputer_TextMode(t *testing.T) {
	tbl := build(t, []string{"city"},
		[]any{"Recife"}, []any{"Natal"}, []any{nil}, []any{"Natal"}, []any{"Recife"}, []any{"Natal"})

	stats, err := apply(t, NewImputer(), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := column(t, tbl, "city").Cells[2].String(); got != "Natal" {
		t.Errorf("fill = %q, want Natal", got)
	}
	if stats.Imputations[0].Strategy != "mode" {
		t.Errorf("strategy = %q, want mode", stats.Imputations[0].Strategy)
	}
}

func TestImputer_ModeTieBreakFirstInRowOrder(t *testing.T) {
	// b reaches two occurrences first, but a appears first in row order.
	tbl := build(t, []string{"c"},
		[]any{"a"}, []any{"b"}, []any{"b"}, []any{nil}, []any{"a"})

	if _, err := apply(t, NewImputer(), tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := column(t, tbl, "c").Cells[3].String(); got != "a" {
		t.Errorf("fill = %q, want a", got)
	}
}

func TestImputer_MixedColumnUsesMode(t *testing.T) {
	tbl := build(t, []string{"m"}, []any{"1"}, []any{"x"}, []any{"1"}, []any{nil})
	if _, err := apply(t, NewImputer(), tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	cell := column(t, tbl, "m").Cells[3]
	if cell.IsNumber() || cell.String() != "1" {
		t.Errorf("fill = %q (numeric %v), want text 1", cell.String(), cell.IsNumber())
	}
}

func TestImputer_EmptyColumnFails(t *testing.T) {
	tbl := build(t, []string{"ok", "empty"}, []any{"1", nil}, []any{"2", nil})

	_, err := apply(t, NewImputer(), tbl)
	if !errors.Is(err, ErrEmptyColumnStatistic) {
		t.Fatalf("expected ErrEmptyColumnStatistic, got %v", err)
	}
	var pe *PassError
	if !errors.As(err, &pe) || pe.Column != "empty" {
		t.Errorf("expected PassError naming column empty, got %v", err)
	}
}

func TestImputer_NoMissingAfterApply(t *testing.T) {
	tbl := build(t, []string{"a", "b", "c"},
		[]any{nil, "x", 1},
		[]any{"2", nil, nil},
		[]any{"3", "y", 2},
	)
	if _, err := apply(t, NewImputer(), tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if n := tbl.MissingCount(); n != 0 {
		t.Errorf("expected no missing cells, got %d", n)
	}
}

// --- Coercer Tests ---

func TestCoercer_AllOrNothing(t *testing.T) {
	tbl := build(t, []string{"num", "mixed", "text"},
		[]any{"1", "1", "a"},
		[]any{" 2.5 ", "x", "b"},
		[]any{3, "3", "c"},
	)

	stats, err := apply(t, NewCoercer(), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	num := column(t, tbl, "num")
	if num.Kind != table.Numeric {
		t.Fatalf("num kind = %v, want numeric", num.Kind)
	}
	for i, c := range num.Cells {
		if !c.IsNumber() {
			t.Errorf("num row %d not numeric", i)
		}
	}
	if got := texts(num); !equalStrings(got, []string{"1", "2.5", "3"}) {
		t.Errorf("num values = %v", got)
	}

	for _, name := range []string{"mixed", "text"} {
		col := column(t, tbl, name)
		if col.Kind != table.Textual {
			t.Errorf("%s kind = %v, want textual", name, col.Kind)
		}
		for i, c := range col.Cells {
			if c.IsNumber() {
				t.Errorf("%s row %d was partially coerced", name, i)
			}
		}
	}
	if !equalStrings(stats.CoercedColumns, []string{"num"}) {
		t.Errorf("CoercedColumns = %v", stats.CoercedColumns)
	}
}

func TestCoercer_SkipsEmptyAndMissing(t *testing.T) {
	empty := build(t, []string{"a"})
	if _, err := apply(t, NewCoercer(), empty); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if column(t, empty, "a").Kind != table.Textual {
		t.Error("zero-row column should stay textual")
	}

	withMissing := build(t, []string{"a"}, []any{"1"}, []any{nil})
	if _, err := apply(t, NewCoercer(), withMissing); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if column(t, withMissing, "a").Kind != table.Textual {
		t.Error("column with a missing cell should stay textual")
	}
}

// --- Normalizer Tests ---

func TestNormalizer_TrimsTextOnly(t *testing.T) {
	tbl := build(t, []string{"s", "n"},
		[]any{"  hello world ", 1},
		[]any{"\tx\n", 2},
		[]any{"clean", 3},
	)
	column(t, tbl, "n").Kind = table.Numeric

	stats, err := apply(t, NewNormalizer(), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := texts(column(t, tbl, "s")); !equalStrings(got, []string{"hello world", "x", "clean"}) {
		t.Errorf("s = %q", got)
	}
	if stats.TrimmedCells != 2 {
		t.Errorf("TrimmedCells = %d, want 2", stats.TrimmedCells)
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	tbl := build(t, []string{"s"}, []any{"  a "}, []any{"b  "}, []any{" c  d "})

	if _, err := apply(t, NewNormalizer(), tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	once := tbl.Clone()

	stats, err := apply(t, NewNormalizer(), tbl)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if stats.TrimmedCells != 0 {
		t.Errorf("second pass trimmed %d cells", stats.TrimmedCells)
	}
	if !equalStrings(texts(column(t, tbl, "s")), texts(column(t, once, "s"))) {
		t.Error("second pass changed the table")
	}
}

// --- Deduplicator Tests ---

func TestDeduplicator_StableFirstOccurrence(t *testing.T) {
	tbl := build(t, []string{"k", "v"},
		[]any{"a", 1},
		[]any{"b", 2},
		[]any{"a", 1},
		[]any{"c", 3},
		[]any{"b", 2},
		[]any{"a", 2},
	)

	stats, err := apply(t, NewDeduplicator(), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := texts(column(t, tbl, "k")); !equalStrings(got, []string{"a", "b", "c", "a"}) {
		t.Errorf("k = %v", got)
	}
	if got := texts(column(t, tbl, "v")); !equalStrings(got, []string{"1", "2", "3", "2"}) {
		t.Errorf("v = %v", got)
	}
	if stats.DuplicateRows != 2 {
		t.Errorf("DuplicateRows = %d, want 2", stats.DuplicateRows)
	}
}

func TestDeduplicator_KindSensitive(t *testing.T) {
	tbl := build(t, []string{"v"}, []any{"1"}, []any{1})
	stats, err := apply(t, NewDeduplicator(), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if stats.DuplicateRows != 0 || tbl.NumRows() != 2 {
		t.Error("text 1 and numeric 1 must not be treated as duplicates")
	}
}

func TestDeduplicator_SeparatorCollisions(t *testing.T) {
	// Without quoting, ("a,b","c") and ("a","b,c") could collide.
	tbl := build(t, []string{"x", "y"}, []any{"a\x1fb", "c"}, []any{"a", "b\x1fc"})
	stats, err := apply(t, NewDeduplicator(), tbl)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if stats.DuplicateRows != 0 {
		t.Error("distinct rows were collapsed")
	}
}
