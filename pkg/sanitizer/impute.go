package sanitizer

import (
	"sort"

	"github.com/jmylchreest/tablewash/internal/logger"
	"github.com/jmylchreest/tablewash/pkg/table"
)

// Imputer fills missing cells. Columns whose observed values all parse as
// numbers are filled with their median as a numeric cell; any other column
// is filled with its mode. Mode ties go to the value seen first in row order.
type Imputer struct{}

// NewImputer creates an imputer.
func NewImputer() *Imputer {
	return &Imputer{}
}

// Name returns "impute".
func (im *Imputer) Name() string { return "impute" }

// Apply fills every missing cell of every column.
func (im *Imputer) Apply(t *table.Table, stats *Stats) error {
	log := logger.ForPass(im.Name())
	filledCols := 0

	for _, col := range t.Columns() {
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}
		if missing == col.Len() {
			return &PassError{Pass: im.Name(), Column: col.Name, Row: -1, Err: ErrEmptyColumnStatistic}
		}

		var fill table.Cell
		strategy := "mode"
		if nums, ok := observedNumbers(col); ok {
			fill = table.Number(median(nums))
			strategy = "median"
		} else {
			fill = mode(col)
		}

		for i, cell := range col.Cells {
			if cell.IsMissing() {
				col.Cells[i] = fill
			}
		}

		stats.Imputations = append(stats.Imputations, Imputation{
			Column:   col.Name,
			Strategy: strategy,
			Value:    fill.String(),
			Filled:   missing,
		})
		filledCols++
		log.Debug("imputed column", "column", col.Name, "strategy", strategy, "value", fill.String(), "filled", missing)
	}

	if phase := stats.GetPhase(im.Name()); phase != nil {
		phase.Details["columns"] = filledCols
		phase.Details["cells"] = stats.ImputedCells()
	}
	if filledCols > 0 {
		log.Info("missing values filled", "columns", filledCols, "cells", stats.ImputedCells())
	}
	return nil
}

// observedNumbers returns the non-missing values of col if every one of
// them is numeric or parses as a number.
func observedNumbers(col *table.Column) ([]float64, bool) {
	nums := make([]float64, 0, col.Len())
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		f, ok := cell.Float()
		if !ok {
			return nil, false
		}
		nums = append(nums, f)
	}
	return nums, len(nums) > 0
}

// median of a non-empty slice. The slice is sorted in place.
func median(nums []float64) float64 {
	sort.Float64s(nums)
	n := len(nums)
	if n%2 == 1 {
		return nums[n/2]
	}
	// Halved before adding to stay finite near MaxFloat64.
	return nums[n/2-1]/2 + nums[n/2]/2
}

// mode returns the most frequent observed cell of col, preferring the
// earliest row on ties. col must have at least one observed cell.
func mode(col *table.Column) table.Cell {
	counts := make(map[string]int)
	maxCount := 0
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		key := cell.Key()
		counts[key]++
		maxCount = max(maxCount, counts[key])
	}

	for _, cell := range col.Cells {
		if !cell.IsMissing() && counts[cell.Key()] == maxCount {
			return cell
		}
	}
	return table.Missing()
}
