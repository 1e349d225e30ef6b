package sanitizer

import (
	"fmt"
	"strings"
	"time"
)

// Stats captures what the passes did to a table.
type Stats struct {
	// Shape before and after the chain
	InputRows     int `json:"input_rows"`
	InputColumns  int `json:"input_columns"`
	OutputRows    int `json:"output_rows"`
	OutputColumns int `json:"output_columns"`

	// Per-pass outcomes
	DroppedColumns []string     `json:"dropped_columns"`
	Imputations    []Imputation `json:"imputations"`
	CoercedColumns []string     `json:"coerced_columns"`
	TrimmedCells   int          `json:"trimmed_cells"`
	DuplicateRows  int          `json:"duplicate_rows"`

	// Phases records timing per pass, in execution order.
	Phases []*PhaseStats `json:"phases"`

	TotalDuration time.Duration `json:"total_duration_ns"`
}

// Imputation describes the fill applied to one column.
type Imputation struct {
	Column   string `json:"column"`
	Strategy string `json:"strategy"` // "median" or "mode"
	Value    string `json:"value"`
	Filled   int    `json:"filled"`
}

// PhaseStats holds the outcome of a single pass.
type PhaseStats struct {
	Name     string         `json:"name"`
	Duration time.Duration  `json:"duration_ns"`
	Details  map[string]int `json:"details,omitempty"`
}

// NewStats creates a Stats instance with initialized slices.
func NewStats() *Stats {
	return &Stats{
		DroppedColumns: make([]string, 0),
		Imputations:    make([]Imputation, 0),
		CoercedColumns: make([]string, 0),
		Phases:         make([]*PhaseStats, 0),
	}
}

// AddPhase appends a phase record and returns it for the pass to fill in.
func (s *Stats) AddPhase(name string) *PhaseStats {
	p := &PhaseStats{
		Name:    name,
		Details: make(map[string]int),
	}
	s.Phases = append(s.Phases, p)
	return p
}

// GetPhase returns the named phase, or nil.
func (s *Stats) GetPhase(name string) *PhaseStats {
	for _, p := range s.Phases {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ImputedCells returns the total number of cells filled by imputation.
func (s *Stats) ImputedCells() int {
	total := 0
	for _, imp := range s.Imputations {
		total += imp.Filled
	}
	return total
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Shape: %d rows x %d columns -> %d rows x %d columns\n",
		s.InputRows, s.InputColumns, s.OutputRows, s.OutputColumns))

	if len(s.DroppedColumns) > 0 {
		sb.WriteString(fmt.Sprintf("Dropped columns (too many missing values): %d [%s]\n",
			len(s.DroppedColumns), strings.Join(s.DroppedColumns, ", ")))
	}

	if len(s.Imputations) > 0 {
		sb.WriteString(fmt.Sprintf("Imputed cells: %d\n", s.ImputedCells()))
		for _, imp := range s.Imputations {
			sb.WriteString(fmt.Sprintf("  %s: %d filled with %s %q\n",
				imp.Column, imp.Filled, imp.Strategy, imp.Value))
		}
	}

	if len(s.CoercedColumns) > 0 {
		sb.WriteString(fmt.Sprintf("Numeric columns: %s\n", strings.Join(s.CoercedColumns, ", ")))
	}

	if s.TrimmedCells > 0 {
		sb.WriteString(fmt.Sprintf("Trimmed cells: %d\n", s.TrimmedCells))
	}

	if s.DuplicateRows > 0 {
		sb.WriteString(fmt.Sprintf("Duplicate rows removed: %d\n", s.DuplicateRows))
	}

	parts := make([]string, 0, len(s.Phases))
	for _, p := range s.Phases {
		parts = append(parts, fmt.Sprintf("%s=%v", p.Name, p.Duration.Round(time.Microsecond)))
	}
	sb.WriteString(fmt.Sprintf("Timing: %s, total=%v\n",
		strings.Join(parts, ", "), s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}
