package sanitizer

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, sanitizer.ErrEmptyColumnStatistic).
var (
	// ErrEmptyColumnStatistic indicates a column needs imputation but has
	// no observed values to compute a median or mode from.
	ErrEmptyColumnStatistic = errors.New("no observed values to derive a fill statistic")

	// ErrUnexpectedProcessing wraps any other failure raised inside a pass.
	ErrUnexpectedProcessing = errors.New("unexpected processing error")
)

// PassError locates a pass failure. Column is empty and Row is -1 when
// the failure is not tied to one.
type PassError struct {
	Pass   string
	Column string
	Row    int
	Err    error
}

func (e *PassError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Pass)
	if e.Column != "" {
		fmt.Fprintf(&sb, ": column %q", e.Column)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&sb, ": row %d", e.Row)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *PassError) Unwrap() error { return e.Err }

// classify makes sure every error leaving a pass is a *PassError carrying
// one of the package sentinels.
func classify(pass string, err error) error {
	var pe *PassError
	if !errors.As(err, &pe) {
		pe = &PassError{Pass: pass, Row: -1, Err: err}
	}
	if pe.Pass == "" {
		pe.Pass = pass
	}
	if !errors.Is(pe.Err, ErrEmptyColumnStatistic) && !errors.Is(pe.Err, ErrUnexpectedProcessing) {
		pe.Err = fmt.Errorf("%w: %w", ErrUnexpectedProcessing, pe.Err)
	}
	return pe
}
