package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the interpretation of a column's values.
type Kind int

const (
	// Textual columns hold strings. Every column starts out textual.
	Textual Kind = iota
	// Numeric columns hold float64 values.
	Numeric
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Textual:
		return "textual"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

type cellState uint8

const (
	stateMissing cellState = iota
	stateText
	stateNumber
)

// Cell is a single table entry. The zero value is a missing cell.
type Cell struct {
	state cellState
	text  string
	num   float64
}

// Text returns a cell holding s. An empty string is a value, not a missing cell.
func Text(s string) Cell {
	return Cell{state: stateText, text: s}
}

// Number returns a cell holding f.
func Number(f float64) Cell {
	return Cell{state: stateNumber, num: f}
}

// Missing returns a cell with no observed value.
func Missing() Cell {
	return Cell{}
}

// IsMissing reports whether the cell has no value.
func (c Cell) IsMissing() bool { return c.state == stateMissing }

// IsNumber reports whether the cell holds a numeric value.
func (c Cell) IsNumber() bool { return c.state == stateNumber }

// IsText reports whether the cell holds a string value.
func (c Cell) IsText() bool { return c.state == stateText }

// Float returns the numeric value. For text cells it attempts ParseNumber.
func (c Cell) Float() (float64, bool) {
	switch c.state {
	case stateNumber:
		return c.num, true
	case stateText:
		return ParseNumber(c.text)
	default:
		return 0, false
	}
}

// String renders the cell as delimited text would store it.
// Missing cells render as the empty string.
func (c Cell) String() string {
	switch c.state {
	case stateText:
		return c.text
	case stateNumber:
		return FormatNumber(c.num)
	default:
		return ""
	}
}

// Value returns the cell as a plain Go value: string, float64 or nil.
func (c Cell) Value() any {
	switch c.state {
	case stateText:
		return c.text
	case stateNumber:
		return c.num
	default:
		return nil
	}
}

// Equal reports whether two cells hold the same kind of value and the same value.
func (c Cell) Equal(o Cell) bool {
	if c.state != o.state {
		return false
	}
	switch c.state {
	case stateText:
		return c.text == o.text
	case stateNumber:
		return c.num == o.num
	default:
		return true
	}
}

// Key returns a string that is identical for two cells iff they are Equal.
func (c Cell) Key() string {
	switch c.state {
	case stateText:
		return "t" + strconv.Quote(c.text)
	case stateNumber:
		f := c.num
		if f == 0 {
			f = 0 // folds -0 into 0
		}
		return "n" + strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return "m"
	}
}

// ParseNumber interprets s as a decimal integer or floating point number.
// Surrounding whitespace is ignored. NaN, infinities and hexadecimal
// forms are rejected so every parsed value is finite and decimal.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "0x") || strings.Contains(lower, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders f with the shortest representation that parses back
// to the same value, switching to exponent form for very large magnitudes.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
