package frame

import (
	"strconv"
	"strings"
)

// Kind is the declared semantic type of a column.
type Kind uint8

const (
	// KindText holds free-form strings, including pipe-joined conflict values.
	KindText Kind = iota
	// KindNumber holds float64 values.
	KindNumber
)

type scalarKind uint8

const (
	scalarMissing scalarKind = iota
	scalarNumber
	scalarText
)

// Scalar is a single cell value: missing, a number, or text.
// Missing is distinct from the empty string.
type Scalar struct {
	kind scalarKind
	num  float64
	text string
}

// Missing returns the missing value.
func Missing() Scalar { return Scalar{} }

// Number returns a numeric scalar.
func Number(v float64) Scalar { return Scalar{kind: scalarNumber, num: v} }

// Text returns a text scalar.
func Text(s string) Scalar { return Scalar{kind: scalarText, text: s} }

// IsMissing reports whether the scalar is the missing value.
func (s Scalar) IsMissing() bool { return s.kind == scalarMissing }

// IsEmpty reports whether the scalar is missing or whitespace-only text.
func (s Scalar) IsEmpty() bool {
	if s.kind == scalarMissing {
		return true
	}
	return s.kind == scalarText && strings.TrimSpace(s.text) == ""
}

// IsNumber reports whether the scalar holds a number.
func (s Scalar) IsNumber() bool { return s.kind == scalarNumber }

// Float returns the numeric value of the scalar. Text that parses as a
// float counts; the second return is false for missing or non-numeric text.
func (s Scalar) Float() (float64, bool) {
	switch s.kind {
	case scalarNumber:
		return s.num, true
	case scalarText:
		v, err := strconv.ParseFloat(strings.TrimSpace(s.text), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// String renders the scalar for keys, pipe-joins, and CSV output.
// Missing renders as the empty string.
func (s Scalar) String() string {
	switch s.kind {
	case scalarNumber:
		return strconv.FormatFloat(s.num, 'g', -1, 64)
	case scalarText:
		return s.text
	default:
		return ""
	}
}

// Equal reports stringwise equality. Two missing scalars are equal;
// missing never equals a present value.
func (s Scalar) Equal(o Scalar) bool {
	if s.kind == scalarMissing || o.kind == scalarMissing {
		return s.kind == o.kind
	}
	return s.String() == o.String()
}
