package value

import (
	"math"
	"strconv"
	"strings"
)

// NumberKind distinguishes integer and floating-point numbers.
type NumberKind int

const (
	NumInteger NumberKind = iota
	NumFloat
)

// Number is a JYAML number, tagged as a 64-bit signed integer or a 64-bit
// IEEE-754 float.
type Number struct {
	kind NumberKind
	i    int64
	f    float64
}

// IntNumber returns an integer number.
func IntNumber(i int64) Number { return Number{kind: NumInteger, i: i} }

// FloatNumber returns a floating-point number.
func FloatNumber(f float64) Number { return Number{kind: NumFloat, f: f} }

// ParseNumber converts a numeric lexeme. A lexeme containing '.', 'e' or 'E'
// is parsed as a float, anything else as an integer. Overflow and infinite
// results are reported as errors.
func ParseNumber(lexeme string) (Number, error) {
	if IsFloatLexeme(lexeme) {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Number{}, err
		}
		if math.IsInf(f, 0) {
			return Number{}, strconv.ErrRange
		}
		return FloatNumber(f), nil
	}
	i, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Number{}, err
	}
	return IntNumber(i), nil
}

// IsFloatLexeme reports whether a numeric lexeme denotes a float.
func IsFloatLexeme(lexeme string) bool {
	return strings.ContainsAny(lexeme, ".eE")
}

// Kind returns the number's tag.
func (n Number) Kind() NumberKind { return n.kind }

// IsInteger reports whether n is tagged Integer.
func (n Number) IsInteger() bool { return n.kind == NumInteger }

// IsFloat reports whether n is tagged Float.
func (n Number) IsFloat() bool { return n.kind == NumFloat }

// Int64 returns the integer value, truncating floats.
func (n Number) Int64() int64 {
	if n.kind == NumInteger {
		return n.i
	}
	return int64(n.f)
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 {
	if n.kind == NumInteger {
		return float64(n.i)
	}
	return n.f
}

// Equal compares tag and value.
func (n Number) Equal(other Number) bool {
	if n.kind != other.kind {
		return false
	}
	if n.kind == NumInteger {
		return n.i == other.i
	}
	return n.f == other.f
}

// String formats integers as plain decimals and floats in their shortest
// round-trippable form.
func (n Number) String() string {
	if n.kind == NumInteger {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}
