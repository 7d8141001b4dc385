package runtime

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	String() string
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind     { return KindNumber }
func (v NumberValue) String() string { return FormatNumber(v.Val) }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind     { return KindString }
func (v StringValue) String() string { return v.Val }

// Truth values are plain numbers.
var (
	True  = NumberValue{Val: 1}
	False = NumberValue{Val: 0}
)

// Bool converts a Go bool into the numeric truth value.
func Bool(b bool) NumberValue {
	if b {
		return True
	}
	return False
}

// FormatNumber renders the shortest decimal form without an exponent.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case n == 0:
		// normalises negative zero
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
