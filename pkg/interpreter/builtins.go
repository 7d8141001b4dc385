package interpreter

import (
	"errors"
	"fmt"
	"math"

	"ailang/interpreter-go/pkg/runtime"
)

type builtin struct {
	minArgs int
	maxArgs int
	impl    func(args []runtime.Value) (runtime.Value, error)
}

func (b builtin) arityText() string {
	if b.minArgs == b.maxArgs {
		return fmt.Sprintf("%d argument(s)", b.minArgs)
	}
	return fmt.Sprintf("%d to %d argument(s)", b.minArgs, b.maxArgs)
}

// BuiltinNames lists the functions every interpreter provides.
var BuiltinNames = []string{"ABS", "SQR", "SIN", "COS", "TAN", "INT", "LOG", "EXP", "RND", "LEN", "MID", "LEFT", "RIGHT"}

func (i *Interpreter) defaultBuiltins() map[string]builtin {
	return map[string]builtin{
		"ABS": numeric("ABS", math.Abs),
		"SQR": {1, 1, func(args []runtime.Value) (runtime.Value, error) {
			n, err := numberArg("SQR", args[0])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, errors.New("Cannot take square root of negative number")
			}
			return runtime.NumberValue{Val: math.Sqrt(n)}, nil
		}},
		"SIN": numeric("SIN", math.Sin),
		"COS": numeric("COS", math.Cos),
		"TAN": numeric("TAN", math.Tan),
		"INT": numeric("INT", math.Floor),
		"LOG": {1, 1, func(args []runtime.Value) (runtime.Value, error) {
			n, err := numberArg("LOG", args[0])
			if err != nil {
				return nil, err
			}
			if n <= 0 {
				return nil, errors.New("LOG requires a positive argument")
			}
			return runtime.NumberValue{Val: math.Log(n)}, nil
		}},
		"EXP": numeric("EXP", math.Exp),
		"RND": {0, 1, func(args []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: i.rng.Float64()}, nil
		}},
		"LEN": {1, 1, func(args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("LEN", args[0])
			if err != nil {
				return nil, err
			}
			return runtime.NumberValue{Val: float64(len([]rune(s)))}, nil
		}},
		"MID": {2, 3, func(args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("MID", args[0])
			if err != nil {
				return nil, err
			}
			start, err := numberArg("MID", args[1])
			if err != nil {
				return nil, err
			}
			runes := []rune(s)
			count := float64(len(runes))
			if len(args) == 3 {
				if count, err = numberArg("MID", args[2]); err != nil {
					return nil, err
				}
			}
			return runtime.StringValue{Val: Substring(runes, ClampIndex(start, len(runes))-1, ClampIndex(count, len(runes)))}, nil
		}},
		"LEFT": {2, 2, func(args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("LEFT", args[0])
			if err != nil {
				return nil, err
			}
			n, err := numberArg("LEFT", args[1])
			if err != nil {
				return nil, err
			}
			runes := []rune(s)
			return runtime.StringValue{Val: Substring(runes, 0, ClampIndex(n, len(runes)))}, nil
		}},
		"RIGHT": {2, 2, func(args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("RIGHT", args[0])
			if err != nil {
				return nil, err
			}
			n, err := numberArg("RIGHT", args[1])
			if err != nil {
				return nil, err
			}
			runes := []rune(s)
			count := ClampIndex(n, len(runes))
			return runtime.StringValue{Val: Substring(runes, len(runes)-count, count)}, nil
		}},
	}
}

func numeric(name string, fn func(float64) float64) builtin {
	return builtin{1, 1, func(args []runtime.Value) (runtime.Value, error) {
		n, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: fn(n)}, nil
	}}
}

func numberArg(name string, val runtime.Value) (float64, error) {
	n, ok := val.(runtime.NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s requires a number argument", name)
	}
	return n.Val, nil
}

func stringArg(name string, val runtime.Value) (string, error) {
	s, ok := val.(runtime.StringValue)
	if !ok {
		return "", fmt.Errorf("%s requires a string argument", name)
	}
	return s.Val, nil
}

// ClampIndex floors n and bounds it to [-(length+1), length+1] so string
// positions far outside the string (or NaN, which maps to 0) never overflow
// the int conversion.
func ClampIndex(n float64, length int) int {
	if math.IsNaN(n) {
		return 0
	}
	limit := float64(length + 1)
	n = math.Floor(n)
	if n > limit {
		return length + 1
	}
	if n < -limit {
		return -(length + 1)
	}
	return int(n)
}

// Substring returns up to count runes starting at the zero-based offset,
// clamping both ends to the string.
func Substring(runes []rune, offset, count int) string {
	if count <= 0 {
		return ""
	}
	end := offset + count
	if offset < 0 {
		offset = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if offset >= end {
		return ""
	}
	return string(runes[offset:end])
}
