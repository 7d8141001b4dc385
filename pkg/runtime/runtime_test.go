package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		5:                    "5",
		-3:                   "-3",
		0.5:                  "0.5",
		1e21:                 "1000000000000000000000",
		math.Copysign(0, -1): "0",
		math.Inf(1):          "inf",
		math.Inf(-1):         "-inf",
		2.25:                 "2.25",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%v)", in)
	}
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
}

func TestBoolValues(t *testing.T) {
	assert.Equal(t, NumberValue{Val: 1}, Bool(true))
	assert.Equal(t, NumberValue{Val: 0}, Bool(false))
	assert.Equal(t, KindNumber, True.Kind())
	assert.Equal(t, "string", StringValue{Val: "x"}.Kind().String())
}

func TestEnvironmentScopes(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("A", NumberValue{Val: 1})

	child := global.Extend()
	child.Set("A", NumberValue{Val: 2})
	child.Set("B", StringValue{Val: "b"})

	val, err := global.Get("A")
	require.NoError(t, err)
	assert.Equal(t, NumberValue{Val: 2}, val)

	_, err = global.Get("B")
	require.EqualError(t, err, "Undefined variable: B")

	require.NoError(t, child.Assign("A", NumberValue{Val: 3}))
	require.EqualError(t, child.Assign("C", NumberValue{}), "Undefined variable: C")

	assert.Equal(t, []string{"B"}, child.Keys())
	assert.Same(t, global, child.Parent())
	assert.Len(t, global.Snapshot(), 1)
}
