package compiler

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailang/interpreter-go/pkg/interpreter"
	aiparser "ailang/interpreter-go/pkg/parser"
)

// Each program runs through both execution modes; stdout and the error text
// must match.
var parityPrograms = map[string]string{
	"hello": helloSource,
	"loops": `FOR i = 1 TO 10 STEP 3 DO
  PRINT i,
END
PRINT
FOR j = 3 TO 1 STEP -1
  PRINT j * j
NEXT j
PRINT i, j`,
	"strings": `LET s = "Hello"
PRINT s + ", " + "AI", LEN(s), MID(s, 2, 3), LEFT(s, 1), RIGHT(s, 2)
PRINT "a" < "b", "a" = "b"`,
	"math": `PRINT 2 ^ 3 ^ 2, -2 ^ 2, 7 / 2, INT(-1.5), ABS(-4), SQR(9)
PRINT 1 AND 0, 1 OR 0, NOT 3`,
	"while": `LET n = 5
WHILE n > 0 DO
  IF n = 3 THEN PRINT "three" ELSE PRINT n
  n = n - 1
END`,
	"input": `INPUT a
INPUT "b? ", b
PRINT a + b`,
	"stop":             "PRINT 1\nSTOP\nPRINT 2",
	"division":         "PRINT \"before\"\nPRINT 1 / 0",
	"undefined":        "LET a = 1\nPRINT a + b",
	"mismatch":         "PRINT \"a\" - 1",
	"unknown builtin":  "PRINT FOO(1)",
	"arity":            "PRINT MID(\"a\")",
	"zero step":        "FOR i = 1 TO 2 STEP 0\nNEXT",
	"step limit":       "WHILE 1 DO\nEND",
	"bad input":        "INPUT a",
	"string condition": "LET s = \"yes\"\nIF s THEN PRINT s",
	"stop in loop":     "FOR i = 1 TO 5\nIF i = 3 THEN STOP\nPRINT i\nNEXT",
	"unknown first":    "PRINT FOO(1 / 0)",
	"huge positions": `LET huge = 10 ^ 20
LET nan = 10 ^ 400 - 10 ^ 400
PRINT LEFT("abc", huge), RIGHT("abc", huge), MID("abc", 1, huge)
PRINT LEFT("abc", -huge) + "|", MID("abc", -huge, 2) + "|", MID("abc", huge) + "|"
PRINT LEFT("abc", nan) + "|", RIGHT("abc", 10 ^ 400), MID("abc", 2, nan) + "|"`,
}

var parityStdin = map[string]string{
	"input":     "2\n3\n",
	"bad input": "x\n",
}

func TestEvalMatchesInterpreter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping yaegi parity checks in short mode")
	}
	for name, source := range parityPrograms {
		t.Run(name, func(t *testing.T) {
			program, err := aiparser.Parse([]byte(source))
			require.NoError(t, err)

			var want bytes.Buffer
			interp := interpreter.New(interpreter.Options{
				Stdout:   &want,
				Stdin:    strings.NewReader(parityStdin[name]),
				MaxSteps: 500,
				Seed:     1,
			})
			wantErr := interp.Run(context.Background(), program)

			result, err := New(Options{MaxSteps: 500, Seed: 1}).Compile(program)
			require.NoError(t, err)
			var got bytes.Buffer
			gotErr := Eval(context.Background(), result, strings.NewReader(parityStdin[name]), &got)

			assert.Equal(t, want.String(), got.String())
			if wantErr == nil {
				assert.NoError(t, gotErr)
				return
			}
			require.Error(t, gotErr)
			assert.Equal(t, wantErr.Error(), gotErr.Error())
		})
	}
}

func TestEvalHonoursCancellation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping yaegi checks in short mode")
	}
	program, err := aiparser.Parse([]byte("WHILE 1 DO\nEND"))
	require.NoError(t, err)
	result, err := New(Options{MaxSteps: -1}).Compile(program)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Eval(ctx, result, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "Error at line 1: execution cancelled: context canceled", err.Error())
}

func TestEvalRequiresProgramFile(t *testing.T) {
	err := Eval(context.Background(), &Result{PackageName: "main", Files: map[string][]byte{}}, nil, nil)
	require.EqualError(t, err, "compiler: result has no program.go")
}

func TestEvalStopAndErrorsReturnNormally(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping yaegi checks in short mode")
	}
	run := func(source string) (string, error) {
		program, err := aiparser.Parse([]byte(source))
		require.NoError(t, err)
		result, err := New(Options{MaxSteps: 100}).Compile(program)
		require.NoError(t, err)
		var out bytes.Buffer
		err = Eval(context.Background(), result, strings.NewReader(""), &out)
		return out.String(), err
	}

	out, err := run("PRINT 1\nSTOP\nPRINT 2")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = run("PRINT \"computing\"\nPRINT 1 / 0")
	assert.Equal(t, "computing\n", out)
	require.EqualError(t, err, "Error at line 2: Division by zero")

	_, err = run("WHILE 1 DO\nEND")
	require.EqualError(t, err, "Error at line 1: infinite loop prevented after 100 steps")
}
