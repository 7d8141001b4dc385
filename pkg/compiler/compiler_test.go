package compiler

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailang/interpreter-go/pkg/ast"
	aiparser "ailang/interpreter-go/pkg/parser"
)

const helloSource = "LET x = 5;\nIF x < 10 DO\n    PRINT \"Hello, World!\";\nEND;\n"

func compileSource(t *testing.T, source string, opts Options) *Result {
	t.Helper()
	program, err := aiparser.Parse([]byte(source))
	require.NoError(t, err)
	result, err := New(opts).Compile(program)
	require.NoError(t, err)
	return result
}

func TestCompileEmitsRunFunction(t *testing.T) {
	result := compileSource(t, helloSource, Options{PackageName: "hello", SourcePath: "examples/hello.ai"})
	assert.Equal(t, []string{"program.go"}, result.FileNames())
	assert.Equal(t, "hello", result.PackageName)

	src := string(result.Files["program.go"])
	assert.True(t, strings.HasPrefix(src, "// Code generated by ailangc from hello.ai. DO NOT EDIT."))
	assert.Contains(t, src, "package hello")
	assert.Contains(t, src, "func Run(stdin io.Reader, stdout io.Writer) error {")
	assert.Contains(t, src, `p.set("X", num(5))`)
	assert.Contains(t, src, `if p.truth(2, p.binary(2, "<", p.get(2, "X"), num(10))) {`)
	assert.Contains(t, src, `p.print(3, true, str("Hello, World!"))`)
	assert.Contains(t, src, "maxSteps   int64 = 10000000")

	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "program.go", result.Files["program.go"], parser.AllErrors)
	require.NoError(t, err)
}

func TestCompileLoopsAndCalls(t *testing.T) {
	source := `FOR i = 1 TO 3 STEP 2
  PRINT MID("abc", i, 1),
NEXT
WHILE i > 0 AND NOT i = 2 DO
  i = i - 1
END`
	result := compileSource(t, source, Options{MaxSteps: -1, Seed: 9})
	src := string(result.Files["program.go"])
	assert.Contains(t, src, `by1 := p.number(1, num(2), "FOR step must be a number")`)
	assert.Contains(t, src, `cur1 = p.loopVar(1, "I") + by1`)
	assert.Contains(t, src, `p.print(2, false, p.call(2, "MID", str("abc"), p.get(2, "I"), num(1)))`)
	assert.Contains(t, src, `for p.truth(4, p.and(4, p.binary(4, ">", p.get(4, "I"), num(0)), func() value { return p.not(4, p.binary(4, "=", p.get(4, "I"), num(2))) })) {`)
	assert.Contains(t, src, "randomSeed int64 = 9")

	_, err := parser.ParseFile(token.NewFileSet(), "program.go", result.Files["program.go"], 0)
	require.NoError(t, err)
}

func TestCompileEmitMain(t *testing.T) {
	result := compileSource(t, helloSource, Options{EmitMain: true})
	assert.Equal(t, []string{"main.go", "program.go"}, result.FileNames())
	assert.Contains(t, string(result.Files["main.go"]), "Run(os.Stdin, os.Stdout)")

	program, err := aiparser.Parse([]byte(helloSource))
	require.NoError(t, err)
	_, err = New(Options{PackageName: "lib", EmitMain: true}).Compile(program)
	require.EqualError(t, err, "compiler: EmitMain requires package name 'main'")
}

func TestCompileRejectsNilProgram(t *testing.T) {
	_, err := New(Options{}).Compile(nil)
	require.EqualError(t, err, "compiler: missing program")
}

func TestCompileBuiltProgramWithoutPositions(t *testing.T) {
	result, err := New(Options{}).Compile(ast.Prog(ast.Stop()))
	require.NoError(t, err)
	assert.Contains(t, string(result.Files["program.go"]), "p.step(0)")
}

func TestResultWrite(t *testing.T) {
	result := compileSource(t, helloSource, Options{EmitMain: true})
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, result.Write(dir))
	for _, name := range []string{"main.go", "program.go"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, result.Files[name], data)
	}

	var empty *Result
	require.Error(t, empty.Write(dir))
	require.Error(t, result.Write(""))
}

func TestCompileWarnsAboutUnassignedReads(t *testing.T) {
	source := "LET a = 1\nPRINT a + b\nIF c THEN PRINT ABS(b)\nINPUT d\nPRINT d"
	result := compileSource(t, source, Options{})
	assert.Equal(t, []string{
		"line 2: variable B is read but never assigned",
		"line 3: variable C is read but never assigned",
	}, result.Warnings)

	clean := compileSource(t, helloSource, Options{})
	assert.Empty(t, clean.Warnings)
}

func TestCompileUnknownFunctionSkipsArguments(t *testing.T) {
	result := compileSource(t, "PRINT FOO(1 / 0), ABS(-1)", Options{})
	src := string(result.Files["program.go"])
	assert.Contains(t, src, `p.call(1, "FOO")`)
	assert.Contains(t, src, `p.call(1, "ABS", p.negate(1, num(1)))`)
	assert.Contains(t, src, `panic(abortSignal)`)
}
