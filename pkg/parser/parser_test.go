package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailang/interpreter-go/pkg/ast"
)

var astCompareOptions = []cmp.Option{
	cmpopts.IgnoreUnexported(
		ast.Program{}, ast.Identifier{}, ast.NumberLiteral{}, ast.StringLiteral{},
		ast.UnaryExpression{}, ast.BinaryExpression{}, ast.FunctionCall{},
		ast.LetStatement{}, ast.PrintStatement{}, ast.InputStatement{},
		ast.IfStatement{}, ast.ForLoop{}, ast.WhileLoop{}, ast.StopStatement{},
	),
	cmpopts.EquateEmpty(),
}

func assertProgram(t *testing.T, source string, want *ast.Program) {
	t.Helper()
	got, err := Parse([]byte(source))
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, astCompareOptions...); diff != "" {
		t.Fatalf("program mismatch (-want +got):\n%s", diff)
	}
}

func assertExpression(t *testing.T, source string, want ast.Expression) {
	t.Helper()
	got, err := ParseExpression([]byte(source))
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, astCompareOptions...); diff != "" {
		t.Fatalf("expression mismatch for %q (-want +got):\n%s", source, diff)
	}
}

func TestParseHelloWorld(t *testing.T) {
	source := "LET x = 5;\nIF x < 10 DO\n    PRINT \"Hello, World!\";\nEND;\n"
	assertProgram(t, source, ast.Prog(
		ast.Let("x", ast.Num(5)),
		ast.If(ast.Bin(ast.OpLess, ast.ID("x"), ast.Num(10)),
			ast.Print(ast.Str("Hello, World!")),
		),
	))
}

func TestParseRecordsStatementPositions(t *testing.T) {
	program, err := Parse([]byte("LET x = 5\n\nPRINT x\n"))
	require.NoError(t, err)
	require.Len(t, program.Body, 2)
	assert.Equal(t, ast.Position{Line: 1, Column: 1}, program.Body[0].Span().Start)
	assert.Equal(t, ast.Position{Line: 3, Column: 1}, program.Body[1].Span().Start)
}

func TestParseKeywordsAreCaseInsensitive(t *testing.T) {
	assertProgram(t, "let total = 1: print Total", ast.Prog(
		ast.Let("TOTAL", ast.Num(1)),
		ast.Print(ast.ID("TOTAL")),
	))
}

func TestParseImplicitAssignment(t *testing.T) {
	assertProgram(t, "count = count + 1", ast.Prog(
		ast.Assign("count", ast.Bin(ast.OpAdd, ast.ID("count"), ast.Num(1))),
	))
}

func TestParsePrintItems(t *testing.T) {
	assertProgram(t, `PRINT "a", 1, x,`+"\nPRINT", ast.Prog(
		ast.PrintNoNewline(ast.Str("a"), ast.Num(1), ast.ID("x")),
		ast.Print(),
	))
}

func TestParseInput(t *testing.T) {
	assertProgram(t, "INPUT n\nINPUT \"Age? \", age", ast.Prog(
		ast.Input("n"),
		ast.NewInputStatement(ast.Str("Age? "), ast.ID("age")),
	))
}

func TestParseIfForms(t *testing.T) {
	source := `IF a = 1 DO
  PRINT "one"
ELSE
  PRINT "other"
END
IF a > 2 THEN PRINT "big" ELSE PRINT "small"
IF a THEN STOP`
	assertProgram(t, source, ast.Prog(
		ast.IfElse(ast.Bin(ast.OpEqual, ast.ID("a"), ast.Num(1)),
			[]ast.Statement{ast.Print(ast.Str("one"))},
			[]ast.Statement{ast.Print(ast.Str("other"))},
		),
		ast.NewIfStatement(ast.Bin(ast.OpGreater, ast.ID("a"), ast.Num(2)),
			[]ast.Statement{ast.Print(ast.Str("big"))},
			[]ast.Statement{ast.Print(ast.Str("small"))},
			true,
		),
		ast.NewIfStatement(ast.ID("a"), []ast.Statement{ast.Stop()}, nil, true),
	))
}

func TestParseForLoops(t *testing.T) {
	source := `FOR i = 1 TO 10 STEP 2 DO
  PRINT i
END
FOR j = 3 TO 1 STEP -1
  PRINT j
NEXT j
FOR k = 1 TO 2: PRINT k: NEXT`
	assertProgram(t, source, ast.Prog(
		ast.For("i", ast.Num(1), ast.Num(10), ast.Num(2), ast.Print(ast.ID("i"))),
		ast.For("j", ast.Num(3), ast.Num(1), ast.Neg(ast.Num(1)), ast.Print(ast.ID("j"))),
		ast.For("k", ast.Num(1), ast.Num(2), nil, ast.Print(ast.ID("k"))),
	))
}

func TestParseWhileAndNestedBlocks(t *testing.T) {
	source := `WHILE n > 0 DO
  IF n = 2 DO
    PRINT "two"
  END
  n = n - 1
END`
	assertProgram(t, source, ast.Prog(
		ast.While(ast.Bin(ast.OpGreater, ast.ID("n"), ast.Num(0)),
			ast.If(ast.Bin(ast.OpEqual, ast.ID("n"), ast.Num(2)), ast.Print(ast.Str("two"))),
			ast.Assign("n", ast.Bin(ast.OpSubtract, ast.ID("n"), ast.Num(1))),
		),
	))
}

func TestParseTopLevelEndStopsProgram(t *testing.T) {
	assertProgram(t, "PRINT 1\nEND\nPRINT 2", ast.Prog(
		ast.Print(ast.Num(1)),
		ast.Stop(),
		ast.Print(ast.Num(2)),
	))
}

func TestParseComments(t *testing.T) {
	assertProgram(t, "REM setup\nLET a = 1 : rem trailing words\nPRINT a", ast.Prog(
		ast.Let("a", ast.Num(1)),
		ast.Print(ast.ID("a")),
	))
}

func TestParseExpressionPrecedence(t *testing.T) {
	cases := []struct {
		source string
		want   ast.Expression
	}{
		{"1 + 2 * 3", ast.Bin(ast.OpAdd, ast.Num(1), ast.Bin(ast.OpMultiply, ast.Num(2), ast.Num(3)))},
		{"(1 + 2) * 3", ast.Bin(ast.OpMultiply, ast.Bin(ast.OpAdd, ast.Num(1), ast.Num(2)), ast.Num(3))},
		{"10 - 4 - 3", ast.Bin(ast.OpSubtract, ast.Bin(ast.OpSubtract, ast.Num(10), ast.Num(4)), ast.Num(3))},
		{"2 ^ 3 ^ 2", ast.Bin(ast.OpPower, ast.Bin(ast.OpPower, ast.Num(2), ast.Num(3)), ast.Num(2))},
		{"-2 ^ 2", ast.Neg(ast.Bin(ast.OpPower, ast.Num(2), ast.Num(2)))},
		{"2 ^ -1", ast.Bin(ast.OpPower, ast.Num(2), ast.Neg(ast.Num(1)))},
		{"a < b + 1", ast.Bin(ast.OpLess, ast.ID("a"), ast.Bin(ast.OpAdd, ast.ID("b"), ast.Num(1)))},
		{"NOT a = 1", ast.Not(ast.Bin(ast.OpEqual, ast.ID("a"), ast.Num(1)))},
		{"a OR b AND c", ast.Bin(ast.OpOr, ast.ID("a"), ast.Bin(ast.OpAnd, ast.ID("b"), ast.ID("c")))},
		{"x <> 1 AND y >= 2", ast.Bin(ast.OpAnd,
			ast.Bin(ast.OpNotEqual, ast.ID("x"), ast.Num(1)),
			ast.Bin(ast.OpGreaterEqual, ast.ID("y"), ast.Num(2)))},
		{"MID(s, 2, 3) + LEFT(s, 1)", ast.Bin(ast.OpAdd,
			ast.Call("MID", ast.ID("s"), ast.Num(2), ast.Num(3)),
			ast.Call("LEFT", ast.ID("s"), ast.Num(1)))},
		{"rnd()", ast.Call("RND")},
		{".5 * 4", ast.Bin(ast.OpMultiply, ast.Num(0.5), ast.Num(4))},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			assertExpression(t, tc.source, tc.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		message string
		line    int
	}{
		{"missing END", "IF 1 DO\n  PRINT 1\n", "parser: syntax error: IF block opened at line 1 is missing END", 3},
		{"missing NEXT", "FOR i = 1 TO 3\n PRINT i\n", "parser: syntax error: FOR block opened at line 1 is missing NEXT", 3},
		{"stray NEXT", "PRINT 1\nNEXT", "parser: NEXT without FOR", 2},
		{"mismatched NEXT", "FOR i = 1 TO 2\nNEXT j", "parser: NEXT J doesn't match FOR I", 2},
		{"IF without DO", "IF 1 PRINT 2", "parser: syntax error: expected DO or THEN, found PRINT", 1},
		{"missing expression", "LET a =", "parser: syntax error: expected expression, found end of input", 1},
		{"trailing tokens", "LET a = 1 2", "parser: syntax error: expected end of statement, found number 2", 1},
		{"bad statement", "\n\n) = 1", "parser: syntax error: unexpected ')' at start of statement", 3},
		{"unclosed call", "PRINT ABS(1", "parser: syntax error: expected ',' or ')', found end of input", 1},
		{"unterminated string", "PRINT \"abc\nPRINT 1", "parser: unterminated string", 1},
		{"unknown character", "LET a = 1 # 2", "parser: unexpected character '#'", 1},
		{"malformed number", "LET a = 1.2.3", "parser: malformed number 1.2.3", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.source))
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.message, perr.Message)
			assert.Equal(t, tc.line, perr.Location.Line)
		})
	}
}

func TestParseExpressionRejectsTrailingInput(t *testing.T) {
	_, err := ParseExpression([]byte("1 + 2 PRINT"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected end of input")
}
