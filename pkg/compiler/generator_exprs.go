package compiler

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"ailang/interpreter-go/pkg/ast"
	"ailang/interpreter-go/pkg/interpreter"
)

// expr returns Go source evaluating node to a value. Failures report line.
func (g *generator) expr(node ast.Expression, line int) (string, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return fmt.Sprintf("num(%s)", numberLiteral(n.Value)), nil
	case *ast.StringLiteral:
		return fmt.Sprintf("str(%s)", strconv.Quote(n.Value)), nil
	case *ast.Identifier:
		return fmt.Sprintf("p.get(%d, %q)", line, n.Name), nil
	case *ast.UnaryExpression:
		operand, err := g.expr(n.Operand, line)
		if err != nil {
			return "", err
		}
		switch n.Operator {
		case ast.UnaryNegate:
			return fmt.Sprintf("p.negate(%d, %s)", line, operand), nil
		case ast.UnaryNot:
			return fmt.Sprintf("p.not(%d, %s)", line, operand), nil
		}
		return "", fmt.Errorf("compiler: unsupported unary operator %s", n.Operator)
	case *ast.BinaryExpression:
		left, err := g.expr(n.Left, line)
		if err != nil {
			return "", err
		}
		right, err := g.expr(n.Right, line)
		if err != nil {
			return "", err
		}
		switch n.Operator {
		case ast.OpAnd:
			return fmt.Sprintf("p.and(%d, %s, func() value { return %s })", line, left, right), nil
		case ast.OpOr:
			return fmt.Sprintf("p.or(%d, %s, func() value { return %s })", line, left, right), nil
		}
		return fmt.Sprintf("p.binary(%d, %q, %s, %s)", line, string(n.Operator), left, right), nil
	case *ast.FunctionCall:
		args := make([]string, 0, len(n.Arguments)+2)
		args = append(args, strconv.Itoa(line), strconv.Quote(n.Callee.Name))
		if !slices.Contains(interpreter.BuiltinNames, n.Callee.Name) {
			// unknown names fail before any argument runs
			return fmt.Sprintf("p.call(%s)", strings.Join(args, ", ")), nil
		}
		for _, arg := range n.Arguments {
			code, err := g.expr(arg, line)
			if err != nil {
				return "", err
			}
			args = append(args, code)
		}
		return fmt.Sprintf("p.call(%s)", strings.Join(args, ", ")), nil
	case nil:
		return "", fmt.Errorf("compiler: missing expression at line %d", line)
	default:
		return "", fmt.Errorf("compiler: unsupported expression %T", node)
	}
}

func numberLiteral(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
