package interpreter

import (
	"errors"
	"fmt"
	"math"

	"ailang/interpreter-go/pkg/ast"
	"ailang/interpreter-go/pkg/runtime"
)

var (
	errTypeMismatch    = errors.New("Invalid operation or type mismatch")
	errDivisionByZero  = errors.New("Division by zero")
	errStringCondition = errors.New("Condition must be a number")
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.UnaryExpression:
		return i.evaluateUnary(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n, env)
	case *ast.FunctionCall:
		return i.evaluateCall(n, env)
	case nil:
		return nil, errors.New("missing expression")
	default:
		return nil, fmt.Errorf("unsupported expression %T", node)
	}
}

// condition reports whether expr evaluates to a non-zero number. Strings are
// rejected.
func (i *Interpreter) condition(expr ast.Expression, env *runtime.Environment) (bool, error) {
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return false, err
	}
	if _, ok := val.(runtime.StringValue); ok {
		return false, errStringCondition
	}
	return isTruthy(val), nil
}

func isTruthy(val runtime.Value) bool {
	num, ok := val.(runtime.NumberValue)
	return ok && num.Val != 0
}

func (i *Interpreter) evaluateUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	num, ok := operand.(runtime.NumberValue)
	if !ok {
		return nil, errTypeMismatch
	}
	switch expr.Operator {
	case ast.UnaryNegate:
		return runtime.NumberValue{Val: -num.Val}, nil
	case ast.UnaryNot:
		return runtime.Bool(num.Val == 0), nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	if expr.Operator == ast.OpAnd || expr.Operator == ast.OpOr {
		return i.evaluateLogical(expr, env)
	}
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinary(expr.Operator, left, right)
}

func (i *Interpreter) evaluateLogical(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if _, ok := left.(runtime.NumberValue); !ok {
		return nil, errTypeMismatch
	}
	leftTrue := isTruthy(left)
	if expr.Operator == ast.OpAnd && !leftTrue {
		return runtime.False, nil
	}
	if expr.Operator == ast.OpOr && leftTrue {
		return runtime.True, nil
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	if _, ok := right.(runtime.NumberValue); !ok {
		return nil, errTypeMismatch
	}
	return runtime.Bool(isTruthy(right)), nil
}

func applyBinary(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, errTypeMismatch
		}
		return applyNumbers(op, l.Val, r.Val)
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		if !ok {
			return nil, errTypeMismatch
		}
		return applyStrings(op, l.Val, r.Val)
	}
	return nil, errTypeMismatch
}

func applyNumbers(op ast.BinaryOperator, a, b float64) (runtime.Value, error) {
	switch op {
	case ast.OpAdd:
		return runtime.NumberValue{Val: a + b}, nil
	case ast.OpSubtract:
		return runtime.NumberValue{Val: a - b}, nil
	case ast.OpMultiply:
		return runtime.NumberValue{Val: a * b}, nil
	case ast.OpDivide:
		if b == 0 {
			return nil, errDivisionByZero
		}
		return runtime.NumberValue{Val: a / b}, nil
	case ast.OpPower:
		return runtime.NumberValue{Val: math.Pow(a, b)}, nil
	case ast.OpEqual:
		return runtime.Bool(a == b), nil
	case ast.OpNotEqual:
		return runtime.Bool(a != b), nil
	case ast.OpLess:
		return runtime.Bool(a < b), nil
	case ast.OpGreater:
		return runtime.Bool(a > b), nil
	case ast.OpLessEqual:
		return runtime.Bool(a <= b), nil
	case ast.OpGreaterEqual:
		return runtime.Bool(a >= b), nil
	}
	return nil, errTypeMismatch
}

func applyStrings(op ast.BinaryOperator, a, b string) (runtime.Value, error) {
	switch op {
	case ast.OpAdd:
		return runtime.StringValue{Val: a + b}, nil
	case ast.OpEqual:
		return runtime.Bool(a == b), nil
	case ast.OpNotEqual:
		return runtime.Bool(a != b), nil
	case ast.OpLess:
		return runtime.Bool(a < b), nil
	case ast.OpGreater:
		return runtime.Bool(a > b), nil
	case ast.OpLessEqual:
		return runtime.Bool(a <= b), nil
	case ast.OpGreaterEqual:
		return runtime.Bool(a >= b), nil
	}
	return nil, errTypeMismatch
}

func (i *Interpreter) evaluateCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	name := call.Callee.Name
	fn, ok := i.builtins[name]
	if !ok {
		return nil, fmt.Errorf("Unknown function: %s", name)
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	if len(args) < fn.minArgs || len(args) > fn.maxArgs {
		return nil, fmt.Errorf("%s expects %s", name, fn.arityText())
	}
	return fn.impl(args)
}
