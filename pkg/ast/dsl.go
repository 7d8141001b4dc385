package ast

import "strings"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(strings.ToUpper(name))
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

// Expression helpers.

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryNegate, operand)
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryNot, operand)
}

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Call(name string, args ...Expression) *FunctionCall {
	if args == nil {
		args = []Expression{}
	}
	return NewFunctionCall(ID(name), args)
}

// Statement helpers.

func Let(name string, value Expression) *LetStatement {
	return NewLetStatement(ID(name), value, true)
}

func Assign(name string, value Expression) *LetStatement {
	return NewLetStatement(ID(name), value, false)
}

func Print(items ...Expression) *PrintStatement {
	if items == nil {
		items = []Expression{}
	}
	return NewPrintStatement(items, false)
}

func PrintNoNewline(items ...Expression) *PrintStatement {
	return NewPrintStatement(items, true)
}

func Input(name string) *InputStatement {
	return NewInputStatement(nil, ID(name))
}

func If(cond Expression, then ...Statement) *IfStatement {
	return NewIfStatement(cond, then, nil, false)
}

func IfElse(cond Expression, then, otherwise []Statement) *IfStatement {
	return NewIfStatement(cond, then, otherwise, false)
}

func For(name string, start, end, step Expression, body ...Statement) *ForLoop {
	return NewForLoop(ID(name), start, end, step, body)
}

func While(cond Expression, body ...Statement) *WhileLoop {
	return NewWhileLoop(cond, body)
}

func Stop() *StopStatement {
	return NewStopStatement()
}

func Prog(body ...Statement) *Program {
	if body == nil {
		body = []Statement{}
	}
	return NewProgram(body)
}
