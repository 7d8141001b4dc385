package ast

import "fmt"

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span covers the source text a node was parsed from.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Span) String() string {
	if s.Start.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// IsZero reports whether no location was recorded.
func (s Span) IsZero() bool {
	return s == Span{}
}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// ZeroSpan returns an empty span value.
func ZeroSpan() Span {
	return Span{}
}

// Walk visits node and its children depth-first. Returning false from visit
// skips the children of the current node.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		walkStatements(n.Body, visit)
	case *UnaryExpression:
		walkExpression(n.Operand, visit)
	case *BinaryExpression:
		walkExpression(n.Left, visit)
		walkExpression(n.Right, visit)
	case *FunctionCall:
		if n.Callee != nil {
			Walk(n.Callee, visit)
		}
		for _, arg := range n.Arguments {
			walkExpression(arg, visit)
		}
	case *LetStatement:
		if n.Target != nil {
			Walk(n.Target, visit)
		}
		walkExpression(n.Value, visit)
	case *PrintStatement:
		for _, item := range n.Items {
			walkExpression(item, visit)
		}
	case *InputStatement:
		if n.Prompt != nil {
			Walk(n.Prompt, visit)
		}
		if n.Target != nil {
			Walk(n.Target, visit)
		}
	case *IfStatement:
		walkExpression(n.Condition, visit)
		walkStatements(n.Then, visit)
		walkStatements(n.Else, visit)
	case *ForLoop:
		if n.Variable != nil {
			Walk(n.Variable, visit)
		}
		walkExpression(n.Start, visit)
		walkExpression(n.End, visit)
		walkExpression(n.Step, visit)
		walkStatements(n.Body, visit)
	case *WhileLoop:
		walkExpression(n.Condition, visit)
		walkStatements(n.Body, visit)
	}
}

func walkExpression(expr Expression, visit func(Node) bool) {
	if expr == nil {
		return
	}
	Walk(expr, visit)
}

func walkStatements(stmts []Statement, visit func(Node) bool) {
	for _, stmt := range stmts {
		if stmt == nil {
			continue
		}
		Walk(stmt, visit)
	}
}
