package interpreter

import (
	"errors"
	"fmt"

	"ailang/interpreter-go/pkg/ast"
)

// RuntimeError reports a failure raised while executing a statement.
type RuntimeError struct {
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.Line <= 0 {
		return "Error: " + e.Message
	}
	return fmt.Sprintf("Error at line %d: %s", e.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// StepLimitError is raised when a program exceeds its step budget.
type StepLimitError struct {
	Limit int64
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("infinite loop prevented after %d steps", e.Limit)
}

// CancelledError wraps the context error that interrupted execution.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return "execution cancelled: " + e.Err.Error()
}

func (e *CancelledError) Unwrap() error { return e.Err }

// stopSignal unwinds the call stack for STOP and top-level END.
type stopSignal struct {
	line int
}

func (stopSignal) Error() string { return "stop" }

// attachRuntimeContext stamps err with the position of node unless it already
// carries one. Control-flow signals pass through untouched.
func (i *Interpreter) attachRuntimeContext(err error, node ast.Node) error {
	if err == nil {
		return nil
	}
	var stop stopSignal
	if errors.As(err, &stop) {
		return err
	}
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return err
	}
	out := &RuntimeError{Message: err.Error(), Err: err}
	if node != nil {
		span := node.Span()
		out.Line = span.Start.Line
		out.Column = span.Start.Column
	}
	return out
}

// VagueMessage is printed instead of real diagnostics when vague errors are
// enabled.
const VagueMessage = "Error: Something went wrong. Check line ???"

// DescribeRuntimeError renders err for the terminal. When vague is set every
// runtime failure collapses to VagueMessage.
func DescribeRuntimeError(err error, vague bool) string {
	if err == nil {
		return ""
	}
	if vague {
		return VagueMessage
	}
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Error()
	}
	return "Error: " + err.Error()
}
