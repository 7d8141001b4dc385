package main

import (
	"errors"
	"strings"

	"ailang/interpreter-go/pkg/driver"
	"ailang/interpreter-go/pkg/interpreter"
)

// programError marks a failure raised by the running program rather than by
// the tooling around it.
type programError struct {
	err error
}

func (e *programError) Error() string { return e.err.Error() }

func (e *programError) Unwrap() error { return e.err }

func (c *cli) describeError(err error) string {
	vague := c.cfg != nil && c.cfg.VagueErrors
	if diag, ok := driver.AsParserDiagnostic(err); ok {
		if vague {
			return interpreter.VagueMessage
		}
		return driver.DescribeParserDiagnostic(diag)
	}
	var perr *programError
	if errors.As(err, &perr) {
		if vague {
			return interpreter.VagueMessage
		}
		// compiled programs already format their own errors
		if msg := perr.err.Error(); strings.HasPrefix(msg, "Error") {
			return msg
		}
		return interpreter.DescribeRuntimeError(perr.err, false)
	}
	return err.Error()
}
