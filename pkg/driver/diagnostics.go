package driver

import (
	"errors"
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DiagnosticLocation points at a span inside a source file.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

type ParserDiagnostic struct {
	Severity Severity
	Message  string
	Location DiagnosticLocation
}

// ParserDiagnosticError is returned by the loader when a file fails to parse.
type ParserDiagnosticError struct {
	Diagnostic ParserDiagnostic
}

func (e *ParserDiagnosticError) Error() string {
	return DescribeParserDiagnostic(e.Diagnostic)
}

// DescribeParserDiagnostic renders diag as `parser: path:line:col: message`.
func DescribeParserDiagnostic(diag ParserDiagnostic) string {
	message := strings.TrimPrefix(diag.Message, "parser: ")
	loc := diag.Location
	switch {
	case loc.Path != "" && loc.Line > 0:
		return fmt.Sprintf("parser: %s:%d:%d: %s", loc.Path, loc.Line, loc.Column, message)
	case loc.Line > 0:
		return fmt.Sprintf("parser: line %d:%d: %s", loc.Line, loc.Column, message)
	case loc.Path != "":
		return fmt.Sprintf("parser: %s: %s", loc.Path, message)
	}
	return "parser: " + message
}

// AsParserDiagnostic extracts the diagnostic carried by err, if any.
func AsParserDiagnostic(err error) (ParserDiagnostic, bool) {
	var diagErr *ParserDiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.Diagnostic, true
	}
	return ParserDiagnostic{}, false
}
