package parser

import (
	"fmt"
	"strings"

	"ailang/interpreter-go/pkg/ast"
)

// SourceLocation captures a source span for parser diagnostics.
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParseError includes a message plus a best-effort source location.
type ParseError struct {
	Message  string
	Location SourceLocation
}

func (e *ParseError) Error() string {
	return e.Message
}

func locationForToken(tok Token) SourceLocation {
	width := len(tok.Text)
	if width == 0 || tok.Kind == TokenNewline {
		width = 1
	}
	if tok.Kind == TokenString {
		width += 2
	}
	return SourceLocation{
		Line:      tok.Line,
		Column:    tok.Column,
		EndLine:   tok.Line,
		EndColumn: tok.Column + width,
	}
}

func spanForToken(tok Token) ast.Span {
	loc := locationForToken(tok)
	return ast.Span{
		Start: ast.Position{Line: loc.Line, Column: loc.Column},
		End:   ast.Position{Line: loc.EndLine, Column: loc.EndColumn},
	}
}

func unexpectedToken(tok Token, expected ...TokenKind) *ParseError {
	message := fmt.Sprintf("parser: syntax error: unexpected %s", tok.describe())
	if len(expected) > 0 {
		names := make([]string, 0, len(expected))
		for _, kind := range expected {
			names = append(names, formatExpectedKind(kind))
		}
		message = fmt.Sprintf("parser: syntax error: expected %s, found %s", strings.Join(names, " or "), tok.describe())
	}
	return &ParseError{Message: message, Location: locationForToken(tok)}
}

func formatExpectedKind(kind TokenKind) string {
	if _, ok := tokenNames[kind]; ok {
		return kind.String()
	}
	return strings.ToUpper(kind.String())
}
