package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestTokenizeStatement(t *testing.T) {
	tokens, err := Tokenize([]byte(`let x = 5 <= 6; print "Hi"`))
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenLet, TokenIdent, TokenEqual, TokenNumber, TokenLessEqual, TokenNumber, TokenSemicolon,
		TokenPrint, TokenString, TokenEOF,
	}, tokenKinds(tokens))
	assert.Equal(t, "X", tokens[1].Text)
	assert.Equal(t, 5.0, tokens[3].Number)
	assert.Equal(t, "Hi", tokens[8].Text)
}

func TestTokenizeOperators(t *testing.T) {
	tokens, err := Tokenize([]byte("+ - * / ^ = <> < > <= >= ( ) , : ;"))
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenCaret, TokenEqual, TokenNotEqual,
		TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual, TokenLParen, TokenRParen,
		TokenComma, TokenColon, TokenSemicolon, TokenEOF,
	}, tokenKinds(tokens))
}

func TestTokenizeTracksPositions(t *testing.T) {
	tokens, err := Tokenize([]byte("A\n  B"))
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, TokenNewline, tokens[1].Kind)
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 3, tokens[2].Column)
}

func TestTokenizeRemarkRunsToEndOfLine(t *testing.T) {
	tokens, err := Tokenize([]byte("REM anything \"goes\" here\nSTOP"))
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenNewline, TokenStop, TokenEOF}, tokenKinds(tokens))
}

func TestTokenizeIdentifiersMayContainDigits(t *testing.T) {
	tokens, err := Tokenize([]byte("item_2 remark"))
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokenIdent, TokenIdent, TokenEOF}, tokenKinds(tokens))
	assert.Equal(t, "ITEM_2", tokens[0].Text)
	assert.Equal(t, "REMARK", tokens[1].Text)
}

func TestTokenizeErrorLocation(t *testing.T) {
	_, err := Tokenize([]byte("PRINT 1\nPRINT @"))
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, SourceLocation{Line: 2, Column: 7, EndLine: 2, EndColumn: 8}, perr.Location)
}
