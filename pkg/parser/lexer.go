package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer turns AI-Lang source into tokens.
type Lexer struct {
	src    string
	pos    int
	line   int
	column int
}

// NewLexer returns a lexer positioned at the start of source.
func NewLexer(source []byte) *Lexer {
	return &Lexer{src: string(source), line: 1, column: 1}
}

// Tokenize lexes the full source. The result always ends with TokenEOF.
func Tokenize(source []byte) ([]Token, error) {
	lx := NewLexer(source)
	var tokens []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	if size == 0 {
		return 0
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) errorf(line, column int, format string, args ...any) error {
	return &ParseError{
		Message:  "parser: " + fmt.Sprintf(format, args...),
		Location: SourceLocation{Line: line, Column: column, EndLine: line, EndColumn: column + 1},
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	for {
		r, size := l.peekRune()
		if size == 0 {
			return Token{Kind: TokenEOF, Line: l.line, Column: l.column}, nil
		}
		if r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v' {
			l.advance()
			continue
		}
		break
	}

	line, column := l.line, l.column
	tok := func(kind TokenKind, text string) Token {
		return Token{Kind: kind, Text: text, Line: line, Column: column}
	}

	r, _ := l.peekRune()
	switch {
	case r == '\n':
		l.advance()
		return tok(TokenNewline, "\n"), nil
	case isDigit(r) || (r == '.' && isDigit(l.runeAt(1))):
		return l.lexNumber(line, column)
	case r == '_' || unicode.IsLetter(r):
		word := l.lexWord()
		if word == "REM" {
			l.skipLine()
			return l.Next()
		}
		if kind, ok := keywords[word]; ok {
			return tok(kind, word), nil
		}
		return tok(TokenIdent, word), nil
	case r == '"':
		return l.lexString(line, column)
	}

	l.advance()
	switch r {
	case '+':
		return tok(TokenPlus, "+"), nil
	case '-':
		return tok(TokenMinus, "-"), nil
	case '*':
		return tok(TokenStar, "*"), nil
	case '/':
		return tok(TokenSlash, "/"), nil
	case '^':
		return tok(TokenCaret, "^"), nil
	case '=':
		return tok(TokenEqual, "="), nil
	case '<':
		switch next, _ := l.peekRune(); next {
		case '=':
			l.advance()
			return tok(TokenLessEqual, "<="), nil
		case '>':
			l.advance()
			return tok(TokenNotEqual, "<>"), nil
		}
		return tok(TokenLess, "<"), nil
	case '>':
		if next, _ := l.peekRune(); next == '=' {
			l.advance()
			return tok(TokenGreaterEqual, ">="), nil
		}
		return tok(TokenGreater, ">"), nil
	case '(':
		return tok(TokenLParen, "("), nil
	case ')':
		return tok(TokenRParen, ")"), nil
	case ',':
		return tok(TokenComma, ","), nil
	case ';':
		return tok(TokenSemicolon, ";"), nil
	case ':':
		return tok(TokenColon, ":"), nil
	}
	return Token{}, l.errorf(line, column, "unexpected character %q", r)
}

func (l *Lexer) runeAt(offset int) rune {
	idx := l.pos
	for i := 0; i < offset && idx < len(l.src); i++ {
		_, size := utf8.DecodeRuneInString(l.src[idx:])
		idx += size
	}
	if idx >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[idx:])
	return r
}

func (l *Lexer) lexNumber(line, column int) (Token, error) {
	start := l.pos
	dots := 0
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if r == '.' {
			dots++
		} else if !isDigit(r) {
			break
		}
		l.advance()
	}
	text := l.src[start:l.pos]
	if dots > 1 {
		return Token{}, l.errorf(line, column, "malformed number %s", text)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, l.errorf(line, column, "malformed number %s", text)
	}
	return Token{Kind: TokenNumber, Text: text, Number: value, Line: line, Column: column}, nil
}

func (l *Lexer) lexWord() string {
	var b strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 || !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		b.WriteRune(unicode.ToUpper(r))
		l.advance()
	}
	return b.String()
}

func (l *Lexer) lexString(line, column int) (Token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 || r == '\n' {
			return Token{}, l.errorf(line, column, "unterminated string")
		}
		l.advance()
		if r == '"' {
			break
		}
		b.WriteRune(r)
	}
	return Token{Kind: TokenString, Text: b.String(), Line: line, Column: column}, nil
}

func (l *Lexer) skipLine() {
	for {
		r, size := l.peekRune()
		if size == 0 || r == '\n' {
			return
		}
		l.advance()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
