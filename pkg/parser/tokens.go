package parser

import "fmt"

// TokenKind classifies lexical tokens.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenNumber
	TokenString
	TokenIdent

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenCaret
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual

	// Punctuation
	TokenLParen
	TokenRParen
	TokenComma
	TokenSemicolon
	TokenColon

	// Keywords
	TokenLet
	TokenPrint
	TokenInput
	TokenIf
	TokenThen
	TokenElse
	TokenDo
	TokenEnd
	TokenFor
	TokenTo
	TokenStep
	TokenNext
	TokenWhile
	TokenStop
	TokenAnd
	TokenOr
	TokenNot
)

var tokenNames = map[TokenKind]string{
	TokenEOF:          "end of input",
	TokenNewline:      "end of line",
	TokenNumber:       "number",
	TokenString:       "string",
	TokenIdent:        "identifier",
	TokenPlus:         "'+'",
	TokenMinus:        "'-'",
	TokenStar:         "'*'",
	TokenSlash:        "'/'",
	TokenCaret:        "'^'",
	TokenEqual:        "'='",
	TokenNotEqual:     "'<>'",
	TokenLess:         "'<'",
	TokenGreater:      "'>'",
	TokenLessEqual:    "'<='",
	TokenGreaterEqual: "'>='",
	TokenLParen:       "'('",
	TokenRParen:       "')'",
	TokenComma:        "','",
	TokenSemicolon:    "';'",
	TokenColon:        "':'",
}

// keywords maps upper-cased words to keyword tokens. REM is handled by the lexer.
var keywords = map[string]TokenKind{
	"LET":   TokenLet,
	"PRINT": TokenPrint,
	"INPUT": TokenInput,
	"IF":    TokenIf,
	"THEN":  TokenThen,
	"ELSE":  TokenElse,
	"DO":    TokenDo,
	"END":   TokenEnd,
	"FOR":   TokenFor,
	"TO":    TokenTo,
	"STEP":  TokenStep,
	"NEXT":  TokenNext,
	"WHILE": TokenWhile,
	"STOP":  TokenStop,
	"AND":   TokenAnd,
	"OR":    TokenOr,
	"NOT":   TokenNot,
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	for word, kind := range keywords {
		if kind == k {
			return word
		}
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a single lexeme with its 1-based source position.
type Token struct {
	Kind   TokenKind
	Text   string
	Number float64
	Line   int
	Column int
}

func (t Token) describe() string {
	switch t.Kind {
	case TokenIdent:
		return fmt.Sprintf("identifier %s", t.Text)
	case TokenNumber:
		return fmt.Sprintf("number %s", t.Text)
	case TokenString:
		return fmt.Sprintf("string %q", t.Text)
	default:
		return t.Kind.String()
	}
}

func isSeparator(kind TokenKind) bool {
	return kind == TokenSemicolon || kind == TokenColon || kind == TokenNewline
}
