package parser

import (
	"fmt"

	"ailang/interpreter-go/pkg/ast"
)

// Parse lexes and parses a complete AI-Lang program.
func Parse(source []byte) (*ast.Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

// ParseExpression parses source consisting of a single expression, optionally
// followed by statement separators.
func ParseExpression(source []byte) (ast.Expression, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipSeparators()
	if !p.check(TokenEOF) {
		return nil, unexpectedToken(p.current(), TokenEOF)
	}
	return expr, nil
}

type parser struct {
	tokens []Token
	pos    int
	depth  int
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) previous() Token {
	if p.pos == 0 {
		return p.current()
	}
	return p.tokens[p.pos-1]
}

func (p *parser) check(kind TokenKind) bool {
	return p.current().Kind == kind
}

func (p *parser) checkAny(kinds ...TokenKind) bool {
	cur := p.current().Kind
	for _, kind := range kinds {
		if cur == kind {
			return true
		}
	}
	return false
}

func (p *parser) advance() Token {
	tok := p.current()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, unexpectedToken(p.current(), kind)
}

func (p *parser) skipSeparators() {
	for isSeparator(p.current().Kind) {
		p.advance()
	}
}

// annotate sets the node span from start to the end of the last consumed token.
func (p *parser) annotate(node ast.Node, start Token) {
	span := spanForToken(start)
	if p.pos > 0 {
		end := spanForToken(p.previous())
		if end.End.Line > span.End.Line || (end.End.Line == span.End.Line && end.End.Column > span.End.Column) {
			span.End = end.End
		}
	}
	ast.SetSpan(node, span)
}

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.current()
	body := make([]ast.Statement, 0)
	for {
		p.skipSeparators()
		if p.check(TokenEOF) {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if err := p.expectStatementEnd(); err != nil {
			return nil, err
		}
	}
	program := ast.NewProgram(body)
	p.annotate(program, start)
	return program, nil
}

// expectStatementEnd requires a separator, end of input, or one of the
// enclosing block's terminators. Terminators are left unconsumed.
func (p *parser) expectStatementEnd(terminators ...TokenKind) error {
	cur := p.current()
	if isSeparator(cur.Kind) || cur.Kind == TokenEOF {
		return nil
	}
	for _, kind := range terminators {
		if cur.Kind == kind {
			return nil
		}
	}
	return &ParseError{
		Message:  fmt.Sprintf("parser: syntax error: expected end of statement, found %s", cur.describe()),
		Location: locationForToken(cur),
	}
}

// parseBlock parses statements until one of terminators is the next token.
func (p *parser) parseBlock(opener Token, terminators ...TokenKind) ([]ast.Statement, error) {
	p.depth++
	defer func() { p.depth-- }()

	body := make([]ast.Statement, 0)
	for {
		p.skipSeparators()
		if p.checkAny(terminators...) {
			return body, nil
		}
		if p.check(TokenEOF) {
			names := make([]string, 0, len(terminators))
			for _, kind := range terminators {
				names = append(names, formatExpectedKind(kind))
			}
			cur := p.current()
			return nil, &ParseError{
				Message:  fmt.Sprintf("parser: syntax error: %s block opened at line %d is missing %s", opener.Kind, opener.Line, names[len(names)-1]),
				Location: locationForToken(cur),
			}
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if err := p.expectStatementEnd(terminators...); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseStatement() (ast.Statement, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenLet:
		p.advance()
		return p.parseAssignment(tok, true)
	case TokenIdent:
		return p.parseAssignment(tok, false)
	case TokenPrint:
		return p.parsePrint()
	case TokenInput:
		return p.parseInput()
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenWhile:
		return p.parseWhile()
	case TokenStop:
		p.advance()
		stmt := ast.NewStopStatement()
		p.annotate(stmt, tok)
		return stmt, nil
	case TokenEnd:
		if p.depth > 0 {
			return nil, &ParseError{
				Message:  "parser: syntax error: END without an open block (use STOP to end the program)",
				Location: locationForToken(tok),
			}
		}
		p.advance()
		stmt := ast.NewStopStatement()
		p.annotate(stmt, tok)
		return stmt, nil
	case TokenNext:
		return nil, &ParseError{Message: "parser: NEXT without FOR", Location: locationForToken(tok)}
	default:
		return nil, &ParseError{
			Message:  fmt.Sprintf("parser: syntax error: unexpected %s at start of statement", tok.describe()),
			Location: locationForToken(tok),
		}
	}
}

func (p *parser) parseAssignment(start Token, explicit bool) (ast.Statement, error) {
	nameTok, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEqual); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	target := ast.NewIdentifier(nameTok.Text)
	ast.SetSpan(target, spanForToken(nameTok))
	stmt := ast.NewLetStatement(target, value, explicit)
	p.annotate(stmt, start)
	return stmt, nil
}

func (p *parser) atItemEnd() bool {
	cur := p.current().Kind
	return isSeparator(cur) || cur == TokenEOF || cur == TokenEnd || cur == TokenElse || cur == TokenNext
}

func canStartExpression(kind TokenKind) bool {
	switch kind {
	case TokenNumber, TokenString, TokenIdent, TokenLParen, TokenMinus, TokenNot:
		return true
	default:
		return false
	}
}

func (p *parser) parsePrint() (ast.Statement, error) {
	start := p.advance()
	items := make([]ast.Expression, 0)
	suppress := false
	if !p.atItemEnd() {
		for {
			item, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if !p.match(TokenComma) {
				break
			}
			if !canStartExpression(p.current().Kind) {
				suppress = true
				break
			}
		}
	}
	stmt := ast.NewPrintStatement(items, suppress)
	p.annotate(stmt, start)
	return stmt, nil
}

func (p *parser) parseInput() (ast.Statement, error) {
	start := p.advance()
	var prompt *ast.StringLiteral
	if p.check(TokenString) {
		promptTok := p.advance()
		prompt = ast.NewStringLiteral(promptTok.Text)
		ast.SetSpan(prompt, spanForToken(promptTok))
		if _, err := p.expect(TokenComma); err != nil {
			return nil, err
		}
	}
	nameTok, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	target := ast.NewIdentifier(nameTok.Text)
	ast.SetSpan(target, spanForToken(nameTok))
	stmt := ast.NewInputStatement(prompt, target)
	p.annotate(stmt, start)
	return stmt, nil
}

func (p *parser) parseIf() (ast.Statement, error) {
	start := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	switch {
	case p.match(TokenDo):
		then, err := p.parseBlock(start, TokenElse, TokenEnd)
		if err != nil {
			return nil, err
		}
		var otherwise []ast.Statement
		if p.match(TokenElse) {
			otherwise, err = p.parseBlock(start, TokenEnd)
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokenEnd); err != nil {
			return nil, err
		}
		stmt := ast.NewIfStatement(cond, then, otherwise, false)
		p.annotate(stmt, start)
		return stmt, nil
	case p.match(TokenThen):
		thenStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		var otherwise []ast.Statement
		if p.match(TokenElse) {
			elseStmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			otherwise = []ast.Statement{elseStmt}
		}
		stmt := ast.NewIfStatement(cond, []ast.Statement{thenStmt}, otherwise, true)
		p.annotate(stmt, start)
		return stmt, nil
	default:
		return nil, unexpectedToken(p.current(), TokenDo, TokenThen)
	}
}

func (p *parser) parseFor() (ast.Statement, error) {
	start := p.advance()
	nameTok, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEqual); err != nil {
		return nil, err
	}
	from, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenTo); err != nil {
		return nil, err
	}
	to, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var step ast.Expression
	if p.match(TokenStep) {
		step, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	variable := ast.NewIdentifier(nameTok.Text)
	ast.SetSpan(variable, spanForToken(nameTok))

	var body []ast.Statement
	if p.match(TokenDo) {
		body, err = p.parseBlock(start, TokenEnd)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEnd); err != nil {
			return nil, err
		}
	} else {
		body, err = p.parseBlock(start, TokenNext)
		if err != nil {
			return nil, err
		}
		p.advance() // NEXT
		if p.check(TokenIdent) {
			next := p.advance()
			if next.Text != nameTok.Text {
				return nil, &ParseError{
					Message:  fmt.Sprintf("parser: NEXT %s doesn't match FOR %s", next.Text, nameTok.Text),
					Location: locationForToken(next),
				}
			}
		}
	}

	stmt := ast.NewForLoop(variable, from, to, step, body)
	p.annotate(stmt, start)
	return stmt, nil
}

func (p *parser) parseWhile() (ast.Statement, error) {
	start := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenDo); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(start, TokenEnd)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}
	stmt := ast.NewWhileLoop(cond, body)
	p.annotate(stmt, start)
	return stmt, nil
}
