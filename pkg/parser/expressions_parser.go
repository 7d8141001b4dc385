package parser

import (
	"fmt"

	"ailang/interpreter-go/pkg/ast"
)

var comparisonOperators = map[TokenKind]ast.BinaryOperator{
	TokenEqual:        ast.OpEqual,
	TokenNotEqual:     ast.OpNotEqual,
	TokenLess:         ast.OpLess,
	TokenGreater:      ast.OpGreater,
	TokenLessEqual:    ast.OpLessEqual,
	TokenGreaterEqual: ast.OpGreaterEqual,
}

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

// parseLeftAssoc folds `next { op next }` into left-nested binary expressions.
func (p *parser) parseLeftAssoc(next func() (ast.Expression, error), ops map[TokenKind]ast.BinaryOperator) (ast.Expression, error) {
	start := p.current()
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.current().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		bin := ast.NewBinaryExpression(op, left, right)
		p.annotate(bin, start)
		left = bin
	}
}

func (p *parser) parseOr() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseAnd, map[TokenKind]ast.BinaryOperator{TokenOr: ast.OpOr})
}

func (p *parser) parseAnd() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseNot, map[TokenKind]ast.BinaryOperator{TokenAnd: ast.OpAnd})
}

func (p *parser) parseNot() (ast.Expression, error) {
	if p.check(TokenNot) {
		start := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		expr := ast.NewUnaryExpression(ast.UnaryNot, operand)
		p.annotate(expr, start)
		return expr, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseAdditive, comparisonOperators)
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseMultiplicative, map[TokenKind]ast.BinaryOperator{
		TokenPlus:  ast.OpAdd,
		TokenMinus: ast.OpSubtract,
	})
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseLeftAssoc(p.parseUnary, map[TokenKind]ast.BinaryOperator{
		TokenStar:  ast.OpMultiply,
		TokenSlash: ast.OpDivide,
	})
}

// parseUnary binds looser than ^ so that -2^2 is -(2^2).
func (p *parser) parseUnary() (ast.Expression, error) {
	if p.check(TokenMinus) {
		start := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr := ast.NewUnaryExpression(ast.UnaryNegate, operand)
		p.annotate(expr, start)
		return expr, nil
	}
	return p.parsePower()
}

// parsePower is left associative: 2^3^2 is (2^3)^2.
func (p *parser) parsePower() (ast.Expression, error) {
	start := p.current()
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.match(TokenCaret) {
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		bin := ast.NewBinaryExpression(ast.OpPower, left, right)
		p.annotate(bin, start)
		left = bin
	}
	return left, nil
}

func (p *parser) parseExponent() (ast.Expression, error) {
	if p.check(TokenMinus) {
		start := p.advance()
		operand, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		expr := ast.NewUnaryExpression(ast.UnaryNegate, operand)
		p.annotate(expr, start)
		return expr, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		lit := ast.NewNumberLiteral(tok.Number)
		p.annotate(lit, tok)
		return lit, nil
	case TokenString:
		p.advance()
		lit := ast.NewStringLiteral(tok.Text)
		p.annotate(lit, tok)
		return lit, nil
	case TokenIdent:
		p.advance()
		ident := ast.NewIdentifier(tok.Text)
		p.annotate(ident, tok)
		if !p.check(TokenLParen) {
			return ident, nil
		}
		return p.parseCallArguments(tok, ident)
	case TokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case TokenEOF, TokenNewline, TokenSemicolon, TokenColon:
		return nil, &ParseError{
			Message:  fmt.Sprintf("parser: syntax error: expected expression, found %s", tok.describe()),
			Location: locationForToken(tok),
		}
	default:
		return nil, &ParseError{
			Message:  fmt.Sprintf("parser: syntax error: unexpected %s in expression", tok.describe()),
			Location: locationForToken(tok),
		}
	}
}

func (p *parser) parseCallArguments(start Token, callee *ast.Identifier) (ast.Expression, error) {
	p.advance() // (
	args := make([]ast.Expression, 0)
	if !p.match(TokenRParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.match(TokenComma) {
				continue
			}
			if p.match(TokenRParen) {
				break
			}
			return nil, unexpectedToken(p.current(), TokenComma, TokenRParen)
		}
	}
	call := ast.NewFunctionCall(callee, args)
	p.annotate(call, start)
	return call, nil
}
