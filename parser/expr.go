package parser

import (
	"github.com/harborlang/harbor/ast"
	"github.com/harborlang/harbor/lexer"
)

// Precedence, lowest first:
//
//	or
//	and
//	not            (prefix, unless followed by "in")
//	== != < > <= >= in "not in"
//	+ -
//	* / % //
//	**             (right associative)
//	unary -
//	postfix . [] ()
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(lexer.Or) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: "or", Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.accept(lexer.And) {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: "and", Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.at(lexer.Not) && p.peekAt(1).Kind != lexer.In {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "not", Operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[lexer.Kind]string{
	lexer.Eq:        "==",
	lexer.NotEq:     "!=",
	lexer.Less:      "<",
	lexer.LessEq:    "<=",
	lexer.Greater:   ">",
	lexer.GreaterEq: ">=",
	lexer.In:        "in",
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.peek().Kind]
		if !ok {
			if !p.at(lexer.Not) || p.peekAt(1).Kind != lexer.In {
				return left, nil
			}
			p.advance()
			op = "not in"
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Plus, lexer.Minus) {
		op := p.advance().Text
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Star, lexer.Slash, lexer.Percent, lexer.FloorDiv) {
		op := p.advance().Text
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePower() (ast.Expr, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.accept(lexer.Power) {
		return base, nil
	}
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Left: base, Op: "**", Right: exp}, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.accept(lexer.Minus) {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "-", Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case lexer.Dot:
			p.advance()
			tok := p.peek()
			if tok.Kind != lexer.Ident && tok.Kind != lexer.String && !tok.Kind.IsKeyword() {
				return nil, p.unexpected(tok, "field name after '.'")
			}
			p.advance()
			e = &ast.MemberExpr{Object: e, Field: tok.Text}
		case lexer.LBracket:
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			e = &ast.IndexExpr{Object: e, Index: index}
		case lexer.LParen:
			p.advance()
			args, err := p.parseList(lexer.RParen)
			if err != nil {
				return nil, err
			}
			e = &ast.CallExpr{Func: e, Args: args}
		default:
			return e, nil
		}
	}
}

// parseList parses comma-separated expressions up to and including end.
// A trailing comma is allowed.
func (p *Parser) parseList(end lexer.Kind) ([]ast.Expr, error) {
	var items []ast.Expr
	for !p.at(end) {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.String:
		p.advance()
		return &ast.StringLit{Value: tok.Text}, nil
	case lexer.Template:
		p.advance()
		return p.parseTemplate(tok)
	case lexer.Number:
		p.advance()
		return &ast.NumberLit{Value: tok.Num, Raw: tok.Text}, nil
	case lexer.True, lexer.False:
		p.advance()
		return &ast.BoolLit{Value: tok.Kind == lexer.True}, nil
	case lexer.None:
		p.advance()
		return &ast.NoneLit{}, nil
	case lexer.Ident:
		p.advance()
		return &ast.Ident{Name: tok.Text}, nil
	case lexer.Self:
		p.advance()
		return &ast.Ident{Name: "self"}, nil
	case lexer.LParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.LBracket:
		p.advance()
		elems, err := p.parseList(lexer.RBracket)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLit{Elements: elems}, nil
	case lexer.LBrace:
		p.advance()
		return p.parseObject()
	}
	return nil, p.unexpected(tok, "expression")
}

// parseObject parses the fields of an object literal after the '{'. Keys
// are strings, names, keywords or numbers.
func (p *Parser) parseObject() (ast.Expr, error) {
	obj := &ast.ObjectLit{}
	for !p.at(lexer.RBrace) {
		key := p.peek()
		switch {
		case key.Kind == lexer.String, key.Kind == lexer.Ident, key.Kind == lexer.Number, key.Kind.IsKeyword():
			p.advance()
		default:
			return nil, p.unexpected(key, "object key")
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, ast.Field{Key: key.Text, Value: value})
		if !p.accept(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return obj, nil
}

// parseTemplate re-parses each expression segment of an f-string with a
// fresh lexer and parser.
func (p *Parser) parseTemplate(tok lexer.Token) (ast.Expr, error) {
	tmpl := &ast.TemplateLit{}
	for _, seg := range tok.Parts {
		if !seg.Expr {
			tmpl.Parts = append(tmpl.Parts, &ast.TextPart{Text: seg.Text})
			continue
		}
		e, err := ParseExpr(seg.Pos, seg.Text)
		if err != nil {
			return nil, err
		}
		tmpl.Parts = append(tmpl.Parts, &ast.ExprPart{Expr: e})
	}
	return tmpl, nil
}
