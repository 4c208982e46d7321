package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/harborlang/harbor/ast"
	"github.com/harborlang/harbor/lexer"
)

// parseServer parses
//
//	server [port] [:] { routes } | indented routes
func (p *Parser) parseServer(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	stmt := &ast.ServerStmt{BaseStmt: base}
	if p.at(lexer.LBrace, lexer.Colon, lexer.Newline, lexer.Indent) {
		stmt.Port = &ast.NumberLit{Value: defaultPort, Raw: strconv.Itoa(defaultPort)}
	} else {
		port, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Port = port
	}
	p.accept(lexer.Colon)

	var end lexer.Kind
	switch {
	case p.accept(lexer.LBrace):
		end = lexer.RBrace
	case p.at(lexer.Newline, lexer.Indent):
		p.accept(lexer.Newline)
		if _, err := p.expect(lexer.Indent); err != nil {
			return nil, err
		}
		end = lexer.Dedent
	default:
		return nil, p.unexpected(p.peek(), "block after server")
	}

	for {
		p.skip(lexer.Newline)
		if p.at(end, lexer.EOF) {
			break
		}
		route, err := p.parseRoute()
		if err != nil {
			return nil, err
		}
		stmt.Routes = append(stmt.Routes, route)
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseRoute parses get|post|put|delete|patch "path" [:] block.
func (p *Parser) parseRoute() (*ast.Route, error) {
	tok := p.peek()
	if !tok.Kind.IsMethod() {
		return nil, p.unexpected(tok, "HTTP method (get, post, put, delete, patch)")
	}
	p.advance()
	path := p.peek()
	if path.Kind != lexer.String {
		return nil, p.unexpected(path, "string path in route")
	}
	p.advance()
	p.accept(lexer.Colon)
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Route{
		Method: strings.ToUpper(tok.Text),
		Path:   path.Text,
		Body:   body,
		Pos:    tok.Pos,
	}, nil
}

// parseRespond parses respond [status] value. A number is a status code
// only when another expression follows it.
func (p *Parser) parseRespond(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	stmt := &ast.RespondStmt{BaseStmt: base}
	if tok := p.peek(); tok.Kind == lexer.Number && startsExpr(p.peekAt(1).Kind) {
		if tok.Num != math.Trunc(tok.Num) {
			return nil, p.errorf(tok.Pos, "status code must be an integer, found %s", tok.Text)
		}
		p.advance()
		stmt.Status = int(tok.Num)
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	return stmt, nil
}

// parseFetch parses fetch url [:] block.
func (p *Parser) parseFetch(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	url, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.accept(lexer.Colon)
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FetchStmt{BaseStmt: base, URL: url, Body: body}, nil
}

// startsExpr reports whether a token of kind k can begin an operand.
func startsExpr(k lexer.Kind) bool {
	switch k {
	case lexer.String, lexer.Template, lexer.Number, lexer.Ident, lexer.Self,
		lexer.True, lexer.False, lexer.None, lexer.Not, lexer.Minus,
		lexer.LParen, lexer.LBracket, lexer.LBrace:
		return true
	}
	return false
}
