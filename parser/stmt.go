package parser

import (
	"github.com/harborlang/harbor/ast"
	"github.com/harborlang/harbor/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	p.skip(lexer.Newline)
	base := ast.BaseStmt{SourcePos: p.peek().Pos}

	var s ast.Statement
	var err error
	switch p.peek().Kind {
	case lexer.If:
		s, err = p.parseIf(base)
	case lexer.For:
		s, err = p.parseFor(base)
	case lexer.While:
		s, err = p.parseWhile(base)
	case lexer.Def:
		s, err = p.parseFuncDef(base)
	case lexer.Return:
		s, err = p.parseReturn(base)
	case lexer.Class:
		s, err = p.parseClass(base)
	case lexer.Try:
		s, err = p.parseTry(base)
	case lexer.Import:
		s, err = p.parseImport(base)
	case lexer.From:
		s, err = p.parseFromImport(base)
	case lexer.Export:
		p.advance()
		var decl ast.Statement
		decl, err = p.parseStatement()
		s = &ast.ExportStmt{BaseStmt: base, Decl: decl}
	case lexer.Print:
		s, err = p.parsePrint(base)
	case lexer.Pass:
		p.advance()
		s = &ast.PassStmt{BaseStmt: base}
	case lexer.Break:
		p.advance()
		s = &ast.BreakStmt{BaseStmt: base}
	case lexer.Continue:
		p.advance()
		s = &ast.ContinueStmt{BaseStmt: base}
	case lexer.Server:
		s, err = p.parseServer(base)
	case lexer.Respond:
		s, err = p.parseRespond(base)
	case lexer.Fetch:
		s, err = p.parseFetch(base)
	default:
		s, err = p.parseExprOrAssign(base)
	}
	if err != nil {
		return nil, err
	}
	p.skip(lexer.Newline)
	return s, nil
}

// parseBlock parses the body that follows a statement header. Three forms
// are accepted: { ... }, an indented suite (optionally after the newline
// ending the header line), or a single statement on the same line.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	switch {
	case p.at(lexer.LBrace):
		p.advance()
		body, err := p.parseStatementsUntil(lexer.RBrace)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBrace); err != nil {
			return nil, err
		}
		return body, nil

	case p.at(lexer.Newline, lexer.Indent):
		p.accept(lexer.Newline)
		if _, err := p.expect(lexer.Indent); err != nil {
			return nil, err
		}
		body, err := p.parseStatementsUntil(lexer.Dedent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Dedent); err != nil {
			return nil, err
		}
		return body, nil
	}

	s, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return []ast.Statement{s}, nil
}

func (p *Parser) parseStatementsUntil(end lexer.Kind) ([]ast.Statement, error) {
	var body []ast.Statement
	for {
		p.skip(lexer.Newline)
		if p.at(end, lexer.EOF) {
			return body, nil
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
}

// continues consumes a newline when the token after it is k, so that a
// clause may start on the line after a closing brace.
func (p *Parser) continues(k lexer.Kind) bool {
	if p.at(lexer.Newline) && p.peekAt(1).Kind == k {
		p.advance()
	}
	return p.at(k)
}

// header parses the condition of an if/elif/while and the optional colon.
func (p *Parser) header() (ast.Expr, error) {
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.accept(lexer.Colon)
	return cond, nil
}

func (p *Parser) parseIf(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	cond, err := p.header()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{BaseStmt: base, Condition: cond, Body: body}

	for p.continues(lexer.Elif) {
		p.advance()
		cond, err := p.header()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.ElifClauses = append(stmt.ElifClauses, ast.ElifClause{Condition: cond, Body: body})
	}
	if p.continues(lexer.Else) {
		p.advance()
		p.accept(lexer.Colon)
		if stmt.ElseBody, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseFor(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.In); err != nil {
		return nil, err
	}
	iter, err := p.header()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{BaseStmt: base, Var: name, Iterable: iter, Body: body}, nil
}

func (p *Parser) parseWhile(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	cond, err := p.header()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{BaseStmt: base, Condition: cond, Body: body}, nil
}

func (p *Parser) parseFuncDef(base ast.BaseStmt) (ast.Statement, error) {
	method := p.inClass
	p.inClass = false
	defer func() { p.inClass = method }()

	p.advance()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	// A method may spell out its receiver as a leading self parameter.
	if method && p.at(lexer.Self) {
		p.advance()
		if !p.at(lexer.RParen) {
			if _, err := p.expect(lexer.Comma); err != nil {
				return nil, err
			}
		}
	}
	var params []string
	for !p.at(lexer.RParen) {
		param, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if !p.accept(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	p.accept(lexer.Colon)
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{BaseStmt: base, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseReturn(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	if p.atStatementEnd() {
		return &ast.ReturnStmt{BaseStmt: base}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{BaseStmt: base, Value: value}, nil
}

func (p *Parser) atStatementEnd() bool {
	return p.at(lexer.Newline, lexer.EOF, lexer.Dedent, lexer.RBrace)
}

func (p *Parser) parseClass(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	p.accept(lexer.Colon)

	saved := p.inClass
	p.inClass = true
	body, err := p.parseBlock()
	p.inClass = saved
	if err != nil {
		return nil, err
	}

	class := &ast.ClassDef{BaseStmt: base, Name: name}
	for _, s := range body {
		switch s := s.(type) {
		case *ast.FuncDef:
			class.Methods = append(class.Methods, s)
		case *ast.PassStmt:
		default:
			return nil, p.errorf(s.Pos(), "expected method definition in class %s", name)
		}
	}
	return class, nil
}

func (p *Parser) parseTry(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	p.accept(lexer.Colon)
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	p.continues(lexer.Except)
	if _, err := p.expect(lexer.Except); err != nil {
		return nil, err
	}
	stmt := &ast.TryStmt{BaseStmt: base, Body: body}
	if p.at(lexer.Ident) {
		stmt.ErrVar = p.advance().Text
	}
	p.accept(lexer.Colon)
	if stmt.Handler, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseImport(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	path, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	stmt := &ast.ImportStmt{BaseStmt: base, Path: path.Text}
	if p.accept(lexer.As) {
		if stmt.Alias, err = p.expectIdent(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseFromImport(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	path, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Import); err != nil {
		return nil, err
	}
	stmt := &ast.FromImportStmt{BaseStmt: base, Path: path.Text}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stmt.Names = append(stmt.Names, name)
		if !p.accept(lexer.Comma) {
			return stmt, nil
		}
	}
}

// parsePrint accepts print, print(a, b) and print a, b.
func (p *Parser) parsePrint(base ast.BaseStmt) (ast.Statement, error) {
	p.advance()
	stmt := &ast.PrintStmt{BaseStmt: base}
	if p.atStatementEnd() {
		return stmt, nil
	}
	if p.accept(lexer.LParen) {
		args, err := p.parseList(lexer.RParen)
		if err != nil {
			return nil, err
		}
		stmt.Values = args
		return stmt, nil
	}
	for {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, v)
		if !p.accept(lexer.Comma) || p.atStatementEnd() {
			return stmt, nil
		}
	}
}

var augOps = map[lexer.Kind]string{
	lexer.PlusEq:  "+",
	lexer.MinusEq: "-",
	lexer.StarEq:  "*",
	lexer.SlashEq: "/",
}

func (p *Parser) parseExprOrAssign(base ast.BaseStmt) (ast.Statement, error) {
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	op, isAug := augOps[tok.Kind]
	if tok.Kind != lexer.Assign && !isAug {
		return &ast.ExprStmt{BaseStmt: base, Expression: target}, nil
	}
	if !assignable(target) {
		return nil, p.errorf(base.SourcePos, "invalid assignment target")
	}
	p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if isAug {
		return &ast.AugAssignStmt{BaseStmt: base, Target: target, Op: op, Value: value}, nil
	}
	return &ast.AssignStmt{BaseStmt: base, Target: target, Value: value}, nil
}

func assignable(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name != "self"
	case *ast.MemberExpr, *ast.IndexExpr:
		return true
	}
	return false
}
