// Package parser builds Harbor syntax trees from the lexer's token stream.
//
// The parser is hand-written recursive descent. Tokens are pulled from the
// lexer only as lookahead requires. The first error ends the parse.
package parser

import (
	"fmt"
	"os"

	"github.com/harborlang/harbor/ast"
	"github.com/harborlang/harbor/diag"
	"github.com/harborlang/harbor/lexer"
	"modernc.org/token"
)

// defaultPort is used by a server block that names no port.
const defaultPort = 8080

// Parser holds the state of one parse.
type Parser struct {
	lex    *lexer.Lexer
	buf    []lexer.Token
	lexErr error

	inClass bool // the next def is a method
}

// New returns a parser reading from l.
func New(l *lexer.Lexer) *Parser {
	return &Parser{lex: l}
}

// ParseFile reads and parses a Harbor source file.
func ParseFile(filename string) (*ast.Program, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return ParseSource(filename, string(src))
}

// ParseSource parses src. The name is used in positions.
func ParseSource(name, src string) (*ast.Program, error) {
	p := New(lexer.New(name, src))
	stmts, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	prog := &ast.Program{Statements: stmts, SourceFile: name}
	if err := ast.StructuralChecks.Run(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// ParseExpr parses text as a single expression, with positions starting at
// pos. Template expressions are parsed this way.
func ParseExpr(pos token.Position, text string) (ast.Expr, error) {
	p := New(lexer.NewAt(pos, text))
	p.skip(lexer.Indent, lexer.Newline)
	if p.at(lexer.EOF) {
		return nil, p.errorf(pos, "empty expression in template")
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skip(lexer.Newline, lexer.Dedent)
	if !p.at(lexer.EOF) || p.lexErr != nil {
		return nil, p.unexpected(p.peek(), "end of template expression")
	}
	return e, nil
}

func (p *Parser) parseProgram() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		p.skip(lexer.Newline, lexer.Indent, lexer.Dedent)
		if p.at(lexer.EOF) {
			if p.lexErr != nil {
				return nil, p.lexErr
			}
			return stmts, nil
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
}

// --- token buffer ---

// fill makes sure at least n tokens are buffered. Once the lexer fails,
// an EOF token carrying the error position stands in for the rest of the
// stream and lexErr is reported by the next unexpected-token error.
func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		if p.lexErr != nil {
			p.buf = append(p.buf, p.errToken())
			continue
		}
		tok, err := p.lex.Next()
		if err != nil {
			p.lexErr = err
			tok = p.errToken()
		}
		p.buf = append(p.buf, tok)
	}
}

func (p *Parser) errToken() lexer.Token {
	tok := lexer.Token{Kind: lexer.EOF}
	if de, ok := diag.As(p.lexErr); ok {
		tok.Pos = de.Pos
	}
	return tok
}

func (p *Parser) peek() lexer.Token {
	p.fill(1)
	return p.buf[0]
}

// peekAt returns the token i positions after the next one.
func (p *Parser) peekAt(i int) lexer.Token {
	p.fill(i + 1)
	return p.buf[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if tok.Kind != lexer.EOF {
		p.buf = p.buf[1:]
	}
	return tok
}

func (p *Parser) at(kinds ...lexer.Kind) bool {
	k := p.peek().Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// accept consumes the next token if it has kind k.
func (p *Parser) accept(k lexer.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) skip(kinds ...lexer.Kind) {
	for p.at(kinds...) && !p.at(lexer.EOF) {
		p.advance()
	}
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	tok := p.peek()
	if tok.Kind != k {
		return tok, p.unexpected(tok, k.String())
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (string, error) {
	tok, err := p.expect(lexer.Ident)
	return tok.Text, err
}

// --- errors ---

func (p *Parser) errorf(pos token.Position, format string, args ...any) error {
	if p.lexErr != nil {
		return p.lexErr
	}
	return diag.Errorf(diag.Syntax, pos, format, args...)
}

// unexpected reports tok where want was required. A pending lexical error
// takes precedence, since the parser only reaches it through the stand-in
// EOF token.
func (p *Parser) unexpected(tok lexer.Token, want string) error {
	return p.errorf(tok.Pos, "expected %s, found %s", want, tok.Describe())
}
