// Package lexer turns Harbor source text into tokens.
//
// Indentation is significant outside brackets: the lexer keeps a stack of
// indentation widths and synthesizes Indent, Dedent and Newline tokens.
// Inside (), [] or {} newlines are ignored, which lets literals and argument
// lists span lines. Tokens are produced on demand by Next.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harborlang/harbor/diag"
	"modernc.org/token"
)

const eof = -1

// tabWidth is the indentation width of a tab character.
const tabWidth = 4

// Lexer scans one source text.
type Lexer struct {
	src      string
	filename string
	base     int // byte offset of src within the enclosing file
	off      int // byte offset of the next rune in src
	line     int
	col      int

	indents   []int
	pending   []Token
	paren     int
	bracket   int
	brace     int
	lineStart bool
}

// New returns a lexer for src. filename is only used in positions.
func New(filename, src string) *Lexer {
	return &Lexer{
		src:       src,
		filename:  filename,
		line:      1,
		col:       1,
		indents:   []int{0},
		lineStart: true,
	}
}

// NewAt returns a lexer for a fragment of a larger file that starts at pos.
// Template expressions are lexed this way so errors point into the file.
func NewAt(pos token.Position, src string) *Lexer {
	l := New(pos.Filename, src)
	if pos.IsValid() {
		l.base = pos.Offset
		l.line = pos.Line
		l.col = pos.Column
	}
	return l
}

// Tokenize lexes the whole of src.
func Tokenize(filename, src string) ([]Token, error) {
	l := New(filename, src)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token. After the end of input it keeps returning
// EOF. Errors are *diag.Error values of kind diag.Lexical.
func (l *Lexer) Next() (Token, error) {
	if tok, ok := l.popPending(); ok {
		return tok, nil
	}
	if l.lineStart && !l.inBrackets() {
		l.lineStart = false
		if tok, ok := l.indentation(); ok {
			return tok, nil
		}
		if tok, ok := l.popPending(); ok {
			return tok, nil
		}
	}
	return l.scan()
}

func (l *Lexer) popPending() (Token, bool) {
	if len(l.pending) == 0 {
		return Token{}, false
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, true
}

func (l *Lexer) inBrackets() bool {
	return l.paren > 0 || l.bracket > 0 || l.brace > 0
}

// indentation measures the first non-blank line from the current position
// and compares it with the stack. An increase yields an Indent; a decrease
// queues one Dedent per popped level. A width that falls between two levels
// collapses to the enclosing one.
func (l *Lexer) indentation() (Token, bool) {
	var width int
	for {
		width = 0
		for {
			r := l.peek()
			if r == ' ' {
				width++
			} else if r == '\t' {
				width += tabWidth
			} else {
				break
			}
			l.advance()
		}
		r := l.peek()
		if r == '\n' {
			l.advance()
			continue
		}
		if r == '\r' && l.peekNext() == '\n' {
			l.advance()
			l.advance()
			continue
		}
		if r == '#' {
			l.skipComment()
			if l.peek() == '\n' {
				l.advance()
				continue
			}
			width = 0
		}
		if r == eof {
			width = 0
		}
		break
	}

	pos := l.pos()
	top := l.indents[len(l.indents)-1]
	if width > top {
		l.indents = append(l.indents, width)
		return Token{Kind: Indent, Pos: pos}, true
	}
	for len(l.indents) > 1 && width < l.indents[len(l.indents)-1] {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, Token{Kind: Dedent, Pos: pos})
	}
	return Token{}, false
}

func (l *Lexer) scan() (Token, error) {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
			continue
		case '#':
			l.skipComment()
			continue
		case '\n':
			pos := l.pos()
			l.advance()
			if l.inBrackets() {
				continue
			}
			l.lineStart = true
			return Token{Kind: Newline, Text: "\n", Pos: pos}, nil
		}
		break
	}

	pos := l.pos()
	r := l.peek()
	switch {
	case r == eof:
		for len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, Token{Kind: Dedent, Pos: pos})
		}
		l.pending = append(l.pending, Token{Kind: EOF, Pos: pos})
		tok, _ := l.popPending()
		return tok, nil
	case r == '"' || r == '\'':
		return l.scanString(pos), nil
	case isIdentStart(r):
		return l.scanIdent(pos), nil
	case isDigit(r):
		return l.scanNumber(pos)
	}
	return l.scanOperator(pos)
}

func (l *Lexer) scanOperator(pos token.Position) (Token, error) {
	r := l.advance()
	op := func(k Kind, text string) (Token, error) {
		return Token{Kind: k, Text: text, Pos: pos}, nil
	}
	// with2 consumes a second character when it matches next.
	with2 := func(next rune, two Kind, twoText string, one Kind, oneText string) (Token, error) {
		if l.peek() == next {
			l.advance()
			return op(two, twoText)
		}
		return op(one, oneText)
	}

	switch r {
	case '=':
		return with2('=', Eq, "==", Assign, "=")
	case '!':
		if l.peek() == '=' {
			l.advance()
			return op(NotEq, "!=")
		}
		return Token{}, diag.Errorf(diag.Lexical, pos, "use 'not' instead of '!'")
	case '+':
		return with2('=', PlusEq, "+=", Plus, "+")
	case '-':
		return with2('=', MinusEq, "-=", Minus, "-")
	case '*':
		switch l.peek() {
		case '*':
			l.advance()
			return op(Power, "**")
		case '=':
			l.advance()
			return op(StarEq, "*=")
		}
		return op(Star, "*")
	case '/':
		switch l.peek() {
		case '/':
			l.advance()
			return op(FloorDiv, "//")
		case '=':
			l.advance()
			return op(SlashEq, "/=")
		}
		return op(Slash, "/")
	case '%':
		return op(Percent, "%")
	case '<':
		return with2('=', LessEq, "<=", Less, "<")
	case '>':
		return with2('=', GreaterEq, ">=", Greater, ">")
	case '.':
		return op(Dot, ".")
	case ':':
		return op(Colon, ":")
	case ',':
		return op(Comma, ",")
	case '(':
		l.paren++
		return op(LParen, "(")
	case ')':
		l.paren = max(l.paren-1, 0)
		return op(RParen, ")")
	case '[':
		l.bracket++
		return op(LBracket, "[")
	case ']':
		l.bracket = max(l.bracket-1, 0)
		return op(RBracket, "]")
	case '{':
		l.brace++
		return op(LBrace, "{")
	case '}':
		l.brace = max(l.brace-1, 0)
		return op(RBrace, "}")
	}
	return Token{}, diag.Errorf(diag.Lexical, pos, "unexpected character %q", r)
}

// scanString reads a quoted string. Escapes are not interpreted: a
// backslash and the character after it are kept as written. An unterminated
// string ends at the end of the line.
func (l *Lexer) scanString(pos token.Position) Token {
	quote := l.advance()
	var sb strings.Builder
	for {
		r := l.peek()
		if r == eof || r == '\n' {
			break
		}
		if r == quote {
			l.advance()
			break
		}
		if r == '\\' {
			sb.WriteRune(l.advance())
			if l.peek() != eof {
				sb.WriteRune(l.advance())
			}
			continue
		}
		sb.WriteRune(l.advance())
	}
	return Token{Kind: String, Text: sb.String(), Pos: pos}
}

// scanTemplate reads f"..." after the f. Literal text and the raw source of
// each {expression} become separate segments; {{ and }} are literal braces.
func (l *Lexer) scanTemplate(pos token.Position, start int) Token {
	quote := l.advance()
	var parts []Segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, Segment{Text: lit.String()})
			lit.Reset()
		}
	}

	for {
		r := l.peek()
		if r == eof || r == '\n' {
			break
		}
		if r == quote {
			l.advance()
			break
		}
		switch r {
		case '\\':
			lit.WriteRune(l.advance())
			if next := l.peek(); next != eof && next != '\n' {
				lit.WriteRune(l.advance())
			}
		case '{':
			l.advance()
			if l.peek() == '{' {
				l.advance()
				lit.WriteByte('{')
				continue
			}
			flush()
			parts = append(parts, l.scanTemplateExpr())
		case '}':
			l.advance()
			if l.peek() == '}' {
				l.advance()
			}
			lit.WriteByte('}')
		default:
			lit.WriteRune(l.advance())
		}
	}
	flush()
	return Token{Kind: Template, Text: l.src[start:l.off], Parts: parts, Pos: pos}
}

// scanTemplateExpr collects expression text up to the brace that closes
// the one already consumed, counting nested braces.
func (l *Lexer) scanTemplateExpr() Segment {
	seg := Segment{Expr: true, Pos: l.pos()}
	var sb strings.Builder
	depth := 1
	for {
		r := l.peek()
		if r == eof || r == '\n' {
			break
		}
		if r == '{' {
			depth++
		} else if r == '}' {
			depth--
			if depth == 0 {
				l.advance()
				break
			}
		}
		sb.WriteRune(l.advance())
	}
	seg.Text = sb.String()
	return seg
}

func (l *Lexer) scanIdent(pos token.Position) Token {
	start := l.off
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := l.src[start:l.off]
	if text == "f" && (l.peek() == '"' || l.peek() == '\'') {
		return l.scanTemplate(pos, start)
	}
	if k, ok := keywords[text]; ok {
		return Token{Kind: k, Text: text, Pos: pos}
	}
	return Token{Kind: Ident, Text: text, Pos: pos}
}

func (l *Lexer) scanNumber(pos token.Position) (Token, error) {
	start := l.off
	for r := l.peek(); isDigit(r) || r == '.'; r = l.peek() {
		l.advance()
	}
	text := l.src[start:l.off]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, diag.Errorf(diag.Lexical, pos, "malformed number %q", text)
	}
	return Token{Kind: Number, Text: text, Num: n, Pos: pos}, nil
}

func (l *Lexer) skipComment() {
	for r := l.peek(); r != eof && r != '\n'; r = l.peek() {
		l.advance()
	}
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Filename: l.filename,
		Offset:   l.base + l.off,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *Lexer) peek() rune {
	if l.off >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.off >= len(l.src) {
		return eof
	}
	_, size := utf8.DecodeRuneInString(l.src[l.off:])
	if l.off+size >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off+size:])
	return r
}

func (l *Lexer) advance() rune {
	if l.off >= len(l.src) {
		return eof
	}
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }
