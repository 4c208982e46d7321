package compiler

import (
	_ "embed"
	"strings"

	"github.com/harborlang/harbor/ast"
)

//go:embed templates/prelude.js
var prelude string

// emitCtx records which implicit bindings are in scope where code is being
// emitted. It is passed by value so a nested construct can extend it without
// affecting its siblings.
type emitCtx struct {
	request     bool // route body: req is the incoming request
	response    bool // fetch body: res is the fetched response
	instance    bool // method body: self is this
	constructor bool // init body: calls cannot be awaited
}

// codeGen generates JavaScript from a Harbor syntax tree.
type codeGen struct {
	w jsWriter
	// route match variable names already used by the current server
	matchNames map[string]bool
}

// Generate returns the JavaScript program for prog: the runtime prelude
// followed by every top-level statement inside an async entry point. An
// uncaught rejection is printed and exits the process with status 1.
//
// Generate does not modify prog and its output depends only on prog.
func Generate(prog *ast.Program) string {
	g := &codeGen{}
	g.w.Raw(prelude)
	g.w.Line("(async () => {")
	g.w.Indent()
	g.writeStmts(prog.Statements, emitCtx{})
	g.w.Dedent()
	g.w.Line("})().catch((err) => {")
	g.w.Indent()
	g.w.Line("console.error(err);")
	g.w.Line("process.exit(1);")
	g.w.Dedent()
	g.w.Line("});")
	return g.w.String()
}

// GenerateStatements emits stmts as they would appear at the top level of
// a program, without the prelude or the entry point.
func GenerateStatements(stmts []ast.Statement) string {
	g := &codeGen{}
	g.writeStmts(stmts, emitCtx{})
	return g.w.String()
}

// Prelude returns the runtime support code emitted ahead of every program.
func Prelude() string { return prelude }

// jsReserved lists words that cannot name a JavaScript binding, including
// those reserved only in strict code such as class bodies.
var jsReserved = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// jsName maps a Harbor identifier to a JavaScript binding name.
func jsName(name string) string {
	if jsReserved[name] {
		return name + "_"
	}
	return name
}

// isJSIdent reports whether s can follow a '.' in a property access.
func isJSIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// jsQuote renders Harbor string contents as a double-quoted JavaScript
// string. Backslash escapes are kept as written.
func jsQuote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 < len(s) {
				sb.WriteByte(c)
				i++
				sb.WriteByte(s[i])
			} else {
				sb.WriteString(`\\`)
			}
		case '"':
			sb.WriteString(`\"`)
		case '\r':
			sb.WriteString(`\r`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// templateText escapes literal template text for use between backticks.
func templateText(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			sb.WriteByte(c)
			i++
			sb.WriteByte(s[i])
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '`':
			sb.WriteString("\\`")
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			sb.WriteString(`\$`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
