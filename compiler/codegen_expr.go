package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harborlang/harbor/ast"
)

// requestMembers maps fields of req inside a route to the Node request.
var requestMembers = map[string]string{
	"path":    "req.url",
	"method":  "req.method",
	"params":  "req.params",
	"body":    "req.body",
	"headers": "req.headers",
	"header":  "req.headers",
	"query":   "__query(req)",
}

// responseMembers maps fields of res inside a fetch block.
var responseMembers = map[string]string{
	"status": "res.statusCode",
	"body":   "res.body",
}

func (g *codeGen) expr(e ast.Expr, ctx emitCtx) string {
	switch e := e.(type) {
	case *ast.StringLit:
		return jsQuote(e.Value)
	case *ast.TemplateLit:
		var sb strings.Builder
		sb.WriteByte('`')
		for _, p := range e.Parts {
			switch p := p.(type) {
			case *ast.TextPart:
				sb.WriteString(templateText(p.Text))
			case *ast.ExprPart:
				sb.WriteString("${")
				sb.WriteString(g.expr(p.Expr, ctx))
				sb.WriteByte('}')
			}
		}
		sb.WriteByte('`')
		return sb.String()
	case *ast.NumberLit:
		return formatNumber(e.Value)
	case *ast.BoolLit:
		return strconv.FormatBool(e.Value)
	case *ast.NoneLit:
		return "null"
	case *ast.Ident:
		if e.Name == "self" && ctx.instance {
			return "this"
		}
		return jsName(e.Name)
	case *ast.MemberExpr:
		return g.member(e, ctx)
	case *ast.IndexExpr:
		obj := g.expr(e.Object, ctx)
		if isRequestHeaders(e.Object, ctx) {
			if key, ok := e.Index.(*ast.StringLit); ok {
				return obj + "[" + jsQuote(strings.ToLower(key.Value)) + "]"
			}
			return obj + "[String(" + g.expr(e.Index, ctx) + ").toLowerCase()]"
		}
		return obj + "[" + g.expr(e.Index, ctx) + "]"
	case *ast.ObjectLit:
		if len(e.Fields) == 0 {
			return "{}"
		}
		fields := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = jsQuote(f.Key) + ": " + g.expr(f.Value, ctx)
		}
		return "{" + strings.Join(fields, ", ") + "}"
	case *ast.ArrayLit:
		return "[" + g.exprList(e.Elements, ctx) + "]"
	case *ast.BinaryExpr:
		return g.binary(e, ctx)
	case *ast.UnaryExpr:
		operand := g.expr(e.Operand, ctx)
		if e.Op == "not" {
			return "(!" + operand + ")"
		}
		return "(" + e.Op + operand + ")"
	case *ast.CallExpr:
		args := g.exprList(e.Args, ctx)
		callee := g.expr(e.Func, ctx)
		if id, ok := e.Func.(*ast.Ident); ok && isConstructorName(id.Name) {
			return "new " + callee + "(" + args + ")"
		}
		if ctx.constructor {
			return callee + "(" + args + ")"
		}
		return "(await " + callee + "(" + args + "))"
	}
	panic(fmt.Sprintf("compiler: unexpected expression %T", e))
}

func (g *codeGen) exprList(list []ast.Expr, ctx emitCtx) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = g.expr(e, ctx)
	}
	return strings.Join(parts, ", ")
}

func (g *codeGen) member(e *ast.MemberExpr, ctx emitCtx) string {
	if id, ok := e.Object.(*ast.Ident); ok {
		switch {
		case id.Name == "req" && ctx.request:
			if js, ok := requestMembers[e.Field]; ok {
				return js
			}
		case id.Name == "res" && ctx.response:
			if js, ok := responseMembers[e.Field]; ok {
				return js
			}
		}
	}
	obj := g.expr(e.Object, ctx)
	if isRequestHeaders(e.Object, ctx) {
		key := strings.ReplaceAll(strings.ToLower(e.Field), "_", "-")
		return obj + "[" + jsQuote(key) + "]"
	}
	if isJSIdent(e.Field) {
		return obj + "." + e.Field
	}
	return obj + "[" + jsQuote(e.Field) + "]"
}

// isRequestHeaders reports whether e is req.headers (or req.header) inside a
// route, where header names are matched case-insensitively.
func isRequestHeaders(e ast.Expr, ctx emitCtx) bool {
	if !ctx.request {
		return false
	}
	m, ok := e.(*ast.MemberExpr)
	if !ok || (m.Field != "headers" && m.Field != "header") {
		return false
	}
	id, ok := m.Object.(*ast.Ident)
	return ok && id.Name == "req"
}

func (g *codeGen) binary(e *ast.BinaryExpr, ctx emitCtx) string {
	l, r := g.expr(e.Left, ctx), g.expr(e.Right, ctx)
	switch e.Op {
	case "and":
		return "(" + l + " && " + r + ")"
	case "or":
		return "(" + l + " || " + r + ")"
	case "==":
		return "(" + l + " === " + r + ")"
	case "!=":
		return "(" + l + " !== " + r + ")"
	case "in":
		return "__contains(" + r + ", " + l + ")"
	case "not in":
		return "!__contains(" + r + ", " + l + ")"
	case "**":
		return "Math.pow(" + l + ", " + r + ")"
	case "//":
		return "Math.floor(" + l + " / " + r + ")"
	}
	return "(" + l + " " + e.Op + " " + r + ")"
}

// isConstructorName reports whether a call to name constructs an instance.
// Any name starting with an upper-case letter is taken to be a class.
func isConstructorName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// formatNumber renders v without a fractional part when it is integral.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
