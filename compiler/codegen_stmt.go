package compiler

import (
	"fmt"
	"strings"

	"github.com/harborlang/harbor/ast"
)

func (g *codeGen) writeStmts(stmts []ast.Statement, ctx emitCtx) {
	for _, s := range stmts {
		g.writeStmt(s, ctx)
	}
}

// writeBlock writes stmts one level deeper than the current line.
func (g *codeGen) writeBlock(stmts []ast.Statement, ctx emitCtx) {
	g.w.Indent()
	g.writeStmts(stmts, ctx)
	g.w.Dedent()
}

func (g *codeGen) writeStmt(s ast.Statement, ctx emitCtx) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		g.writeAssign(s, ctx)
	case *ast.AugAssignStmt:
		g.w.Linef("%s %s= %s;", g.expr(s.Target, ctx), s.Op, g.expr(s.Value, ctx))
	case *ast.ExprStmt:
		g.w.Linef("%s;", g.expr(s.Expression, ctx))
	case *ast.PrintStmt:
		g.w.Linef("console.log(%s);", g.exprList(s.Values, ctx))
	case *ast.PassStmt:
		g.w.Line("/* pass */")
	case *ast.IfStmt:
		g.writeIf(s, ctx)
	case *ast.ForStmt:
		g.w.Linef("for (var %s of __iter(%s)) {", jsName(s.Var), g.expr(s.Iterable, ctx))
		g.writeBlock(s.Body, ctx)
		g.w.Line("}")
	case *ast.WhileStmt:
		g.w.Linef("while (%s) {", g.expr(s.Condition, ctx))
		g.writeBlock(s.Body, ctx)
		g.w.Line("}")
	case *ast.BreakStmt:
		g.w.Line("break;")
	case *ast.ContinueStmt:
		g.w.Line("continue;")
	case *ast.FuncDef:
		g.writeFunc(s, ctx)
	case *ast.ReturnStmt:
		if s.Value == nil {
			g.w.Line("return;")
		} else {
			g.w.Linef("return %s;", g.expr(s.Value, ctx))
		}
	case *ast.ClassDef:
		g.writeClass(s, ctx)
	case *ast.TryStmt:
		g.writeTry(s, ctx)
	case *ast.ImportStmt:
		if s.Alias == "" {
			g.w.Linef("require(%s);", jsQuote(modulePath(s.Path)))
		} else {
			g.w.Linef("const %s = require(%s);", jsName(s.Alias), jsQuote(modulePath(s.Path)))
		}
	case *ast.FromImportStmt:
		names := make([]string, len(s.Names))
		for i, n := range s.Names {
			names[i] = jsName(n)
		}
		g.w.Linef("const { %s } = require(%s);", strings.Join(names, ", "), jsQuote(modulePath(s.Path)))
	case *ast.ExportStmt:
		g.writeStmt(s.Decl, ctx)
		if name := s.ExportedName(); name != "" {
			g.w.Linef("module.exports.%s = %s;", name, jsName(name))
		}
	case *ast.ServerStmt:
		g.writeServer(s, ctx)
	case *ast.RespondStmt:
		status := "null"
		if s.Status != 0 {
			status = fmt.Sprint(s.Status)
		}
		g.w.Linef("__respond(__res, %s, %s);", status, g.expr(s.Value, ctx))
		g.w.Line("return;")
	case *ast.FetchStmt:
		inner := ctx
		inner.response = true
		if ctx.constructor {
			// A constructor cannot await; the body runs once the response arrives.
			inner.constructor = false
			g.w.Linef("fetchJson(%s).then(async (res) => {", g.expr(s.URL, ctx))
			g.w.Indent()
			g.writeStmts(s.Body, inner)
			g.w.Dedent()
			g.w.Line("});")
			break
		}
		g.w.Line("{")
		g.w.Indent()
		g.w.Linef("const res = await fetchJson(%s);", g.expr(s.URL, ctx))
		g.writeStmts(s.Body, inner)
		g.w.Dedent()
		g.w.Line("}")
	default:
		panic(fmt.Sprintf("compiler: unexpected statement %T", s))
	}
}

func (g *codeGen) writeAssign(a *ast.AssignStmt, ctx emitCtx) {
	value := g.expr(a.Value, ctx)
	if id, ok := a.Target.(*ast.Ident); ok {
		g.w.Linef("var %s = %s;", jsName(id.Name), value)
		return
	}
	g.w.Linef("%s = %s;", g.expr(a.Target, ctx), value)
}

func (g *codeGen) writeIf(s *ast.IfStmt, ctx emitCtx) {
	g.w.Linef("if (%s) {", g.expr(s.Condition, ctx))
	g.writeBlock(s.Body, ctx)
	for _, c := range s.ElifClauses {
		g.w.Linef("} else if (%s) {", g.expr(c.Condition, ctx))
		g.writeBlock(c.Body, ctx)
	}
	if s.ElseBody != nil {
		g.w.Line("} else {")
		g.writeBlock(s.ElseBody, ctx)
	}
	g.w.Line("}")
}

func params(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = jsName(n)
	}
	return strings.Join(out, ", ")
}

// writeFunc emits a free function. Its body keeps the request and response
// bindings of the enclosing code but not the method receiver.
func (g *codeGen) writeFunc(f *ast.FuncDef, ctx emitCtx) {
	inner := ctx
	inner.instance = false
	inner.constructor = false
	g.w.Linef("async function %s(%s) {", jsName(f.Name), params(f.Params))
	g.writeBlock(f.Body, inner)
	g.w.Line("}")
}

func (g *codeGen) writeClass(c *ast.ClassDef, ctx emitCtx) {
	g.w.Linef("class %s {", jsName(c.Name))
	g.w.Indent()
	for i, m := range c.Methods {
		if i > 0 {
			g.w.Line("")
		}
		inner := ctx
		inner.instance = true
		inner.constructor = m.Name == "init"
		if inner.constructor {
			g.w.Linef("constructor(%s) {", params(m.Params))
		} else {
			g.w.Linef("async %s(%s) {", m.Name, params(m.Params))
		}
		g.writeBlock(m.Body, inner)
		g.w.Line("}")
	}
	g.w.Dedent()
	g.w.Line("}")
}

func (g *codeGen) writeTry(t *ast.TryStmt, ctx emitCtx) {
	errVar := "_err"
	if t.ErrVar != "" {
		errVar = jsName(t.ErrVar)
	}
	g.w.Line("try {")
	g.writeBlock(t.Body, ctx)
	g.w.Linef("} catch (%s) {", errVar)
	g.writeBlock(t.Handler, ctx)
	g.w.Line("}")
}

// modulePath maps an imported Harbor source to its compiled file.
func modulePath(p string) string {
	if stem, ok := strings.CutSuffix(p, ".hb"); ok {
		return stem + ".js"
	}
	return p
}
