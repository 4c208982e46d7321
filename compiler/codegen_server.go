package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harborlang/harbor/ast"
)

// writeServer emits an http.createServer call whose handler tests each
// route in declaration order. Routes that do not respond fall through to
// the next match and finally to the 404 fallback.
func (g *codeGen) writeServer(s *ast.ServerStmt, ctx emitCtx) {
	saved := g.matchNames
	g.matchNames = make(map[string]bool)
	defer func() { g.matchNames = saved }()

	g.w.Line("{")
	g.w.Indent()
	g.w.Linef("const __port = %s;", g.expr(s.Port, ctx))
	g.w.Line("http.createServer(async (req, __res) => {")
	g.w.Indent()
	g.w.Line(`const __path = req.url.split("?")[0];`)
	for _, r := range s.Routes {
		g.writeRoute(r, ctx)
	}
	g.w.Line("__res.statusCode = 404;")
	g.w.Line(`__res.end("Not Found");`)
	g.w.Dedent()
	g.w.Line("}).listen(__port, () => {")
	g.w.Indent()
	g.w.Line("console.log(`Harbor server running on http://127.0.0.1:${__port}`);")
	g.w.Dedent()
	g.w.Line("});")
	g.w.Dedent()
	g.w.Line("}")
}

func (g *codeGen) writeRoute(r *ast.Route, ctx emitCtx) {
	match := g.matchName(r)
	g.w.Linef("const %s = __path.match(%s);", match, routePattern(r.Path))
	g.w.Linef("if (%s && req.method === %s) {", match, jsQuote(r.Method))
	g.w.Indent()
	g.w.Line("req.params = {};")
	for i, name := range r.Params() {
		g.w.Linef("req.params[%s] = __param(%s[%d]);", jsQuote(name), match, i+1)
	}
	if r.Method != "GET" {
		g.w.Line("req.body = await parseJsonBody(req);")
	}
	inner := ctx
	inner.request = true
	g.writeStmts(r.Body, inner)
	g.w.Dedent()
	g.w.Line("}")
}

// routePattern compiles a route path to an anchored JavaScript regular
// expression literal. Named segments capture one path segment.
func routePattern(path string) string {
	segs := ast.SplitPath(path)
	if len(segs) == 0 {
		return `/^\/$/`
	}
	var sb strings.Builder
	sb.WriteString("/^")
	for _, seg := range segs {
		sb.WriteString(`\/`)
		if len(seg) > 1 && seg[0] == ast.ParamMarker {
			sb.WriteString(`([^\/]+)`)
			continue
		}
		sb.WriteString(regexp.QuoteMeta(seg))
	}
	sb.WriteString("$/")
	return sb.String()
}

// matchName derives the match variable for r from its method and path,
// adding a numeric suffix when two routes of a server sanitize alike.
func (g *codeGen) matchName(r *ast.Route) string {
	var sb strings.Builder
	for _, seg := range ast.SplitPath(r.Path) {
		if sb.Len() > 0 {
			sb.WriteByte('_')
		}
		for _, c := range strings.TrimPrefix(seg, string(ast.ParamMarker)) {
			if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
				sb.WriteRune(c)
			} else {
				sb.WriteByte('_')
			}
		}
	}
	path := sb.String()
	if path == "" {
		path = "root"
	}
	base := "__match_" + strings.ToLower(r.Method) + "_" + path
	name := base
	for n := 2; g.matchNames[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	g.matchNames[name] = true
	return name
}
