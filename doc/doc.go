// Package doc extracts documentation from Harbor source files.
//
// Declarations come from the parsed program; comments come from the raw
// source, since the lexer discards them. Consecutive # lines immediately
// before a declaration, method or route (no blank line gap) are attached as
// its doc comment.
package doc

import (
	"fmt"
	"os"
	"strings"

	"github.com/harborlang/harbor/ast"
	"github.com/harborlang/harbor/parser"
)

// DeclKind distinguishes the documented declarations.
type DeclKind int

const (
	Func DeclKind = iota
	Class
)

// FileDoc holds all extracted documentation for a single Harbor file.
type FileDoc struct {
	Path    string
	Doc     string // file-level doc (first # block, unless it documents a declaration)
	Decls   []Decl
	Servers []ServerDoc
}

// Decl describes a top-level function or class.
type Decl struct {
	Kind     DeclKind
	Name     string
	Params   []string
	Exported bool
	Doc      string
	Line     int    // 1-based line of the declaration
	Methods  []Decl // classes only
}

// ServerDoc describes a server block and its routes.
type ServerDoc struct {
	Port   string
	Line   int
	Routes []RouteDoc
}

// RouteDoc describes one route handler.
type RouteDoc struct {
	Method string
	Path   string
	Doc    string
	Line   int
}

// ExtractFile reads a Harbor file and extracts its documentation.
func ExtractFile(path string) (*FileDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Extract(string(data), path)
}

// Extract parses src and returns its documentation. Parse errors are
// returned unchanged.
func Extract(src, path string) (*FileDoc, error) {
	prog, err := parser.ParseSource(path, src)
	if err != nil {
		return nil, err
	}
	c := comments(strings.Split(src, "\n"))
	fd := &FileDoc{Path: path}

	declLines := make(map[int]bool)
	for _, s := range prog.Statements {
		exported := false
		if ex, ok := s.(*ast.ExportStmt); ok {
			exported = true
			s = ex.Decl
		}
		line := s.Pos().Line
		switch s := s.(type) {
		case *ast.FuncDef:
			declLines[line] = true
			fd.Decls = append(fd.Decls, Decl{
				Kind:     Func,
				Name:     s.Name,
				Params:   s.Params,
				Exported: exported,
				Doc:      c.above(line),
				Line:     line,
			})
		case *ast.ClassDef:
			declLines[line] = true
			d := Decl{Kind: Class, Name: s.Name, Exported: exported, Doc: c.above(line), Line: line}
			for _, m := range s.Methods {
				ml := m.Pos().Line
				d.Methods = append(d.Methods, Decl{Kind: Func, Name: m.Name, Params: m.Params, Doc: c.above(ml), Line: ml})
			}
			fd.Decls = append(fd.Decls, d)
		case *ast.ServerStmt:
			sd := ServerDoc{Port: portText(s.Port), Line: line}
			for _, r := range s.Routes {
				sd.Routes = append(sd.Routes, RouteDoc{Method: r.Method, Path: r.Path, Doc: c.above(r.Pos.Line), Line: r.Pos.Line})
			}
			fd.Servers = append(fd.Servers, sd)
		}
	}

	// The first comment block documents the file unless it sits directly
	// on top of a declaration.
	if c.first != nil && !(c.first.end+1 == c.firstCode && declLines[c.firstCode]) {
		fd.Doc = c.first.text
	}
	return fd, nil
}

type commentBlock struct {
	end  int // line of the last # line
	text string
}

type commentIndex struct {
	byEnd     map[int]*commentBlock
	first     *commentBlock // first block before any code
	firstCode int
}

// comments indexes the runs of # lines in lines by the line they end on.
func comments(lines []string) *commentIndex {
	idx := &commentIndex{byEnd: make(map[int]*commentBlock)}
	var block []string
	flush := func(end int) {
		if len(block) == 0 {
			return
		}
		b := &commentBlock{end: end, text: strings.Join(block, "\n")}
		idx.byEnd[end] = b
		if idx.firstCode == 0 && idx.first == nil {
			idx.first = b
		}
		block = nil
	}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			block = append(block, strings.TrimPrefix(trimmed[1:], " "))
		case trimmed == "":
			flush(i)
		default:
			flush(i)
			if idx.firstCode == 0 {
				idx.firstCode = i + 1
			}
		}
	}
	flush(len(lines))
	return idx
}

// above returns the comment block ending on the line before line.
func (c *commentIndex) above(line int) string {
	if b, ok := c.byEnd[line-1]; ok {
		return b.text
	}
	return ""
}

func portText(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.NumberLit:
		return e.Raw
	case *ast.Ident:
		return e.Name
	}
	return "(expression)"
}

// Lookup finds a declaration by name. "Class.method" selects a method.
func Lookup(fd *FileDoc, name string) (Decl, bool) {
	className, method, isMethod := strings.Cut(name, ".")
	for _, d := range fd.Decls {
		if !isMethod {
			if d.Name == name {
				return d, true
			}
			continue
		}
		if d.Kind != Class || d.Name != className {
			continue
		}
		for _, m := range d.Methods {
			if m.Name == method {
				m.Name = className + "." + m.Name
				return m, true
			}
		}
	}
	return Decl{}, false
}
