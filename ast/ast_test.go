package ast

import (
	"testing"

	"github.com/harborlang/harbor/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/token"
)

func TestRouteParams(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", nil},
		{"/users", nil},
		{"/users/:id", []string{"id"}},
		{"/a/:x/b/:y/", []string{"x", "y"}},
		{"/files/:", nil},
	}
	for _, tt := range tests {
		r := &Route{Method: "GET", Path: tt.path}
		assert.Equal(t, tt.want, r.Params(), tt.path)
	}
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"users", ":id"}, SplitPath("/users/:id"))
	assert.Nil(t, SplitPath("/"))
	assert.Equal(t, []string{"a", "b"}, SplitPath("a//b/"))
}

func TestExportedName(t *testing.T) {
	assert.Equal(t, "f", (&ExportStmt{Decl: &FuncDef{Name: "f"}}).ExportedName())
	assert.Equal(t, "Dog", (&ExportStmt{Decl: &ClassDef{Name: "Dog"}}).ExportedName())
	assert.Equal(t, "x", (&ExportStmt{Decl: &AssignStmt{Target: &Ident{Name: "x"}, Value: &NumberLit{Value: 1}}}).ExportedName())
	member := &AssignStmt{Target: &MemberExpr{Object: &Ident{Name: "a"}, Field: "b"}, Value: &NoneLit{}}
	assert.Equal(t, "", (&ExportStmt{Decl: member}).ExportedName())
	assert.Equal(t, "", (&ExportStmt{Decl: &PassStmt{}}).ExportedName())
}

func TestInspectOrder(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&AssignStmt{Target: &Ident{Name: "a"}, Value: &BinaryExpr{Left: &Ident{Name: "b"}, Op: "+", Right: &Ident{Name: "c"}}},
		&ServerStmt{
			Port: &NumberLit{Value: 3000},
			Routes: []*Route{{Method: "GET", Path: "/", Body: []Statement{
				&RespondStmt{Value: &TemplateLit{Parts: []TemplatePart{&TextPart{Text: "hi "}, &ExprPart{Expr: &Ident{Name: "d"}}}}},
			}}},
		},
	}}

	var names []string
	routes := 0
	Inspect(prog, func(n Node) bool {
		switch n := n.(type) {
		case *Ident:
			names = append(names, n.Name)
		case *Route:
			routes++
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.Equal(t, 1, routes)
}

func TestInspectSkipsChildren(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&FuncDef{Name: "f", Body: []Statement{&ExprStmt{Expression: &Ident{Name: "inner"}}}},
		&ExprStmt{Expression: &Ident{Name: "outer"}},
	}}
	var names []string
	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		_, isFunc := n.(*FuncDef)
		return !isFunc
	})
	assert.Equal(t, []string{"outer"}, names)
}

func TestStructuralChecks(t *testing.T) {
	pos := token.Position{Filename: "t.hb", Line: 4, Column: 1}
	bad := &Program{Statements: []Statement{
		&ExportStmt{BaseStmt: BaseStmt{SourcePos: pos}, Decl: &PrintStmt{}},
	}}
	err := StructuralChecks.Run(bad)
	require.Error(t, err)
	de, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.Syntax, de.Kind)
	assert.Equal(t, 4, de.Pos.Line)

	status := &Program{Statements: []Statement{
		&RespondStmt{Status: 42, Value: &StringLit{Value: "x"}},
	}}
	assert.ErrorContains(t, StructuralChecks.Run(status), "invalid status code 42")

	good := &Program{Statements: []Statement{
		&ExportStmt{Decl: &FuncDef{Name: "f"}},
		&RespondStmt{Status: 201, Value: &StringLit{Value: "x"}},
		&RespondStmt{Value: &StringLit{Value: "no status"}},
	}}
	assert.NoError(t, StructuralChecks.Run(good))
}
