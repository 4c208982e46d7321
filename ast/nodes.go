package ast

import "modernc.org/token"

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmt()
	Pos() token.Position
}

// BaseStmt provides the source position shared by all statements.
type BaseStmt struct {
	SourcePos token.Position // position of the statement's first token
}

func (b BaseStmt) Pos() token.Position { return b.SourcePos }

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Program is the root node.
type Program struct {
	Statements []Statement
	SourceFile string // display path of the source file
}

func (p *Program) node() {}

// AssignStmt represents target = value. Target is an *Ident, *MemberExpr
// or *IndexExpr.
type AssignStmt struct {
	BaseStmt
	Target Expr
	Value  Expr
}

func (s *AssignStmt) node() {}
func (s *AssignStmt) stmt() {}

// AugAssignStmt represents target op= value, with Op one of + - * /.
type AugAssignStmt struct {
	BaseStmt
	Target Expr
	Op     string
	Value  Expr
}

func (s *AugAssignStmt) node() {}
func (s *AugAssignStmt) stmt() {}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	BaseStmt
	Expression Expr
}

func (s *ExprStmt) node() {}
func (s *ExprStmt) stmt() {}

// PrintStmt represents print a, b.
type PrintStmt struct {
	BaseStmt
	Values []Expr
}

func (s *PrintStmt) node() {}
func (s *PrintStmt) stmt() {}

// PassStmt is the no-op statement.
type PassStmt struct {
	BaseStmt
}

func (s *PassStmt) node() {}
func (s *PassStmt) stmt() {}

// IfStmt represents if/elif/else. ElseBody is nil when there is no else.
type IfStmt struct {
	BaseStmt
	Condition   Expr
	Body        []Statement
	ElifClauses []ElifClause
	ElseBody    []Statement
}

// ElifClause is one elif branch.
type ElifClause struct {
	Condition Expr
	Body      []Statement
}

func (s *IfStmt) node() {}
func (s *IfStmt) stmt() {}

// ForStmt represents for var in iterable.
type ForStmt struct {
	BaseStmt
	Var      string
	Iterable Expr
	Body     []Statement
}

func (s *ForStmt) node() {}
func (s *ForStmt) stmt() {}

// WhileStmt represents while condition.
type WhileStmt struct {
	BaseStmt
	Condition Expr
	Body      []Statement
}

func (s *WhileStmt) node() {}
func (s *WhileStmt) stmt() {}

type BreakStmt struct {
	BaseStmt
}

func (s *BreakStmt) node() {}
func (s *BreakStmt) stmt() {}

type ContinueStmt struct {
	BaseStmt
}

func (s *ContinueStmt) node() {}
func (s *ContinueStmt) stmt() {}

// FuncDef represents def name(params).
type FuncDef struct {
	BaseStmt
	Name   string
	Params []string
	Body   []Statement
}

func (s *FuncDef) node() {}
func (s *FuncDef) stmt() {}

// ReturnStmt represents return [value]. Value is nil for a bare return.
type ReturnStmt struct {
	BaseStmt
	Value Expr
}

func (s *ReturnStmt) node() {}
func (s *ReturnStmt) stmt() {}

// ClassDef represents class Name with its methods in source order. A
// method named init is the constructor.
type ClassDef struct {
	BaseStmt
	Name    string
	Methods []*FuncDef
}

func (s *ClassDef) node() {}
func (s *ClassDef) stmt() {}

// TryStmt represents try ... except [ErrVar] ....
type TryStmt struct {
	BaseStmt
	Body    []Statement
	ErrVar  string // empty when the error is not bound
	Handler []Statement
}

func (s *TryStmt) node() {}
func (s *TryStmt) stmt() {}

// ImportStmt represents import "path" [as Alias].
type ImportStmt struct {
	BaseStmt
	Path  string
	Alias string
}

func (s *ImportStmt) node() {}
func (s *ImportStmt) stmt() {}

// FromImportStmt represents from "path" import a, b.
type FromImportStmt struct {
	BaseStmt
	Path  string
	Names []string
}

func (s *FromImportStmt) node() {}
func (s *FromImportStmt) stmt() {}

// ExportStmt wraps a function, class or simple assignment whose name is
// published on the module's exports.
type ExportStmt struct {
	BaseStmt
	Decl Statement
}

func (s *ExportStmt) node() {}
func (s *ExportStmt) stmt() {}

// ExportedName returns the name an export publishes, or "" if Decl is not
// exportable.
func (s *ExportStmt) ExportedName() string {
	switch d := s.Decl.(type) {
	case *FuncDef:
		return d.Name
	case *ClassDef:
		return d.Name
	case *AssignStmt:
		if id, ok := d.Target.(*Ident); ok {
			return id.Name
		}
	}
	return ""
}

// ServerStmt declares an HTTP server listening on Port.
type ServerStmt struct {
	BaseStmt
	Port   Expr
	Routes []*Route
}

func (s *ServerStmt) node() {}
func (s *ServerStmt) stmt() {}

// RespondStmt sends Value as the response body. Status is 0 when omitted.
type RespondStmt struct {
	BaseStmt
	Status int
	Value  Expr
}

func (s *RespondStmt) node() {}
func (s *RespondStmt) stmt() {}

// FetchStmt performs a GET request and runs Body with the result bound.
type FetchStmt struct {
	BaseStmt
	URL  Expr
	Body []Statement
}

func (s *FetchStmt) node() {}
func (s *FetchStmt) stmt() {}

// --- Expressions ---

type StringLit struct {
	Value string // contents as written, escapes included
}

func (e *StringLit) node() {}
func (e *StringLit) expr() {}

// TemplatePart is a piece of an f-string: *TextPart or *ExprPart.
type TemplatePart interface {
	Node
	templatePart()
}

type TextPart struct {
	Text string
}

func (p *TextPart) node()         {}
func (p *TextPart) templatePart() {}

type ExprPart struct {
	Expr Expr
}

func (p *ExprPart) node()         {}
func (p *ExprPart) templatePart() {}

// TemplateLit represents f"..." with its parts in order.
type TemplateLit struct {
	Parts []TemplatePart
}

func (e *TemplateLit) node() {}
func (e *TemplateLit) expr() {}

type NumberLit struct {
	Value float64
	Raw   string
}

func (e *NumberLit) node() {}
func (e *NumberLit) expr() {}

type BoolLit struct {
	Value bool
}

func (e *BoolLit) node() {}
func (e *BoolLit) expr() {}

type NoneLit struct{}

func (e *NoneLit) node() {}
func (e *NoneLit) expr() {}

// Ident is a name reference. The keyword self is an Ident named "self".
type Ident struct {
	Name string
}

func (e *Ident) node() {}
func (e *Ident) expr() {}

// MemberExpr represents Object.Field.
type MemberExpr struct {
	Object Expr
	Field  string
}

func (e *MemberExpr) node() {}
func (e *MemberExpr) expr() {}

// Field is one key: value pair of an object literal.
type Field struct {
	Key   string
	Value Expr
}

type ObjectLit struct {
	Fields []Field
}

func (e *ObjectLit) node() {}
func (e *ObjectLit) expr() {}

type ArrayLit struct {
	Elements []Expr
}

func (e *ArrayLit) node() {}
func (e *ArrayLit) expr() {}

// BinaryExpr holds the source operator: + - * / % // ** == != < > <= >=
// in, "not in", and, or.
type BinaryExpr struct {
	Left  Expr
	Op    string
	Right Expr
}

func (e *BinaryExpr) node() {}
func (e *BinaryExpr) expr() {}

// UnaryExpr holds "not" or "-".
type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (e *UnaryExpr) node() {}
func (e *UnaryExpr) expr() {}

type IndexExpr struct {
	Object Expr
	Index  Expr
}

func (e *IndexExpr) node() {}
func (e *IndexExpr) expr() {}

type CallExpr struct {
	Func Expr
	Args []Expr
}

func (e *CallExpr) node() {}
func (e *CallExpr) expr() {}

// Route is one handler of a server block.
type Route struct {
	Method string // upper case: GET, POST, PUT, DELETE, PATCH
	Path   string // segments starting with ':' are named captures
	Body   []Statement
	Pos    token.Position
}

func (r *Route) node() {}

// ParamMarker prefixes a named path segment.
const ParamMarker = ':'

// Params returns the names of the path's capture segments in order.
func (r *Route) Params() []string {
	var names []string
	for _, seg := range SplitPath(r.Path) {
		if len(seg) > 1 && seg[0] == ParamMarker {
			names = append(names, seg[1:])
		}
	}
	return names
}

// SplitPath returns the non-empty segments of a route path.
func SplitPath(path string) []string {
	var segs []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				segs = append(segs, path[start:i])
			}
			start = i + 1
		}
	}
	return segs
}
