package ast

// Inspect traverses the tree rooted at n in source order, calling fn for
// every node. If fn returns false the node's children are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		inspectStmts(n.Statements, fn)
	case *AssignStmt:
		Inspect(n.Target, fn)
		Inspect(n.Value, fn)
	case *AugAssignStmt:
		Inspect(n.Target, fn)
		Inspect(n.Value, fn)
	case *ExprStmt:
		Inspect(n.Expression, fn)
	case *PrintStmt:
		inspectExprs(n.Values, fn)
	case *IfStmt:
		Inspect(n.Condition, fn)
		inspectStmts(n.Body, fn)
		for _, ec := range n.ElifClauses {
			Inspect(ec.Condition, fn)
			inspectStmts(ec.Body, fn)
		}
		inspectStmts(n.ElseBody, fn)
	case *ForStmt:
		Inspect(n.Iterable, fn)
		inspectStmts(n.Body, fn)
	case *WhileStmt:
		Inspect(n.Condition, fn)
		inspectStmts(n.Body, fn)
	case *FuncDef:
		inspectStmts(n.Body, fn)
	case *ReturnStmt:
		if n.Value != nil {
			Inspect(n.Value, fn)
		}
	case *ClassDef:
		for _, m := range n.Methods {
			Inspect(m, fn)
		}
	case *TryStmt:
		inspectStmts(n.Body, fn)
		inspectStmts(n.Handler, fn)
	case *ExportStmt:
		Inspect(n.Decl, fn)
	case *ServerStmt:
		Inspect(n.Port, fn)
		for _, r := range n.Routes {
			Inspect(r, fn)
		}
	case *Route:
		inspectStmts(n.Body, fn)
	case *RespondStmt:
		Inspect(n.Value, fn)
	case *FetchStmt:
		Inspect(n.URL, fn)
		inspectStmts(n.Body, fn)

	case *TemplateLit:
		for _, p := range n.Parts {
			Inspect(p, fn)
		}
	case *ExprPart:
		Inspect(n.Expr, fn)
	case *MemberExpr:
		Inspect(n.Object, fn)
	case *ObjectLit:
		for _, f := range n.Fields {
			Inspect(f.Value, fn)
		}
	case *ArrayLit:
		inspectExprs(n.Elements, fn)
	case *BinaryExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *UnaryExpr:
		Inspect(n.Operand, fn)
	case *IndexExpr:
		Inspect(n.Object, fn)
		Inspect(n.Index, fn)
	case *CallExpr:
		Inspect(n.Func, fn)
		inspectExprs(n.Args, fn)
	}
}

func inspectStmts(stmts []Statement, fn func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, fn)
	}
}

func inspectExprs(exprs []Expr, fn func(Node) bool) {
	for _, e := range exprs {
		Inspect(e, fn)
	}
}
