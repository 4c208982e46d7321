package ast

import (
	"github.com/harborlang/harbor/diag"
)

// Check validates an AST without modifying it.
type Check interface {
	Name() string
	Check(prog *Program) error
}

// CheckChain runs checks in order, stopping at the first error.
type CheckChain []Check

// Run executes each check in sequence. Returns nil if all pass.
func (cc CheckChain) Run(prog *Program) error {
	for _, c := range cc {
		if err := c.Check(prog); err != nil {
			return err
		}
	}
	return nil
}

// StructuralChecks are the grammar rules the parser enforces once the whole
// tree is built.
var StructuralChecks = CheckChain{ExportCheck{}, RespondCheck{}}

// ExportCheck rejects export of anything but a function, a class or an
// assignment to a plain name.
type ExportCheck struct{}

func (ExportCheck) Name() string { return "export" }

func (ExportCheck) Check(prog *Program) error {
	var err error
	Inspect(prog, func(n Node) bool {
		if err != nil {
			return false
		}
		if ex, ok := n.(*ExportStmt); ok && ex.ExportedName() == "" {
			err = diag.Errorf(diag.Syntax, ex.Pos(),
				"only functions, classes and assignments to a name can be exported")
		}
		return err == nil
	})
	return err
}

// RespondCheck rejects status codes outside 100..599.
type RespondCheck struct{}

func (RespondCheck) Name() string { return "respond" }

func (RespondCheck) Check(prog *Program) error {
	var err error
	Inspect(prog, func(n Node) bool {
		if err != nil {
			return false
		}
		if r, ok := n.(*RespondStmt); ok && r.Status != 0 && (r.Status < 100 || r.Status > 599) {
			err = diag.Errorf(diag.Syntax, r.Pos(), "invalid status code %d", r.Status)
		}
		return err == nil
	})
	return err
}
