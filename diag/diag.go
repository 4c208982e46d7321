// Package diag defines the positioned errors reported by the Harbor lexer
// and parser. A compilation stops at the first one.
package diag

import (
	"errors"
	"fmt"

	"modernc.org/token"
)

// Kind classifies a compile error.
type Kind int

const (
	// Lexical errors come from the lexer: a character that cannot start a
	// token, or a punctuation mark that has a keyword spelling instead.
	Lexical Kind = iota
	// Syntax errors come from the parser: an unexpected token, an invalid
	// assignment target, or a malformed server/route/respond construct.
	Syntax
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntax:
		return "syntax error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a compile error with its source position.
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
}

// Errorf builds an Error of the given kind.
func Errorf(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// As returns the *Error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
