package diag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/token"
)

func TestErrorString(t *testing.T) {
	pos := token.Position{Filename: "app.hb", Line: 3, Column: 7}
	err := Errorf(Syntax, pos, "expected %s, found %s", "')'", "end of file")
	assert.Equal(t, "app.hb:3:7: syntax error: expected ')', found end of file", err.Error())

	lex := Errorf(Lexical, token.Position{Line: 1, Column: 1}, "unexpected character '$'")
	assert.Equal(t, "1:1: lexical error: unexpected character '$'", lex.Error())
}

func TestAsUnwraps(t *testing.T) {
	inner := Errorf(Lexical, token.Position{Filename: "x.hb", Line: 2, Column: 1}, "boom")
	wrapped := fmt.Errorf("compiling x.hb: %w", inner)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, Lexical, got.Kind)
	assert.Equal(t, 2, got.Pos.Line)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
