package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harborlang/harbor/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	return NewSession(&compiler.Compiler{}, &out), &out
}

func TestFeedSingleLine(t *testing.T) {
	s, out := newSession()
	complete, quit := s.Feed("x = 1")
	assert.False(t, quit)
	assert.Equal(t, "x = 1", complete)
	assert.Equal(t, "var x = 1;\n", out.String())
	assert.Equal(t, Prompt, s.Prompt())
}

func TestFeedMultiLineBlock(t *testing.T) {
	s, out := newSession()
	lines := []string{"if x:", "    print(1)"}
	for _, l := range lines {
		complete, _ := s.Feed(l)
		assert.Empty(t, complete)
		assert.True(t, s.Pending())
		assert.Equal(t, ContinuationPrompt, s.Prompt())
	}
	assert.Empty(t, out.String())

	complete, _ := s.Feed("")
	assert.Equal(t, "if x:\n    print(1)", complete)
	assert.Equal(t, "if (x) {\n  console.log(1);\n}\n", out.String())
	assert.False(t, s.Pending())
}

func TestFeedOpenBracket(t *testing.T) {
	s, out := newSession()
	s.Feed("xs = [1,")
	assert.True(t, s.Pending())
	s.Feed("  2]")
	assert.False(t, s.Pending())
	assert.Equal(t, "var xs = [1, 2];\n", out.String())
}

func TestFeedError(t *testing.T) {
	s, out := newSession()
	complete, quit := s.Feed("x = !")
	assert.False(t, quit)
	assert.Equal(t, "x = !", complete)
	assert.True(t, strings.HasPrefix(out.String(), "error: <repl>:1:5:"), out.String())
	assert.Empty(t, s.Source(), "failed input is not kept")
}

func TestFeedQuitAndBlank(t *testing.T) {
	s, out := newSession()
	_, quit := s.Feed("   ")
	assert.False(t, quit)
	_, quit = s.Feed("exit")
	assert.True(t, quit)
	_, quit = s.Feed("quit")
	assert.True(t, quit)
	assert.Empty(t, out.String())
}

func TestCommands(t *testing.T) {
	s, out := newSession()
	s.Feed(":source")
	assert.Equal(t, "(no statements)\n", out.String())

	s.Feed("x = 1")
	s.Feed("print(x)")
	out.Reset()
	s.Feed(":source")
	assert.Equal(t, "x = 1\nprint(x)\n", out.String())

	out.Reset()
	s.Feed(":program")
	assert.Contains(t, out.String(), compiler.Prelude())
	assert.Contains(t, out.String(), "  var x = 1;\n  console.log(x);\n")

	path := filepath.Join(t.TempDir(), "session.hb")
	out.Reset()
	s.Feed(":save " + path)
	assert.Equal(t, "Saved 2 statements to "+path+"\n", out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\nprint(x)\n", string(data))

	out.Reset()
	s.Feed(":clear")
	assert.Equal(t, "Session cleared\n", out.String())
	assert.Empty(t, s.Source())

	out.Reset()
	s.Feed(":save")
	assert.Equal(t, "usage: :save <file>\n", out.String())

	out.Reset()
	s.Feed(":bogus")
	assert.Contains(t, out.String(), "Unknown command: :bogus")

	out.Reset()
	s.Feed(":help")
	assert.Contains(t, out.String(), "REPL Commands:")
}

func TestStartScripted(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("x = 2\ndef f(a):\n    return a * x\nprint(f(3))\n")
	require.NoError(t, Start(in, &out, &compiler.Compiler{}, "v2.0.0"))

	want := "var x = 2;\n" +
		"async function f(a) {\n  return (a * x);\n}\n" +
		"console.log((await f(3)));\n"
	assert.Equal(t, want, out.String())
}

func TestStartScriptedStopsAtExit(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("x = 1\nexit\ny = 2\n")
	require.NoError(t, Start(in, &out, &compiler.Compiler{}, "v2.0.0"))
	assert.Equal(t, "var x = 1;\n", out.String())
}

func TestComplete(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"x = ", nil},
		{"ret", []string{"return", "reversed"}},
		{"x = le", []string{"x = len"}},
		{"print(so", []string{"print(sorted"}},
		{"resp", []string{"respond"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Complete(tt.line))
		})
	}
}
