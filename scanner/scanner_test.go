package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInString(t *testing.T) {
	src := `a "b#" 'c\'d' e`
	var code []byte
	sc := New(src)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InCode() {
			code = append(code, ch)
		}
	}
	assert.Equal(t, "a   e", string(code))
}

func TestComments(t *testing.T) {
	src := "x = 1 # set (x\ny = \"#\" # (\n"
	sc := New(src)
	var comment []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InComment() {
			comment = append(comment, ch)
		}
	}
	assert.Equal(t, "# set (x# (", string(comment))
	assert.Equal(t, 3, sc.Line())
}

func TestStringEndsAtNewline(t *testing.T) {
	sc := New("'open\n(")
	var last byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		last = ch
	}
	assert.Equal(t, byte('('), last)
	assert.True(t, sc.InCode())
}

func TestDepth(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"", 0},
		{"f(a, [1, 2])", 0},
		{"x = [1,", 1},
		{"x = {\"a\": f(", 2},
		{"s = \"(\"", 0},
		{"s = ')' # ([{", 0},
		{"]", -1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, Depth(tt.src))
		})
	}
}

func TestCodeLines(t *testing.T) {
	got := CodeLines("if x: # check\n    y = \"#1\"  \n")
	assert.Equal(t, []string{"if x:", "    y = \"#1\"", ""}, got)
}

func TestNeedsMore(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"simple statement", "print(1)\n", false},
		{"open bracket", "x = [1,\n", true},
		{"closed bracket", "x = [1,\n2]\n", false},
		{"block header", "if x:\n", true},
		{"block header with comment", "def f(): # todo\n", true},
		{"block body", "if x:\n    print(1)\n", true},
		{"block closed by blank line", "if x:\n    print(1)\n\n", false},
		{"inline block", "if x: print(1)\n", false},
		{"colon in string", "x = \"a:\"\n", false},
		{"colon in object", "x = {\"a\": 1}\n", false},
		{"open brace block", "server 8080 {\n", true},
		{"unbalanced closer", ")\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsMore(tt.src))
		})
	}
}
