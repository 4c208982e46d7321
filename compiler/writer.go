package compiler

import (
	"fmt"
	"strings"
)

// jsWriter manages indented JavaScript output for the code generator.
type jsWriter struct {
	sb     strings.Builder
	indent int
}

// Line writes s at the current indentation, followed by a newline.
func (w *jsWriter) Line(s string) {
	if s == "" {
		w.sb.WriteByte('\n')
		return
	}
	w.sb.WriteString(strings.Repeat("  ", w.indent))
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// Linef writes a formatted, indented line.
func (w *jsWriter) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Raw writes unindented text directly to the buffer.
func (w *jsWriter) Raw(s string) {
	w.sb.WriteString(s)
}

// Indent increases the indentation level.
func (w *jsWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *jsWriter) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// String returns the accumulated output.
func (w *jsWriter) String() string { return w.sb.String() }
