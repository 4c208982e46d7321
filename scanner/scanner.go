// Package scanner provides string- and comment-aware scanning of Harbor
// source text without tokenizing it. The REPL uses it to decide whether
// the lines typed so far form a complete input.
package scanner

import "strings"

// CodeScanner iterates byte-by-byte over source text, tracking string
// literal boundaries (double- and single-quoted), escape sequences inside
// strings, and # comments that run to the end of the line.
//
// InString() is true for the entire string span including both delimiters.
type CodeScanner struct {
	src       string
	pos       int
	line      int
	quote     byte // open string delimiter, 0 outside strings
	escaped   bool
	closing   bool // the last byte closed a string
	inComment bool
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1, line: 1}
}

// Next advances to the next byte, updating string and comment state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = false
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]
	if ch == '\n' {
		s.line++
		s.inComment = false
		// Strings do not span lines; the lexer reports them as unterminated.
		s.quote = 0
		s.escaped = false
		return ch, true
	}
	if s.inComment {
		return ch, true
	}

	if s.quote != 0 {
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == s.quote:
			s.quote = 0
			s.closing = true
		}
		return ch, true
	}

	switch ch {
	case '"', '\'':
		s.quote = ch
	case '#':
		s.inComment = true
	}
	return ch, true
}

// InString reports whether the current byte belongs to a string literal.
func (s *CodeScanner) InString() bool { return s.quote != 0 || s.closing }

// InComment reports whether the current byte belongs to a # comment.
func (s *CodeScanner) InComment() bool { return s.inComment }

// InCode reports whether the current byte is outside strings and comments.
func (s *CodeScanner) InCode() bool { return !s.InString() && !s.inComment }

// Pos returns the byte offset of the last byte returned by Next, or -1
// before the first call.
func (s *CodeScanner) Pos() int { return s.pos }

// Line returns the current 1-based line number.
func (s *CodeScanner) Line() int { return s.line }

// IsOpenBracket reports whether ch is an opening bracket/paren/brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// IsCloseBracket reports whether ch is a closing bracket/paren/brace.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}

// Depth returns the bracket nesting depth at the end of src, counting only
// brackets in code. Unbalanced closers make it negative.
func Depth(src string) int {
	depth := 0
	sc := New(src)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if !sc.InCode() {
			continue
		}
		if IsOpenBracket(ch) {
			depth++
		} else if IsCloseBracket(ch) {
			depth--
		}
	}
	return depth
}

// CodeLines returns each line of src with comments removed and trailing
// space trimmed. String contents are kept.
func CodeLines(src string) []string {
	var lines []string
	var cur strings.Builder
	sc := New(src)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if ch == '\n' {
			lines = append(lines, strings.TrimRight(cur.String(), " \t\r"))
			cur.Reset()
			continue
		}
		if !sc.InComment() {
			cur.WriteByte(ch)
		}
	}
	return append(lines, strings.TrimRight(cur.String(), " \t\r"))
}

// NeedsMore reports whether src is an incomplete interactive input: a
// bracket is still open, or an indented block was started with a line
// ending in ':' and has not yet been closed by an empty line.
func NeedsMore(src string) bool {
	if Depth(src) > 0 {
		return true
	}
	lines := CodeLines(strings.TrimSuffix(src, "\n"))
	last := lines[len(lines)-1]
	if strings.TrimSpace(last) == "" {
		return false
	}
	for _, l := range lines {
		if strings.HasSuffix(l, ":") {
			return true
		}
	}
	return false
}
