// Package repl implements the interactive Harbor prompt. Each complete
// input is compiled to JavaScript and the generated code is printed.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborlang/harbor/builtins"
	"github.com/harborlang/harbor/compiler"
	"github.com/harborlang/harbor/lexer"
	"github.com/harborlang/harbor/scanner"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

const (
	Prompt             = ">> "
	ContinuationPrompt = ".. "
)

// SourceName is the file name used in diagnostics for REPL input.
const SourceName = "<repl>"

// Session holds the state of one REPL: the partial input being typed and
// the statements accepted so far.
type Session struct {
	Compiler *compiler.Compiler
	Out      io.Writer

	buf      strings.Builder
	accepted []string
}

// NewSession returns a session that compiles with c and writes to out.
func NewSession(c *compiler.Compiler, out io.Writer) *Session {
	return &Session{Compiler: c, Out: out}
}

// Pending reports whether an incomplete input is buffered.
func (s *Session) Pending() bool { return s.buf.Len() > 0 }

// Prompt returns the prompt for the next line.
func (s *Session) Prompt() string {
	if s.Pending() {
		return ContinuationPrompt
	}
	return Prompt
}

// Source returns the statements accepted so far, in order.
func (s *Session) Source() string {
	return strings.Join(s.accepted, "\n")
}

// Reset discards any partial input.
func (s *Session) Reset() { s.buf.Reset() }

// Feed processes one line of input. It returns the completed input when
// one was compiled (for history), and quit when the user asked to leave.
func (s *Session) Feed(line string) (complete string, quit bool) {
	trimmed := strings.TrimSpace(line)
	if !s.Pending() {
		switch {
		case trimmed == "":
			return "", false
		case trimmed == "exit" || trimmed == "quit":
			return "", true
		case strings.HasPrefix(trimmed, ":"):
			s.command(trimmed)
			return "", false
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	input := s.buf.String()
	if scanner.NeedsMore(input) {
		return "", false
	}
	s.buf.Reset()

	input = strings.TrimRight(input, "\n")
	js, err := s.Compiler.EmitStatements(SourceName, input)
	if err != nil {
		fmt.Fprintf(s.Out, "error: %v\n", err)
		return input, false
	}
	s.accepted = append(s.accepted, input)
	io.WriteString(s.Out, js)
	return input, false
}

// Flush compiles any buffered input as if a blank line had been entered.
func (s *Session) Flush() {
	if s.Pending() {
		s.Feed("")
	}
}

func (s *Session) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.Out, "REPL Commands:")
		fmt.Fprintln(s.Out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(s.Out, "  :source         Show the statements entered so far")
		fmt.Fprintln(s.Out, "  :program        Show the complete program for the session")
		fmt.Fprintln(s.Out, "  :save <file>    Write the session's statements to a .hb file")
		fmt.Fprintln(s.Out, "  :clear          Forget the statements entered so far")
		fmt.Fprintln(s.Out, "  exit, quit      Exit the REPL")
	case ":source":
		if len(s.accepted) == 0 {
			fmt.Fprintln(s.Out, "(no statements)")
			return
		}
		fmt.Fprintln(s.Out, s.Source())
	case ":program":
		res, err := s.Compiler.CompileSource(SourceName, s.Source())
		if err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
			return
		}
		io.WriteString(s.Out, res.JS)
	case ":save":
		if arg == "" {
			fmt.Fprintln(s.Out, "usage: :save <file>")
			return
		}
		if err := os.WriteFile(arg, []byte(s.Source()+"\n"), 0o644); err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(s.Out, "Saved %d statements to %s\n", len(s.accepted), arg)
	case ":clear":
		s.accepted = nil
		fmt.Fprintln(s.Out, "Session cleared")
	default:
		fmt.Fprintf(s.Out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// Start runs the REPL. With a terminal on in it uses line editing, history
// and completion; otherwise it reads in line by line without prompts.
func Start(in io.Reader, out io.Writer, c *compiler.Compiler, version string) error {
	s := NewSession(c, out)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return interactive(s, version)
	}
	return scripted(s, in)
}

func scripted(s *Session, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if _, quit := s.Feed(sc.Text()); quit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	s.Flush()
	return nil
}

func interactive(s *Session, version string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(Complete)

	historyFile := filepath.Join(os.TempDir(), ".harbor_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(s.Out, "Harbor %s\n", version)
	fmt.Fprintln(s.Out, "Type 'exit' or Ctrl+D to quit, ':help' for commands")

	for {
		input, err := line.Prompt(s.Prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				if s.Pending() {
					fmt.Fprintln(s.Out, "^C (cleared)")
				} else {
					fmt.Fprintln(s.Out, "^C")
				}
				s.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				s.Flush()
				fmt.Fprintln(s.Out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		complete, quit := s.Feed(input)
		if quit {
			fmt.Fprintln(s.Out, "Goodbye!")
			return nil
		}
		if complete != "" {
			line.AppendHistory(complete)
		}
	}
}

// Complete returns keyword and builtin completions for the last word of
// line.
func Complete(line string) []string {
	if strings.TrimSpace(line) == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}
	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var matches []string
	for _, cands := range [][]string{lexer.Keywords(), builtins.Globals()} {
		for _, c := range cands {
			if strings.HasPrefix(c, word) {
				matches = append(matches, prefix+c)
			}
		}
	}
	return matches
}
