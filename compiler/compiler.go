package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/harborlang/harbor/ast"
	"github.com/harborlang/harbor/parser"
	"github.com/sirupsen/logrus"
)

// DefaultRuntime is the program that runs compiled output.
const DefaultRuntime = "node"

// DefaultExt is the extension of compiled files.
const DefaultExt = ".js"

// Compiler orchestrates the compilation pipeline and execution of the
// result. The zero value is ready to use.
type Compiler struct {
	// Log receives stage events. Nil discards them.
	Log logrus.FieldLogger
	// Check makes every compilation verify that its output parses.
	Check bool
	// Runtime runs compiled programs; DefaultRuntime when empty.
	Runtime string
	// RuntimeArgs are passed to Runtime ahead of the script path.
	RuntimeArgs []string
	// Ext and OutDir decide where Build writes when no output is named.
	Ext    string
	OutDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CompileResult holds the output of a compilation.
type CompileResult struct {
	JS         string
	Program    *ast.Program
	SourceFile string
}

// ExitError reports that a compiled program exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("program exited with status %d", e.Code)
}

// ExitCode returns the status to exit with.
func (e *ExitError) ExitCode() int { return e.Code }

// Compile reads a .hb file and produces JavaScript.
func (c *Compiler) Compile(filename string) (*CompileResult, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return c.CompileSource(filename, string(src))
}

// CompileSource compiles src; name is used in error positions.
func (c *Compiler) CompileSource(name, src string) (*CompileResult, error) {
	log := c.logger().WithField("file", name)

	prog, err := parser.ParseSource(name, src)
	if err != nil {
		return nil, err
	}
	log.WithField("statements", len(prog.Statements)).Debug("parsed")

	out := Generate(prog)
	if c.Check {
		if err := Verify(out); err != nil {
			return nil, err
		}
		log.Debug("verified output")
	}
	log.WithField("bytes", len(out)).Debug("generated")
	return &CompileResult{JS: out, Program: prog, SourceFile: name}, nil
}

// Emit compiles a .hb file and returns the JavaScript.
func (c *Compiler) Emit(filename string) (string, error) {
	result, err := c.Compile(filename)
	if err != nil {
		return "", err
	}
	return result.JS, nil
}

// EmitStatements compiles a fragment of top-level statements without the
// runtime prelude. The REPL shows its input this way.
func (c *Compiler) EmitStatements(name, src string) (string, error) {
	prog, err := parser.ParseSource(name, src)
	if err != nil {
		return "", err
	}
	return GenerateStatements(prog.Statements), nil
}

// Build compiles filename and writes the JavaScript to output, or next to
// the input (see OutputPath) when output is empty. It returns the path
// written.
func (c *Compiler) Build(filename, output string) (string, error) {
	result, err := c.Compile(filename)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = c.OutputPath(filename)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, []byte(result.JS), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", output, err)
	}
	c.logger().WithFields(logrus.Fields{"file": filename, "output": output}).Debug("wrote output")
	return output, nil
}

// Run builds filename and runs the output with the configured runtime,
// passing args to the program. A non-zero exit is returned as *ExitError.
func (c *Compiler) Run(ctx context.Context, filename, output string, args ...string) error {
	script, err := c.Build(filename, output)
	if err != nil {
		return err
	}

	runtime := c.Runtime
	if runtime == "" {
		runtime = DefaultRuntime
	}
	argv := append(append(append([]string{}, c.RuntimeArgs...), script), args...)
	c.logger().WithFields(logrus.Fields{"runtime": runtime, "output": script}).Debug("running")

	cmd := exec.CommandContext(ctx, runtime, argv...)
	cmd.Stdin = orReader(c.Stdin, os.Stdin)
	cmd.Stdout = orWriter(c.Stdout, os.Stdout)
	cmd.Stderr = orWriter(c.Stderr, os.Stderr)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code <= 0 {
				code = 1
			}
			return &ExitError{Code: code}
		}
		return fmt.Errorf("running %s: %w", runtime, err)
	}
	return nil
}

// OutputPath returns where Build writes the output for input when no path
// is given: the input's stem with Ext, in OutDir or beside the input.
func (c *Compiler) OutputPath(input string) string {
	ext := c.Ext
	if ext == "" {
		ext = DefaultExt
	}
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ext
	dir := c.OutDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

func (c *Compiler) logger() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func orReader(r, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orWriter(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
