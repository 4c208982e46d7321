package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborlang/harbor/builtins"
	"github.com/harborlang/harbor/compiler"
	"github.com/harborlang/harbor/config"
	"github.com/harborlang/harbor/doc"
	"github.com/harborlang/harbor/repl"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const bannerRule = "─────────────────────────────────────────"

// Execute runs the Harbor CLI with the given version string. It is the only
// place that prints errors and exits the process.
func Execute(version string) {
	a := newApp(version, os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	err := a.command().Run(context.Background(), os.Args)
	os.Exit(a.report(err))
}

// app carries the process environment so commands can be run in tests.
type app struct {
	version string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	getenv  func(string) string
	log     *logrus.Logger
}

func newApp(version string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) *app {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &app{version: version, stdin: stdin, stdout: stdout, stderr: stderr, getenv: getenv, log: log}
}

func (a *app) command() *cli.Command {
	cli.VersionFlag = &cli.BoolFlag{
		Name:        "version",
		Usage:       "print the version",
		HideDefault: true,
		Local:       true,
	}
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintf(cmd.Root().Writer, "Harbor %s\n", cmd.Root().Version)
	}

	outputFlag := func(usage string) *cli.StringFlag {
		return &cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: usage, Local: true}
	}

	return &cli.Command{
		Name:                   "harbor",
		Usage:                  "A Python-flavoured language for HTTP servers that compiles to Node.js",
		ArgsUsage:              "<file.hb> [args...]",
		Version:                a.version,
		UseShortOptionHandling: true,
		Reader:                 a.stdin,
		Writer:                 a.stdout,
		ErrWriter:              a.stderr,
		// Execute reports errors.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to harbor.yaml"},
			&cli.BoolFlag{Name: "check", Usage: "Verify that the generated JavaScript parses"},
			outputFlag("Compile only and write the JavaScript to this file"),
		},
		// `harbor app.hb` compiles and runs; `harbor app.hb -o out.js` only compiles.
		Action: a.rootAction,
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Compile a .hb file to JavaScript",
				ArgsUsage: "<file.hb>",
				Flags:     []cli.Flag{outputFlag("Output file (default: <file>.js)")},
				Action:    a.buildAction,
			},
			{
				Name:      "emit",
				Usage:     "Print the generated JavaScript",
				ArgsUsage: "<file.hb>",
				Action:    a.emitAction,
			},
			{
				Name:      "doc",
				Usage:     "Show the functions, classes and routes of a .hb file, or the builtins",
				ArgsUsage: "[<file.hb> [symbol] | <builtin>]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "text, markdown or html", Value: "text"},
				},
				Action: a.docAction,
			},
			{
				Name:      "watch",
				Usage:     "Rebuild whenever a .hb file next to the input changes",
				ArgsUsage: "<file.hb>",
				Flags:     []cli.Flag{outputFlag("Output file (default: <file>.js)")},
				Action:    a.watchAction,
			},
			{
				Name:   "repl",
				Usage:  "Compile statements to JavaScript interactively",
				Action: a.replAction,
			},
		},
	}
}

// newCompiler loads the configuration for input and returns a compiler set up
// from it and the global flags.
func (a *app) newCompiler(cmd *cli.Command, input string) (*compiler.Compiler, error) {
	inputDir := ""
	if input != "" {
		inputDir = filepath.Dir(input)
	}
	cfg, err := config.Load(cmd.String("config"), inputDir, a.getenv)
	if err != nil {
		return nil, err
	}
	if err := a.setupLogging(cfg, cmd.Bool("verbose")); err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		a.log.WithField("config", cfg.Path).Debug("loaded config")
	}

	c := &compiler.Compiler{
		Log:    a.log,
		Check:  cmd.Bool("check"),
		Stdin:  a.stdin,
		Stdout: a.stdout,
		Stderr: a.stderr,
	}
	cfg.Apply(c)
	return c, nil
}

func (a *app) setupLogging(cfg *config.Config, verbose bool) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = logrus.DebugLevel
	}
	a.log.SetLevel(level)
	if cfg.Log.Format == "json" {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

func (a *app) rootAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return cli.ShowRootCommandHelp(cmd)
	}
	input := cmd.Args().First()
	c, err := a.newCompiler(cmd, input)
	if err != nil {
		return err
	}
	if output := cmd.String("output"); output != "" {
		return a.build(c, input, output)
	}
	return c.Run(ctx, input, "", cmd.Args().Tail()...)
}

func (a *app) buildAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: harbor build [-o output] <file.hb>")
	}
	input := cmd.Args().First()
	c, err := a.newCompiler(cmd, input)
	if err != nil {
		return err
	}
	return a.build(c, input, cmd.String("output"))
}

func (a *app) build(c *compiler.Compiler, input, output string) error {
	written, err := c.Build(input, output)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, bannerRule)
	fmt.Fprintln(a.stdout, "  Harbor Compilation Successful!")
	fmt.Fprintf(a.stdout, "  Input:  %s\n", input)
	fmt.Fprintf(a.stdout, "  Output: %s\n", written)
	fmt.Fprintln(a.stdout, bannerRule)
	return nil
}

func (a *app) emitAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: harbor emit <file.hb>")
	}
	input := cmd.Args().First()
	c, err := a.newCompiler(cmd, input)
	if err != nil {
		return err
	}
	js, err := c.Emit(input)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.stdout, js)
	return err
}

func (a *app) docAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		_, err := io.WriteString(a.stdout, doc.FormatAllModules())
		return err
	}
	input := cmd.Args().First()
	if _, err := os.Stat(input); err != nil {
		if out, ok := builtinDoc(input); ok {
			_, err := io.WriteString(a.stdout, out)
			return err
		}
	}
	fd, err := doc.ExtractFile(input)
	if err != nil {
		return err
	}

	if symbol := cmd.Args().Get(1); symbol != "" {
		d, ok := doc.Lookup(fd, symbol)
		if !ok {
			return fmt.Errorf("no symbol %q in %s", symbol, input)
		}
		_, err := io.WriteString(a.stdout, doc.FormatDecl(d))
		return err
	}

	var out string
	switch format := strings.ToLower(cmd.String("format")); format {
	case "text":
		out = doc.FormatText(fd)
	case "markdown", "md":
		out = doc.FormatMarkdown(fd)
	case "html":
		if out, err = doc.FormatHTML(fd); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown doc format %q (want text, markdown or html)", format)
	}
	_, err = io.WriteString(a.stdout, out)
	return err
}

// builtinDoc documents a prelude module ("fs") or function ("len",
// "fs.read").
func builtinDoc(name string) (string, bool) {
	if m, ok := builtins.Get(name); ok {
		return doc.FormatModule(m), true
	}
	if m, f, ok := builtins.LookupFunc(name); ok {
		return m.Signature(f) + "\n    " + f.Doc + "\n", true
	}
	return "", false
}

func (a *app) watchAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: harbor watch [-o output] <file.hb>")
	}
	input := cmd.Args().First()
	c, err := a.newCompiler(cmd, input)
	if err != nil {
		return err
	}
	output := cmd.String("output")
	return watch(ctx, a.log, input, func() error {
		written, err := c.Build(input, output)
		if err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"file": input, "output": written}).Info("rebuilt")
		return nil
	})
}

func (a *app) replAction(ctx context.Context, cmd *cli.Command) error {
	c, err := a.newCompiler(cmd, "")
	if err != nil {
		return err
	}
	return repl.Start(a.stdin, a.stdout, c, a.version)
}

// report prints err and returns the process exit status for it. A failing
// program has already written its own output, so only its status is kept.
func (a *app) report(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *compiler.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	prefix := "error:"
	if a.color() {
		prefix = "\033[31merror:\033[0m"
	}
	fmt.Fprintf(a.stderr, "%s %v\n", prefix, err)

	var coder cli.ExitCoder
	if errors.As(err, &coder) && coder.ExitCode() != 0 {
		return coder.ExitCode()
	}
	return 1
}

// color reports whether error output goes to a terminal and NO_COLOR is
// unset.
func (a *app) color() bool {
	if a.getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := a.stderr.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
