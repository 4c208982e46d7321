package cmd

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harborlang/harbor/compiler"
	"github.com/harborlang/harbor/doc"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type result struct {
	stdout string
	stderr string
	err    error
	app    *app
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp("v2.0.0", strings.NewReader(stdin), &out, &errOut, func(string) string { return "" })
	err := a.command().Run(context.Background(), append([]string{"harbor"}, args...))
	return result{stdout: out.String(), stderr: errOut.String(), err: err, app: a}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func banner(input, output string) string {
	return bannerRule + "\n" +
		"  Harbor Compilation Successful!\n" +
		"  Input:  " + input + "\n" +
		"  Output: " + output + "\n" +
		bannerRule + "\n"
}

func TestVersion(t *testing.T) {
	r := runCLI(t, "", "--version")
	require.NoError(t, r.err)
	assert.Equal(t, "Harbor v2.0.0\n", r.stdout)
}

func TestHelpWithoutArguments(t *testing.T) {
	r := runCLI(t, "")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "harbor")
	assert.Contains(t, r.stdout, "repl")
}

func TestEmit(t *testing.T) {
	input := writeFile(t, t.TempDir(), "hello.hb", "print(\"hi\")\n")
	r := runCLI(t, "", "emit", input)
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, compiler.Prelude()))
	assert.Contains(t, r.stdout, "  console.log(\"hi\");\n")
}

func TestEmitUsage(t *testing.T) {
	r := runCLI(t, "", "emit")
	assert.EqualError(t, r.err, "usage: harbor emit <file.hb>")
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "app.hb", "x = 1\n")

	t.Run("default output", func(t *testing.T) {
		r := runCLI(t, "", "build", input)
		require.NoError(t, r.err)
		want := filepath.Join(dir, "app.js")
		assert.Equal(t, banner(input, want), r.stdout)
		assert.FileExists(t, want)
	})

	t.Run("explicit output", func(t *testing.T) {
		out := filepath.Join(dir, "dist", "bundle.js")
		r := runCLI(t, "", "build", input, "-o", out)
		require.NoError(t, r.err)
		assert.Equal(t, banner(input, out), r.stdout)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "var x = 1;")
	})
}

func TestRootOutputFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "app.hb", "x = 1\n")

	for _, args := range [][]string{
		{input, "-o", filepath.Join(dir, "after.js")},
		{"-o", filepath.Join(dir, "before.js"), input},
		{input, "--output", filepath.Join(dir, "long.js")},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			r := runCLI(t, "", args...)
			require.NoError(t, r.err)
			assert.Contains(t, r.stdout, "Harbor Compilation Successful!")
		})
	}
	assert.FileExists(t, filepath.Join(dir, "after.js"))
	assert.FileExists(t, filepath.Join(dir, "before.js"))
	assert.FileExists(t, filepath.Join(dir, "long.js"))
}

func TestConfigBesideInput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "app.hb", "x = 1\n")
	writeFile(t, dir, "harbor.yaml", "output:\n  extension: .cjs\n  dir: out\n")

	r := runCLI(t, "", "build", input)
	require.NoError(t, r.err)
	assert.FileExists(t, filepath.Join(dir, "out", "app.cjs"))
}

func TestExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "app.hb", "x = 1\n")
	cfg := writeFile(t, t.TempDir(), "custom.yaml", "log:\n  level: loud\n")

	r := runCLI(t, "", "--config", cfg, "build", input)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "invalid log level: loud")
}

func TestVerboseLogging(t *testing.T) {
	input := writeFile(t, t.TempDir(), "app.hb", "x = 1\n")
	r := runCLI(t, "", "-v", "emit", input)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "level=debug msg=parsed")
	assert.Contains(t, r.stderr, "statements=1")
	assert.Equal(t, logrus.DebugLevel, r.app.log.GetLevel())
}

func TestCheckFlag(t *testing.T) {
	for _, name := range []string{"hello.hb", "server.hb", "classes.hb"} {
		t.Run(name, func(t *testing.T) {
			r := runCLI(t, "", "--check", "emit", filepath.Join("..", "examples", name))
			require.NoError(t, r.err)
		})
	}
}

func TestDoc(t *testing.T) {
	input := filepath.Join("..", "examples", "classes.hb")

	t.Run("text", func(t *testing.T) {
		r := runCLI(t, "", "doc", input)
		require.NoError(t, r.err)
		assert.True(t, strings.HasPrefix(r.stdout, "Documentation for "+input+":\n"))
		assert.Contains(t, r.stdout, "class Dog:\n    A dog that can bark.\n    def init(name)\n")
	})

	t.Run("markdown", func(t *testing.T) {
		r := runCLI(t, "", "doc", "--format", "markdown", input)
		require.NoError(t, r.err)
		assert.Contains(t, r.stdout, "### `class Dog:`")
	})

	t.Run("html", func(t *testing.T) {
		r := runCLI(t, "", "doc", "-f", "html", input)
		require.NoError(t, r.err)
		assert.Contains(t, r.stdout, "<!DOCTYPE html>")
		assert.Contains(t, r.stdout, "<h3><code>class Dog:</code></h3>")
	})

	t.Run("symbol", func(t *testing.T) {
		r := runCLI(t, "", "doc", input, "Dog.learn")
		require.NoError(t, r.err)
		assert.Equal(t, "def Dog.learn(trick)\n    Teach the dog a new trick.\n", r.stdout)
	})

	t.Run("missing symbol", func(t *testing.T) {
		r := runCLI(t, "", "doc", input, "Cat")
		assert.EqualError(t, r.err, `no symbol "Cat" in `+input)
	})

	t.Run("bad format", func(t *testing.T) {
		r := runCLI(t, "", "doc", "--format", "pdf", input)
		assert.EqualError(t, r.err, `unknown doc format "pdf" (want text, markdown or html)`)
	})
}

func TestDocBuiltins(t *testing.T) {
	r := runCLI(t, "", "doc")
	require.NoError(t, r.err)
	assert.Equal(t, doc.FormatAllModules(), r.stdout)

	r = runCLI(t, "", "doc", "fs")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "module fs\n"))

	r = runCLI(t, "", "doc", "len")
	require.NoError(t, r.err)
	assert.Equal(t, "len(obj)\n    Length of a string or array, or the number of keys of an object; 0 for None.\n", r.stdout)

	r = runCLI(t, "", "doc", "nothing.hb")
	assert.ErrorIs(t, r.err, os.ErrNotExist)
}

func TestRepl(t *testing.T) {
	r := runCLI(t, "x = 1\nprint(x)\n", "repl")
	require.NoError(t, r.err)
	assert.Equal(t, "var x = 1;\nconsole.log(x);\n", r.stdout)
}

func TestSyntaxErrorReport(t *testing.T) {
	input := writeFile(t, t.TempDir(), "bad.hb", "x = !\n")
	r := runCLI(t, "", "emit", input)
	require.Error(t, r.err)

	code := r.app.report(r.err)
	assert.Equal(t, 1, code)
	stderr := r.app.stderr.(*bytes.Buffer).String()
	assert.True(t, strings.HasPrefix(stderr, "error: "+input+":1:5: "), stderr)
}

func TestMissingInput(t *testing.T) {
	r := runCLI(t, "", "emit", filepath.Join(t.TempDir(), "nope.hb"))
	require.Error(t, r.err)
	assert.ErrorIs(t, r.err, os.ErrNotExist)
}

func TestReport(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stderr string
	}{
		{"success", nil, 0, ""},
		{"program exit status", &compiler.ExitError{Code: 3}, 3, ""},
		{"exit coder", cli.Exit("boom", 4), 4, "error: boom\n"},
		{"plain error", os.ErrPermission, 1, "error: permission denied\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errOut bytes.Buffer
			a := newApp("v2.0.0", nil, &bytes.Buffer{}, &errOut, func(string) string { return "" })
			assert.Equal(t, tt.code, a.report(tt.err))
			assert.Equal(t, tt.stderr, errOut.String())
		})
	}
}

func TestColorHonoursNoColor(t *testing.T) {
	a := newApp("v2.0.0", nil, os.Stdout, os.Stderr, func(k string) string {
		if k == "NO_COLOR" {
			return "1"
		}
		return ""
	})
	assert.False(t, a.color())

	a = newApp("v2.0.0", nil, os.Stdout, &bytes.Buffer{}, func(string) string { return "" })
	assert.False(t, a.color())
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "app.hb", "x = 1\n")

	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	var builds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, log, input, func() error {
			builds.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Unrelated files are ignored.
	writeFile(t, dir, "notes.txt", "hello")
	time.Sleep(3 * debounce)
	assert.Equal(t, int32(1), builds.Load())

	writeFile(t, dir, "app.hb", "x = 2\n")
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	err := watch(context.Background(), log, filepath.Join(t.TempDir(), "gone", "app.hb"), func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}

func TestRunProgram(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node not installed")
	}
	dir := t.TempDir()
	input := writeFile(t, dir, "app.hb", "print(\"hello\")\n")

	r := runCLI(t, "", input)
	require.NoError(t, r.err)
	assert.Equal(t, "hello\n", r.stdout)
	assert.FileExists(t, filepath.Join(dir, "app.js"))

	failing := writeFile(t, dir, "fail.hb", "import \"process\" as proc\nproc.exit(7)\n")
	r = runCLI(t, "", failing)
	require.Error(t, r.err)
	assert.Equal(t, 7, r.app.report(r.err))
}
