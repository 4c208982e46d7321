package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harborlang/harbor/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "node", cfg.Runtime.Command)
	assert.Equal(t, ".js", cfg.Output.Extension)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Check)
	assert.NoError(t, Validate(cfg))
}

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "NODE_BIN":
			return "/opt/node/bin/node"
		case "LEVEL":
			return "debug"
		}
		return ""
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple substitution", "command: ${NODE_BIN}", "command: /opt/node/bin/node"},
		{"default unused", "level: ${LEVEL:-info}", "level: debug"},
		{"default used", "level: ${UNSET:-warn}", "level: warn"},
		{"unset without default", "dir: ${UNSET}", "dir: "},
		{"multiple", "${LEVEL}-${UNSET:-x}", "debug-x"},
		{"no pattern", "check: true", "check: true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(interpolateEnv([]byte(tt.input), getenv)))
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
runtime:
  command: ${HARBOR_NODE:-nodejs}
  args: ["--enable-source-maps"]
output:
  extension: .cjs
  dir: build
check: true
log:
  level: debug
  format: json
`)

	cfg, err := LoadFile(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "nodejs", cfg.Runtime.Command)
	assert.Equal(t, []string{"--enable-source-maps"}, cfg.Runtime.Args)
	assert.Equal(t, ".cjs", cfg.Output.Extension)
	assert.Equal(t, filepath.Join(dir, "build"), cfg.Output.Dir)
	assert.True(t, cfg.Check)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "check: true\n")
	cfg, err := LoadFile(path, noEnv)
	require.NoError(t, err)
	assert.True(t, cfg.Check)
	assert.Equal(t, "node", cfg.Runtime.Command)
	assert.Equal(t, ".js", cfg.Output.Extension)
	assert.Empty(t, cfg.Output.Dir)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "runtime: [", "parsing config"},
		{"empty runtime", "runtime:\n  command: \"\"\n", "runtime.command is required"},
		{"extension without dot", "output:\n  extension: js\n", "must start with a dot"},
		{"bad level", "log:\n  level: loud\n", "invalid log level: loud"},
		{"bad format", "log:\n  format: xml\n", "invalid log format: xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := LoadFile(path, noEnv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadResolution(t *testing.T) {
	inputDir := t.TempDir()
	writeConfig(t, inputDir, "log:\n  level: warn\n")

	t.Run("beside input", func(t *testing.T) {
		cfg, err := Load("", inputDir, noEnv)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("env beats input dir", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), "other.yaml")
		require.NoError(t, os.WriteFile(envPath, []byte("log:\n  level: error\n"), 0o644))
		getenv := func(k string) string {
			if k == EnvVar {
				return envPath
			}
			return ""
		}
		cfg, err := Load("", inputDir, getenv)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
	})

	t.Run("explicit beats env", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "x.yaml")
		require.NoError(t, os.WriteFile(explicit, []byte("log:\n  level: debug\n"), 0o644))
		getenv := func(string) string { return "/does/not/exist.yaml" }
		cfg, err := Load(explicit, inputDir, getenv)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("missing explicit", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), inputDir, noEnv)
		assert.ErrorContains(t, err, "config file not found")
	})

	t.Run("missing env file", func(t *testing.T) {
		getenv := func(string) string { return filepath.Join(inputDir, "nope.yaml") }
		_, err := Load("", inputDir, getenv)
		assert.ErrorContains(t, err, "HARBOR_CONFIG file not found")
	})
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", t.TempDir(), noEnv)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestApply(t *testing.T) {
	cfg := Defaults()
	cfg.Runtime.Args = []string{"--trace-warnings"}
	cfg.Output.Dir = "/tmp/out"
	cfg.Check = true

	var c compiler.Compiler
	cfg.Apply(&c)
	assert.Equal(t, "node", c.Runtime)
	assert.Equal(t, []string{"--trace-warnings"}, c.RuntimeArgs)
	assert.Equal(t, ".js", c.Ext)
	assert.Equal(t, "/tmp/out", c.OutDir)
	assert.True(t, c.Check)

	c = compiler.Compiler{Check: true}
	Defaults().Apply(&c)
	assert.True(t, c.Check, "a --check flag survives a config without check")
}
