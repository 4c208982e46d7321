// Package config loads harbor.yaml, the optional project configuration for
// the harbor command.
package config

import "github.com/harborlang/harbor/compiler"

// FileName is the configuration file looked up beside the input and in the
// working directory.
const FileName = "harbor.yaml"

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "HARBOR_CONFIG"

// Config is the root configuration structure.
type Config struct {
	Runtime Runtime `yaml:"runtime"`
	Output  Output  `yaml:"output"`
	Check   bool    `yaml:"check"`
	Log     Log     `yaml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Runtime configures the program that runs compiled output.
type Runtime struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Output configures where compiled files are written.
type Output struct {
	Extension string `yaml:"extension"`
	Dir       string `yaml:"dir"` // relative to the config file
}

// Log configures CLI logging.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Defaults returns a Config with the built-in values.
func Defaults() *Config {
	return &Config{
		Runtime: Runtime{Command: compiler.DefaultRuntime},
		Output:  Output{Extension: compiler.DefaultExt},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Apply copies the compilation settings onto c.
func (cfg *Config) Apply(c *compiler.Compiler) {
	c.Runtime = cfg.Runtime.Command
	c.RuntimeArgs = cfg.Runtime.Args
	c.Ext = cfg.Output.Extension
	c.OutDir = cfg.Output.Dir
	c.Check = c.Check || cfg.Check
}
