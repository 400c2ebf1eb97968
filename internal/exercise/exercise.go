// Package exercise loads exercise definitions: which commands a program
// may use, which hosts it runs against, its limits and the expected
// outcome. Definitions live in jsmm.yaml, jsmm.yml or jsmm.toml.
package exercise

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/jsmm/internal/config"
	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/hosts"
	"github.com/funvibe/jsmm/internal/message"
)

// Config is one exercise definition.
type Config struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description,omitempty" toml:"description"`

	// Strategy is raw, safe or step. Defaults to safe.
	Strategy string `yaml:"strategy,omitempty" toml:"strategy"`

	// Commands is the allow-list of command tags. "jsmm" stands for every
	// language construct; host calls are listed by name, e.g. "console.log".
	// An empty list allows everything not denied.
	Commands []string `yaml:"commands,omitempty" toml:"commands"`

	// Deny lists tags that are never allowed, even when Commands allows them.
	Deny []string `yaml:"deny,omitempty" toml:"deny"`

	// Hosts names the host bindings. Defaults to console and Math.
	Hosts []string `yaml:"hosts,omitempty" toml:"hosts"`

	Limits Limits `yaml:"limits,omitempty" toml:"limits"`
	Expect Expect `yaml:"expect,omitempty" toml:"expect"`

	timeout time.Duration
}

// Limits bound a learner program's execution.
type Limits struct {
	// Steps bounds executed statements and loop guards.
	Steps int `yaml:"steps,omitempty" toml:"steps"`
	// Timeout is a Go duration string such as "2s".
	Timeout   string `yaml:"timeout,omitempty" toml:"timeout"`
	CallDepth int    `yaml:"call_depth,omitempty" toml:"call_depth"`
}

// Expect describes the outcome that passes the exercise.
type Expect struct {
	// Output is the exact console output, when set.
	Output *string `yaml:"output,omitempty" toml:"output"`
	// Error is the expected error class, e.g. "ValueError". Empty expects
	// success.
	Error string `yaml:"error,omitempty" toml:"error"`
}

// LoadConfig reads and parses an exercise file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exercise %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses exercise content. The extension of path selects
// TOML (.toml) or YAML (anything else); path is also used in errors.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// New builds a configuration from individual settings and validates it
// the way a file is validated. source names the settings in errors.
func New(source, strategy string, commands, deny []string) (*Config, error) {
	cfg := &Config{Name: source, Strategy: strategy, Commands: commands, Deny: deny}
	if err := cfg.validate(source); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// FindConfig searches for an exercise file starting from dir and walking
// up to parent directories. It returns "" and a nil error when there is
// none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range config.ExerciseFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

var errorClasses = map[string]bool{
	string(evaluator.TypeError):       true,
	string(evaluator.ReferenceError):  true,
	string(evaluator.ValueError):      true,
	string(evaluator.ArityError):      true,
	string(evaluator.AssignmentError): true,
	string(evaluator.HostError):       true,
	string(evaluator.LimitError):      true,
	string(evaluator.ControlError):    true,
	string(evaluator.PolicyError):     true,
	"SyntaxError":                     true,
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Strategy != "" {
		if _, err := evaluator.ParseStrategy(c.Strategy); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	for i, tag := range c.Commands {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%s: commands[%d]: empty command", path, i)
		}
	}
	for i, tag := range c.Deny {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%s: deny[%d]: empty command", path, i)
		}
	}
	for i, name := range c.Hosts {
		if !hosts.Valid(name) {
			return fmt.Errorf("%s: hosts[%d]: unknown host %q", path, i, name)
		}
	}
	if c.Limits.Steps < 0 {
		return fmt.Errorf("%s: limits.steps must not be negative", path)
	}
	if c.Limits.CallDepth < 0 {
		return fmt.Errorf("%s: limits.call_depth must not be negative", path)
	}
	if c.Limits.Timeout != "" {
		d, err := time.ParseDuration(c.Limits.Timeout)
		if err != nil {
			return fmt.Errorf("%s: limits.timeout: %w", path, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: limits.timeout must be positive", path)
		}
		c.timeout = d
	}
	if c.Expect.Error != "" && !errorClasses[c.Expect.Error] {
		return fmt.Errorf("%s: expect.error: unknown error class %q", path, c.Expect.Error)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Strategy == "" {
		c.Strategy = config.StrategySafe
	}
	if c.Hosts == nil {
		c.Hosts = append([]string(nil), hosts.Default...)
	}
	if c.Limits.Steps == 0 {
		c.Limits.Steps = config.DefaultMaxStatements
	}
	if c.Limits.CallDepth == 0 {
		c.Limits.CallDepth = config.DefaultMaxCallDepth
	}
}

// Default returns the configuration used when no exercise file exists.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Timeout returns the wall-clock limit, zero for none.
func (c *Config) Timeout() time.Duration {
	return c.timeout
}

// Filter returns the command filter, nil when nothing is restricted.
func (c *Config) Filter() *evaluator.CommandFilter {
	if len(c.Commands) == 0 && len(c.Deny) == 0 {
		return nil
	}
	return evaluator.NewCommandFilter(c.Commands, c.Deny)
}

// Options returns evaluator options for this exercise. The strategy must
// have been validated.
func (c *Config) Options() evaluator.Options {
	s, _ := evaluator.ParseStrategy(c.Strategy)
	return evaluator.Options{
		Strategy:      s,
		Filter:        c.Filter(),
		MaxStatements: c.Limits.Steps,
		MaxCallDepth:  c.Limits.CallDepth,
	}
}

// Check compares a run's outcome with the expectation. syntaxErr is the
// parse failure, if any; err is the runtime error, if any.
func (c *Config) Check(output string, syntaxErr error, err *evaluator.Error) error {
	got := ""
	switch {
	case syntaxErr != nil:
		got = "SyntaxError"
	case err != nil:
		got = string(err.Class)
	}
	if got != c.Expect.Error {
		switch {
		case c.Expect.Error == "" && err != nil:
			return fmt.Errorf("the program failed: %s", message.Plain(err.Message))
		case c.Expect.Error == "" && syntaxErr != nil:
			return fmt.Errorf("the program does not parse: %w", syntaxErr)
		case got == "":
			return fmt.Errorf("expected a %s, but the program succeeded", c.Expect.Error)
		default:
			return fmt.Errorf("expected a %s, got a %s", c.Expect.Error, got)
		}
	}
	if c.Expect.Output != nil && output != *c.Expect.Output {
		return fmt.Errorf("output %q does not match the expected %q", output, *c.Expect.Output)
	}
	return nil
}
