package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Toolchain command placeholders
const (
	SourceVar = "${source}"
	OutputVar = "${output}"
	NameVar   = "${name}"
)

// DefaultCommand builds a standalone main package
const DefaultCommand = "go build -o " + OutputVar + " " + SourceVar

// Config represents compiler configuration
type Config struct {
	// WorkURL is a local file location holding build workspaces and executables
	WorkURL string `json:"workURL" yaml:"workURL"`
	// Command is the toolchain command template
	Command string `json:"command" yaml:"command"`
	// Workers bounds concurrent toolchain invocations
	Workers int `json:"workers" yaml:"workers"`
	// TimeoutMs is the max build time
	TimeoutMs int `json:"timeoutMs" yaml:"timeoutMs"`
	// Env is applied to toolchain sessions
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// DefaultConfig returns the default compiler configuration
func DefaultConfig() Config {
	return Config{
		WorkURL:   filepath.Join(os.TempDir(), "allocman"),
		Command:   DefaultCommand,
		Workers:   2,
		TimeoutMs: 120000,
	}
}

// Timeout returns build timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Validate returns an error describing invalid settings or nil
func (c *Config) Validate() error {
	if c.WorkURL == "" {
		return fmt.Errorf("compiler.workURL was empty")
	}
	if !strings.Contains(c.Command, SourceVar) {
		return fmt.Errorf("compiler.command must reference %v", SourceVar)
	}
	if !strings.Contains(c.Command, OutputVar) {
		return fmt.Errorf("compiler.command must reference %v", OutputVar)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("compiler.workers must be > 0")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("compiler.timeoutMs must be > 0")
	}
	return nil
}
