// Package engine executes concrete firewall backend commands and aggregates
// per-command results. All backend process invocation, mutating or not, goes
// through this package.
package engine

import "errors"

// DefaultMaxOutputBytes is the default maximum captured output per command (1 MiB).
const DefaultMaxOutputBytes = 1 << 20

// Config holds the configuration for command execution.
type Config struct {
	// MaxOutputBytes is the maximum stdout/stderr capture per command in bytes.
	// Must be at least 1024. Default: 1 MiB.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxOutputBytes == 0 {
		c.MaxOutputBytes = DefaultMaxOutputBytes
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.MaxOutputBytes < 1024 {
		return errors.New("engine: config: MaxOutputBytes must be at least 1024")
	}
	return nil
}
