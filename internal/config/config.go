// Package config holds the runtime wiring shared by all commands.
package config

import (
	"github.com/systmms/oprotate/internal/logging"
	"github.com/systmms/oprotate/pkg/exec"
)

// Config carries the dependencies every command needs: the logger built
// from the global flags and the executor used for all `op` invocations.
// Tests swap Executor for a mock.
type Config struct {
	Logger         *logging.Logger
	Executor       exec.CommandExecutor
	NonInteractive bool
}

// CommandExecutor returns the configured executor, defaulting to the
// real one so commands work without explicit wiring.
func (c *Config) CommandExecutor() exec.CommandExecutor {
	if c.Executor == nil {
		c.Executor = exec.DefaultExecutor()
	}
	return c.Executor
}
