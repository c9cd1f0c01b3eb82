// Package exec provides abstractions for command execution.
// This package enables testable code by allowing CLI commands to be mocked.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CommandExecutor defines an interface for executing shell commands.
// This abstraction allows for mocking CLI tool behavior in tests.
type CommandExecutor interface {
	// Execute runs a command with the given context and arguments.
	// Returns stdout, stderr, and any error that occurred.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

	// ExecuteWithStdin runs a command and feeds input to its stdin.
	// The payload is written from a dedicated goroutine while the caller
	// waits for the process, so an input larger than the OS pipe buffer
	// cannot deadlock against a command that produces output first.
	ExecuteWithStdin(ctx context.Context, input []byte, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// RealCommandExecutor executes actual shell commands using os/exec.
// This is the production implementation.
type RealCommandExecutor struct{}

// Execute runs an actual shell command.
func (r *RealCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ExecuteWithStdin runs an actual shell command with the given stdin payload.
func (r *RealCommandExecutor) ExecuteWithStdin(ctx context.Context, input []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	// The pipe is bounded: writing inline before Wait() can block forever
	// if the process produces output before draining its stdin.
	writeErr := make(chan error, 1)
	go func() {
		_, werr := stdin.Write(input)
		if cerr := stdin.Close(); werr == nil {
			werr = cerr
		}
		writeErr <- werr
	}()

	err = cmd.Wait()
	if werr := <-writeErr; err == nil && werr != nil {
		err = fmt.Errorf("failed to write stdin payload: %w", werr)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultExecutor returns the standard production executor.
// This is used as the default when no executor is injected.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}
