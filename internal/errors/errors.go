// Package errors defines the error types surfaced to users.
//
// Two severities exist: SkipError is recoverable and lets the rotation
// loop continue with the next credential, everything else aborts the run.
package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// CommandError represents a failure of an external CLI invocation.
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// SkipError marks a per-credential failure that must not halt the run:
// no vault item matched, the item carries no fields, or no concealed
// field exists. The run loop matches on it with errors.As and warns.
type SkipError struct {
	Issuer     string
	Credential string
	Vault      string
	Reason     string
}

func (e SkipError) Error() string {
	return fmt.Sprintf("{issuer=%s,cred=%s,vault=%s} %s, skipping", e.Issuer, e.Credential, e.Vault, e.Reason)
}
