package onepassword

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"

	operrors "github.com/systmms/oprotate/internal/errors"
	"github.com/systmms/oprotate/pkg/exec"
)

// Client drives the 1Password CLI. All invocations go through an
// injectable executor so tests never spawn a real `op` process.
type Client struct {
	executor exec.CommandExecutor
	account  string
}

// NewClient creates a client using the given executor. The account
// shorthand is optional; when set it is passed to every invocation.
func NewClient(executor exec.CommandExecutor, account string) *Client {
	if executor == nil {
		executor = exec.DefaultExecutor()
	}
	return &Client{executor: executor, account: account}
}

func (c *Client) args(base ...string) []string {
	if c.account != "" {
		return append(base, "--account", c.account)
	}
	return base
}

// Validate checks that the `op` CLI is available and authenticated.
func (c *Client) Validate(ctx context.Context) error {
	if _, err := osexec.LookPath("op"); err != nil {
		return operrors.UserError{
			Message:    "1Password CLI not found in PATH",
			Suggestion: "Install it from https://developer.1password.com/docs/cli/",
			Err:        err,
		}
	}

	if _, _, err := c.executor.Execute(ctx, "op", c.args("account", "get")...); err != nil {
		return operrors.UserError{
			Message:    "1Password CLI authentication required",
			Suggestion: "Run: op signin",
			Err:        err,
		}
	}

	return nil
}

// ListItems enumerates the summaries of every item in the named vault.
func (c *Client) ListItems(ctx context.Context, vault string) ([]ItemSummary, error) {
	stdout, stderr, err := c.executor.Execute(ctx, "op", c.args("item", "list", "--vault", vault, "--format", "json")...)
	if err != nil {
		return nil, commandError("op item list", stderr, err,
			fmt.Sprintf("Check that vault '%s' exists and you have access to it", vault))
	}

	var summaries []ItemSummary
	if err := json.Unmarshal(stdout, &summaries); err != nil {
		return nil, fmt.Errorf("failed to parse vault item list: %w", err)
	}
	return summaries, nil
}

// GetItem fetches an item's full structured template.
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	stdout, stderr, err := c.executor.Execute(ctx, "op", c.args("item", "get", id, "--format", "json")...)
	if err != nil {
		return nil, commandError("op item get", stderr, err,
			fmt.Sprintf("Check that item '%s' still exists", id))
	}

	var item Item
	if err := json.Unmarshal(stdout, &item); err != nil {
		return nil, fmt.Errorf("failed to parse vault item %s: %w", id, err)
	}
	return &item, nil
}

// EditItem submits a full replacement of the item's structured content.
// The serialized item is streamed to the CLI's stdin.
func (c *Client) EditItem(ctx context.Context, id string, payload []byte) error {
	_, stderr, err := c.executor.ExecuteWithStdin(ctx, payload, "op", c.args("item", "edit", id)...)
	if err != nil {
		return commandError("op item edit", stderr, err,
			"The item may have been modified concurrently; re-run the rotation")
	}
	return nil
}

func commandError(command string, stderr []byte, err error, suggestion string) error {
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		msg = err.Error()
	}
	return operrors.CommandError{
		Command:    command,
		ExitCode:   exitCode(err),
		Message:    msg,
		Suggestion: suggestion,
	}
}

func exitCode(err error) int {
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 0
}
