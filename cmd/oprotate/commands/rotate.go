package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/systmms/oprotate/internal/config"
	"github.com/systmms/oprotate/internal/credsource"
	operrors "github.com/systmms/oprotate/internal/errors"
	"github.com/systmms/oprotate/internal/onepassword"
	"github.com/systmms/oprotate/internal/rotate"
)

// NewRotateCommand creates the rotate command, the tool's main pipeline.
func NewRotateCommand(cfg *config.Config) *cobra.Command {
	var (
		vaultName string
		account   string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "rotate <credentials-file>",
		Short: "Rotate a batch of credential values into a vault",
		Long: `Read a batch of new credential values and write each one into the
matching 1Password item.

For every (issuer, credential) pair the vault is searched for an item
whose title contains "<issuer> <credential name>" (case-insensitive).
The new value is written into the item's concealed credential field and
the updated item is submitted with 'op item edit'. Credentials that
cannot be matched are skipped with a warning; the run continues.

Examples:
  # Rotate everything in new-creds.yaml into the Production vault
  oprotate rotate new-creds.yaml --vault Production

  # Validate matching and serialization without submitting any edit
  oprotate rotate new-creds.yaml --vault Production --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if vaultName == "" {
				return operrors.UserError{
					Message:    "Vault name is required",
					Suggestion: "Use --vault <vault-name> to specify which vault to update",
				}
			}

			batch, err := credsource.Load(args[0])
			if err != nil {
				return err
			}

			runner := &rotate.Runner{
				Client: onepassword.NewClient(cfg.CommandExecutor(), account),
				Logger: cfg.Logger,
				Vault:  vaultName,
				DryRun: dryRun,
				Out:    cmd.OutOrStdout(),
			}

			return runner.Run(context.Background(), batch)
		},
	}

	cmd.Flags().StringVar(&vaultName, "vault", "", "1Password vault containing the items to update")
	cmd.Flags().StringVar(&account, "account", "", "1Password account shorthand (optional)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Serialize updates without submitting them")

	return cmd
}
