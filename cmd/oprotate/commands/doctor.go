package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/oprotate/internal/config"
	"github.com/systmms/oprotate/internal/onepassword"
)

// NewDoctorCommand creates the doctor command, a preflight check for the
// op CLI and vault access.
func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var (
		vaultName string
		account   string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check 1Password CLI availability and vault access",
		Long: `Verify that a rotation run can proceed.

This command checks:
- The 'op' CLI is installed and on PATH
- An authenticated session exists
- The target vault is reachable (when --vault is given)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client := onepassword.NewClient(cfg.CommandExecutor(), account)

			cfg.Logger.Info("Checking 1Password CLI...")
			if err := client.Validate(ctx); err != nil {
				cfg.Logger.Error("1Password CLI check failed: %v", err)
				return err
			}
			cfg.Logger.Info("1Password CLI is available and authenticated")

			if vaultName != "" {
				items, err := client.ListItems(ctx, vaultName)
				if err != nil {
					cfg.Logger.Error("Vault check failed: %v", err)
					return fmt.Errorf("failed to list vault '%s': %w", vaultName, err)
				}
				cfg.Logger.Info("Vault '%s' is reachable (%d items)", vaultName, len(items))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&vaultName, "vault", "", "Also verify access to this vault")
	cmd.Flags().StringVar(&account, "account", "", "1Password account shorthand (optional)")

	return cmd
}
