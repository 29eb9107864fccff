package commands

import (
	"github.com/spf13/cobra"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/logger"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/terraform"
)

// GetVerifyCmd returns the verify command
func GetVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify an already-applied deployment without provisioning or destroying it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dir, err := resolveConfigDir()
			if err != nil {
				return err
			}
			logger.Infof("Using Terraform configuration in %s", dir)

			outputs, err := terraform.NewRunner(dir).Output(ctx)
			if err != nil {
				return err
			}

			return verifyDeployment(ctx, outputs)
		},
	}
}
