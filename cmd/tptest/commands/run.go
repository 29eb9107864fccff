package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/harness"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/localstack"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/logger"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/terraform"
)

// GetRunCmd returns the run command
func GetRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Provision the configuration, verify the deployment, then destroy it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHarness(cmd.Context())
		},
	}
}

func runHarness(ctx context.Context) error {
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	logger.Infof("Using Terraform configuration in %s", dir)

	fixture, err := harness.NewFixture(terraform.NewRunner(dir), extraFiles...)
	if err != nil {
		return err
	}

	outputs, release, err := fixture.Provision(ctx)
	defer release()
	if err != nil {
		return fmt.Errorf("catastrophic error running Terraform apply: %w", err)
	}
	logger.Infof("Provisioned configuration with outputs: %v", outputs.Keys())

	return verifyDeployment(ctx, outputs)
}

// verifyDeployment runs the three deployment checks. All checks run even
// when earlier ones fail, so a single run reports every mismatch.
func verifyDeployment(ctx context.Context, outputs terraform.Outputs) error {
	var failures []error

	if err := harness.CheckOutputs(outputs); err != nil {
		logger.Errorf("Output check failed: %v", err)
		failures = append(failures, err)
	} else {
		logger.Info("Output check passed")
	}

	functionName, err := harness.FunctionName(outputs)
	if err != nil {
		failures = append(failures, err)
		return errors.Join(failures...)
	}

	session := localstack.NewSession()
	client, err := session.Lambda(ctx)
	if err != nil {
		failures = append(failures, err)
		return errors.Join(failures...)
	}

	if err := harness.CheckDryRun(ctx, client, functionName); err != nil {
		logger.Errorf("Dry-run check failed: %v", err)
		failures = append(failures, err)
	} else {
		logger.Info("Dry-run check passed")
	}

	event := harness.NewAccountCreatedEvent(session.Region)
	if err := harness.CheckInvocation(ctx, client, functionName, event); err != nil {
		logger.Errorf("Invocation check failed: %v", err)
		failures = append(failures, err)
	} else {
		logger.Info("Invocation check passed")
	}

	return errors.Join(failures...)
}
