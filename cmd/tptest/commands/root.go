// Package commands implements the tptest CLI surface.
package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/tfconfig"
)

// flag names
const (
	flagConfigDir = "config-dir"
	flagExtraFile = "extra-file"
)

var (
	// configDir holds the Terraform configuration directory. Empty means
	// locate it from the working directory.
	configDir string
	// extraFiles are staged into the configuration directory during setup.
	extraFiles []string
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&configDir, flagConfigDir, "c", "",
		"Terraform configuration directory (default: nearest ancestor containing *.tf)")
	RootCmd.PersistentFlags().StringSliceVarP(&extraFiles, flagExtraFile, "f",
		[]string{filepath.Join("tests", "localstack.tf")},
		"Extra files staged into the configuration directory before init")

	RootCmd.AddCommand(GetRunCmd())
	RootCmd.AddCommand(GetVerifyCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tptest",
	Short: "Integration harness for the new-account trust-policy deployment",
	Long: `tptest provisions the new-account trust-policy Terraform configuration
against LocalStack, verifies the deployed Lambda through the Lambda API, and
destroys the provisioned resources afterwards.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// resolveConfigDir returns the configuration directory from the flag, or
// locates it by walking up from the working directory.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return tfconfig.LocateFromWorkingDir()
}
