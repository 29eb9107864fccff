// Package constants provides centralized definitions of constants used throughout the harness
package constants

// Environment variable names
const (
	// EnvAWSRegion is the environment variable selecting the AWS region for the test run
	EnvAWSRegion = "AWS_REGION"

	// EnvAWSDefaultRegion is the environment variable Terraform requires to be set
	// before any provider operation
	EnvAWSDefaultRegion = "AWS_DEFAULT_REGION"

	// EnvAWSEndpointURL is the environment variable overriding the AWS endpoint,
	// pointed at the LocalStack edge port
	EnvAWSEndpointURL = "AWS_ENDPOINT_URL"

	// EnvTerraformBin is the environment variable overriding the terraform binary path
	EnvTerraformBin = "TPTEST_TERRAFORM_BIN"
)

// Default values used when the corresponding environment variable is unset
const (
	// DefaultRegion is the region used for the emulated stack
	DefaultRegion = "us-east-1"

	// DefaultEndpointURL is the LocalStack edge endpoint
	DefaultEndpointURL = "http://localhost:4566"

	// DefaultTerraformBin is the terraform binary resolved from PATH
	DefaultTerraformBin = "terraform"
)
