// Package localstack produces AWS service clients wired to a LocalStack
// endpoint for offline integration testing.
package localstack

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/config"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/constants"
)

// Session carries the endpoint and region settings for emulated AWS calls.
// LocalStack accepts any static credentials, so the session pins a fixed
// test pair rather than relying on the ambient credential chain.
type Session struct {
	Region   string
	Endpoint string
}

// NewSession resolves a session from the environment, defaulting to the
// standard LocalStack edge endpoint and region.
func NewSession() *Session {
	return &Session{
		Region:   config.GetEnv(constants.EnvAWSRegion, constants.DefaultRegion),
		Endpoint: config.GetEnv(constants.EnvAWSEndpointURL, constants.DefaultEndpointURL),
	}
}

// Lambda returns a Lambda client pointed at the emulator.
func (s *Session) Lambda(ctx context.Context) (*lambda.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := lambda.NewFromConfig(cfg, func(o *lambda.Options) {
		o.BaseEndpoint = aws.String(s.Endpoint)
	})
	return client, nil
}
