package test

import (
	"context"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/harness"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/localstack"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/terraform"
)

// clientFactory builds the Lambda client for an emulator session.
type clientFactory func(ctx context.Context, session *localstack.Session) (harness.Invoker, error)

// lambdaClient is the production factory.
func lambdaClient(ctx context.Context, session *localstack.Session) (harness.Invoker, error) {
	return session.Lambda(ctx)
}

// harnessState carries everything the suite acquires during setup.
type harnessState struct {
	outputs terraform.Outputs
	release func()
	session *localstack.Session
	client  harness.Invoker
}

// setupHarness provisions the configuration and builds the emulator client.
// If any step fails after a successful provision, the stack is released
// before the error is returned, so a partially-initialized setup never
// leaks provisioned resources.
func setupHarness(ctx context.Context, driver harness.Driver, newClient clientFactory, extraFiles ...string) (*harnessState, error) {
	fixture, err := harness.NewFixture(driver, extraFiles...)
	if err != nil {
		return nil, err
	}

	outputs, release, err := fixture.Provision(ctx)
	if err != nil {
		release()
		return nil, err
	}

	session := localstack.NewSession()
	client, err := newClient(ctx, session)
	if err != nil {
		release()
		return nil, err
	}

	return &harnessState{
		outputs: outputs,
		release: release,
		session: session,
		client:  client,
	}, nil
}
