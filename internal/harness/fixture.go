package harness

import (
	"context"
	"sync"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/logger"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/terraform"
)

// Driver is the provisioning surface the fixture drives. It is satisfied by
// terraform.Runner.
type Driver interface {
	Setup(ctx context.Context, extraFiles ...string) error
	Apply(ctx context.Context, vars terraform.Vars) error
	Output(ctx context.Context) (terraform.Outputs, error)
	Destroy(ctx context.Context, vars terraform.Vars) error
}

// Fixture owns the provision -> use -> destroy lifecycle for one test run.
type Fixture struct {
	driver      Driver
	vars        terraform.Vars
	extraFiles  []string
	releaseOnce sync.Once
}

// NewFixture creates a fixture around the given driver. Extra files are
// staged into the configuration directory during setup; the harness uses
// this for the LocalStack provider override.
func NewFixture(driver Driver, extraFiles ...string) (*Fixture, error) {
	policy, err := TrustPolicyJSON(FakeAccountID)
	if err != nil {
		return nil, err
	}

	return &Fixture{
		driver:     driver,
		extraFiles: extraFiles,
		vars: terraform.Vars{
			"assume_role_name": AssumeRoleName,
			"update_role_name": UpdateRoleName,
			"trust_policy":     policy,
		},
	}, nil
}

// Vars exposes the variable set shared by apply and destroy.
func (f *Fixture) Vars() terraform.Vars {
	return f.vars
}

// Provision runs setup and apply, then captures the configuration outputs.
// The returned release function destroys the provisioned resources with the
// same variable set; it runs at most once and must be called even when
// Provision returns an error, so partially-created resources are torn down.
func (f *Fixture) Provision(ctx context.Context) (terraform.Outputs, func(), error) {
	release := func() {
		f.releaseOnce.Do(func() {
			// Teardown proceeds even if the provisioning context was
			// cancelled.
			if err := f.driver.Destroy(context.Background(), f.vars); err != nil {
				logger.Errorf("Terraform destroy failed: %v", err)
			}
		})
	}

	if err := f.driver.Setup(ctx, f.extraFiles...); err != nil {
		return nil, release, err
	}

	if err := f.driver.Apply(ctx, f.vars); err != nil {
		return nil, release, err
	}

	outputs, err := f.driver.Output(ctx)
	if err != nil {
		return nil, release, err
	}

	return outputs, release, nil
}
