package harness

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/terraform"
)

// fakeDriver records lifecycle calls and returns scripted results.
type fakeDriver struct {
	setupErr  error
	applyErr  error
	outputErr error
	outputs   terraform.Outputs

	setupFiles   []string
	applyVars    terraform.Vars
	destroyVars  []terraform.Vars
	destroyCalls int
}

func (d *fakeDriver) Setup(_ context.Context, extraFiles ...string) error {
	d.setupFiles = extraFiles
	return d.setupErr
}

func (d *fakeDriver) Apply(_ context.Context, vars terraform.Vars) error {
	d.applyVars = vars
	return d.applyErr
}

func (d *fakeDriver) Output(_ context.Context) (terraform.Outputs, error) {
	return d.outputs, d.outputErr
}

func (d *fakeDriver) Destroy(_ context.Context, vars terraform.Vars) error {
	d.destroyCalls++
	d.destroyVars = append(d.destroyVars, vars)
	return nil
}

func TestNewFixtureVars(t *testing.T) {
	fixture, err := NewFixture(&fakeDriver{})
	require.NoError(t, err)

	vars := fixture.Vars()
	assert.Equal(t, AssumeRoleName, vars["assume_role_name"])
	assert.Equal(t, UpdateRoleName, vars["update_role_name"])

	var doc PolicyDocument
	require.NoError(t, json.Unmarshal([]byte(vars["trust_policy"]), &doc),
		"trust_policy variable should be serialized JSON")
	assert.Equal(t, "2012-10-17", doc.Version)
}

func TestFixtureProvision(t *testing.T) {
	driver := &fakeDriver{
		outputs: terraform.Outputs{"lambda": map[string]interface{}{"function_name": "fn"}},
	}
	fixture, err := NewFixture(driver, "tests/localstack.tf")
	require.NoError(t, err)

	outputs, release, err := fixture.Provision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, driver.outputs, outputs)
	assert.Equal(t, []string{"tests/localstack.tf"}, driver.setupFiles)

	release()
	assert.Equal(t, 1, driver.destroyCalls)
	require.Len(t, driver.destroyVars, 1)
	assert.Equal(t, driver.applyVars, driver.destroyVars[0],
		"destroy must use the same variable set as apply")
}

func TestFixtureReleaseRunsOnce(t *testing.T) {
	driver := &fakeDriver{outputs: terraform.Outputs{}}
	fixture, err := NewFixture(driver)
	require.NoError(t, err)

	_, release, err := fixture.Provision(context.Background())
	require.NoError(t, err)

	release()
	release()
	release()
	assert.Equal(t, 1, driver.destroyCalls, "release must destroy exactly once")
}

func TestFixtureProvisionApplyFailure(t *testing.T) {
	applyErr := &terraform.ProvisionError{Op: "apply", Err: errors.New("exit status 1")}
	driver := &fakeDriver{applyErr: applyErr}
	fixture, err := NewFixture(driver)
	require.NoError(t, err)

	_, release, err := fixture.Provision(context.Background())
	require.Error(t, err)

	var provErr *terraform.ProvisionError
	assert.ErrorAs(t, err, &provErr, "apply failure should surface as a ProvisionError")

	// A failed apply may still have created resources; release must be
	// callable and must destroy.
	require.NotNil(t, release)
	release()
	assert.Equal(t, 1, driver.destroyCalls)
}

func TestFixtureProvisionSetupFailure(t *testing.T) {
	driver := &fakeDriver{setupErr: errors.New("init failed")}
	fixture, err := NewFixture(driver)
	require.NoError(t, err)

	_, release, err := fixture.Provision(context.Background())
	require.Error(t, err)
	require.NotNil(t, release)

	release()
	assert.Equal(t, 1, driver.destroyCalls)
}
