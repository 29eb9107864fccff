// Package terraform drives the external terraform CLI through its
// init/apply/output/destroy lifecycle.
package terraform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/config"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/constants"
	"github.com/MetroStar/terraform-aws-org-new-account-trust-policy/internal/logger"
)

// Vars is the set of -var assignments passed to both apply and destroy.
type Vars map[string]string

// args renders the variable set as repeated -var flags in a stable order.
func (v Vars) args() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, "-var", fmt.Sprintf("%s=%s", k, v[k]))
	}
	return args
}

// ProvisionError indicates a failure in the provisioning lifecycle itself.
// Callers treat it as fatal: no assertion can produce a meaningful result
// after a failed apply.
type ProvisionError struct {
	Op  string
	Err error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("terraform %s failed: %v", e.Op, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Runner executes the terraform binary against a single configuration
// directory. Extra files staged during Setup are removed again when Destroy
// completes.
type Runner struct {
	dir    string
	bin    string
	region string
	staged []string
}

// NewRunner creates a runner for the Terraform configuration in configDir.
func NewRunner(configDir string) *Runner {
	return &Runner{
		dir:    configDir,
		bin:    config.GetEnv(constants.EnvTerraformBin, constants.DefaultTerraformBin),
		region: config.GetEnv(constants.EnvAWSRegion, constants.DefaultRegion),
	}
}

// Setup stages the given extra files into the configuration directory and
// runs terraform init. The staged files (e.g. a LocalStack provider override)
// become part of the configuration until Destroy removes them.
func (r *Runner) Setup(ctx context.Context, extraFiles ...string) error {
	staged, err := stageFiles(r.dir, extraFiles)
	if err != nil {
		return &ProvisionError{Op: "setup", Err: err}
	}
	r.staged = staged

	if err := r.run(ctx, "init", "-input=false", "-no-color"); err != nil {
		return &ProvisionError{Op: "init", Err: err}
	}
	return nil
}

// Apply provisions the configuration with the given variables.
func (r *Runner) Apply(ctx context.Context, vars Vars) error {
	args := append([]string{"apply", "-auto-approve", "-input=false", "-no-color"}, vars.args()...)
	if err := r.run(ctx, args...); err != nil {
		return &ProvisionError{Op: "apply", Err: err}
	}
	return nil
}

// Output captures the configuration's output values.
func (r *Runner) Output(ctx context.Context) (Outputs, error) {
	raw, err := r.runCapture(ctx, "output", "-json")
	if err != nil {
		return nil, &ProvisionError{Op: "output", Err: err}
	}

	outputs, err := parseOutputs(raw)
	if err != nil {
		return nil, &ProvisionError{Op: "output", Err: err}
	}
	return outputs, nil
}

// Destroy tears down the provisioned configuration with the same variable
// set used for Apply, then unstages any files copied in during Setup.
// Unstaging is best effort.
func (r *Runner) Destroy(ctx context.Context, vars Vars) error {
	args := append([]string{"destroy", "-auto-approve", "-input=false", "-no-color"}, vars.args()...)
	runErr := r.run(ctx, args...)

	for _, path := range r.staged {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("Failed to remove staged file %s: %v", path, err)
		}
	}
	r.staged = nil

	if runErr != nil {
		return &ProvisionError{Op: "destroy", Err: runErr}
	}
	return nil
}

// run executes terraform with output streamed to the caller's stdout/stderr.
func (r *Runner) run(ctx context.Context, args ...string) error {
	// #nosec G204 -- command arguments are constructed from validated inputs
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = r.dir
	cmd.Env = r.environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run terraform %s (check output above for details): %w", args[0], err)
	}
	return nil
}

// runCapture executes terraform and returns its stdout.
func (r *Runner) runCapture(ctx context.Context, args ...string) ([]byte, error) {
	var stdout bytes.Buffer

	// #nosec G204 -- command arguments are constructed from validated inputs
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = r.dir
	cmd.Env = r.environ()
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run terraform %s (check output above for details): %w", args[0], err)
	}
	return stdout.Bytes(), nil
}

// environ returns the process environment with AWS_DEFAULT_REGION pinned to
// the runner's region. Terraform requires the variable to be set even when
// the provider gets its region elsewhere.
func (r *Runner) environ() []string {
	env := os.Environ()
	env = append(env, fmt.Sprintf("%s=%s", constants.EnvAWSDefaultRegion, r.region))
	return env
}

// stageFiles copies each source file into dstDir and returns the paths of the
// copies, so they can be removed during teardown.
func stageFiles(dstDir string, files []string) ([]string, error) {
	var staged []string
	for _, src := range files {
		dst := filepath.Join(dstDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return staged, fmt.Errorf("failed to stage extra file %q: %w", src, err)
		}
		staged = append(staged, dst)
	}
	return staged, nil
}

func copyFile(src, dst string) error {
	// #nosec G304 -- paths come from harness configuration, not user input
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	// #nosec G304 -- paths come from harness configuration, not user input
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// outputEntry mirrors the per-output wrapper emitted by terraform output -json.
type outputEntry struct {
	Sensitive bool            `json:"sensitive"`
	Value     json.RawMessage `json:"value"`
}

// Outputs maps each logical output name to its decoded value.
type Outputs map[string]interface{}

// Keys returns the sorted output names.
func (o Outputs) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Object returns the named output as a JSON object, or false if the output
// is missing or not an object.
func (o Outputs) Object(name string) (map[string]interface{}, bool) {
	value, ok := o[name]
	if !ok {
		return nil, false
	}
	obj, ok := value.(map[string]interface{})
	return obj, ok
}

// parseOutputs decodes the JSON produced by terraform output -json into the
// plain name-to-value mapping consumers work with.
func parseOutputs(raw []byte) (Outputs, error) {
	var entries map[string]outputEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode terraform outputs: %w", err)
	}

	outputs := make(Outputs, len(entries))
	for name, entry := range entries {
		var value interface{}
		if err := json.Unmarshal(entry.Value, &value); err != nil {
			return nil, fmt.Errorf("failed to decode terraform output %q: %w", name, err)
		}
		outputs[name] = value
	}
	return outputs, nil
}
