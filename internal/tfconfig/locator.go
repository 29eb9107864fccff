// Package tfconfig locates the Terraform configuration that drives the harness
package tfconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// Locate returns the nearest directory, starting at dir and walking toward the
// filesystem root, that contains at least one Terraform configuration file.
// The starting directory takes priority over its ancestors. It returns an
// error if no configuration exists anywhere up the ancestor chain.
func Locate(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve starting directory %q: %w", dir, err)
	}

	for {
		matches, err := filepath.Glob(filepath.Join(current, "*.tf"))
		if err != nil {
			return "", fmt.Errorf("failed to scan %q for Terraform files: %w", current, err)
		}
		if len(matches) > 0 {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("unable to find a Terraform config file in %q or any parent directory", dir)
		}
		current = parent
	}
}

// LocateFromWorkingDir locates the Terraform configuration starting at the
// current working directory.
func LocateFromWorkingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return Locate(cwd)
}
