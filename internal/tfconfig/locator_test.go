package tfconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTF creates an empty Terraform file in dir.
func writeTF(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("# test fixture\n"), 0600))
}

func TestLocate(t *testing.T) {
	t.Run("finds config in starting directory", func(t *testing.T) {
		dir := t.TempDir()
		writeTF(t, dir, "main.tf")

		found, err := Locate(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, found)
	})

	t.Run("starting directory takes priority over ancestors", func(t *testing.T) {
		root := t.TempDir()
		writeTF(t, root, "main.tf")

		child := filepath.Join(root, "tests", "fixtures")
		require.NoError(t, os.MkdirAll(child, 0750))
		writeTF(t, child, "fixture.tf")

		found, err := Locate(child)
		require.NoError(t, err)
		assert.Equal(t, child, found, "should prefer the starting directory over its ancestors")
	})

	t.Run("walks up to the nearest ancestor with config", func(t *testing.T) {
		root := t.TempDir()
		writeTF(t, root, "main.tf")

		child := filepath.Join(root, "tests", "deep", "nested")
		require.NoError(t, os.MkdirAll(child, 0750))

		found, err := Locate(child)
		require.NoError(t, err)
		assert.Equal(t, root, found)
	})

	t.Run("nearest ancestor wins over farther ones", func(t *testing.T) {
		root := t.TempDir()
		writeTF(t, root, "main.tf")

		middle := filepath.Join(root, "modules", "trust_policy")
		require.NoError(t, os.MkdirAll(middle, 0750))
		writeTF(t, middle, "module.tf")

		child := filepath.Join(middle, "tests")
		require.NoError(t, os.MkdirAll(child, 0750))

		found, err := Locate(child)
		require.NoError(t, err)
		assert.Equal(t, middle, found)
	})

	t.Run("errors when no config exists up the chain", func(t *testing.T) {
		dir := t.TempDir()

		found, err := Locate(dir)
		require.Error(t, err)
		assert.Empty(t, found, "must never return a path without finding a config")
		assert.Contains(t, err.Error(), "unable to find a Terraform config file")
	})

	t.Run("ignores non-terraform files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "main.tf.backup"), []byte("x"), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0600))

		_, err := Locate(dir)
		require.Error(t, err)
	})
}

func TestLocateFromWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeTF(t, dir, "main.tf")

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to change back to original directory: %v", err)
		}
	}()

	found, err := LocateFromWorkingDir()
	require.NoError(t, err)

	// TempDir may sit behind a symlink (e.g. /tmp on darwin), so compare
	// resolved paths.
	wantResolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, wantResolved, gotResolved)
}
