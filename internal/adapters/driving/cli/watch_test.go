package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [directory]", watchCmd.Use)
}

func TestWatchCmd_RejectsMissingDirectory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", filepath.Join(t.TempDir(), "absent")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestWatchCmd_RejectsFileArgument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"watch", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
