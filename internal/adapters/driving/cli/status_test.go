package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
}

func TestStatusCmd_ReportsCorpusCounts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Storage backend:   memory")
	assert.Contains(t, out, "Documents:         1")
	assert.Contains(t, out, "Indexed chunks:")
}

func TestStatusCmd_EmptyCorpus(t *testing.T) {
	cleanup := setupTestServicesEmpty()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Documents:         0")
}
