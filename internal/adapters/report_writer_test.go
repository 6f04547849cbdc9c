package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriterAdapter_WriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "DEPENDENCIES.md")

	adapter := NewReportWriterAdapter()
	require.NoError(t, adapter.WriteReport(path, "# Licenses\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Licenses\n", string(data))
}

func TestReportWriterAdapter_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DEPENDENCIES.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	adapter := NewReportWriterAdapter()
	require.NoError(t, adapter.WriteReport(path, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
