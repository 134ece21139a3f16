package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteFileAtomic verifies files are created with parent directories and overwritten in place.
func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "zkconf.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0644))
	assert.True(t, FileExists(path))

	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	// Only the target file should remain in the directory
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestMakeDirectoryOverFile verifies MakeDirectory refuses to shadow an existing file.
func TestMakeDirectoryOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	assert.Error(t, MakeDirectory(path))
	assert.False(t, FileExists(filepath.Dir(path)))
	assert.Equal(t, "zkconf", GetFileNameWithoutExtension("/a/b/zkconf.yaml"))
}
