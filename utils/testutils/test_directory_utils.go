package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExecuteInDirectory executes the given method in a given test directory. It changes the current working directory
// to the directory specified, runs the provided method, then restores the working directory. This wraps tests so
// any file artifacts generated do not end up in the codebase directories.
func ExecuteInDirectory(t *testing.T, testPath string, method func()) {
	// Backup our old working directory
	cwd, err := os.Getwd()
	require.NoError(t, err)

	// Check if the test path refers to a file or directory, as we'll want to change our working directory to a
	// directory path.
	testPathInfo, err := os.Stat(testPath)
	require.NoError(t, err)

	testDirectory := testPath
	if !testPathInfo.IsDir() {
		testDirectory = filepath.Dir(testPath)
	}

	// Change our working directory to the test directory
	err = os.Chdir(testDirectory)
	require.NoError(t, err)

	// Restore our working directory (we must leave the test directory or else clean up will fail post testing)
	defer func() {
		require.NoError(t, os.Chdir(cwd))
	}()

	// Execute the given method
	method()
}

