//go:build windows

package utils

import "os"

// renameio does not support Windows, where rename over an open file is not atomic anyway.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}
