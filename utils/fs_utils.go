package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist.
// Returns an error, if one occurred.
func MakeDirectory(dirToMake string) error {
	dirInfo, err := os.Stat(dirToMake)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WithStack(os.MkdirAll(dirToMake, 0755))
		}
		return errors.WithStack(err)
	}

	// dirToMake is a file, throw an error accordingly
	if !dirInfo.IsDir() {
		return errors.Errorf("there is a file with the same name as %s", dirToMake)
	}
	return nil
}

// FileExists returns whether a regular file exists at the given path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteFileAtomic writes data to path through a temporary file in the same directory followed by a rename, so that a
// reader never observes a partially written file. Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := MakeDirectory(dir); err != nil {
			return err
		}
	}
	return errors.WithStack(writeFileAtomic(path, data, perm))
}

// GetFileNameWithoutExtension obtains a filename without the extension. This does not contain any preceding directory
// paths.
func GetFileNameWithoutExtension(filePath string) string {
	base := filepath.Base(filePath)
	return base[:len(base)-len(filepath.Ext(base))]
}
