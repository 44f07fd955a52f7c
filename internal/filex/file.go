// Package filex provides small filesystem helpers shared by the upload
// pipeline and the artifact store.
package filex

import (
	"fmt"
	"os"
)

// EnsureDir creates dir (and any missing parents) with restrictive
// permissions. It is a no-op if the directory already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// RemoveFile deletes path, ignoring the case where it is already gone.
// Used to discard temp files on upload failure paths, where a missing file
// means cleanup already happened.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
