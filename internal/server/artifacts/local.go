package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/geauxvirtual/hapi/internal/filex"
)

// LocalStore writes artifacts under <baseDir>/<userID>/<filename>, creating
// the per-user directory on first use.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Put(ctx context.Context, userID, filename, srcPath string) error {
	dir := filepath.Join(s.baseDir, userID)
	if err := filex.EnsureDir(dir); err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest := filepath.Join(dir, filename)
	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = filex.RemoveFile(dest)
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	if err := dst.Close(); err != nil {
		_ = filex.RemoveFile(dest)
		return fmt.Errorf("close %s: %w", dest, err)
	}

	return nil
}

func (s *LocalStore) Delete(ctx context.Context, userID, filename string) error {
	return filex.RemoveFile(filepath.Join(s.baseDir, userID, filename))
}
