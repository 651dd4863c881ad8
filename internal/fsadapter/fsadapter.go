// Package fsadapter implements core.FsPort against the local filesystem.
package fsadapter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mifi/goclip/internal/core"
)

// Adapter implements core.FsPort.
type Adapter struct{}

var _ core.FsPort = (*Adapter)(nil)

// New constructs an Adapter.
func New() *Adapter { return &Adapter{} }

// Exists reports whether path exists.
func (a *Adapter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MkTempDir creates a fresh scratch directory under os.TempDir with the
// given prefix.
func (a *Adapter) MkTempDir(prefix string) (string, error) {
	return os.MkdirTemp("", prefix)
}

// AtomicRename publishes src at dst. os.Rename is already atomic when
// src and dst share a filesystem (the Hybrid/Copy/Reencode executors
// always write their temp output beside the final path for exactly this
// reason); the directory fsync afterward matches the durability renameio
// provides for writes the core builds in memory (see the preset store).
func (a *Adapter) AtomicRename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", src, dst, err)
	}
	dir, err := os.Open(filepath.Dir(dst))
	if err != nil {
		return nil // best-effort durability; the rename itself already succeeded
	}
	defer dir.Close()
	_ = dir.Sync()
	return nil
}

// Remove deletes a single file, tolerating a file that's already gone.
func (a *Adapter) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll deletes a directory tree, tolerating one that's already gone.
func (a *Adapter) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// FileSize returns the size in bytes of the file at path.
func (a *Adapter) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
