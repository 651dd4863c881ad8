package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Manager locates and maintains the scratch/output/preset directories
// the CLI and serve commands share.
type Manager struct {
	basePath string
	logger   *zap.Logger
}

// NewManager creates a new storage manager rooted at basePath.
func NewManager(basePath string, logger *zap.Logger) *Manager {
	return &Manager{basePath: basePath, logger: logger}
}

// Initialize creates the storage directory structure.
func (m *Manager) Initialize() error {
	dirs := []string{m.OutputsDir(), m.TempDir(), m.PresetsDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		m.logger.Info("created storage directory", zap.String("path", dir))
	}
	return nil
}

// OutputsDir returns the directory the serve command's
// /api/outputs/:filename route serves files from. Clip operations write
// to the output path they are given and do not place files here.
func (m *Manager) OutputsDir() string {
	return filepath.Join(m.basePath, "outputs")
}

// TempDir returns the storage scratch directory created by Initialize.
// The Hybrid Executor's temp directories live under the OS temp
// directory and the atomic-publish staging file sits beside the final
// output path, so neither is placed here.
func (m *Manager) TempDir() string {
	return filepath.Join(m.basePath, "temp")
}

// PresetsDir returns the directory the preset store persists one JSON
// file per saved Preset into.
func (m *Manager) PresetsDir() string {
	return filepath.Join(m.basePath, "presets")
}

// GetOutputPath returns the full path for an output filename.
func (m *Manager) GetOutputPath(filename string) string {
	return filepath.Join(m.OutputsDir(), filename)
}

// GetPresetPath returns the full path for a preset's JSON file.
func (m *Manager) GetPresetPath(id string) string {
	return filepath.Join(m.PresetsDir(), id+".json")
}

// FileExists reports whether a file exists at path.
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DeleteFile removes a file, tolerating one that's already gone.
func (m *Manager) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}
