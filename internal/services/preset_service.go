package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/models"
	"github.com/mifi/goclip/internal/storage"
)

// PresetService persists named cut-range Presets, one JSON file per
// preset under the storage manager's presets directory.
type PresetService struct {
	storage *storage.Manager
	logger  *zap.Logger
}

// NewPresetService constructs a PresetService.
func NewPresetService(storageManager *storage.Manager, logger *zap.Logger) *PresetService {
	return &PresetService{storage: storageManager, logger: logger}
}

// Create builds and persists a new Preset.
func (s *PresetService) Create(preset models.Preset) (*models.Preset, error) {
	preset.ID = uuid.New().String()
	preset.CreatedAt = time.Now()
	preset.UpdatedAt = preset.CreatedAt

	if err := s.Save(&preset); err != nil {
		return nil, fmt.Errorf("save preset: %w", err)
	}

	s.logger.Info("created preset", zap.String("id", preset.ID), zap.String("name", preset.Name))
	return &preset, nil
}

// Get loads a Preset by ID.
func (s *PresetService) Get(id string) (*models.Preset, error) {
	path := s.storage.GetPresetPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("preset not found: %s", id)
		}
		return nil, fmt.Errorf("read preset: %w", err)
	}

	var preset models.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	return &preset, nil
}

// GetByName loads a Preset by its display name, used when a clip
// request references a preset by name rather than ID.
func (s *PresetService) GetByName(name string) (*models.Preset, error) {
	presets, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("preset not found: %s", name)
}

// ListByInput returns every saved Preset for a given input path, for
// the "replay a saved cut range for this file" use case.
func (s *PresetService) ListByInput(inputPath string) ([]*models.Preset, error) {
	presets, err := s.List()
	if err != nil {
		return nil, err
	}
	var matched []*models.Preset
	for _, p := range presets {
		if p.InputPath == inputPath {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// List returns every saved Preset.
func (s *PresetService) List() ([]*models.Preset, error) {
	entries, err := os.ReadDir(s.storage.PresetsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read presets directory: %w", err)
	}

	var presets []*models.Preset
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]
		preset, err := s.Get(id)
		if err != nil {
			s.logger.Warn("failed to load preset", zap.String("id", id), zap.Error(err))
			continue
		}
		presets = append(presets, preset)
	}
	return presets, nil
}

// Save writes preset to disk, durably and atomically: renameio handles
// temp file creation, fsync, atomic rename, and cleanup on error, which
// matters here because a torn preset file would silently corrupt the
// cut range a later clip replays.
func (s *PresetService) Save(preset *models.Preset) error {
	preset.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}

	path := s.storage.GetPresetPath(preset.ID)
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending preset file: %w", err)
	}
	defer func() {
		if cerr := pendingFile.Cleanup(); cerr != nil {
			s.logger.Debug("cleanup pending preset file", zap.Error(cerr))
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write preset data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace preset file: %w", err)
	}
	return nil
}

// Delete removes a saved Preset.
func (s *PresetService) Delete(id string) error {
	path := s.storage.GetPresetPath(id)
	if err := s.storage.DeleteFile(path); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	s.logger.Info("deleted preset", zap.String("id", id))
	return nil
}
