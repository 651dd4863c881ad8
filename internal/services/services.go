package services

import (
	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/config"
	"github.com/mifi/goclip/internal/core"
	"github.com/mifi/goclip/internal/storage"
)

// Services aggregates the application services the API and CLI layers
// share.
type Services struct {
	Clip    *ClipService
	Preset  *PresetService
	Probe   core.ProbePort
	Storage *storage.Manager
	Logger  *zap.Logger
}

// NewServices wires the ports into a Clipper and builds the service
// layer on top of it.
func NewServices(probe core.ProbePort, exec core.ExecutePort, fs core.FsPort, storageManager *storage.Manager, cfg *config.Config, logger *zap.Logger) *Services {
	clipper := core.NewClipper(probe, exec, fs)
	clipper.SelectorCfg.MinCopyDuration = cfg.Clip.MinCopyDuration
	clipper.VerifierCfg.DurationTolerance = cfg.Verifier.DurationTolerance
	clipper.VerifierCfg.MinFileSize = cfg.Verifier.MinFileSize

	presetService := NewPresetService(storageManager, logger)

	return &Services{
		Clip:    NewClipService(clipper, presetService, cfg, logger),
		Preset:  presetService,
		Probe:   probe,
		Storage: storageManager,
		Logger:  logger,
	}
}
