// Package cli builds the cobra command tree the goclip binary runs:
// clip, inspect, verify, and the optional serve front end.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/config"
	"github.com/mifi/goclip/internal/core"
	"github.com/mifi/goclip/internal/ffmpegadapter"
	"github.com/mifi/goclip/internal/fsadapter"
	"github.com/mifi/goclip/internal/services"
	"github.com/mifi/goclip/internal/storage"
)

var configPath string

// NewRootCommand builds the top-level "goclip" cobra command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "goclip",
		Short: "Fast, lossless-first video clipping",
		Long:  "goclip extracts a time range from a video, choosing between stream copy, re-encode, and a hybrid of both, with verification of the result.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")

	root.AddCommand(newClipCommand())
	root.AddCommand(newInspectCommand())
	root.AddCommand(newVerifyCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newPresetCommand())

	return root
}

// buildClipper loads config and wires the three ports into a
// core.Clipper, used by the inspect and verify commands.
func buildClipper(logger *zap.Logger) (*core.Clipper, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	probe := ffmpegadapter.NewProbeAdapter(cfg.FFmpeg.ProbePath, logger)
	exec := ffmpegadapter.NewAdapter(cfg.FFmpeg.Path, logger)
	fs := fsadapter.New()

	clipper := core.NewClipper(probe, exec, fs)
	clipper.SelectorCfg.MinCopyDuration = cfg.Clip.MinCopyDuration
	clipper.VerifierCfg.DurationTolerance = cfg.Verifier.DurationTolerance
	clipper.VerifierCfg.MinFileSize = cfg.Verifier.MinFileSize

	return clipper, cfg, nil
}

// buildServices wires the full service layer (including the preset
// store), used by the clip, preset and serve commands.
func buildServices(logger *zap.Logger) (*services.Services, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	probe := ffmpegadapter.NewProbeAdapter(cfg.FFmpeg.ProbePath, logger)
	exec := ffmpegadapter.NewAdapter(cfg.FFmpeg.Path, logger)
	fs := fsadapter.New()

	storageManager := storage.NewManager(cfg.Storage.BasePath, logger)
	if err := storageManager.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("initialize storage: %w", err)
	}

	return services.NewServices(probe, exec, fs, storageManager, cfg, logger), cfg, nil
}

// newLogger builds the zap logger every subcommand shares, production
// JSON encoding unless GOCLIP_DEV_LOG is set.
func newLogger() *zap.Logger {
	if os.Getenv("GOCLIP_DEV_LOG") != "" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// exitWithCode maps a core error to the documented process exit code
// and terminates the process. Intended to be called from a RunE
// wrapper after printing the error.
func exitWithCode(err error) {
	os.Exit(core.ExitCode(err))
}
