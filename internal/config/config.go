package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the fully-resolved application configuration, loaded from
// (in increasing priority) built-in defaults, a config file, and
// GOCLIP_-prefixed environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	FFmpeg   FFmpegConfig   `mapstructure:"ffmpeg"`
	Clip     ClipConfig     `mapstructure:"clip"`
	Verifier VerifierConfig `mapstructure:"verifier"`
}

// ServerConfig controls the optional `serve` HTTP mode.
type ServerConfig struct {
	Host          string   `mapstructure:"host"`
	Port          int      `mapstructure:"port"`
	MaxUploadSize int64    `mapstructure:"max_upload_size"`
	Production    bool     `mapstructure:"production"`
	CorsOrigins   []string `mapstructure:"cors_origins"`
}

// StorageConfig locates the scratch/output/preset directories the CLI and
// server share.
type StorageConfig struct {
	BasePath         string `mapstructure:"base_path"`
	AutoCleanup      bool   `mapstructure:"auto_cleanup"`
	CleanupAfterDays int    `mapstructure:"cleanup_after_days"`
}

// FFmpegConfig locates the ffmpeg/ffprobe binaries.
type FFmpegConfig struct {
	Path        string `mapstructure:"path"`
	ProbePath   string `mapstructure:"probe_path"`
	Threads     int    `mapstructure:"threads"`
}

// ClipConfig carries the Selector/Mapper defaults exposed as config so an
// operator can tune them without recompiling.
type ClipConfig struct {
	MinCopyDuration float64 `mapstructure:"min_copy_duration"`
	DefaultCRF      int     `mapstructure:"default_crf"`
	DefaultPreset   string  `mapstructure:"default_preset"`
	DefaultVideoCodec string `mapstructure:"default_video_codec"`
	DefaultAudioCodec string `mapstructure:"default_audio_codec"`
	DefaultContainer  string `mapstructure:"default_container"`
}

// VerifierConfig mirrors core.VerifierConfig so its tolerances are
// operator-tunable too.
type VerifierConfig struct {
	DurationTolerance float64 `mapstructure:"duration_tolerance"`
	MinFileSize       int64   `mapstructure:"min_file_size"`
}

// Load reads configuration from configPath (or the default search
// locations when empty), falling back to defaults for anything unset.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/goclip/")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".goclip"))
	}

	v.SetEnvPrefix("GOCLIP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "/var/lib/goclip"
	}
	cfg.Storage.BasePath = os.ExpandEnv(cfg.Storage.BasePath)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_size", 10737418240) // 10GB
	v.SetDefault("server.production", false)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("storage.base_path", "/var/lib/goclip")
	v.SetDefault("storage.auto_cleanup", true)
	v.SetDefault("storage.cleanup_after_days", 7)

	v.SetDefault("ffmpeg.path", "ffmpeg")
	v.SetDefault("ffmpeg.probe_path", "ffprobe")
	v.SetDefault("ffmpeg.threads", 0) // auto

	v.SetDefault("clip.min_copy_duration", 2.0)
	v.SetDefault("clip.default_crf", 23)
	v.SetDefault("clip.default_preset", "veryfast")
	v.SetDefault("clip.default_video_codec", "libx264")
	v.SetDefault("clip.default_audio_codec", "aac")
	v.SetDefault("clip.default_container", "mp4")

	v.SetDefault("verifier.duration_tolerance", 0.1)
	v.SetDefault("verifier.min_file_size", 1024)
}
