// Package ffmpegadapter implements core.ProbePort and core.ExecutePort by
// shelling out to the ffmpeg/ffprobe command-line tools. It is the only
// package allowed to know about ffmpeg flags and wire formats; the core
// package only ever sees the three coarse operations below.
package ffmpegadapter

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/core"
)

// Adapter implements core.ExecutePort on top of the ffmpeg binary.
type Adapter struct {
	runner *runner
	logger *zap.Logger
}

// NewAdapter constructs an Adapter. An empty ffmpegPath falls back to the
// "ffmpeg" binary resolved from PATH.
func NewAdapter(ffmpegPath string, logger *zap.Logger) *Adapter {
	return &Adapter{runner: newRunner(ffmpegPath, logger), logger: logger}
}

var _ core.ExecutePort = (*Adapter)(nil)

// ExecuteCopy implements core.ExecutePort. It performs input-seeking
// (-ss before -i) so ffmpeg seeks directly to the nearest keyframe instead
// of decoding up to it, which is what makes stream-copy cuts near-instant.
func (a *Adapter) ExecuteCopy(ctx context.Context, req core.CopyRequest, onProgress core.ProgressFunc) error {
	duration := req.CutRange.Duration().Seconds()

	args := []string{
		"-hide_banner",
		"-ss", fmt.Sprintf("%.6f", req.CutRange.Start.Seconds()),
		"-i", req.InputPath,
		"-t", fmt.Sprintf("%.6f", duration),
	}
	args = append(args, mapArgs(req.StreamMappings)...)
	args = append(args, "-c", "copy")
	args = append(args, containerFlags(req.ContainerFormat)...)
	args = append(args, "-avoid_negative_ts", "make_zero", "-y", req.OutputPath)

	return a.runner.run(ctx, args, duration, progressFunc(onProgress))
}

// ExecuteReencode implements core.ExecutePort. It decodes and re-encodes
// every video and audio stream that isn't explicitly marked Copy in
// req.StreamMappings; subtitle streams are always passed through as copy.
func (a *Adapter) ExecuteReencode(ctx context.Context, req core.ReencodeRequest, onProgress core.ProgressFunc) error {
	duration := req.CutRange.Duration().Seconds()

	args := []string{
		"-hide_banner",
		"-ss", fmt.Sprintf("%.6f", req.CutRange.Start.Seconds()),
		"-i", req.InputPath,
		"-t", fmt.Sprintf("%.6f", duration),
	}
	args = append(args, mapArgs(req.StreamMappings)...)
	args = append(args, codecArgs(req.StreamMappings)...)
	args = append(args, containerFlags(req.ContainerFormat)...)
	args = append(args, "-avoid_negative_ts", "make_zero", "-y", req.OutputPath)

	return a.runner.run(ctx, args, duration, progressFunc(onProgress))
}

// ExecuteConcat implements core.ExecutePort using ffmpeg's concat demuxer,
// the lossless join path for segments produced by the Hybrid Executor.
func (a *Adapter) ExecuteConcat(ctx context.Context, req core.ConcatRequest, onProgress core.ProgressFunc) error {
	listFile := req.OutputPath + ".concat.txt"
	var sb strings.Builder
	for _, seg := range req.SegmentPaths {
		fmt.Fprintf(&sb, "file '%s'\n", seg)
	}
	if err := os.WriteFile(listFile, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-hide_banner",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-map", "0",
		"-c", "copy",
	}
	args = append(args, containerFlags(req.ContainerFormat)...)
	args = append(args, "-avoid_negative_ts", "make_zero", "-y", req.OutputPath)

	return a.runner.run(ctx, args, req.TotalDuration.Seconds(), progressFunc(onProgress))
}

func progressFunc(p core.ProgressFunc) func(float64) {
	if p == nil {
		return nil
	}
	return func(v float64) { p(v) }
}

// mapArgs emits one "-map 0:N" per non-skip stream, in output order,
// which is what makes StreamMapping.OutputIndex a true contiguous
// permutation in the resulting file.
func mapArgs(mappings []core.StreamMapping) []string {
	ordered := make([]core.StreamMapping, len(mappings))
	copy(ordered, mappings)
	sortByOutputIndex(ordered)

	var args []string
	for _, m := range ordered {
		if m.Action == core.ActionSkip {
			continue
		}
		args = append(args, "-map", fmt.Sprintf("0:%d", m.InputIndex))
	}
	return args
}

// codecArgs emits one -c:<kind>:<kind-local-index> flag per mapped
// stream, selecting "copy" or the mapping's target codec.
func codecArgs(mappings []core.StreamMapping) []string {
	ordered := make([]core.StreamMapping, len(mappings))
	copy(ordered, mappings)
	sortByOutputIndex(ordered)

	var args []string
	kindIndex := map[core.StreamKind]int{}
	for _, m := range ordered {
		if m.Action == core.ActionSkip {
			continue
		}
		specifier := codecSpecifier(m.Kind)
		idx := kindIndex[m.Kind]
		kindIndex[m.Kind] = idx + 1
		flag := fmt.Sprintf("-c:%s:%d", specifier, idx)

		if m.Action == core.ActionCopy {
			args = append(args, flag, "copy")
			continue
		}

		switch m.Kind {
		case core.StreamVideo:
			codec := m.Target.VideoCodec
			if codec == "" {
				codec = "libx264"
			}
			args = append(args, flag, codec)
			if codec != "copy" {
				crf := m.Target.CRF
				preset := m.Target.Preset
				if preset == "" {
					preset = "veryfast"
				}
				args = append(args, fmt.Sprintf("-crf:v:%d", idx), strconv.Itoa(crf), "-preset", preset, "-pix_fmt", "yuv420p")
				if threads := m.Target.Options["threads"]; threads != "" && threads != "0" {
					args = append(args, "-threads", threads)
				}
			}
		case core.StreamAudio:
			codec := m.Target.AudioCodec
			if codec == "" {
				codec = "aac"
			}
			args = append(args, flag, codec, fmt.Sprintf("-b:a:%d", idx), "192k")
		default:
			args = append(args, flag, "copy")
		}
	}
	return args
}

func codecSpecifier(kind core.StreamKind) string {
	switch kind {
	case core.StreamVideo:
		return "v"
	case core.StreamAudio:
		return "a"
	case core.StreamSubtitle:
		return "s"
	default:
		return "v"
	}
}

func sortByOutputIndex(mappings []core.StreamMapping) {
	for i := 1; i < len(mappings); i++ {
		for j := i; j > 0 && mappings[j].OutputIndex < mappings[j-1].OutputIndex; j-- {
			mappings[j], mappings[j-1] = mappings[j-1], mappings[j]
		}
	}
}

// containerFlags appends format-specific muxer flags. mp4/mov benefit
// from +faststart (moov atom moved to the front for progressive/web
// playback); other containers pass through unchanged.
func containerFlags(container string) []string {
	switch container {
	case "mp4", "mov", "m4a":
		return []string{"-movflags", "+faststart"}
	default:
		return nil
	}
}
