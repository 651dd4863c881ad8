package ffmpegadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/core"
)

// maxKeyframes bounds how many keyframes Keyframes will return before
// reporting Truncated, matching the spec's default cap.
const maxKeyframes = 10000

// ffprobeFormat mirrors the subset of ffprobe's -show_format JSON this
// adapter consumes.
type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// ffprobeStream mirrors the subset of ffprobe's -show_streams JSON this
// adapter consumes.
type ffprobeStream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	CodecType     string `json:"codec_type"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	PixFmt        string `json:"pix_fmt"`
	SampleRate    string `json:"sample_rate"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channel_layout"`
	RFrameRate    string `json:"r_frame_rate"`
	TimeBase      string `json:"time_base"`
	BitRate       string `json:"bit_rate"`
	Tags          struct {
		Language string `json:"language"`
	} `json:"tags"`
	Disposition struct {
		Forced  int `json:"forced"`
		Default int `json:"default"`
	} `json:"disposition"`
}

type ffprobeResult struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

// ProbeAdapter implements core.ProbePort by shelling out to ffprobe.
type ProbeAdapter struct {
	ffprobePath string
	logger      *zap.Logger
	timeout     time.Duration
}

// NewProbeAdapter constructs a ProbeAdapter. An empty ffprobePath falls
// back to the "ffprobe" binary resolved from PATH.
func NewProbeAdapter(ffprobePath string, logger *zap.Logger) *ProbeAdapter {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &ProbeAdapter{ffprobePath: ffprobePath, logger: logger, timeout: 30 * time.Second}
}

// Probe implements core.ProbePort.
func (a *ProbeAdapter) Probe(ctx context.Context, path string) (core.MediaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	cmd := exec.CommandContext(ctx, a.ffprobePath, args...)
	a.logger.Debug("executing ffprobe", zap.String("file", path))

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return core.MediaInfo{}, fmt.Errorf("ffprobe failed: %s", string(exitErr.Stderr))
		}
		return core.MediaInfo{}, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	var result ffprobeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return core.MediaInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	return toMediaInfo(path, result), nil
}

// Keyframes implements core.ProbePort by asking ffprobe for the frame
// list of a single video stream and filtering to key_frame=1 entries.
func (a *ProbeAdapter) Keyframes(ctx context.Context, path string, streamIndex int) (core.KeyframeList, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*a.timeout)
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-select_streams", fmt.Sprintf("%d", streamIndex),
		"-show_frames",
		"-show_entries", "frame=pkt_pts,pts,pkt_pts_time,pts_time,key_frame",
		"-of", "csv=p=0",
		path,
	}
	cmd := exec.CommandContext(ctx, a.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return core.KeyframeList{}, fmt.Errorf("ffprobe failed: %s", string(exitErr.Stderr))
		}
		return core.KeyframeList{}, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	var keyframes []core.Keyframe
	truncated := false
	frameNumber := int64(0)

	for _, line := range bytes.Split(output, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		fields := strings.Split(string(line), ",")
		if len(fields) < 5 {
			continue
		}
		isKey := fields[4] == "1"
		frameNumber++
		if !isKey {
			continue
		}
		ptsTime, errT := strconv.ParseFloat(fields[3], 64)
		pts, errP := strconv.ParseInt(fields[1], 10, 64)
		if errT != nil {
			continue
		}
		if errP != nil {
			pts = int64(ptsTime * 1e6) // fall back to a microsecond-scaled PTS
		}
		if len(keyframes) >= maxKeyframes {
			truncated = true
			break
		}
		keyframes = append(keyframes, core.Keyframe{
			PTS:         pts,
			Seconds:     ptsTime,
			FrameNumber: frameNumber,
		})
	}

	return core.KeyframeList{Keyframes: keyframes, Truncated: truncated}, nil
}

func toMediaInfo(path string, r ffprobeResult) core.MediaInfo {
	duration, _ := strconv.ParseFloat(r.Format.Duration, 64)
	size, _ := strconv.ParseInt(r.Format.Size, 10, 64)
	bitRate, _ := strconv.ParseInt(r.Format.BitRate, 10, 64)

	streams := make([]core.StreamDescriptor, 0, len(r.Streams))
	for _, s := range r.Streams {
		switch s.CodecType {
		case "video":
			streams = append(streams, core.StreamDescriptor{
				Kind: core.StreamVideo,
				Video: &core.VideoStream{
					Index:     s.Index,
					CodecID:   s.CodecName,
					Width:     s.Width,
					Height:    s.Height,
					FrameRate: parseRational(s.RFrameRate),
					Timebase:  parseRational(s.TimeBase),
					BitRate:   parseOptionalInt64(s.BitRate),
					PixFmt:    s.PixFmt,
				},
			})
		case "audio":
			streams = append(streams, core.StreamDescriptor{
				Kind: core.StreamAudio,
				Audio: &core.AudioStream{
					Index:         s.Index,
					CodecID:       s.CodecName,
					SampleRate:    atoiOr0(s.SampleRate),
					Channels:      s.Channels,
					ChannelLayout: s.ChannelLayout,
					Timebase:      parseRational(s.TimeBase),
					BitRate:       parseOptionalInt64(s.BitRate),
				},
			})
		case "subtitle":
			streams = append(streams, core.StreamDescriptor{
				Kind: core.StreamSubtitle,
				Subtitle: &core.SubtitleStream{
					Index:    s.Index,
					CodecID:  s.CodecName,
					Timebase: parseRational(s.TimeBase),
					Language: s.Tags.Language,
					Forced:   s.Disposition.Forced == 1,
					Default:  s.Disposition.Default == 1,
				},
			})
		}
	}

	return core.MediaInfo{
		Path:     path,
		Format:   canonicalContainer(path, r.Format.FormatName),
		Duration: core.TimeSpec(duration),
		Streams:  streams,
		FileSize: size,
		BitRate:  bitRate,
	}
}

// canonicalContainer reduces ffprobe's comma-joined format_name (e.g.
// "mov,mp4,m4a,3gp,3g2,mj2" for the mov/mp4 muxer family, or
// "matroska,webm" for mkv/webm, both ambiguous on their own) to the single
// container name the rest of core operates on. ffprobe can't tell mp4 from
// mov, or mkv from webm, by format_name alone, so the file's own extension
// breaks the tie when it names one of the aliases; otherwise the most
// common member of the alias family wins.
func canonicalContainer(path, formatName string) string {
	aliases := map[string]bool{}
	for _, tok := range strings.Split(formatName, ",") {
		aliases[strings.TrimSpace(tok)] = true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch {
	case aliases["mp4"] || aliases["mov"] || aliases["m4v"]:
		switch ext {
		case "mov", "m4v", "3gp", "3g2":
			return ext
		default:
			return "mp4"
		}
	case aliases["matroska"] || aliases["webm"]:
		if ext == "webm" {
			return "webm"
		}
		return "mkv"
	case aliases["mpegts"]:
		switch ext {
		case "mts", "m2ts":
			return ext
		default:
			return "ts"
		}
	}
	if i := strings.IndexByte(formatName, ','); i >= 0 {
		return formatName[:i]
	}
	return formatName
}

func parseRational(s string) core.Timebase {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return core.Timebase{Num: 1, Den: 1}
	}
	num, errN := strconv.ParseInt(parts[0], 10, 64)
	den, errD := strconv.ParseInt(parts[1], 10, 64)
	if errN != nil || errD != nil || den == 0 {
		return core.Timebase{Num: 1, Den: 1}
	}
	return core.Timebase{Num: num, Den: den}
}

func atoiOr0(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseOptionalInt64(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
