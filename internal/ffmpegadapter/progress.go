package ffmpegadapter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// progressParser parses FFmpeg stderr output for progress information.
type progressParser struct {
	duration float64
}

func newProgressParser(duration float64) *progressParser {
	return &progressParser{duration: duration}
}

var (
	videoProgressPattern = regexp.MustCompile(`frame=\s*\S+\s+fps=\s*\S+\s+q=\s*\S+\s+(?:size|Lsize)=\s*\S+\s+time=\s*(\S+)\s+`)
	audioProgressPattern = regexp.MustCompile(`(?:size|Lsize)=\s*\S+\s+time=\s*(\S+)\s+`)
	ffmpegTimePattern    = regexp.MustCompile(`^(-?)(\d+):(\d+):(\d+)\.(\d+)$`)
)

// ParseLine parses a single line of FFmpeg stderr and returns progress in
// [0,1], or -1 if the line carries no progress information.
func (p *progressParser) ParseLine(line string) float64 {
	matches := videoProgressPattern.FindStringSubmatch(line)
	if len(matches) == 0 {
		matches = audioProgressPattern.FindStringSubmatch(line)
	}
	if len(matches) < 2 {
		return -1
	}

	currentTime, err := parseFFmpegTime(matches[1])
	if err != nil || currentTime < 0 {
		return -1
	}
	if p.duration <= 0 {
		return -1
	}

	progress := currentTime / p.duration
	if progress > 1 {
		progress = 1
	}
	return progress
}

func parseFFmpegTime(timeStr string) (float64, error) {
	matches := ffmpegTimePattern.FindStringSubmatch(timeStr)
	if len(matches) != 6 {
		return 0, fmt.Errorf("invalid time format: %s", timeStr)
	}

	sign := matches[1]
	hours, _ := strconv.Atoi(matches[2])
	minutes, _ := strconv.Atoi(matches[3])
	seconds, _ := strconv.Atoi(matches[4])
	centiseconds, _ := strconv.Atoi(matches[5])

	total := float64(hours*3600+minutes*60+seconds) + float64(centiseconds)/100.0
	if sign == "-" {
		total = -total
	}
	return total, nil
}

// parseFFmpegError extracts the most relevant error line from FFmpeg
// stderr output.
func parseFFmpegError(stderr string) string {
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.Contains(line, "error") || strings.Contains(line, "Error") ||
			strings.Contains(line, "Invalid") || strings.Contains(line, "failed") ||
			strings.Contains(line, "No such") {
			return line
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "unknown ffmpeg error"
}
