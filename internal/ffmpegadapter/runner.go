package ffmpegadapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// runner shells out to the ffmpeg binary, streaming stderr through the
// progress parser while the process is in flight.
type runner struct {
	ffmpegPath string
	logger     *zap.Logger
}

func newRunner(ffmpegPath string, logger *zap.Logger) *runner {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &runner{ffmpegPath: ffmpegPath, logger: logger}
}

// run executes ffmpeg with args, reporting [0,1] progress against
// duration (in seconds) via onProgress, which may be nil.
func (r *runner) run(ctx context.Context, args []string, duration float64, onProgress func(float64)) error {
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	r.logger.Debug("executing ffmpeg", zap.String("command", cmd.String()))

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("create stderr pipe: %w", err)
	}
	var stdoutBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	var stderrBuf bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.consumeProgress(stderrPipe, &stderrBuf, duration, onProgress)
	}()

	waitErr := cmd.Wait()
	<-done

	if waitErr != nil {
		msg := parseFFmpegError(stderrBuf.String())
		r.logger.Error("ffmpeg execution failed", zap.Error(waitErr), zap.String("stderr", msg))
		return fmt.Errorf("ffmpeg failed: %s", msg)
	}
	return nil
}

func (r *runner) consumeProgress(stderr io.Reader, buf *bytes.Buffer, duration float64, onProgress func(float64)) {
	parser := newProgressParser(duration)
	scanner := bufio.NewScanner(io.TeeReader(stderr, buf))
	for scanner.Scan() {
		if onProgress == nil {
			continue
		}
		if p := parser.ParseLine(scanner.Text()); p >= 0 {
			onProgress(p)
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Warn("error reading ffmpeg stderr", zap.Error(err))
	}
}
