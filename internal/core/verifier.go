package core

import (
	"context"
	"fmt"
	"math"
)

// VerifierConfig bounds the tolerances a Verify pass accepts before
// flagging the output as a failure rather than a warning.
type VerifierConfig struct {
	DurationTolerance float64 // seconds
	MinFileSize       int64   // bytes; guards against truncated output
}

// DefaultVerifierConfig returns the spec's default verification
// tolerances.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{DurationTolerance: 0.1, MinFileSize: 1024}
}

// Verifier re-probes a written output and checks it against the
// ExecutionPlan that produced it.
type Verifier struct {
	Probe ProbePort
	Fs    FsPort
	Cfg   VerifierConfig
}

// NewVerifier constructs a Verifier with the default tolerances.
func NewVerifier(probe ProbePort, fs FsPort) *Verifier {
	return &Verifier{Probe: probe, Fs: fs, Cfg: DefaultVerifierConfig()}
}

// Verify re-probes plan.OutputPath and reports whether duration, stream
// count, and container format match the plan's expectations. A failed
// check sets OutputReport.Success=false, adds a Warning, and makes Verify
// return the report together with a VerificationFailed error, so the
// caller gets both the details and the failure. Verify also returns a
// VerificationFailed error, with an empty report, when the output path
// is missing or the output cannot be probed at all.
func (v *Verifier) Verify(ctx context.Context, plan ExecutionPlan, execTime float64) (OutputReport, error) {
	if !v.Fs.Exists(plan.OutputPath) {
		return OutputReport{}, newErr(VerificationFailed, "Verifier.Verify",
			fmt.Errorf("output file does not exist: %s", plan.OutputPath))
	}

	size, err := v.Fs.FileSize(plan.OutputPath)
	if err != nil {
		return OutputReport{}, newErr(VerificationFailed, "Verifier.Verify", err)
	}

	info, err := v.Probe.Probe(ctx, plan.OutputPath)
	if err != nil {
		return OutputReport{}, newErr(VerificationFailed, "Verifier.Verify", err)
	}

	report := OutputReport{
		Success:        true,
		Duration:       info.Duration,
		FileSize:       size,
		ProcessingTime: execTime,
		ModeUsed:       plan.Mode.Kind,
	}

	expectedDuration := plan.CutRange.Duration()
	if diff := math.Abs(info.Duration.Seconds() - expectedDuration.Seconds()); diff > v.Cfg.DurationTolerance {
		report.Success = false
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"duration mismatch: expected %.3fs, got %.3fs (tolerance %.3fs)",
			expectedDuration.Seconds(), info.Duration.Seconds(), v.Cfg.DurationTolerance))
	}

	if size < v.Cfg.MinFileSize {
		report.Success = false
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"output file suspiciously small: %d bytes", size))
	}

	if plan.StreamMappings != nil {
		expectedStreams := countNonSkip(plan.StreamMappings)
		if gotStreams := len(info.Streams); gotStreams != expectedStreams {
			report.Success = false
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"stream count mismatch: expected %d, got %d", expectedStreams, gotStreams))
		}
	}

	if plan.ContainerFormat != "" && !formatMatches(info.Format, plan.ContainerFormat) {
		report.Success = false
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"container format mismatch: expected %s, got %s", plan.ContainerFormat, info.Format))
	}

	if plan.Mode.Kind == ModeCopy {
		if vs, ok := info.PrimaryVideoStream(); ok {
			if kfs, err := v.Probe.Keyframes(ctx, plan.OutputPath, vs.Index()); err == nil && len(kfs.Keyframes) > 0 {
				first := kfs.Keyframes[0]
				report.FirstPTS = &first.PTS
				if first.Seconds > v.Cfg.DurationTolerance {
					report.Success = false
					report.Warnings = append(report.Warnings, fmt.Sprintf(
						"copy output does not start on a keyframe: first keyframe at %.3fs", first.Seconds))
				}
			}
		}
	}

	if !report.Success {
		return report, newErr(VerificationFailed, "Verifier.Verify",
			fmt.Errorf("output failed verification: %d warning(s)", len(report.Warnings)))
	}
	return report, nil
}

func countNonSkip(mappings []StreamMapping) int {
	n := 0
	for _, m := range mappings {
		if m.Action != ActionSkip {
			n++
		}
	}
	return n
}

// formatMatches compares the probed container (already canonicalized by
// ffmpegadapter.ProbeAdapter to a single short name, e.g. "mp4"/"mkv") against
// the container the plan requested, tolerating the mov/mp4 and mkv/webm
// families sharing a muxer.
func formatMatches(probed, want string) bool {
	if probed == want {
		return true
	}
	equivalent := map[string][]string{
		"mp4":  {"mov"},
		"mov":  {"mp4"},
		"mkv":  {"webm"},
		"webm": {"mkv"},
	}
	for _, alt := range equivalent[want] {
		if probed == alt {
			return true
		}
	}
	return false
}
