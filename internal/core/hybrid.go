package core

import (
	"context"
	"fmt"
	"path/filepath"
)

// HybridExecutor orchestrates the three-way GOP-spanning strategy:
// re-encode the leading and trailing fragments, stream-copy the aligned
// middle, then concatenate. All intermediate files live under a fresh
// per-operation temp directory that is always removed before returning.
type HybridExecutor struct {
	Fs     FsPort
	Copy   *CopyExecutor
	Reenc  *ReencodeExecutor
	Exec   ExecutePort
}

// NewHybridExecutor constructs a HybridExecutor from the two ports it
// needs: Fs for the scratch directory, and an ExecutePort shared by its
// internal Copy/Reencode sub-executors and its own concat call.
func NewHybridExecutor(fs FsPort, exec ExecutePort) *HybridExecutor {
	return &HybridExecutor{
		Fs:    fs,
		Copy:  NewCopyExecutor(exec),
		Reenc: NewReencodeExecutor(exec),
		Exec:  exec,
	}
}

// Run executes plan, which must be in Hybrid mode with a valid
// HybridSegments already selected.
func (e *HybridExecutor) Run(ctx context.Context, plan ExecutionPlan, onProgress ProgressFunc) error {
	if plan.Mode.Kind != ModeHybrid {
		return newErr(InternalInvariant, "HybridExecutor.Run", fmt.Errorf("plan is not in Hybrid mode"))
	}
	segs := plan.Mode.Hybrid
	cut := plan.CutRange
	if segs.MiddleStart < cut.Start || segs.MiddleEnd <= segs.MiddleStart || segs.MiddleEnd > cut.End {
		return newErr(InternalInvariant, "HybridExecutor.Run", fmt.Errorf("invalid hybrid segments %+v for cut %+v", segs, cut))
	}

	tmpDir, err := e.Fs.MkTempDir("goclip-hybrid-")
	if err != nil {
		return newErr(SegmentAssemblyFailed, "HybridExecutor.Run", err)
	}
	defer e.Fs.RemoveAll(tmpDir)

	const edgeThreshold = 0.01 // 10ms
	ext := outputExt(plan.ContainerFormat)

	// The plan's mappings mark copy-capable streams Copy for the middle
	// segment; the leading/trailing fragments re-encode video and audio.
	fragMappings := make([]StreamMapping, len(plan.StreamMappings))
	copy(fragMappings, plan.StreamMappings)
	for i, m := range fragMappings {
		if m.Action == ActionCopy && m.Kind != StreamSubtitle {
			fragMappings[i].Action = ActionReencode
			fragMappings[i].Target = plan.Quality
		}
	}

	var segmentPaths []string

	if segs.MiddleStart.Seconds()-cut.Start.Seconds() > edgeThreshold {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		leadingPath := filepath.Join(tmpDir, "leading"+ext)
		leadingRange, err := NewCutRange(cut.Start, segs.MiddleStart)
		if err != nil {
			return newErr(InternalInvariant, "HybridExecutor.Run", err)
		}
		if err := e.Reenc.RunRange(ctx, plan.InputPath, leadingPath, leadingRange, fragMappings, plan.Quality, plan.ContainerFormat, progressSlice(onProgress, 0, 0.33)); err != nil {
			return err
		}
		segmentPaths = append(segmentPaths, leadingPath)
	}

	if segs.MiddleEnd.Seconds()-segs.MiddleStart.Seconds() > edgeThreshold {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		middlePath := filepath.Join(tmpDir, "middle"+ext)
		middleRange, err := NewCutRange(segs.MiddleStart, segs.MiddleEnd)
		if err != nil {
			return newErr(InternalInvariant, "HybridExecutor.Run", err)
		}
		middlePlan := plan
		middlePlan.CutRange = middleRange
		middlePlan.OutputPath = middlePath
		middlePlan.Mode = Mode{Kind: ModeCopy}
		if err := e.Copy.Run(ctx, middlePlan, progressSlice(onProgress, 0.33, 0.66)); err != nil {
			return err
		}
		segmentPaths = append(segmentPaths, middlePath)
	}

	if cut.End.Seconds()-segs.MiddleEnd.Seconds() > edgeThreshold {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		trailingPath := filepath.Join(tmpDir, "trailing"+ext)
		trailingRange, err := NewCutRange(segs.MiddleEnd, cut.End)
		if err != nil {
			return newErr(InternalInvariant, "HybridExecutor.Run", err)
		}
		if err := e.Reenc.RunRange(ctx, plan.InputPath, trailingPath, trailingRange, fragMappings, plan.Quality, plan.ContainerFormat, progressSlice(onProgress, 0.66, 0.9)); err != nil {
			return err
		}
		segmentPaths = append(segmentPaths, trailingPath)
	}

	if len(segmentPaths) == 0 {
		return newErr(SegmentAssemblyFailed, "HybridExecutor.Run", fmt.Errorf("no segments produced"))
	}

	req := ConcatRequest{
		SegmentPaths:    segmentPaths,
		OutputPath:      plan.OutputPath,
		ContainerFormat: plan.ContainerFormat,
		TotalDuration:   cut.Duration(),
	}
	if err := e.Exec.ExecuteConcat(ctx, req, progressSlice(onProgress, 0.9, 1.0)); err != nil {
		return newErr(SegmentAssemblyFailed, "HybridExecutor.Run", err)
	}

	return nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return newErr(Cancelled, "HybridExecutor.Run", ErrCancelled)
	default:
		return nil
	}
}

// progressSlice rescales a 0..1 progress callback into the [lo, hi] band
// of an overall multi-step operation. onProgress may be nil.
func progressSlice(onProgress ProgressFunc, lo, hi float64) ProgressFunc {
	if onProgress == nil {
		return nil
	}
	return func(p float64) {
		onProgress(lo + p*(hi-lo))
	}
}

func outputExt(container string) string {
	if container == "" {
		return ".mp4"
	}
	return "." + container
}
