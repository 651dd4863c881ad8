package core

import (
	"context"
)

// ReencodeExecutor runs the full decode/re-encode strategy.
type ReencodeExecutor struct {
	Exec ExecutePort
}

// NewReencodeExecutor constructs a ReencodeExecutor bound to the given
// port.
func NewReencodeExecutor(exec ExecutePort) *ReencodeExecutor {
	return &ReencodeExecutor{Exec: exec}
}

// Run executes plan (Reencode mode) or, when called by the Hybrid
// Executor for a leading/trailing fragment, an ad-hoc range/output pair
// sharing the plan's mappings and quality.
func (e *ReencodeExecutor) Run(ctx context.Context, plan ExecutionPlan, onProgress ProgressFunc) error {
	return e.RunRange(ctx, plan.InputPath, plan.OutputPath, plan.CutRange, plan.StreamMappings, plan.Quality, plan.ContainerFormat, onProgress)
}

// RunRange re-encodes an arbitrary [start,end) range, used directly by
// the Hybrid Executor to produce its leading/trailing fragments.
func (e *ReencodeExecutor) RunRange(ctx context.Context, input, output string, cut CutRange, mappings []StreamMapping, quality Quality, container string, onProgress ProgressFunc) error {
	req := ReencodeRequest{
		InputPath:       input,
		OutputPath:      output,
		CutRange:        cut,
		StreamMappings:  mappings,
		Quality:         quality,
		ContainerFormat: container,
	}
	if err := e.Exec.ExecuteReencode(ctx, req, onProgress); err != nil {
		return newErr(EncoderSetupFailed, "ReencodeExecutor.RunRange", err)
	}
	return nil
}
