package core

import (
	"context"
	"fmt"
)

// CopyExecutor runs the lossless stream-copy strategy by delegating the
// packet-level work to an ExecutePort.
type CopyExecutor struct {
	Exec ExecutePort
}

// NewCopyExecutor constructs a CopyExecutor bound to the given port.
func NewCopyExecutor(exec ExecutePort) *CopyExecutor {
	return &CopyExecutor{Exec: exec}
}

// Run executes plan (which must be in Copy mode), writing
// plan.OutputPath. Post-conditions (duration, first-keyframe, zero-based PTS) are
// the adapter's responsibility and checked later by the Verifier.
func (e *CopyExecutor) Run(ctx context.Context, plan ExecutionPlan, onProgress ProgressFunc) error {
	if plan.Mode.Kind != ModeCopy {
		return newErr(InternalInvariant, "CopyExecutor.Run", fmt.Errorf("plan is not in Copy mode"))
	}
	req := CopyRequest{
		InputPath:       plan.InputPath,
		OutputPath:      plan.OutputPath,
		CutRange:        plan.CutRange,
		StreamMappings:  plan.StreamMappings,
		ContainerFormat: plan.ContainerFormat,
	}
	if err := e.Exec.ExecuteCopy(ctx, req, onProgress); err != nil {
		return newErr(MuxWriteFailed, "CopyExecutor.Run", err)
	}
	return nil
}
