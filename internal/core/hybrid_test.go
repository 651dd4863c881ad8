package core

import (
	"context"
	"fmt"
	"testing"
)

func hybridPlan(middleStart, middleEnd TimeSpec) ExecutionPlan {
	cut, _ := NewCutRange(0, 10)
	return ExecutionPlan{
		Mode: Mode{Kind: ModeHybrid, Hybrid: HybridSegments{MiddleStart: middleStart, MiddleEnd: middleEnd}},
		InputPath:       "in.mp4",
		OutputPath:      "out.mp4",
		CutRange:        cut,
		ContainerFormat: "mp4",
	}
}

func TestHybridExecutorRunsAllThreeSegments(t *testing.T) {
	fs := newFakeFs()
	exec := newFakeExec()
	h := NewHybridExecutor(fs, exec)

	plan := hybridPlan(2, 8) // leading [0,2), middle [2,8), trailing [8,10)
	if err := h.Run(context.Background(), plan, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(exec.reencodeCalls) != 2 {
		t.Errorf("reencode calls = %d, want 2 (leading + trailing)", len(exec.reencodeCalls))
	}
	if len(exec.copyCalls) != 1 {
		t.Errorf("copy calls = %d, want 1 (middle)", len(exec.copyCalls))
	}
	if len(exec.concatCalls) != 1 {
		t.Errorf("concat calls = %d, want 1", len(exec.concatCalls))
	}
	concat := exec.concatCalls[0]
	if len(concat.SegmentPaths) != 3 {
		t.Errorf("concat segments = %d, want 3", len(concat.SegmentPaths))
	}
	if concat.OutputPath != "out.mp4" {
		t.Errorf("concat output = %q, want out.mp4", concat.OutputPath)
	}
}

func TestHybridExecutorSkipsTinyLeadingEdge(t *testing.T) {
	fs := newFakeFs()
	exec := newFakeExec()
	h := NewHybridExecutor(fs, exec)

	// Leading edge is 5ms, under the 10ms threshold -> skipped entirely.
	plan := hybridPlan(0.005, 8)
	if err := h.Run(context.Background(), plan, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(exec.reencodeCalls) != 1 {
		t.Errorf("reencode calls = %d, want 1 (trailing only)", len(exec.reencodeCalls))
	}
	if len(exec.concatCalls[0].SegmentPaths) != 2 {
		t.Errorf("concat segments = %d, want 2 (middle + trailing)", len(exec.concatCalls[0].SegmentPaths))
	}
}

func TestHybridExecutorRejectsNonHybridPlan(t *testing.T) {
	fs := newFakeFs()
	exec := newFakeExec()
	h := NewHybridExecutor(fs, exec)

	cut, _ := NewCutRange(0, 10)
	plan := ExecutionPlan{Mode: Mode{Kind: ModeCopy}, CutRange: cut}
	err := h.Run(context.Background(), plan, nil)
	if err == nil {
		t.Fatal("expected error for non-hybrid plan")
	}
	if KindOf(err) != InternalInvariant {
		t.Errorf("KindOf(err) = %v, want InternalInvariant", KindOf(err))
	}
}

func TestHybridExecutorPropagatesConcatFailure(t *testing.T) {
	fs := newFakeFs()
	exec := newFakeExec()
	exec.concatErr = errTestConcat
	h := NewHybridExecutor(fs, exec)

	plan := hybridPlan(2, 8)
	err := h.Run(context.Background(), plan, nil)
	if err == nil {
		t.Fatal("expected concat error to propagate")
	}
	if KindOf(err) != SegmentAssemblyFailed {
		t.Errorf("KindOf(err) = %v, want SegmentAssemblyFailed", KindOf(err))
	}
}

var errTestConcat = fmt.Errorf("concat failed")
