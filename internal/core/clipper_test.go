package core

import (
	"context"
	"testing"
)

func setupClipperFixture() (*fakeProbe, *fakeExec, *fakeFs, *Clipper) {
	probe := newFakeProbe()
	exec := newFakeExec()
	fs := newFakeFs()
	c := NewClipper(probe, exec, fs)
	return probe, exec, fs, c
}

func TestClipperCopyModeEndToEnd(t *testing.T) {
	probe, exec, fs, c := setupClipperFixture()
	fs.setExists("in.mp4", 0)
	probe.media["in.mp4"] = videoOnlyMedia("mp4", 20, "h264")
	probe.keyframes["in.mp4"] = regularKeyframes(20, 24, 24)

	req := ClipRequest{
		InputPath:  "in.mp4",
		OutputPath: "out.mp4",
		Cut:        mustCutRange(t, 1, 5),
		Hint:       HintAuto,
	}
	report, err := c.Clip(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if !report.Success {
		t.Error("expected Success=true")
	}
	if report.ModeUsed != ModeCopy {
		t.Errorf("ModeUsed = %v, want Copy", report.ModeUsed)
	}
	if len(exec.copyCalls) != 1 {
		t.Fatalf("copy calls = %d, want 1", len(exec.copyCalls))
	}
	if !fs.Exists("out.mp4") {
		t.Error("expected output to be published at the final path")
	}
}

func TestClipperPublishesOnlyOnSuccess(t *testing.T) {
	probe, exec, fs, c := setupClipperFixture()
	fs.setExists("in.mp4", 0)
	probe.media["in.mp4"] = videoOnlyMedia("mp4", 20, "h264")
	probe.keyframes["in.mp4"] = regularKeyframes(20, 24, 24)
	exec.copyErr = errTestConcat

	req := ClipRequest{
		InputPath:  "in.mp4",
		OutputPath: "out.mp4",
		Cut:        mustCutRange(t, 1, 5),
		Hint:       HintAuto,
	}
	_, err := c.Clip(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected error from failing copy executor")
	}
	if fs.Exists("out.mp4") {
		t.Error("output must not be published when execution fails")
	}
}

func TestClipperRejectsCutPastMediaDuration(t *testing.T) {
	probe, _, fs, c := setupClipperFixture()
	fs.setExists("in.mp4", 0)
	probe.media["in.mp4"] = videoOnlyMedia("mp4", 5, "h264")

	req := ClipRequest{
		InputPath:  "in.mp4",
		OutputPath: "out.mp4",
		Cut:        mustCutRange(t, 1, 10), // exceeds the 5s duration
		Hint:       HintAuto,
	}
	_, err := c.Clip(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected error for out-of-range cut")
	}
	if KindOf(err) != InvalidArgument {
		t.Errorf("KindOf(err) = %v, want InvalidArgument", KindOf(err))
	}
}

func TestClipperRejectsMissingInput(t *testing.T) {
	_, _, _, c := setupClipperFixture()

	req := ClipRequest{InputPath: "missing.mp4", OutputPath: "out.mp4", Cut: mustCutRange(t, 0, 5), Hint: HintAuto}
	_, err := c.Clip(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if KindOf(err) != FileNotFound {
		t.Errorf("KindOf(err) = %v, want FileNotFound", KindOf(err))
	}
}

func TestClipperRejectsCorruptInput(t *testing.T) {
	probe, _, fs, c := setupClipperFixture()
	fs.setExists("corrupt.mp4", 0)
	probe.probeErr = errTestConcat

	req := ClipRequest{InputPath: "corrupt.mp4", OutputPath: "out.mp4", Cut: mustCutRange(t, 0, 5), Hint: HintAuto}
	_, err := c.Clip(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected error for unprobeable/corrupt input")
	}
	if KindOf(err) != UnsupportedFormat {
		t.Errorf("KindOf(err) = %v, want UnsupportedFormat", KindOf(err))
	}
	if code := ExitCode(err); code != 2 && code != 3 {
		t.Errorf("ExitCode(err) = %d, want 2 or 3", code)
	}
}

func TestClipperRespectsContextCancellation(t *testing.T) {
	_, _, _, c := setupClipperFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := ClipRequest{InputPath: "in.mp4", OutputPath: "out.mp4", Cut: mustCutRange(t, 0, 1), Hint: HintAuto}
	_, err := c.Clip(ctx, req, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if KindOf(err) != Cancelled {
		t.Errorf("KindOf(err) = %v, want Cancelled", KindOf(err))
	}
}

func mustCutRange(t *testing.T, start, end float64) CutRange {
	t.Helper()
	cr, err := NewCutRange(TimeSpec(start), TimeSpec(end))
	if err != nil {
		t.Fatalf("NewCutRange(%v, %v): %v", start, end, err)
	}
	return cr
}
