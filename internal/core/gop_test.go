package core

import "testing"

func regularKeyframes(n int, gopFrames int64, fps float64) []Keyframe {
	out := make([]Keyframe, n)
	for i := 0; i < n; i++ {
		frame := int64(i) * gopFrames
		out[i] = Keyframe{
			PTS:         frame,
			Seconds:     float64(frame) / fps,
			FrameNumber: frame,
		}
	}
	return out
}

func TestAnalyzeGOPRequiresTwoKeyframes(t *testing.T) {
	_, err := AnalyzeGOP([]Keyframe{{Seconds: 0}}, 30)
	if err == nil {
		t.Fatal("expected InsufficientKeyframes error")
	}
	if KindOf(err) != InsufficientKeyframes {
		t.Errorf("KindOf(err) = %v, want InsufficientKeyframes", KindOf(err))
	}
}

func TestAnalyzeGOPRegularPatternScoresHigh(t *testing.T) {
	kfs := regularKeyframes(20, 48, 24)
	analysis, err := AnalyzeGOP(kfs, 24)
	if err != nil {
		t.Fatalf("AnalyzeGOP: %v", err)
	}
	if analysis.RegularityScore < 0.99 {
		t.Errorf("RegularityScore = %v, want close to 1.0 for a perfectly regular GOP", analysis.RegularityScore)
	}
	if analysis.DetectedPattern != "Regular GOP-48" {
		t.Errorf("DetectedPattern = %q, want %q", analysis.DetectedPattern, "Regular GOP-48")
	}
	if analysis.RegularityScore < 0 || analysis.RegularityScore > 1 {
		t.Errorf("RegularityScore out of bounds: %v", analysis.RegularityScore)
	}
}

func TestAnalyzeGOPVariablePattern(t *testing.T) {
	kfs := []Keyframe{
		{Seconds: 0, FrameNumber: 0},
		{Seconds: 1, FrameNumber: 24},
		{Seconds: 5, FrameNumber: 120},
		{Seconds: 5.5, FrameNumber: 132},
		{Seconds: 12, FrameNumber: 288},
	}
	analysis, err := AnalyzeGOP(kfs, 24)
	if err != nil {
		t.Fatalf("AnalyzeGOP: %v", err)
	}
	if analysis.RegularityScore < 0 || analysis.RegularityScore > 1 {
		t.Errorf("RegularityScore out of bounds: %v", analysis.RegularityScore)
	}
	if analysis.DetectedPattern == "Regular GOP-48" {
		t.Errorf("expected an irregular pattern, got %q", analysis.DetectedPattern)
	}
}

func TestIsKeyframeAligned(t *testing.T) {
	kfs := regularKeyframes(10, 24, 24) // keyframe every 1.0s
	analysis, err := AnalyzeGOP(kfs, 24)
	if err != nil {
		t.Fatalf("AnalyzeGOP: %v", err)
	}
	tol := analysis.DefaultAlignmentTolerance()
	if !analysis.IsKeyframeAligned(2.0, tol) {
		t.Error("expected t=2.0 to be aligned with a keyframe")
	}
	if analysis.IsKeyframeAligned(2.5, tol) {
		t.Error("expected t=2.5 to not be aligned")
	}
}

func TestNearestKeyframeBias(t *testing.T) {
	kfs := []Keyframe{{Seconds: 0}, {Seconds: 2}, {Seconds: 4}}
	analysis := GopAnalysis{Keyframes: kfs}

	before, err := analysis.NearestKeyframe(1.0, AtOrBefore)
	if err != nil {
		t.Fatalf("NearestKeyframe: %v", err)
	}
	if before.Seconds != 0 {
		t.Errorf("AtOrBefore(1.0) = %v, want keyframe at 0", before.Seconds)
	}

	after, err := analysis.NearestKeyframe(1.0, AtOrAfter)
	if err != nil {
		t.Fatalf("NearestKeyframe: %v", err)
	}
	if after.Seconds != 2 {
		t.Errorf("AtOrAfter(1.0) = %v, want keyframe at 2", after.Seconds)
	}
}

func TestFirstKeyframeAfterAndLastKeyframeBefore(t *testing.T) {
	kfs := []Keyframe{{Seconds: 0}, {Seconds: 2}, {Seconds: 4}, {Seconds: 6}}
	analysis := GopAnalysis{Keyframes: kfs}

	kf, ok := analysis.FirstKeyframeAfter(2.5)
	if !ok || kf.Seconds != 4 {
		t.Errorf("FirstKeyframeAfter(2.5) = %v, %v, want 4, true", kf.Seconds, ok)
	}

	kf, ok = analysis.LastKeyframeBefore(5.0)
	if !ok || kf.Seconds != 4 {
		t.Errorf("LastKeyframeBefore(5.0) = %v, %v, want 4, true", kf.Seconds, ok)
	}

	if _, ok := analysis.FirstKeyframeAfter(6.0); ok {
		t.Error("FirstKeyframeAfter(6.0) should find nothing past the last keyframe")
	}
}
