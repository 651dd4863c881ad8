package core

import "testing"

func videoOnlyMedia(format string, duration float64, codec string) MediaInfo {
	return MediaInfo{
		Format:   format,
		Duration: TimeSpec(duration),
		Streams: []StreamDescriptor{
			{Kind: StreamVideo, Video: &VideoStream{
				Index: 0, CodecID: codec,
				FrameRate: Timebase{Num: 24, Den: 1},
				Timebase:  Timebase{Num: 1, Den: 24000},
			}},
		},
	}
}

func TestSelectStrategyShortClipAlwaysReencodes(t *testing.T) {
	media := videoOnlyMedia("mp4", 10, "h264")
	cut, _ := NewCutRange(0, 0.5)
	mode, err := SelectStrategy(media, cut, HintAuto, DefaultSelectorConfig(), nil)
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if mode.Kind != ModeReencode {
		t.Errorf("mode = %v, want Reencode for sub-1s clip", mode.Kind)
	}
}

func TestSelectStrategyAlignedCopyCapableChoosesCopy(t *testing.T) {
	media := videoOnlyMedia("mp4", 10, "h264")
	cut, _ := NewCutRange(1, 5)
	kfs := regularKeyframes(20, 24, 24) // keyframe every 1.0s
	gop := func() (GopAnalysis, error) { return AnalyzeGOP(kfs, 24) }

	mode, err := SelectStrategy(media, cut, HintAuto, DefaultSelectorConfig(), gop)
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if mode.Kind != ModeCopy {
		t.Errorf("mode = %v, want Copy for aligned, copy-capable cut", mode.Kind)
	}
}

func TestSelectStrategyUnalignedShortRelativeClipReencodes(t *testing.T) {
	media := videoOnlyMedia("mp4", 30, "h264")
	cut, _ := NewCutRange(1.3, 4.7) // ~3.4s, well under 3*min_copy_duration=6s
	kfs := regularKeyframes(10, 240, 24)
	gop := func() (GopAnalysis, error) { return AnalyzeGOP(kfs, 24) }

	mode, err := SelectStrategy(media, cut, HintAuto, DefaultSelectorConfig(), gop)
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if mode.Kind != ModeReencode {
		t.Errorf("mode = %v, want Reencode for short unaligned cut", mode.Kind)
	}
}

func TestSelectStrategyHybridForLongUnalignedClip(t *testing.T) {
	media := videoOnlyMedia("mp4", 60, "h264")
	cut, _ := NewCutRange(1.3, 40.2) // long, unaligned at both ends
	kfs := regularKeyframes(10, 240, 24)
	gop := func() (GopAnalysis, error) { return AnalyzeGOP(kfs, 24) }

	mode, err := SelectStrategy(media, cut, HintAuto, DefaultSelectorConfig(), gop)
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if mode.Kind != ModeHybrid {
		t.Errorf("mode = %v, want Hybrid for long unaligned cut", mode.Kind)
	}
	if mode.Hybrid.MiddleStart >= mode.Hybrid.MiddleEnd {
		t.Errorf("invalid hybrid segments: %+v", mode.Hybrid)
	}
}

func TestSelectStrategyExplicitCopyRejectsUnsupportedCodec(t *testing.T) {
	media := videoOnlyMedia("mp4", 10, "prores") // not in the copy whitelist
	cut, _ := NewCutRange(0, 5)
	_, err := SelectStrategy(media, cut, HintCopy, DefaultSelectorConfig(), nil)
	if err == nil {
		t.Fatal("expected CopyInfeasible error")
	}
	if KindOf(err) != CopyInfeasible {
		t.Errorf("KindOf(err) = %v, want CopyInfeasible", KindOf(err))
	}
}

func TestSelectStrategyAutoChoosesCopyForMKV(t *testing.T) {
	media := videoOnlyMedia("mkv", 10, "h264")
	cut, _ := NewCutRange(1, 5)
	kfs := regularKeyframes(20, 24, 24)
	gop := func() (GopAnalysis, error) { return AnalyzeGOP(kfs, 24) }

	mode, err := SelectStrategy(media, cut, HintAuto, DefaultSelectorConfig(), gop)
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if mode.Kind != ModeCopy {
		t.Errorf("mode = %v, want Copy for aligned, copy-capable mkv input", mode.Kind)
	}
}

func TestSelectStrategyExplicitCopyIgnoresContainerGate(t *testing.T) {
	// webm is not on the Auto-path container whitelist, but an explicit
	// Copy hint only validates codec feasibility (spec 4.4), so this must
	// still succeed when the codecs and alignment check out.
	media := videoOnlyMedia("webm", 10, "vp9")
	cut, _ := NewCutRange(1, 5)
	kfs := regularKeyframes(20, 24, 24)
	gop := func() (GopAnalysis, error) { return AnalyzeGOP(kfs, 24) }

	mode, err := SelectStrategy(media, cut, HintCopy, DefaultSelectorConfig(), gop)
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if mode.Kind != ModeCopy {
		t.Errorf("mode = %v, want Copy for explicit hint on webm with copy-capable codecs", mode.Kind)
	}
}

func TestSelectStrategyExplicitReencodeAlwaysReencodes(t *testing.T) {
	media := videoOnlyMedia("mp4", 10, "h264")
	cut, _ := NewCutRange(1.3, 4.7)
	mode, err := SelectStrategy(media, cut, HintReencode, DefaultSelectorConfig(), nil)
	if err != nil {
		t.Fatalf("SelectStrategy: %v", err)
	}
	if mode.Kind != ModeReencode {
		t.Errorf("mode = %v, want Reencode", mode.Kind)
	}
}

func TestSelectStrategyIsPure(t *testing.T) {
	media := videoOnlyMedia("mp4", 60, "h264")
	cut, _ := NewCutRange(1.3, 40.2)
	kfs := regularKeyframes(10, 240, 24)
	gop := func() (GopAnalysis, error) { return AnalyzeGOP(kfs, 24) }

	m1, err1 := SelectStrategy(media, cut, HintAuto, DefaultSelectorConfig(), gop)
	m2, err2 := SelectStrategy(media, cut, HintAuto, DefaultSelectorConfig(), gop)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if m1 != m2 {
		t.Errorf("SelectStrategy is not pure: %+v != %+v", m1, m2)
	}
}
