package core

import "testing"

func sampleMedia() MediaInfo {
	return MediaInfo{
		Format: "mp4",
		Streams: []StreamDescriptor{
			{Kind: StreamVideo, Video: &VideoStream{Index: 0, CodecID: "h264"}},
			{Kind: StreamAudio, Audio: &AudioStream{Index: 1, CodecID: "aac"}},
			{Kind: StreamSubtitle, Subtitle: &SubtitleStream{Index: 2, CodecID: "mov_text"}},
		},
	}
}

func TestMapStreamsCopyModeCopiesEverything(t *testing.T) {
	mappings, err := MapStreams(sampleMedia(), MapperOptions{Mode: ModeCopy})
	if err != nil {
		t.Fatalf("MapStreams: %v", err)
	}
	for _, m := range mappings {
		if m.Action != ActionCopy {
			t.Errorf("stream %d: action = %v, want Copy", m.InputIndex, m.Action)
		}
	}
}

func TestMapStreamsReencodeModeKeepsSubtitleCopyable(t *testing.T) {
	mappings, err := MapStreams(sampleMedia(), MapperOptions{Mode: ModeReencode})
	if err != nil {
		t.Fatalf("MapStreams: %v", err)
	}
	var videoAction, subAction MappingAction
	for _, m := range mappings {
		if m.Kind == StreamVideo {
			videoAction = m.Action
		}
		if m.Kind == StreamSubtitle {
			subAction = m.Action
		}
	}
	if videoAction != ActionReencode {
		t.Errorf("video action = %v, want Reencode", videoAction)
	}
	if subAction != ActionCopy {
		t.Errorf("subtitle action = %v, want Copy (cheap to carry verbatim)", subAction)
	}
}

func TestMapStreamsNoAudioSkipsAudio(t *testing.T) {
	mappings, err := MapStreams(sampleMedia(), MapperOptions{Mode: ModeReencode, NoAudio: true})
	if err != nil {
		t.Fatalf("MapStreams: %v", err)
	}
	for _, m := range mappings {
		if m.Kind == StreamAudio && m.Action != ActionSkip {
			t.Errorf("audio action = %v, want Skip", m.Action)
		}
	}
}

func TestMapStreamsOutputIndicesAreContiguous(t *testing.T) {
	mappings, err := MapStreams(sampleMedia(), MapperOptions{Mode: ModeReencode, NoSubs: true})
	if err != nil {
		t.Fatalf("MapStreams: %v", err)
	}
	if err := ValidateMappings(mappings); err != nil {
		t.Errorf("ValidateMappings: %v", err)
	}
	seenIndices := map[int]bool{}
	for _, m := range mappings {
		if m.Action == ActionSkip {
			continue
		}
		seenIndices[m.OutputIndex] = true
	}
	for i := 0; i < len(seenIndices); i++ {
		if !seenIndices[i] {
			t.Errorf("output indices not contiguous: missing %d", i)
		}
	}
}

func TestMapStreamsHybridCopiesCapableCodecs(t *testing.T) {
	mappings, err := MapStreams(sampleMedia(), MapperOptions{Mode: ModeHybrid})
	if err != nil {
		t.Fatalf("MapStreams: %v", err)
	}
	for _, m := range mappings {
		if m.Action != ActionCopy {
			t.Errorf("stream %d: action = %v, want Copy (all codecs here are copy-capable)", m.InputIndex, m.Action)
		}
	}
}

func TestValidateMappingsRejectsDuplicateOutputIndex(t *testing.T) {
	bad := []StreamMapping{
		{InputIndex: 0, Action: ActionCopy, OutputIndex: 0},
		{InputIndex: 1, Action: ActionCopy, OutputIndex: 0},
	}
	if err := ValidateMappings(bad); err == nil {
		t.Fatal("expected error for duplicate output index")
	}
}
