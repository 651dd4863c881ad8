package core

// MapperOptions controls per-kind exclusions and the target codec/quality
// applied to re-encoded streams.
type MapperOptions struct {
	NoAudio bool
	NoSubs  bool
	Quality Quality
	Mode    ModeKind
}

// MapStreams assigns Copy/Reencode/Skip to each input stream in stable
// input order and assigns contiguous output indices to non-skip streams.
func MapStreams(media MediaInfo, opts MapperOptions) ([]StreamMapping, error) {
	mappings := make([]StreamMapping, 0, len(media.Streams))
	nextOut := 0

	for _, s := range media.Streams {
		if opts.NoAudio && s.Kind == StreamAudio {
			mappings = append(mappings, StreamMapping{InputIndex: s.Index(), Kind: s.Kind, Action: ActionSkip})
			continue
		}
		if opts.NoSubs && s.Kind == StreamSubtitle {
			mappings = append(mappings, StreamMapping{InputIndex: s.Index(), Kind: s.Kind, Action: ActionSkip})
			continue
		}

		action := chooseAction(s, opts)
		m := StreamMapping{
			InputIndex:  s.Index(),
			Kind:        s.Kind,
			Action:      action,
			OutputIndex: nextOut,
		}
		if action == ActionReencode {
			m.Target = targetQuality(s, opts.Quality)
		}
		mappings = append(mappings, m)
		nextOut++
	}

	if err := ValidateMappings(mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

func chooseAction(s StreamDescriptor, opts MapperOptions) MappingAction {
	switch opts.Mode {
	case ModeCopy:
		return ActionCopy
	case ModeHybrid:
		// One mapping set serves the whole Hybrid plan: copy what the
		// codec allows, which is what the aligned middle segment uses.
		// The Hybrid Executor switches video/audio Copy entries to
		// Reencode for its leading/trailing fragments.
		if s.SupportsStreamCopy() {
			return ActionCopy
		}
		return ActionReencode
	default: // ModeReencode
		if s.Kind == StreamSubtitle && s.SupportsStreamCopy() {
			// Subtitles are cheap to carry verbatim even during a
			// video re-encode.
			return ActionCopy
		}
		return ActionReencode
	}
}

// targetQuality fills in re-encode parameters inherited from the source
// stream, defaulting the codec to the input codec when Quality doesn't
// name one.
func targetQuality(s StreamDescriptor, q Quality) Quality {
	out := q
	switch s.Kind {
	case StreamVideo:
		if out.VideoCodec == "" {
			out.VideoCodec = s.Video.CodecID
		}
	case StreamAudio:
		if out.AudioCodec == "" {
			out.AudioCodec = s.Audio.CodecID
		}
	}
	return out
}
