package core

import "fmt"

// SelectorConfig bundles the tunables the Selector needs beyond the
// media/range/hint triple.
type SelectorConfig struct {
	MinCopyDuration float64 // default 2.0s
}

// DefaultSelectorConfig returns the spec's default thresholds.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{MinCopyDuration: 2.0}
}

// SelectStrategy maps (media, range, hint) to a concrete Mode. It is a
// pure function: identical inputs always produce an identical result.
// gop may be nil; it is only consulted when an alignment decision is
// actually needed, matching the spec's "request GopAnalysis" wording in
// rule 2.
func SelectStrategy(media MediaInfo, cut CutRange, hint ModeHint, cfg SelectorConfig, gop func() (GopAnalysis, error)) (Mode, error) {
	if hint != HintAuto {
		return selectExplicit(media, cut, hint, cfg, gop)
	}
	return selectAuto(media, cut, cfg, gop)
}

func selectAuto(media MediaInfo, cut CutRange, cfg SelectorConfig, gop func() (GopAnalysis, error)) (Mode, error) {
	// Rule 1: short clips always re-encode.
	if cut.Duration().Seconds() < 1.0 {
		return Mode{Kind: ModeReencode}, nil
	}

	analysis, alignedStart, alignedEnd, err := alignment(media, cut, gop)
	if err != nil {
		return Mode{}, err
	}

	// Rule 2: fully copy-capable and both endpoints aligned.
	if media.AllStreamsSupportCopy() && alignedStart && alignedEnd && ContainerSupportsCopy(media.Format) {
		return Mode{Kind: ModeCopy}, nil
	}

	// Rule 3: neither endpoint aligned and clip is short relative to
	// min_copy_duration -> re-encode rather than pay hybrid overhead.
	if !alignedStart && !alignedEnd && cut.Duration().Seconds() < 3*cfg.MinCopyDuration {
		return Mode{Kind: ModeReencode}, nil
	}

	// Rule 4: compute hybrid segments.
	if analysis == nil {
		return Mode{Kind: ModeReencode}, nil
	}
	segs, ok := planHybridSegments(*analysis, cut, cfg)
	if !ok {
		return Mode{Kind: ModeReencode}, nil
	}
	return Mode{Kind: ModeHybrid, Hybrid: segs}, nil
}

func selectExplicit(media MediaInfo, cut CutRange, hint ModeHint, cfg SelectorConfig, gop func() (GopAnalysis, error)) (Mode, error) {
	switch hint {
	case HintCopy:
		// Unlike Auto's rule 2, an explicit hint only validates codec
		// feasibility: the container-copy-capable gate is an Auto-path
		// heuristic, not a hard requirement of stream copy itself.
		if !media.AllStreamsSupportCopy() {
			return Mode{}, newErr(CopyInfeasible, "SelectStrategy",
				fmt.Errorf("%w: codecs do not support stream copy", ErrCopyInfeasible))
		}
		_, alignedStart, alignedEnd, err := alignment(media, cut, gop)
		if err != nil {
			return Mode{}, err
		}
		if !alignedStart || !alignedEnd {
			return Mode{}, newErr(CopyInfeasible, "SelectStrategy",
				fmt.Errorf("%w: cut points are not keyframe-aligned", ErrCopyInfeasible))
		}
		return Mode{Kind: ModeCopy}, nil
	case HintReencode:
		return Mode{Kind: ModeReencode}, nil
	case HintHybrid:
		analysis, err := gop()
		if err != nil {
			return Mode{}, err
		}
		segs, ok := planHybridSegments(analysis, cut, cfg)
		if !ok {
			return Mode{}, newErr(CopyInfeasible, "SelectStrategy",
				fmt.Errorf("middle segment too short for hybrid"))
		}
		return Mode{Kind: ModeHybrid, Hybrid: segs}, nil
	default:
		return Mode{}, newErr(InvalidArgument, "SelectStrategy", fmt.Errorf("unknown mode hint %q", hint))
	}
}

// alignment fetches GopAnalysis lazily (only when a video stream exists)
// and reports whether cut.Start/cut.End are keyframe-aligned within the
// analysis's default tolerance.
func alignment(media MediaInfo, cut CutRange, gop func() (GopAnalysis, error)) (*GopAnalysis, bool, bool, error) {
	if _, ok := media.PrimaryVideoStream(); !ok {
		// No video stream: alignment is vacuously true (nothing to align).
		return nil, true, true, nil
	}
	analysis, err := gop()
	if err != nil {
		return nil, false, false, err
	}
	tol := analysis.DefaultAlignmentTolerance()
	alignedStart := analysis.IsKeyframeAligned(cut.Start.Seconds(), tol)
	alignedEnd := analysis.IsKeyframeAligned(cut.End.Seconds(), tol)
	return &analysis, alignedStart, alignedEnd, nil
}

// planHybridSegments implements spec rule 4's segment math: the middle
// section runs from the first keyframe strictly after cut.start to the
// last keyframe strictly before cut.end, floored/capped 0.1s inside the
// cut range, and rejected (ok=false) if the remaining middle is shorter
// than min_copy_duration.
func planHybridSegments(analysis GopAnalysis, cut CutRange, cfg SelectorConfig) (HybridSegments, bool) {
	const edgeFloor = 0.1

	middleStart := cut.Start.Seconds()
	if kf, ok := analysis.FirstKeyframeAfter(cut.Start.Seconds()); ok {
		middleStart = kf.Seconds
	}
	if floor := cut.Start.Seconds() + edgeFloor; middleStart < floor {
		middleStart = floor
	}

	middleEnd := cut.End.Seconds()
	if kf, ok := analysis.LastKeyframeBefore(cut.End.Seconds()); ok {
		middleEnd = kf.Seconds
	}
	if cap := cut.End.Seconds() - edgeFloor; middleEnd > cap {
		middleEnd = cap
	}

	if middleEnd-middleStart < cfg.MinCopyDuration {
		return HybridSegments{}, false
	}

	return HybridSegments{
		MiddleStart: TimeSpec(middleStart),
		MiddleEnd:   TimeSpec(middleEnd),
	}, true
}
