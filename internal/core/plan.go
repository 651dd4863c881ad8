package core

import "fmt"

// ModeHint is the user-requested strategy hint accepted by the CLI and
// the Selector.
type ModeHint string

const (
	HintAuto     ModeHint = "auto"
	HintCopy     ModeHint = "copy"
	HintReencode ModeHint = "reencode"
	HintHybrid   ModeHint = "hybrid"
)

// ModeKind discriminates the Mode sum type chosen by the Selector.
type ModeKind string

const (
	ModeCopy     ModeKind = "copy"
	ModeReencode ModeKind = "reencode"
	ModeHybrid   ModeKind = "hybrid"
)

// HybridSegments describes the aligned middle section of a hybrid clip.
// Invariant: cut.start <= middle_start < middle_end <= cut.end and
// middle_end - middle_start >= min_copy_duration.
type HybridSegments struct {
	MiddleStart TimeSpec
	MiddleEnd   TimeSpec
}

// Mode is the concrete execution strategy chosen by the Selector.
type Mode struct {
	Kind    ModeKind
	Hybrid  HybridSegments // only meaningful when Kind == ModeHybrid
}

// MappingAction discriminates how a given input stream is handled.
type MappingAction string

const (
	ActionCopy     MappingAction = "copy"
	ActionReencode MappingAction = "reencode"
	ActionSkip     MappingAction = "skip"
)

// StreamMapping assigns a processing action and, for non-skip streams, an
// output stream index to one input stream.
type StreamMapping struct {
	InputIndex  int
	Kind        StreamKind
	Action      MappingAction
	OutputIndex int // meaningful only when Action != ActionSkip
	Target      Quality
}

// ValidateMappings checks that output indices form a contiguous 0..n
// permutation over the non-skip mappings, with no duplicates.
func ValidateMappings(mappings []StreamMapping) error {
	seen := map[int]bool{}
	count := 0
	for _, m := range mappings {
		if m.Action == ActionSkip {
			continue
		}
		if seen[m.OutputIndex] {
			return newErr(InternalInvariant, "ValidateMappings",
				fmt.Errorf("duplicate output index %d", m.OutputIndex))
		}
		seen[m.OutputIndex] = true
		count++
	}
	for i := 0; i < count; i++ {
		if !seen[i] {
			return newErr(InternalInvariant, "ValidateMappings",
				fmt.Errorf("output indices are not a contiguous 0..%d permutation", count))
		}
	}
	return nil
}

// ExecutionPlan is the immutable, fully-resolved description of one
// clipping operation, constructed by the Selector/Mapper and consumed by
// whichever executor implements plan.Mode.Kind.
type ExecutionPlan struct {
	Mode            Mode
	InputPath       string
	OutputPath      string
	CutRange        CutRange
	StreamMappings  []StreamMapping
	Quality         Quality
	ContainerFormat string
}

// OutputReport is the result of executing (and optionally verifying) a
// plan.
type OutputReport struct {
	Success         bool
	Duration        TimeSpec
	FileSize        int64
	ProcessingTime  float64 // seconds
	ModeUsed        ModeKind
	Warnings        []string
	FirstPTS        *int64
	LastPTS         *int64
}
