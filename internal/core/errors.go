package core

import (
	"errors"
	"fmt"
)

// Kind is the error taxonomy from the clipping spec. Every error the core
// returns carries one of these so callers (CLI exit codes, HTTP status
// codes) can map it without string matching.
type Kind string

const (
	InvalidArgument       Kind = "InvalidArgument"
	FileNotFound          Kind = "FileNotFound"
	PermissionDenied      Kind = "PermissionDenied"
	UnsupportedFormat     Kind = "UnsupportedFormat"
	ProbeFailed           Kind = "ProbeFailed"
	CopyInfeasible        Kind = "CopyInfeasible"
	InsufficientKeyframes Kind = "InsufficientKeyframes"
	EncoderSetupFailed    Kind = "EncoderSetupFailed"
	DecoderSetupFailed    Kind = "DecoderSetupFailed"
	MuxWriteFailed        Kind = "MuxWriteFailed"
	DemuxReadFailed       Kind = "DemuxReadFailed"
	SegmentAssemblyFailed Kind = "SegmentAssemblyFailed"
	VerificationFailed    Kind = "VerificationFailed"
	Cancelled             Kind = "Cancelled"
	InternalInvariant     Kind = "InternalInvariant"
)

// Sentinel errors wrapped by newErr for errors.Is matching.
var (
	ErrInvalidTimeFormat    = errors.New("invalid time format")
	ErrInvalidTimebase      = errors.New("invalid timebase")
	ErrInsufficientKeyframe = errors.New("insufficient keyframes")
	ErrCopyInfeasible       = errors.New("copy infeasible")
	ErrCancelled            = errors.New("cancelled")
)

// Error is the error type returned by every core operation. Op names the
// operation that produced it (e.g. "Clipper.Clip", "SelectStrategy",
// "HybridExecutor.Run") so propagation never needs to re-wrap with
// %w chains just to preserve context.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from err, defaulting to InternalInvariant when
// err is not (or does not wrap) a *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return InternalInvariant
}

// ExitCode maps a Kind to the CLI exit codes from the external interfaces
// spec: 0 success, 1 validation, 2 input not found/unreadable, 3 strategy
// infeasible, 4 execution failure, 5 verification failure, 130 cancelled.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case InvalidArgument:
		return 1
	case FileNotFound, PermissionDenied, UnsupportedFormat:
		return 2
	case CopyInfeasible, InsufficientKeyframes:
		return 3
	case VerificationFailed:
		return 5
	case Cancelled:
		return 130
	case ProbeFailed, EncoderSetupFailed, DecoderSetupFailed, MuxWriteFailed,
		DemuxReadFailed, SegmentAssemblyFailed, InternalInvariant:
		return 4
	default:
		return 4
	}
}
