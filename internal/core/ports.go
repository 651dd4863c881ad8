package core

import "context"

// ProbePort inspects media files. Implementations are free to shell out to
// an external tool, link a codec library, or (in tests) return canned
// data — the core never assumes which.
type ProbePort interface {
	// Probe returns the full stream/container description of path.
	Probe(ctx context.Context, path string) (MediaInfo, error)
	// Keyframes returns the ordered, strictly-increasing keyframe list for
	// the given video stream index. Implementations should truncate at a
	// reasonable maximum (spec default 10000) and report it via the
	// returned Truncated flag rather than erroring.
	Keyframes(ctx context.Context, path string, streamIndex int) (KeyframeList, error)
}

// KeyframeList is the result of a Keyframes call.
type KeyframeList struct {
	Keyframes []Keyframe
	Truncated bool
}

// CopyRequest drives ExecutePort.ExecuteCopy.
type CopyRequest struct {
	InputPath       string
	OutputPath      string
	CutRange        CutRange
	StreamMappings  []StreamMapping
	ContainerFormat string
}

// ReencodeRequest drives ExecutePort.ExecuteReencode.
type ReencodeRequest struct {
	InputPath       string
	OutputPath      string
	CutRange        CutRange
	StreamMappings  []StreamMapping
	Quality         Quality
	ContainerFormat string
}

// ConcatRequest drives ExecutePort.ExecuteConcat. Segments are ordered;
// the adapter is responsible for monotonic DTS across the join exactly as
// described for the Hybrid Executor.
type ConcatRequest struct {
	SegmentPaths    []string
	OutputPath      string
	ContainerFormat string
	TotalDuration   TimeSpec
}

// ProgressFunc receives execution progress in [0, 1].
type ProgressFunc func(progress float64)

// ExecutePort performs the packet-level work (demux/seek/decode/encode/
// mux/concat) behind one of the three strategies. The core decides *what*
// range/mapping/quality to use; the port decides *how* to realize it.
type ExecutePort interface {
	ExecuteCopy(ctx context.Context, req CopyRequest, onProgress ProgressFunc) error
	ExecuteReencode(ctx context.Context, req ReencodeRequest, onProgress ProgressFunc) error
	ExecuteConcat(ctx context.Context, req ConcatRequest, onProgress ProgressFunc) error
}

// FsPort covers the filesystem operations the core needs that are not
// pure business logic: existence checks, scratch directories, and durable
// atomic publication of the final output.
type FsPort interface {
	Exists(path string) bool
	MkTempDir(prefix string) (string, error)
	AtomicRename(src, dst string) error
	Remove(path string) error
	RemoveAll(path string) error
	FileSize(path string) (int64, error)
}
