package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// ClipRequest is the fully-parsed input to a single clipping operation,
// the shape both the CLI's clip command and the serve HTTP handler build
// before calling Clipper.Clip.
type ClipRequest struct {
	InputPath       string
	OutputPath      string
	Cut             CutRange
	Hint            ModeHint
	NoAudio         bool
	NoSubs          bool
	Quality         Quality
	ContainerFormat string // "" = inherit from input
	Verify          bool
}

// Clipper wires Probe -> GOP Analyzer -> Selector -> Mapper -> Executor ->
// Verifier into the single entry point the CLI and HTTP layers call.
type Clipper struct {
	Probe        ProbePort
	Exec         ExecutePort
	Fs           FsPort
	SelectorCfg  SelectorConfig
	VerifierCfg  VerifierConfig

	copyExec   *CopyExecutor
	reencExec  *ReencodeExecutor
	hybridExec *HybridExecutor
	verifier   *Verifier
}

// NewClipper constructs a Clipper from its three ports, wiring every
// sub-executor and the verifier with sensible defaults.
func NewClipper(probe ProbePort, exec ExecutePort, fs FsPort) *Clipper {
	c := &Clipper{
		Probe:       probe,
		Exec:        exec,
		Fs:          fs,
		SelectorCfg: DefaultSelectorConfig(),
		VerifierCfg: DefaultVerifierConfig(),
	}
	c.copyExec = NewCopyExecutor(exec)
	c.reencExec = NewReencodeExecutor(exec)
	c.hybridExec = NewHybridExecutor(fs, exec)
	c.verifier = &Verifier{Probe: probe, Fs: fs, Cfg: c.VerifierCfg}
	return c
}

// Clip runs one full clipping operation end to end and returns the
// resulting OutputReport. The written file only ever appears at
// req.OutputPath once fully formed: the executor writes to a sibling
// temp path first and Clip publishes it with an atomic rename, so a
// caller can never observe a partially-written output.
func (c *Clipper) Clip(ctx context.Context, req ClipRequest, onProgress ProgressFunc) (OutputReport, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return OutputReport{}, newErr(Cancelled, "Clipper.Clip", ErrCancelled)
	}

	if !c.Fs.Exists(req.InputPath) {
		return OutputReport{}, newErr(FileNotFound, "Clipper.Clip",
			fmt.Errorf("input not found: %s", req.InputPath))
	}

	media, err := c.Probe.Probe(ctx, req.InputPath)
	if err != nil {
		// The input exists (checked above) but ffprobe still couldn't read
		// it: a corrupt or truncated container, not a generic probe-stage
		// execution failure, so this maps to the "unreadable input" exit
		// code rather than ProbeFailed's execution-failure one.
		return OutputReport{}, newErr(UnsupportedFormat, "Clipper.Clip", err)
	}
	if err := req.Cut.ValidateAgainstMedia(media); err != nil {
		return OutputReport{}, err
	}

	container := req.ContainerFormat
	if container == "" {
		container = media.Format
	}

	gopFor := func() (GopAnalysis, error) {
		return c.analyzeGOP(ctx, req.InputPath, media)
	}

	mode, err := SelectStrategy(media, req.Cut, req.Hint, c.SelectorCfg, gopFor)
	if err != nil {
		return OutputReport{}, err
	}

	mappings, err := MapStreams(media, MapperOptions{
		NoAudio: req.NoAudio,
		NoSubs:  req.NoSubs,
		Quality: req.Quality,
		Mode:    mode.Kind,
	})
	if err != nil {
		return OutputReport{}, err
	}

	tempOutput := tempSiblingPath(req.OutputPath)

	plan := ExecutionPlan{
		Mode:            mode,
		InputPath:       req.InputPath,
		OutputPath:      tempOutput,
		CutRange:        req.Cut,
		StreamMappings:  mappings,
		Quality:         req.Quality,
		ContainerFormat: container,
	}

	if err := c.dispatch(ctx, plan, onProgress); err != nil {
		c.Fs.Remove(tempOutput)
		return OutputReport{}, err
	}

	if err := c.Fs.AtomicRename(tempOutput, req.OutputPath); err != nil {
		c.Fs.Remove(tempOutput)
		return OutputReport{}, newErr(MuxWriteFailed, "Clipper.Clip", err)
	}
	plan.OutputPath = req.OutputPath

	execTime := time.Since(start).Seconds()

	if !req.Verify {
		size, _ := c.Fs.FileSize(plan.OutputPath)
		return OutputReport{
			Success:        true,
			Duration:       req.Cut.Duration(),
			FileSize:       size,
			ProcessingTime: execTime,
			ModeUsed:       mode.Kind,
		}, nil
	}

	verifier := *c.verifier
	verifier.Cfg = c.VerifierCfg
	return verifier.Verify(ctx, plan, execTime)
}

func (c *Clipper) dispatch(ctx context.Context, plan ExecutionPlan, onProgress ProgressFunc) error {
	switch plan.Mode.Kind {
	case ModeCopy:
		return c.copyExec.Run(ctx, plan, onProgress)
	case ModeReencode:
		return c.reencExec.Run(ctx, plan, onProgress)
	case ModeHybrid:
		return c.hybridExec.Run(ctx, plan, onProgress)
	default:
		return newErr(InternalInvariant, "Clipper.dispatch", fmt.Errorf("unknown mode kind %q", plan.Mode.Kind))
	}
}

// analyzeGOP fetches the primary video stream's keyframe list and runs
// AnalyzeGOP over it. Called lazily via the Selector's gop closure so
// audio-only inputs and inputs that don't need alignment decisions never
// pay for a keyframe probe.
func (c *Clipper) analyzeGOP(ctx context.Context, inputPath string, media MediaInfo) (GopAnalysis, error) {
	vs, ok := media.PrimaryVideoStream()
	if !ok {
		return GopAnalysis{}, newErr(InsufficientKeyframes, "Clipper.analyzeGOP", ErrInsufficientKeyframe)
	}
	kfs, err := c.Probe.Keyframes(ctx, inputPath, vs.Index())
	if err != nil {
		return GopAnalysis{}, newErr(ProbeFailed, "Clipper.analyzeGOP", err)
	}
	return AnalyzeGOP(kfs.Keyframes, vs.Video.FPS())
}

// tempSiblingPath derives a scratch path in the same directory as final,
// so the publishing rename in Clip stays on one filesystem.
func tempSiblingPath(final string) string {
	dir := filepath.Dir(final)
	name := filepath.Base(final)
	return filepath.Join(dir, "."+name+".goclip-tmp")
}
