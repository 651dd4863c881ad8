package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/config"
	"github.com/mifi/goclip/internal/core"
	"github.com/mifi/goclip/internal/models"
)

// ClipService runs core.Clipper operations, optionally tracking them as
// background Jobs for the async HTTP API the same way the teacher tracks
// long-running exports as Operations.
type ClipService struct {
	clipper *core.Clipper
	presets *PresetService
	cfg     *config.Config
	logger  *zap.Logger

	mu   sync.Mutex
	jobs map[string]*models.Job
}

// NewClipService constructs a ClipService from its ports and config.
func NewClipService(clipper *core.Clipper, presets *PresetService, cfg *config.Config, logger *zap.Logger) *ClipService {
	return &ClipService{
		clipper: clipper,
		presets: presets,
		cfg:     cfg,
		logger:  logger,
		jobs:    make(map[string]*models.Job),
	}
}

// buildClipRequest turns the API/CLI DTO into a core.ClipRequest. A
// named preset supplies input/start/end/mode first; any of those the
// caller set explicitly on req still win, field by field.
func (s *ClipService) buildClipRequest(req models.ClipRequest) (core.ClipRequest, error) {
	inputPath, startStr, endStr, modeStr := req.InputPath, req.Start, req.End, req.Mode

	if req.PresetName != "" {
		p, err := s.presets.GetByName(req.PresetName)
		if err != nil {
			return core.ClipRequest{}, err
		}
		if inputPath == "" {
			inputPath = p.InputPath
		}
		if startStr == "" {
			startStr = p.Start
		}
		if endStr == "" {
			endStr = p.End
		}
		if modeStr == "" {
			modeStr = p.ModeHint
		}
	}

	if inputPath == "" || startStr == "" || endStr == "" {
		return core.ClipRequest{}, &core.Error{Kind: core.InvalidArgument, Op: "ClipService.buildClipRequest",
			Err: fmt.Errorf("input_path/start/end must be set directly or via preset_name")}
	}

	start, err := core.ParseTimeSpec(startStr)
	if err != nil {
		return core.ClipRequest{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := core.ParseTimeSpec(endStr)
	if err != nil {
		return core.ClipRequest{}, fmt.Errorf("parse end: %w", err)
	}
	cut, err := core.NewCutRange(start, end)
	if err != nil {
		return core.ClipRequest{}, err
	}

	quality := core.Quality{
		VideoCodec: s.cfg.Clip.DefaultVideoCodec,
		AudioCodec: s.cfg.Clip.DefaultAudioCodec,
		CRF:        s.cfg.Clip.DefaultCRF,
		Preset:     s.cfg.Clip.DefaultPreset,
	}
	// Output extension determines the container when --container/Container
	// is absent; only fall back to the configured default when the output
	// path carries no extension at all.
	container := s.cfg.Clip.DefaultContainer
	if ext := strings.TrimPrefix(filepath.Ext(req.OutputPath), "."); ext != "" {
		container = ext
	}

	if req.VideoCodec != "" {
		quality.VideoCodec = req.VideoCodec
	}
	if req.AudioCodec != "" {
		quality.AudioCodec = req.AudioCodec
	}
	if req.CRF != nil {
		if err := core.ValidateCRF(*req.CRF); err != nil {
			return core.ClipRequest{}, err
		}
		quality.CRF = *req.CRF
	}
	if req.Preset != "" {
		quality.Preset = req.Preset
	}
	if req.Container != "" {
		container = req.Container
	}
	if req.Threads > 0 {
		quality.Options = map[string]string{"threads": fmt.Sprint(req.Threads)}
	}

	hint := core.HintAuto
	if modeStr != "" {
		hint = core.ModeHint(modeStr)
	}

	return core.ClipRequest{
		InputPath:       inputPath,
		OutputPath:      req.OutputPath,
		Cut:             cut,
		Hint:            hint,
		NoAudio:         req.NoAudio,
		NoSubs:          req.NoSubs,
		Quality:         quality,
		ContainerFormat: container,
		Verify:          req.Verify,
	}, nil
}

// Clip runs one clip operation synchronously, returning once the output
// is fully written (and verified, if requested).
func (s *ClipService) Clip(ctx context.Context, req models.ClipRequest, onProgress core.ProgressFunc) (models.ClipResponse, error) {
	coreReq, err := s.buildClipRequest(req)
	if err != nil {
		return models.ClipResponse{}, err
	}

	report, err := s.clipper.Clip(ctx, coreReq, onProgress)
	if err != nil {
		return models.ClipResponse{}, err
	}

	return models.ClipResponse{
		Success:        report.Success,
		ModeUsed:       string(report.ModeUsed),
		Duration:       report.Duration.Seconds(),
		FileSize:       report.FileSize,
		ProcessingTime: report.ProcessingTime,
		Warnings:       report.Warnings,
	}, nil
}

// SubmitAsync starts a clip operation in the background and returns a
// Job the caller can poll for progress and completion.
func (s *ClipService) SubmitAsync(req models.ClipRequest) (*models.Job, error) {
	coreReq, err := s.buildClipRequest(req)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:        uuid.New().String(),
		Status:    models.JobPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.runAsync(job, coreReq)

	return job, nil
}

func (s *ClipService) runAsync(job *models.Job, coreReq core.ClipRequest) {
	s.setJobStatus(job.ID, models.JobProcessing, 0, nil, "")

	onProgress := func(progress float64) {
		s.mu.Lock()
		if j, ok := s.jobs[job.ID]; ok {
			j.Progress = progress * 100
			j.UpdatedAt = time.Now()
		}
		s.mu.Unlock()
	}

	report, err := s.clipper.Clip(context.Background(), coreReq, onProgress)
	if err != nil {
		s.logger.Error("async clip failed", zap.String("jobId", job.ID), zap.Error(err))
		s.setJobStatus(job.ID, models.JobFailed, 0, nil, err.Error())
		return
	}

	result := &models.ClipResponse{
		JobID:          job.ID,
		Success:        report.Success,
		ModeUsed:       string(report.ModeUsed),
		Duration:       report.Duration.Seconds(),
		FileSize:       report.FileSize,
		ProcessingTime: report.ProcessingTime,
		Warnings:       report.Warnings,
	}
	s.setJobStatus(job.ID, models.JobCompleted, 100, result, "")
}

func (s *ClipService) setJobStatus(id string, status models.JobStatus, progress float64, result *models.ClipResponse, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	j.Status = status
	j.Progress = progress
	j.Result = result
	j.Error = errMsg
	j.UpdatedAt = time.Now()
}

// GetJob returns the current state of a submitted async job.
func (s *ClipService) GetJob(id string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", id)
	}
	return j, nil
}

// VerifyStandalone re-probes an already-written output file and checks
// it against the cut window and mode it was supposedly produced with.
// Unlike the automatic verification Clip runs right after writing, a
// standalone verify has no StreamMapping/container expectations to
// check against, only duration, minimum size, and (for copy mode)
// keyframe-start alignment.
func (s *ClipService) VerifyStandalone(ctx context.Context, req models.VerifyRequest) (models.VerifyResponse, error) {
	start, err := core.ParseTimeSpec(req.Start)
	if err != nil {
		return models.VerifyResponse{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := core.ParseTimeSpec(req.End)
	if err != nil {
		return models.VerifyResponse{}, fmt.Errorf("parse end: %w", err)
	}
	cut, err := core.NewCutRange(start, end)
	if err != nil {
		return models.VerifyResponse{}, err
	}

	mode := core.ModeCopy
	if req.Mode != "" {
		mode = core.ModeKind(req.Mode)
	}

	verifier := &core.Verifier{Probe: s.clipper.Probe, Fs: s.clipper.Fs, Cfg: s.clipper.VerifierCfg}
	plan := core.ExecutionPlan{
		Mode:       core.Mode{Kind: mode},
		OutputPath: req.OutputPath,
		CutRange:   cut,
	}

	report, err := verifier.Verify(ctx, plan, 0)
	resp := models.VerifyResponse{
		Success:  report.Success,
		Duration: report.Duration.Seconds(),
		FileSize: report.FileSize,
		Warnings: report.Warnings,
	}
	if err != nil {
		if report.Success {
			return models.VerifyResponse{}, err
		}
		return resp, nil
	}
	return resp, nil
}

// Inspect probes inputPath and returns its stream summary, running the
// GOP analyzer on the primary video stream when showKeyframes is set.
func (s *ClipService) Inspect(ctx context.Context, probe core.ProbePort, inputPath string, showKeyframes bool) (models.InspectResponse, error) {
	media, err := probe.Probe(ctx, inputPath)
	if err != nil {
		return models.InspectResponse{}, err
	}

	resp := models.InspectResponse{
		Format:   media.Format,
		Duration: media.Duration.Seconds(),
		FileSize: media.FileSize,
	}
	for _, sd := range media.Streams {
		info := models.StreamInfo{
			Index:       sd.Index(),
			Kind:        string(sd.Kind),
			Codec:       sd.CodecID(),
			CopyCapable: sd.SupportsStreamCopy(),
		}
		if sd.Kind == core.StreamVideo {
			info.Width = sd.Video.Width
			info.Height = sd.Video.Height
		}
		if sd.Kind == core.StreamAudio {
			info.SampleRate = sd.Audio.SampleRate
			info.Channels = sd.Audio.Channels
		}
		resp.Streams = append(resp.Streams, info)
	}

	if !showKeyframes {
		return resp, nil
	}

	if vs, ok := media.PrimaryVideoStream(); ok {
		kfs, err := probe.Keyframes(ctx, inputPath, vs.Index())
		if err == nil {
			analysis, err := core.AnalyzeGOP(kfs.Keyframes, vs.Video.FPS())
			if err == nil {
				resp.GOP = &models.GopInfo{
					KeyframeCount:   len(kfs.Keyframes),
					AvgGopDuration:  analysis.AvgGopDuration,
					RegularityScore: analysis.RegularityScore,
					DetectedPattern: analysis.DetectedPattern,
				}
			}
		}
	}

	return resp, nil
}
