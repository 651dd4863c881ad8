package models

import "time"

// ClipRequest is the HTTP/CLI-facing description of one clip operation,
// parsed into a core.ClipRequest by the caller.
type ClipRequest struct {
	InputPath  string `json:"input_path,omitempty"`  // required unless preset_name supplies it
	OutputPath string `json:"output_path" binding:"required"`
	Start      string `json:"start,omitempty"` // required unless preset_name supplies it
	End        string `json:"end,omitempty"`   // required unless preset_name supplies it
	Mode       string `json:"mode,omitempty"` // auto|copy|reencode|hybrid
	NoAudio    bool   `json:"no_audio,omitempty"`
	NoSubs     bool   `json:"no_subs,omitempty"`
	VideoCodec string `json:"video_codec,omitempty"`
	AudioCodec string `json:"audio_codec,omitempty"`
	CRF        *int   `json:"crf,omitempty"` // nil = use config/preset default; 0 is a valid (lossless) value
	Preset     string `json:"preset,omitempty"`
	Threads    int    `json:"threads,omitempty"`
	Container  string `json:"container,omitempty"`
	Verify     bool   `json:"verify,omitempty"`
	PresetName string `json:"preset_name,omitempty"` // apply a saved Preset before overrides
}

// ClipResponse is the result of one clip operation.
type ClipResponse struct {
	JobID          string   `json:"job_id,omitempty"`
	Success        bool     `json:"success"`
	ModeUsed       string   `json:"mode_used"`
	Duration       float64  `json:"duration"`
	FileSize       int64    `json:"file_size"`
	ProcessingTime float64  `json:"processing_time"`
	Warnings       []string `json:"warnings,omitempty"`
}

// InspectRequest asks for a stream/GOP summary of a media file.
type InspectRequest struct {
	Input         string `json:"input" binding:"required"`
	ShowKeyframes bool   `json:"show_keyframes,omitempty"`
}

// InspectResponse is the result of probing a media file, including the
// keyframe/GOP analysis when a video stream is present.
type InspectResponse struct {
	Format   string       `json:"format"`
	Duration float64      `json:"duration"`
	FileSize int64        `json:"file_size"`
	Streams  []StreamInfo `json:"streams"`
	GOP      *GopInfo     `json:"gop,omitempty"`
}

// StreamInfo is one stream entry in an InspectResponse.
type StreamInfo struct {
	Index       int    `json:"index"`
	Kind        string `json:"kind"`
	Codec       string `json:"codec"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	SampleRate  int    `json:"sample_rate,omitempty"`
	Channels    int    `json:"channels,omitempty"`
	Language    string `json:"language,omitempty"`
	CopyCapable bool   `json:"copy_capable"`
}

// GopInfo summarizes a video stream's keyframe/GOP analysis.
type GopInfo struct {
	KeyframeCount   int     `json:"keyframe_count"`
	AvgGopDuration  float64 `json:"avg_gop_duration"`
	RegularityScore float64 `json:"regularity_score"`
	DetectedPattern string  `json:"detected_pattern,omitempty"`
}

// VerifyRequest asks Verifier to re-check an already-written output.
type VerifyRequest struct {
	OutputPath string `json:"output_path" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
	Mode       string `json:"mode" binding:"required"`
}

// VerifyResponse is the result of a verify-only pass.
type VerifyResponse struct {
	Success  bool     `json:"success"`
	Duration float64  `json:"duration"`
	FileSize int64    `json:"file_size"`
	Warnings []string `json:"warnings,omitempty"`
}

// Preset is a saved, named cut range a caller can replay without
// retyping --input/--start/--end, stored one JSON file per preset the
// same way the teacher persists one project per file.
type Preset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required"`
	InputPath string    `json:"input_path" binding:"required"`
	Start     string    `json:"start" binding:"required"`
	End       string    `json:"end" binding:"required"`
	ModeHint  string    `json:"mode_hint,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobStatus discriminates an async clip job's lifecycle state.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job tracks one async clip operation submitted via the HTTP API.
type Job struct {
	ID        string        `json:"id"`
	Status    JobStatus     `json:"status"`
	Progress  float64       `json:"progress"`
	Result    *ClipResponse `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
