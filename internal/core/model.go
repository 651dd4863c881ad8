package core

import "fmt"

// StreamKind discriminates the StreamDescriptor sum type.
type StreamKind string

const (
	StreamVideo    StreamKind = "video"
	StreamAudio    StreamKind = "audio"
	StreamSubtitle StreamKind = "subtitle"
)

var copyableVideoCodecs = map[string]bool{
	"h264": true, "hevc": true, "vp9": true, "av1": true,
}

var copyableAudioCodecs = map[string]bool{
	"aac": true, "mp3": true, "ac3": true, "eac3": true,
	"pcm_s16le": true, "pcm_s24le": true, "opus": true, "vorbis": true, "flac": true,
}

var copyableSubtitleCodecs = map[string]bool{
	"mov_text": true, "srt": true, "subrip": true, "ass": true, "ssa": true,
}

// VideoStream describes a video stream.
type VideoStream struct {
	Index      int
	CodecID    string
	Width      int
	Height     int
	FrameRate  Timebase // num/den frames per second
	Timebase   Timebase
	BitRate    *int64
	PixFmt     string
	Rotation   int
}

// FPS returns the frame rate as a float64.
func (v VideoStream) FPS() float64 {
	if v.FrameRate.Den == 0 {
		return 0
	}
	return float64(v.FrameRate.Num) / float64(v.FrameRate.Den)
}

// FrameDuration returns the duration of one frame in seconds.
func (v VideoStream) FrameDuration() float64 {
	fps := v.FPS()
	if fps <= 0 {
		return 0
	}
	return 1.0 / fps
}

// AudioStream describes an audio stream.
type AudioStream struct {
	Index         int
	CodecID       string
	SampleRate    int
	Channels      int
	ChannelLayout string
	Timebase      Timebase
	BitRate       *int64
}

// SubtitleStream describes a subtitle stream.
type SubtitleStream struct {
	Index    int
	CodecID  string
	Timebase Timebase
	Language string
	Forced   bool
	Default  bool
}

// StreamDescriptor is a closed sum type over Video/Audio/Subtitle streams.
// Exactly one of Video, Audio, Subtitle is non-nil.
type StreamDescriptor struct {
	Kind     StreamKind
	Video    *VideoStream
	Audio    *AudioStream
	Subtitle *SubtitleStream
}

// Index returns the input stream index regardless of kind.
func (s StreamDescriptor) Index() int {
	switch s.Kind {
	case StreamVideo:
		return s.Video.Index
	case StreamAudio:
		return s.Audio.Index
	case StreamSubtitle:
		return s.Subtitle.Index
	default:
		return -1
	}
}

// CodecID returns the codec identifier regardless of kind.
func (s StreamDescriptor) CodecID() string {
	switch s.Kind {
	case StreamVideo:
		return s.Video.CodecID
	case StreamAudio:
		return s.Audio.CodecID
	case StreamSubtitle:
		return s.Subtitle.CodecID
	default:
		return ""
	}
}

// Timebase returns the stream's timebase regardless of kind.
func (s StreamDescriptor) Timebase() Timebase {
	switch s.Kind {
	case StreamVideo:
		return s.Video.Timebase
	case StreamAudio:
		return s.Audio.Timebase
	case StreamSubtitle:
		return s.Subtitle.Timebase
	default:
		return Timebase{}
	}
}

// SupportsStreamCopy reports whether this stream's codec is on the
// stream-copy whitelist for its kind.
func (s StreamDescriptor) SupportsStreamCopy() bool {
	switch s.Kind {
	case StreamVideo:
		return copyableVideoCodecs[s.Video.CodecID]
	case StreamAudio:
		return copyableAudioCodecs[s.Audio.CodecID]
	case StreamSubtitle:
		return copyableSubtitleCodecs[s.Subtitle.CodecID]
	default:
		return false
	}
}

// MediaInfo is the read-only result of probing a media file.
type MediaInfo struct {
	Path     string
	Format   string
	Duration TimeSpec
	Streams  []StreamDescriptor
	FileSize int64
	BitRate  int64
	Metadata map[string]string
}

// VideoStreams returns all video stream descriptors in input order.
func (m MediaInfo) VideoStreams() []StreamDescriptor { return m.streamsOfKind(StreamVideo) }

// AudioStreams returns all audio stream descriptors in input order.
func (m MediaInfo) AudioStreams() []StreamDescriptor { return m.streamsOfKind(StreamAudio) }

// SubtitleStreams returns all subtitle stream descriptors in input order.
func (m MediaInfo) SubtitleStreams() []StreamDescriptor { return m.streamsOfKind(StreamSubtitle) }

func (m MediaInfo) streamsOfKind(k StreamKind) []StreamDescriptor {
	var out []StreamDescriptor
	for _, s := range m.Streams {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

// PrimaryVideoStream returns the first video stream, if any.
func (m MediaInfo) PrimaryVideoStream() (StreamDescriptor, bool) {
	vs := m.VideoStreams()
	if len(vs) == 0 {
		return StreamDescriptor{}, false
	}
	return vs[0], true
}

// AllStreamsSupportCopy reports whether every stream in the media
// supports stream copy.
func (m MediaInfo) AllStreamsSupportCopy() bool {
	for _, s := range m.Streams {
		if !s.SupportsStreamCopy() {
			return false
		}
	}
	return true
}

var copyableContainers = map[string]bool{
	"mp4": true, "mov": true, "mkv": true, "ts": true, "mts": true, "m2ts": true,
}

// ContainerSupportsCopy reports whether the named container format is
// copy-capable.
func ContainerSupportsCopy(format string) bool {
	return copyableContainers[format]
}

// CutRange is the validated [start, end) time window to extract.
type CutRange struct {
	Start TimeSpec
	End   TimeSpec
}

// NewCutRange validates 0 <= start < end.
func NewCutRange(start, end TimeSpec) (CutRange, error) {
	if start < 0 || end <= start {
		return CutRange{}, newErr(InvalidArgument, "NewCutRange",
			fmt.Errorf("invalid range: start=%v end=%v, require 0 <= start < end", start, end))
	}
	return CutRange{Start: start, End: end}, nil
}

// Duration returns end - start.
func (c CutRange) Duration() TimeSpec { return c.End - c.Start }

// ValidateAgainstMedia checks end <= media.duration.
func (c CutRange) ValidateAgainstMedia(media MediaInfo) error {
	if c.End > media.Duration {
		return newErr(InvalidArgument, "CutRange.ValidateAgainstMedia",
			fmt.Errorf("end %v exceeds media duration %v", c.End, media.Duration))
	}
	return nil
}

// Keyframe is one entry in a stream's keyframe list.
type Keyframe struct {
	PTS          int64
	Seconds      float64
	FrameNumber  int64
	BytePosition *int64
}

// Quality bundles the codec/encode parameters passed through to the
// re-encode executor.
type Quality struct {
	VideoCodec string // target codec for re-encoded video; "" = input codec
	AudioCodec string
	CRF        int // 0-51
	Preset     string
	Options    map[string]string
}

// ValidateCRF checks crf against ffmpeg's accepted CRF range.
func ValidateCRF(crf int) error {
	if crf < 0 || crf > 51 {
		return newErr(InvalidArgument, "ValidateCRF",
			fmt.Errorf("crf %d out of range [0,51]", crf))
	}
	return nil
}
