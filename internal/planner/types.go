package planner

import (
	"github.com/BitEU/Hashbrown/internal/filtergraph"
	"github.com/BitEU/Hashbrown/internal/segment"
)

// VideoEncoder is the ffmpeg video codec a plan runs with.
type VideoEncoder string

const (
	EncoderX264  VideoEncoder = "libx264"
	EncoderNVENC VideoEncoder = "h264_nvenc"
	EncoderCopy  VideoEncoder = "copy"
)

// Capabilities lists the encoders the local ffmpeg build reports.
type Capabilities struct {
	NVENC bool // h264_nvenc
	X264  bool // libx264
	AAC   bool // aac
}

// BitrateTarget holds the rate-control values used when matching the source
// bitrate. Zero value means quality mode (CRF/CQ).
type BitrateTarget struct {
	Kbps    int
	MaxKbps int
	BufKbps int
}

// Enabled reports whether bitrate matching is active.
func (b BitrateTarget) Enabled() bool { return b.Kbps > 0 }

// Plan holds the complete set of decisions for redacting one file. It is
// produced by BuildPlan and consumed by the ffmpeg package.
type Plan struct {
	InputPath  string
	OutputPath string
	Duration   float64 // Seconds; 0 when unknown.

	Segments []segment.Segment // Sorted, validated.

	// Video.
	Encoder VideoEncoder
	Bitrate BitrateTarget
	Width   int
	Height  int

	// Overlay icon. IconSize is the side of the square the icon is fitted into.
	Overlay  bool
	IconPath string // Set by the caller once the icon is prepared.
	IconSize int
	IconX    int
	IconY    int

	// Audio.
	HasAudio bool

	// Filters.
	Graph       filtergraph.Graph // -filter_complex for the encode path.
	AudioFilter string            // -af for the stream-copy path.

	// Human-readable decisions worth logging.
	Notes []string
}

// StreamCopy reports whether the video stream is copied untouched.
func (p *Plan) StreamCopy() bool { return p.Encoder == EncoderCopy }

// WithEncoder returns a copy of p using enc. Used by the GPU to CPU fallback.
func (p *Plan) WithEncoder(enc VideoEncoder) *Plan {
	cp := *p
	cp.Encoder = enc
	cp.Notes = append([]string(nil), p.Notes...)
	return &cp
}
