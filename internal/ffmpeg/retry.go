package ffmpeg

import "github.com/BitEU/Hashbrown/internal/planner"

// RetryAction identifies which fix was applied (or none).
type RetryAction int

const (
	RetryNone          RetryAction = iota
	RetryFallbackCPU               // Switch h264_nvenc to libx264.
	RetryIncreaseMux               // Raise max_muxing_queue_size to 4096.
	RetryFixTimestamps             // Enable -fflags +genpts.
)

func (a RetryAction) String() string {
	switch a {
	case RetryFallbackCPU:
		return "falling back to CPU encoding (libx264)"
	case RetryIncreaseMux:
		return "raising the muxing queue size"
	case RetryFixTimestamps:
		return "regenerating timestamps"
	default:
		return "none"
	}
}

const (
	maxAttempts      = 4
	muxQueueEscalate = 4096
)

// RetryState tracks which fallback fixes have been applied across ffmpeg
// attempts for a single job.
type RetryState struct {
	Attempt     int
	MaxAttempts int

	Encoder      planner.VideoEncoder
	Strict       bool // No GPU to CPU fallback.
	MuxQueueSize int  // 0 leaves ffmpeg's default.
	TimestampFix bool
}

// NewRetryState initializes a RetryState from the plan's encoder.
func NewRetryState(plan *planner.Plan, strict bool) *RetryState {
	return &RetryState{
		MaxAttempts: maxAttempts,
		Encoder:     plan.Encoder,
		Strict:      strict,
	}
}

// Advance inspects stderr from a failed ffmpeg run, finds the first matching
// error pattern whose fix has not yet been applied, applies that fix, and
// returns the action taken. Returns RetryNone when no fixable pattern matches
// or the attempt limit is reached.
//
// Pattern evaluation order: NVENC failure → mux queue → timestamp.
// Only one fix is applied per call (one fix per retry attempt).
func (s *RetryState) Advance(stderr string) RetryAction {
	s.Attempt++
	if s.Attempt >= s.MaxAttempts {
		return RetryNone
	}

	if s.Encoder == planner.EncoderNVENC && !s.Strict && MatchNVENCFailure(stderr) {
		s.Encoder = planner.EncoderX264
		return RetryFallbackCPU
	}
	if s.MuxQueueSize < muxQueueEscalate && MatchMuxQueueOverflow(stderr) {
		s.MuxQueueSize = muxQueueEscalate
		return RetryIncreaseMux
	}
	if !s.TimestampFix && MatchTimestampIssue(stderr) {
		s.TimestampFix = true
		return RetryFixTimestamps
	}

	return RetryNone
}
