package pipeline

import (
	"time"

	"github.com/BitEU/Hashbrown/internal/planner"
)

// Result describes a finished job.
type Result struct {
	JobID      string
	InputPath  string
	OutputPath string
	Plan       *planner.Plan
	Args       []string // Final ffmpeg argv (the last attempt).

	Attempts    int
	DryRun      bool
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

// SizeDelta returns OutputBytes - InputBytes. Negative means the output is
// smaller.
func (r *Result) SizeDelta() int64 {
	return r.OutputBytes - r.InputBytes
}

// Encoder returns the video encoder the job finished with.
func (r *Result) Encoder() planner.VideoEncoder {
	if r.Plan == nil {
		return ""
	}
	return r.Plan.Encoder
}
