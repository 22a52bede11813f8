package progress

import "time"

// Update is one snapshot of encode progress.
type Update struct {
	OutTime float64       // Seconds of output written.
	Total   float64       // Media duration in seconds; 0 when unknown.
	Percent float64       // 0-100, or -1 when the total is unknown.
	Speed   float64       // Realtime multiple; 0 when unknown.
	ETA     time.Duration // Remaining wall time, or -1 when unknown.
	Size    int64         // Bytes written so far.
	Done    bool          // ffmpeg reported progress=end.
}

// Estimate maps current seconds onto a percentage of total, clamped to
// [0, 100]. Returns -1 when total is unknown.
func Estimate(current, total float64) float64 {
	if total <= 0 {
		return -1
	}
	pct := current / total * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ETA estimates the remaining wall time as remaining media time divided by
// the encode speed. Returns -1 when total or speed is unknown.
func ETA(current, total, speed float64) time.Duration {
	if total <= 0 || speed <= 0 {
		return -1
	}
	remaining := total - current
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining / speed * float64(time.Second))
}
