package planner

import "github.com/BitEU/Hashbrown/internal/probe"

// Bitrate matching bounds in kbps. Sources outside the range are clamped so
// a bogus container bitrate cannot produce an absurd encode.
const (
	MinMatchKbps = 200
	MaxMatchKbps = 100_000
)

// MatchBitrate derives rate-control targets from the source video bitrate:
// -b:v at the source rate, -maxrate at 1.5x and -bufsize at 2x. The second
// result is false when the source bitrate is unknown.
func MatchBitrate(pr *probe.ProbeResult) (BitrateTarget, bool) {
	bps := pr.VideoBitRate()
	if bps <= 0 {
		return BitrateTarget{}, false
	}
	kbps := clamp(int((bps+500)/1000), MinMatchKbps, MaxMatchKbps)
	return BitrateTarget{
		Kbps:    kbps,
		MaxKbps: kbps * 3 / 2,
		BufKbps: kbps * 2,
	}, true
}

// EstimateSize predicts the output size in bytes for a bitrate-matched
// encode: (video + audio kbps) * duration. Returns 0 when either is unknown.
func EstimateSize(b BitrateTarget, audioKbps int, duration float64) int64 {
	if !b.Enabled() || duration <= 0 {
		return 0
	}
	totalKbps := float64(b.Kbps + audioKbps)
	return int64(totalKbps * 1000 / 8 * duration)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
