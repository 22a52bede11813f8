// Package segment models redaction segments and validates a segment list
// against a video's duration.
package segment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BitEU/Hashbrown/internal/timecode"
)

// Sentinel errors wrapped by *Error.
var (
	ErrNoSegments        = errors.New("at least one segment is required")
	ErrInvalidSegment    = errors.New("invalid segment")
	ErrStartNotBeforeEnd = errors.New("start time must be before end time")
	ErrExceedsDuration   = errors.New("end time exceeds video duration")
	ErrOverlap           = errors.New("segments overlap")
)

// Segment is a redacted time range in seconds from the start of the video.
type Segment struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (s Segment) Duration() float64 { return s.End - s.Start }

// String renders the segment as "HH:MM:SS-HH:MM:SS".
func (s Segment) String() string {
	return timecode.Format(s.Start) + "-" + timecode.Format(s.End)
}

// Total sums the durations of segs.
func Total(segs []Segment) float64 {
	var t float64
	for _, s := range segs {
		t += s.Duration()
	}
	return t
}

// Error describes a validation failure for one segment (or, for overlaps,
// a pair of segments). Index is 1-based in input order; for ErrOverlap,
// Index and Other are positions in the sorted list.
type Error struct {
	Index    int
	Other    int
	Segment  Segment
	Next     Segment
	Duration float64
	Err      error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrOverlap):
		return fmt.Sprintf("segments overlap: segment ending at %s overlaps with segment starting at %s",
			timecode.Format(e.Segment.End), timecode.Format(e.Next.Start))
	case errors.Is(e.Err, ErrExceedsDuration):
		return fmt.Sprintf("segment %d: end time %s exceeds video duration (%s)",
			e.Index, timecode.Format(e.Segment.End), timecode.Format(e.Duration))
	case errors.Is(e.Err, ErrStartNotBeforeEnd):
		return fmt.Sprintf("segment %d: start time must be before end time (%s)", e.Index, e.Segment)
	default:
		return fmt.Sprintf("segment %d: %v", e.Index, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Parse reads a "START-END" pair; each side is any form timecode.Parse accepts.
func Parse(s string) (Segment, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return Segment{}, fmt.Errorf("%w %q: want START-END", ErrInvalidSegment, s)
	}
	a, err := timecode.Parse(start)
	if err != nil {
		return Segment{}, fmt.Errorf("%w %q: %w", ErrInvalidSegment, s, err)
	}
	b, err := timecode.Parse(end)
	if err != nil {
		return Segment{}, fmt.Errorf("%w %q: %w", ErrInvalidSegment, s, err)
	}
	return Segment{Start: a, End: b}, nil
}

// ParseList parses each spec, reporting failures by 1-based position.
func ParseList(specs []string) ([]Segment, error) {
	segs := make([]Segment, 0, len(specs))
	for i, spec := range specs {
		s, err := Parse(spec)
		if err != nil {
			return nil, &Error{Index: i + 1, Err: err}
		}
		segs = append(segs, s)
	}
	return segs, nil
}

// Validate checks segs against the video duration and returns a copy sorted
// by start time. A duration <= 0 means unknown and skips the end check.
// Segments that merely touch (one ends where the next starts) are allowed.
func Validate(segs []Segment, duration float64) ([]Segment, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	for i, s := range segs {
		if s.Start >= s.End {
			return nil, &Error{Index: i + 1, Segment: s, Err: ErrStartNotBeforeEnd}
		}
		if duration > 0 && s.End > duration {
			return nil, &Error{Index: i + 1, Segment: s, Duration: duration, Err: ErrExceedsDuration}
		}
	}

	sorted := make([]Segment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].End > sorted[i+1].Start {
			return nil, &Error{
				Index:   i + 1,
				Other:   i + 2,
				Segment: sorted[i],
				Next:    sorted[i+1],
				Err:     ErrOverlap,
			}
		}
	}
	return sorted, nil
}
