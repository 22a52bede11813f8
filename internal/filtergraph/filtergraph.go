// Package filtergraph lowers a list of redaction segments into ffmpeg
// filter expressions: an overlay gated by enable='between(...)' for the
// video and a volume=0 gated the same way for the audio.
package filtergraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BitEU/Hashbrown/internal/segment"
)

// Output pad labels mapped by the ffmpeg argv builder.
const (
	VideoLabel = "[v_out]"
	AudioLabel = "[a_out]"
)

// Options selects which filter chains Compile emits.
type Options struct {
	Overlay bool // Draw input 1 (the icon) over the video during segments.
	IconX   int
	IconY   int
	Audio   bool // The source has an audio stream to mute.
}

// Graph is a compiled -filter_complex value plus the pads to map. An empty
// VideoLabel means the video stream is mapped straight from input 0.
type Graph struct {
	Complex    string
	VideoLabel string
	AudioLabel string
}

// Empty reports whether no filter is needed at all.
func (g Graph) Empty() bool { return g.Complex == "" }

// EnableExpr joins one between(t,S,E) term per segment with '+'. The sum is
// non-zero inside any segment, which ffmpeg's enable option treats as true.
// Segments are emitted in the order given; an empty list yields "0".
func EnableExpr(segs []segment.Segment) string {
	if len(segs) == 0 {
		return "0"
	}
	terms := make([]string, 0, len(segs))
	for _, s := range segs {
		terms = append(terms, fmt.Sprintf("between(t,%s,%s)", formatSeconds(s.Start), formatSeconds(s.End)))
	}
	return strings.Join(terms, "+")
}

// Compile builds the filter graph for segs.
func Compile(segs []segment.Segment, opts Options) Graph {
	expr := EnableExpr(segs)
	var g Graph
	var parts []string

	if opts.Overlay {
		parts = append(parts, fmt.Sprintf("[0:v][1:v]overlay=%d:%d:enable='%s'%s",
			opts.IconX, opts.IconY, expr, VideoLabel))
		g.VideoLabel = VideoLabel
	}
	if opts.Audio {
		parts = append(parts, "[0:a]"+volumeFilter(expr)+AudioLabel)
		g.AudioLabel = AudioLabel
	}

	g.Complex = strings.Join(parts, ";")
	return g
}

// AudioFilter returns the bare volume filter for use with -af when the video
// is stream-copied.
func AudioFilter(segs []segment.Segment) string {
	return volumeFilter(EnableExpr(segs))
}

func volumeFilter(expr string) string {
	return "volume=enable='" + expr + "':volume=0"
}

// formatSeconds prints the shortest decimal form: 62, 62.5, 0.04.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
