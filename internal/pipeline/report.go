package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/display"
	"github.com/BitEU/Hashbrown/internal/planner"
	"github.com/BitEU/Hashbrown/internal/probe"
	"github.com/BitEU/Hashbrown/internal/term"
	"github.com/BitEU/Hashbrown/internal/timecode"
)

// streamRow is one line of the stream table.
type streamRow struct {
	Stream  string
	Codec   string
	Details string
	Bitrate string
}

// Inspect probes path and writes a stream table followed by the values a
// redaction of it would use: duration, icon size and the bitrate-matching
// target.
func Inspect(ctx context.Context, cfg *config.Config, path string, w io.Writer) error {
	if _, err := CheckInput(path); err != nil {
		return err
	}
	pr, err := probe.Probe(ctx, cfg.FFprobePath, path)
	if err != nil {
		return fmt.Errorf("cannot probe %s: %w", path, err)
	}
	WriteReport(w, cfg, path, pr)
	return nil
}

// WriteReport renders the Inspect output for an already probed file.
func WriteReport(w io.Writer, cfg *config.Config, path string, pr *probe.ProbeResult) {
	fmt.Fprintf(w, "%s%s%s\n\n", term.Cyan, path, term.NC)
	printStreamTable(w, streamRows(pr))

	d := pr.Duration()
	switch {
	case d <= 0:
		fmt.Fprintf(w, "  Duration:     unknown (segment end times are not checked)\n")
	case timecode.NeedsHours(d):
		fmt.Fprintf(w, "  Duration:     %s\n", timecode.Format(d))
	default:
		// MM:SS is enough below an hour.
		fmt.Fprintf(w, "  Duration:     %s\n", strings.TrimPrefix(timecode.Format(d), "00:"))
	}

	if v := pr.PrimaryVideo; v != nil && v.Height > 0 {
		fmt.Fprintf(w, "  Icon size:    %dpx (height / %d)\n", max(v.Height/cfg.IconDivisor, 1), cfg.IconDivisor)
	}
	if b, ok := planner.MatchBitrate(pr); ok {
		fmt.Fprintf(w, "  Match target: -b:v %dk -maxrate %dk -bufsize %dk\n", b.Kbps, b.MaxKbps, b.BufKbps)
	} else {
		fmt.Fprintf(w, "  Match target: %sn/a%s (source bitrate unknown)\n", term.Yellow, term.NC)
	}
	if !pr.HasAudio() {
		fmt.Fprintf(w, "  %sNo audio stream: only the overlay can redact this file%s\n", term.Yellow, term.NC)
	}
}

func streamRows(pr *probe.ProbeResult) []streamRow {
	var rows []streamRow
	if v := pr.PrimaryVideo; v != nil {
		details := pr.Resolution()
		if fps := pr.FrameRate(); fps > 0 {
			details += fmt.Sprintf(" @ %.2f fps", fps)
		}
		if v.PixFmt != "" {
			details += " " + v.PixFmt
		}
		rows = append(rows, streamRow{
			Stream:  fmt.Sprintf("#%d video", v.Index),
			Codec:   v.Codec,
			Details: details,
			Bitrate: fmtKbps(pr.VideoBitRate() / 1000),
		})
	}
	for _, a := range pr.AudioStreams {
		rows = append(rows, streamRow{
			Stream:  fmt.Sprintf("#%d audio", a.Index),
			Codec:   a.Codec,
			Details: fmt.Sprintf("%dch %d Hz", a.Channels, a.SampleRate),
			Bitrate: fmtKbps(a.BitRate / 1000),
		})
	}
	return rows
}

func printStreamTable(w io.Writer, rows []streamRow) {
	sw, cw, dw := len("Stream"), len("Codec"), len("Details")
	for _, r := range rows {
		sw = max(sw, len(r.Stream))
		cw = max(cw, len(r.Codec))
		dw = max(dw, len(r.Details))
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %s", sw, "Stream", cw, "Codec", dw, "Details", "Bitrate")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))
	for _, r := range rows {
		fmt.Fprintf(w, "  %-*s  %-*s  %-*s  %s\n", sw, r.Stream, cw, r.Codec, dw, r.Details, r.Bitrate)
	}
	fmt.Fprintln(w)
}

func fmtKbps(kbps int64) string {
	if kbps <= 0 {
		return "n/a"
	}
	return display.FormatBitrateLabel(kbps)
}
