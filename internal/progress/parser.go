package progress

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/BitEU/Hashbrown/internal/timecode"
)

// Legacy stderr stats: "frame= 100 fps=25 ... time=00:00:04.00 bitrate=... speed=1.5x".
var (
	reStatsTime  = regexp.MustCompile(`(?:^|\s)time=\s*(-?[\d:.]+)`)
	reStatsSpeed = regexp.MustCompile(`speed=\s*([\d.]+)x`)
	reStatsSize  = regexp.MustCompile(`size=\s*(\d+)[kK]i?B`)
)

// Parser accumulates ffmpeg progress lines. It is not safe for concurrent
// use; feed it from the goroutine reading the pipe.
type Parser struct {
	total float64

	outTime   float64
	haveUs    bool // out_time_us seen in the current block; it wins over the others.
	speed     float64
	lastSpeed float64
	size      int64

	structured bool // a complete -progress block has been seen
}

// NewParser returns a Parser for media of the given duration (0 if unknown).
func NewParser(total float64) *Parser {
	return &Parser{total: total}
}

// Line consumes one line of output. It returns an Update and true when the
// line completes a -progress block or is a legacy stats line.
func (p *Parser) Line(line string) (Update, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Update{}, false
	}

	if reStatsTime.MatchString(line) {
		return p.Stats(line)
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return Update{}, false
	}
	return p.keyValue(strings.TrimSpace(key), strings.TrimSpace(value))
}

func (p *Parser) keyValue(key, value string) (Update, bool) {
	switch key {
	case "out_time_us":
		if us, err := strconv.ParseInt(value, 10, 64); err == nil {
			p.outTime = float64(us) / 1e6
			p.haveUs = true
		}
	case "out_time_ms":
		// ffmpeg writes microseconds under this key as well.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && !p.haveUs {
			p.outTime = float64(us) / 1e6
		}
	case "out_time":
		if !p.haveUs {
			if secs, ok := parseClock(value); ok {
				p.outTime = secs
			}
		}
	case "speed":
		p.speed = parseSpeed(value)
	case "total_size":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			p.size = n
		}
	case "progress":
		u := p.snapshot(value == "end")
		p.haveUs = false
		p.structured = true
		return u, true
	}
	return Update{}, false
}

// Structured reports whether a -progress block has completed. Once it has,
// legacy stats lines are redundant.
func (p *Parser) Structured() bool { return p.structured }

// Stats consumes a legacy "frame= ... time=... speed=..." stats line as
// printed on stderr. Other lines are ignored.
func (p *Parser) Stats(line string) (Update, bool) {
	m := reStatsTime.FindStringSubmatch(line)
	if m == nil {
		return Update{}, false
	}
	secs, ok := parseClock(m[1])
	if !ok {
		return Update{}, false
	}
	p.outTime = secs
	if sm := reStatsSpeed.FindStringSubmatch(line); sm != nil {
		p.speed = parseSpeed(sm[1] + "x")
	}
	if zm := reStatsSize.FindStringSubmatch(line); zm != nil {
		if kb, err := strconv.ParseInt(zm[1], 10, 64); err == nil {
			p.size = kb * 1024
		}
	}
	return p.snapshot(false), true
}

func (p *Parser) snapshot(done bool) Update {
	if p.speed > 0 {
		p.lastSpeed = p.speed
	}
	cur := p.outTime
	if cur < 0 {
		cur = 0
	}
	if p.total > 0 && cur > p.total {
		cur = p.total
	}
	u := Update{
		OutTime: cur,
		Total:   p.total,
		Percent: Estimate(cur, p.total),
		Speed:   p.speed,
		ETA:     ETA(cur, p.total, p.lastSpeed),
		Size:    p.size,
		Done:    done,
	}
	if done {
		if p.total > 0 {
			u.OutTime = p.total
			u.Percent = 100
		}
		u.ETA = 0
	}
	return u
}

// parseSpeed reads "1.23x"; "N/A" and garbage read as 0.
func parseSpeed(v string) float64 {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "x"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseClock reads ffmpeg's HH:MM:SS.micro clock, tolerating a leading '-'
// (ffmpeg prints negative times before the first frame).
func parseClock(v string) (float64, bool) {
	if strings.HasPrefix(v, "-") {
		return 0, true
	}
	secs, err := timecode.Parse(v)
	if err != nil {
		return 0, false
	}
	return secs, true
}
