package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/BitEU/Hashbrown/internal/display"
	"github.com/BitEU/Hashbrown/internal/timecode"
)

// Logger is the logging surface the Reporter needs when no terminal is attached.
type Logger interface {
	Info(string, ...interface{})
}

// logStep is the percentage step between log lines in non-terminal mode.
const logStep = 10

// Reporter renders progress updates. On a terminal it drives a progress bar;
// otherwise it logs a line every logStep percent (or every minute of media
// when the duration is unknown).
type Reporter struct {
	bar *progressbar.ProgressBar
	log Logger

	total    float64
	nextLog  float64
	finished bool
}

// NewReporter creates a Reporter writing the bar to w when tty is true.
func NewReporter(w io.Writer, tty bool, total float64, log Logger) *Reporter {
	r := &Reporter{log: log, total: total, nextLog: logStep}
	if total <= 0 {
		r.nextLog = 60
	}
	if !tty {
		return r
	}

	steps := 100
	if total <= 0 {
		steps = -1 // spinner
	}
	r.bar = progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Redacting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
	return r
}

// Update renders u.
func (r *Reporter) Update(u Update) {
	if r.finished {
		return
	}
	if r.bar != nil {
		r.bar.Describe(Describe(u))
		if u.Percent >= 0 {
			_ = r.bar.Set(int(u.Percent))
		} else {
			_ = r.bar.Add(1)
		}
		if u.Done {
			r.Finish()
		}
		return
	}

	if r.log == nil {
		return
	}
	if u.Done {
		r.finished = true
		return
	}
	if u.Percent >= 0 {
		if u.Percent >= r.nextLog {
			r.log.Info("Progress: %s", Describe(u))
			for r.nextLog <= u.Percent {
				r.nextLog += logStep
			}
		}
		return
	}
	if u.OutTime >= r.nextLog {
		r.log.Info("Progress: %s", Describe(u))
		for r.nextLog <= u.OutTime {
			r.nextLog += 60
		}
	}
}

// Finish completes the bar. Further updates are ignored.
func (r *Reporter) Finish() {
	if r.finished {
		return
	}
	r.finished = true
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// Abort clears the bar without marking it complete.
func (r *Reporter) Abort() {
	if r.finished {
		return
	}
	r.finished = true
	if r.bar != nil {
		_ = r.bar.Exit()
	}
}

// Describe renders a one-line summary such as
// "42.0% 00:01:03/00:02:30 speed 1.50x ETA 0:58 size 3.2 MiB".
func Describe(u Update) string {
	s := ""
	if u.Percent >= 0 {
		s = fmt.Sprintf("%.1f%% %s/%s", u.Percent, timecode.Format(u.OutTime), timecode.Format(u.Total))
	} else {
		s = timecode.Format(u.OutTime)
	}
	if u.Speed > 0 {
		s += fmt.Sprintf(" speed %.2fx", u.Speed)
	}
	if u.ETA >= 0 && !u.Done {
		s += " ETA " + display.FormatElapsed(u.ETA)
	}
	if u.Size > 0 {
		s += " size " + display.FormatBytes(u.Size)
	}
	return s
}
