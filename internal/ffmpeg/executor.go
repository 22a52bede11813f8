package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/BitEU/Hashbrown/internal/progress"
)

// Bounds on the stderr kept for classification and reports.
const (
	stderrTailLines = 64
	stderrTailBytes = 16 << 10
)

// ExecOptions controls how Execute reports on a running ffmpeg.
type ExecOptions struct {
	Duration   float64               // Media duration for percent estimates; 0 if unknown.
	OnProgress func(progress.Update) // Called from the stdout reader goroutine.
	Stderr     io.Writer             // Optional live copy of ffmpeg's stderr (verbose mode).
}

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string // Last stderrTailLines lines.
	Err    error
}

// Summary returns the last non-empty stderr line, which is usually ffmpeg's
// own one-line explanation of the failure.
func (r ExecResult) Summary() string {
	lines := strings.Split(strings.TrimSpace(r.Stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

// Execute runs ffmpeg with args (args[0] is the binary). The -progress
// stream on stdout is parsed into updates, with stderr stats lines as a
// fallback until it arrives; stderr is kept in a bounded tail for retry
// classification. Both pipes are drained by an errgroup before
// the process is reaped.
func Execute(ctx context.Context, args []string, opts ExecOptions) ExecResult {
	if len(args) == 0 {
		return ExecResult{Err: fmt.Errorf("ffmpeg: empty command")}
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ExecResult{Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return ExecResult{Err: err}
	}
	if err := cmd.Start(); err != nil {
		return ExecResult{Err: fmt.Errorf("start ffmpeg: %w", err)}
	}

	tail := newStderrTail(stderrTailBytes, stderrTailLines)
	parser := progress.NewParser(opts.Duration)
	var parserMu sync.Mutex
	report := func(u progress.Update, ok bool) {
		if ok && opts.OnProgress != nil {
			opts.OnProgress(u)
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			parserMu.Lock()
			report(parser.Line(sc.Text()))
			parserMu.Unlock()
		}
		return sc.Err()
	})
	g.Go(func() error {
		sc := bufio.NewScanner(stderr)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			tail.Add(line)
			if opts.Stderr != nil {
				fmt.Fprintln(opts.Stderr, line)
			}
			// Stats lines stand in until the -progress stream shows up.
			parserMu.Lock()
			if !parser.Structured() {
				report(parser.Stats(line))
			}
			parserMu.Unlock()
		}
		return sc.Err()
	})

	readErr := g.Wait()
	waitErr := cmd.Wait()

	res := ExecResult{Stderr: tail.String()}
	switch {
	case ctx.Err() != nil:
		res.Err = fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
	case waitErr != nil:
		res.Err = fmt.Errorf("ffmpeg failed: %w", waitErr)
	case readErr != nil:
		res.Err = fmt.Errorf("read ffmpeg output: %w", readErr)
	}
	return res
}
