package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/display"
	"github.com/BitEU/Hashbrown/internal/ffmpeg"
	"github.com/BitEU/Hashbrown/internal/icon"
	"github.com/BitEU/Hashbrown/internal/logging"
	"github.com/BitEU/Hashbrown/internal/planner"
	"github.com/BitEU/Hashbrown/internal/probe"
	"github.com/BitEU/Hashbrown/internal/progress"
	"github.com/BitEU/Hashbrown/internal/segment"
	"github.com/BitEU/Hashbrown/internal/term"
	"github.com/BitEU/Hashbrown/internal/timecode"
)

// ErrOutputExists is returned when the output exists and overwriting is off.
var ErrOutputExists = errors.New("output file already exists")

// Phase names a step of a job.
type Phase string

const (
	PhaseValidate Phase = "validate"
	PhaseProbe    Phase = "probe"
	PhasePlan     Phase = "plan"
	PhaseEncode   Phase = "encode"
	PhaseDone     Phase = "done"
	PhaseFailed   Phase = "failed"
)

// Status is one job status update.
type Status struct {
	Phase    Phase
	Message  string
	Progress float64 // Percent complete; -1 when unknown.
}

type notifyFunc func(Status)

func (n notifyFunc) send(phase Phase, pct float64, format string, args ...interface{}) {
	if n == nil {
		return
	}
	n(Status{Phase: phase, Message: fmt.Sprintf(format, args...), Progress: pct})
}

// Run redacts cfg.InputPath and blocks until ffmpeg finishes. The returned
// Result is non-nil even on error and carries whatever was decided before
// the failure.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Result, error) {
	return run(ctx, cfg, log, nil)
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger, notify notifyFunc) (*Result, error) {
	jobID := uuid.NewString()[:8]
	log = log.With("job", jobID)

	// The icon fallback flips NoIcon; keep the caller's config untouched.
	c := *cfg
	res := &Result{JobID: jobID, InputPath: c.InputPath, DryRun: c.DryRun}

	if err := runJob(ctx, &c, log, notify, res); err != nil {
		notify.send(PhaseFailed, -1, "%v", err)
		return res, err
	}
	notify.send(PhaseDone, 100, "%s", res.OutputPath)
	return res, nil
}

// runJob: validate → probe → segments → encoders → icon → plan → execute.
func runJob(ctx context.Context, cfg *config.Config, log *logging.Logger, notify notifyFunc, res *Result) error {
	start := time.Now()

	// --- Validate ---
	notify.send(PhaseValidate, -1, "checking %s", filepath.Base(cfg.InputPath))
	size, err := CheckInput(cfg.InputPath)
	if err != nil {
		return err
	}
	res.InputBytes = size

	segs, err := segment.Collect(cfg.SegmentSpecs, cfg.SegmentsFile)
	if err != nil {
		return err
	}

	// --- Probe ---
	notify.send(PhaseProbe, -1, "probing %s", filepath.Base(cfg.InputPath))
	log.Info("Input: %s (%s)", cfg.InputPath, display.FormatBytes(size))
	pr, err := probe.Probe(ctx, cfg.FFprobePath, cfg.InputPath)
	if err != nil {
		return fmt.Errorf("cannot probe %s: %w", filepath.Base(cfg.InputPath), err)
	}
	logMedia(log, pr)

	segs, err = segment.Validate(segs, pr.Duration())
	if err != nil {
		return err
	}
	log.Info("Segments: %d, %s redacted", len(segs), timecode.Format(segment.Total(segs)))
	for i, s := range segs {
		log.Debug("  [%d] %s", i+1, s)
	}

	// --- Plan ---
	notify.send(PhasePlan, -1, "planning")
	caps := detectCapabilities(ctx, cfg, log)
	iconSrc, err := resolveIcon(cfg, log)
	if err != nil {
		return err
	}

	plan, err := planner.BuildPlan(cfg, pr, segs, caps)
	if err != nil {
		return err
	}
	res.Plan = plan
	res.OutputPath = plan.OutputPath
	for _, n := range plan.Notes {
		log.Warn("%s", n)
	}

	if !cfg.Overwrite {
		if _, err := os.Stat(plan.OutputPath); err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, plan.OutputPath)
		}
	}

	if plan.Overlay {
		if cfg.DryRun {
			plan.IconPath = iconSrc
		} else {
			tmp, err := icon.Prepare(iconSrc, plan.IconSize, "")
			if err != nil {
				return err
			}
			defer os.Remove(tmp)
			plan.IconPath = tmp
		}
	}
	logPlan(cfg, log, plan)

	rs := ffmpeg.NewRetryState(plan, cfg.StrictMode)

	// --- Dry run ---
	if cfg.DryRun {
		res.Args = ffmpeg.Build(cfg, plan, rs)
		log.Success("[DRY] %s", shellquote.Join(res.Args...))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(plan.OutputPath), 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	// --- Execute ---
	prior := snapshotOutput(plan.OutputPath)
	if err := executeWithRetry(ctx, cfg, log, notify, plan, rs, res, prior); err != nil {
		prior.removeIfTouched()
		return err
	}
	if !plan.StreamCopy() && rs.Encoder != plan.Encoder {
		res.Plan = plan.WithEncoder(rs.Encoder)
	}

	res.Elapsed = time.Since(start)
	if fi, err := os.Stat(plan.OutputPath); err == nil {
		res.OutputBytes = fi.Size()
	}
	log.Success("Saved %s (%s, %s vs input) in %s",
		plan.OutputPath,
		display.FormatBytes(res.OutputBytes),
		display.FormatBytesWithSign(res.SizeDelta()),
		display.FormatElapsed(res.Elapsed))
	return nil
}

// executeWithRetry runs ffmpeg, classifies stderr on failure, applies the
// first matching fix and tries again until ffmpeg succeeds or no fix applies.
func executeWithRetry(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	notify notifyFunc,
	plan *planner.Plan,
	rs *ffmpeg.RetryState,
	res *Result,
	prior outputSnapshot,
) error {
	for {
		res.Attempts++
		res.Args = ffmpeg.Build(cfg, plan, rs)
		log.Debug("Command: %s", shellquote.Join(res.Args...))
		if plan.StreamCopy() {
			log.Info("Copying video, muting audio")
		} else {
			log.Info("Encoding with %s", rs.Encoder)
		}
		notify.send(PhaseEncode, 0, "attempt %d", res.Attempts)

		result := runOnce(ctx, cfg, log, notify, plan, res.Args)
		if result.Err == nil {
			return nil
		}
		if ctx.Err() != nil {
			log.Warn("Interrupted, aborting")
			return result.Err
		}

		action := rs.Advance(result.Stderr)
		if action == ffmpeg.RetryNone {
			logStderr(log, result.Stderr)
			if rs.Strict && rs.Encoder == planner.EncoderNVENC && ffmpeg.MatchNVENCFailure(result.Stderr) {
				log.Warn("NVENC failed and --strict disables the CPU fallback")
			}
			if s := result.Summary(); s != "" {
				return fmt.Errorf("%w: %s", result.Err, s)
			}
			return result.Err
		}

		log.Warn("Retry %d: %s", rs.Attempt, action)
		prior.removeIfTouched()
	}
}

// outputSnapshot records the output file as it was before ffmpeg ran, so a
// failed run only removes what it wrote itself.
type outputSnapshot struct {
	path    string
	existed bool
	size    int64
	modTime time.Time
}

func snapshotOutput(path string) outputSnapshot {
	s := outputSnapshot{path: path}
	if fi, err := os.Stat(path); err == nil {
		s.existed = true
		s.size = fi.Size()
		s.modTime = fi.ModTime()
	}
	return s
}

// touched reports whether the file was created or rewritten since the snapshot.
func (s outputSnapshot) touched() bool {
	fi, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	if !s.existed {
		return true
	}
	return fi.Size() != s.size || !fi.ModTime().Equal(s.modTime)
}

func (s outputSnapshot) removeIfTouched() {
	if s.touched() {
		os.Remove(s.path)
	}
}

// runOnce executes a single ffmpeg attempt, feeding progress to the
// terminal reporter and the status channel.
func runOnce(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	notify notifyFunc,
	plan *planner.Plan,
	args []string,
) ffmpeg.ExecResult {
	var rep *progress.Reporter
	if cfg.ShowProgress {
		rep = progress.NewReporter(os.Stdout, term.IsTerminal(os.Stdout), plan.Duration, log)
	}

	opts := ffmpeg.ExecOptions{
		Duration: plan.Duration,
		OnProgress: func(u progress.Update) {
			if rep != nil {
				rep.Update(u)
			}
			notify.send(PhaseEncode, u.Percent, "%s", progress.Describe(u))
		},
	}
	if cfg.Verbose {
		opts.Stderr = os.Stderr
	}

	result := ffmpeg.Execute(ctx, args, opts)
	if rep != nil {
		if result.Err == nil {
			rep.Finish()
		} else {
			rep.Abort()
		}
	}
	return result
}

// detectCapabilities lists ffmpeg's encoders. Failure is not fatal: libx264
// and aac are assumed so cpu and auto modes still work.
func detectCapabilities(ctx context.Context, cfg *config.Config, log *logging.Logger) planner.Capabilities {
	if cfg.StreamCopy {
		return planner.Capabilities{AAC: true}
	}
	caps, err := ffmpeg.DetectCapabilities(ctx, cfg.FFmpegPath)
	if err != nil {
		log.Warn("%v; assuming libx264", err)
		return planner.Capabilities{X264: true, AAC: true}
	}
	log.Debug("Encoders: h264_nvenc=%t libx264=%t aac=%t", caps.NVENC, caps.X264, caps.AAC)
	return caps
}

// resolveIcon returns the icon source path, or "" when no overlay is drawn.
// A missing default icon downgrades the job to audio-only muting; a missing
// explicit --icon is an error.
func resolveIcon(cfg *config.Config, log *logging.Logger) (string, error) {
	if !cfg.OverlayWanted() {
		return "", nil
	}
	path, err := icon.Locate(cfg.IconPath)
	if err == nil {
		return path, nil
	}
	if cfg.IconPath != "" {
		return "", err
	}
	log.Warn("%v; muting audio only", err)
	cfg.NoIcon = true
	return "", nil
}

// --- Logging helpers ---

func logMedia(log *logging.Logger, pr *probe.ProbeResult) {
	v := pr.PrimaryVideo
	if v == nil {
		return
	}
	codec := v.Codec
	if codec == "" {
		codec = "unknown"
	}
	bitrate := "bitrate unknown"
	if kbps := pr.VideoBitRate() / 1000; kbps > 0 {
		bitrate = display.FormatBitrateLabel(kbps)
	}
	audio := "no audio"
	if pr.HasAudio() {
		a := pr.AudioStreams[0]
		audio = fmt.Sprintf("%s %dch", a.Codec, a.Channels)
	}
	duration := "duration unknown"
	if d := pr.Duration(); d > 0 {
		duration = timecode.Format(d)
	}
	log.Info("  Video: %s | %s | %s | %s | %s", pr.Resolution(), codec, bitrate, audio, duration)
}

func logPlan(cfg *config.Config, log *logging.Logger, plan *planner.Plan) {
	b := plan.Bitrate
	switch {
	case plan.StreamCopy():
		log.Info("Mode: stream copy (video untouched, audio re-encoded)")
	case b.Enabled():
		log.Info("Mode: %s at %d kbps (max %d, buffer %d)", plan.Encoder, b.Kbps, b.MaxKbps, b.BufKbps)
		if audioKbps, err := strconv.Atoi(strings.TrimSuffix(cfg.AudioBitrate, "k")); err == nil && plan.Duration > 0 {
			log.Info("Estimated output: %s", display.FormatBytes(planner.EstimateSize(b, audioKbps, plan.Duration)))
		}
	default:
		log.Info("Mode: %s (quality mode)", plan.Encoder)
	}
	if plan.Overlay {
		log.Info("Overlay: %dpx icon at (%d,%d)", plan.IconSize, plan.IconX, plan.IconY)
	}
	log.Info("Output: %s", plan.OutputPath)
}

// logStderr prints the tail of ffmpeg's stderr after a failure that no
// retry can fix.
func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}
