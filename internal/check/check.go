// Package check provides system diagnostics (the check subcommand) and
// pre-run dependency validation (CheckDeps) for ffmpeg, ffprobe, libx264,
// h264_nvenc and AAC.
package check

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found (install it or pass --ffmpeg)")
	ErrFfprobeNotFound = errors.New("ffprobe not found (install it or pass --ffprobe)")
	ErrCPUEncodeFailed = errors.New("cpu mode selected but libx264 test encode failed")
	ErrNVENCTestFailed = errors.New("gpu mode selected but h264_nvenc test encode failed")
	ErrAACUnavailable  = errors.New("ffmpeg has no aac encoder")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck prints tool versions, the H.264/AAC encoders ffmpeg reports, and
// the outcome of tiny test encodes. It is informational and does not stop
// on failure; the return value reports whether everything passed.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(ctx, log, "ffmpeg", cfg.FFmpegPath)
	ok = checkTool(ctx, log, "ffprobe", cfg.FFprobePath) && ok
	if !ok {
		return false
	}

	caps, err := ffmpeg.DetectCapabilities(ctx, cfg.FFmpegPath)
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
	}
	log.Info("Encoders: libx264=%s h264_nvenc=%s aac=%s", yesNo(caps.X264), yesNo(caps.NVENC), yesNo(caps.AAC))

	log.Info("Testing CPU libx264...")
	if runSilent(ctx, cfg.FFmpegPath, x264TestArgs()...) {
		log.Success("CPU libx264 works")
	} else {
		log.Error("CPU libx264 test encode failed")
		ok = false
	}

	if caps.NVENC {
		log.Info("Testing NVENC...")
		if runSilent(ctx, cfg.FFmpegPath, nvencTestArgs()...) {
			log.Success("NVENC works")
		} else {
			log.Warn("NVENC listed but the test encode failed; auto mode will fall back to CPU")
		}
	} else {
		log.Info("NVENC not available; auto mode uses CPU")
	}

	log.Info("Testing AAC encoder...")
	if runSilent(ctx, cfg.FFmpegPath, aacTestArgs()...) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
		ok = false
	}
	return ok
}

// checkTool resolves a binary and logs the first line of its -version output.
func checkTool(ctx context.Context, log Logger, name, path string) bool {
	resolved, err := exec.LookPath(path)
	if err != nil {
		log.Error("%s not found (%s)", name, path)
		return false
	}
	log.Debug("%s: %s", name, resolved)
	out, err := exec.CommandContext(ctx, resolved, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return true
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	log.Success("%s", first)
	return true
}

// CheckDeps is the pre-run validation: ffmpeg and ffprobe must resolve, and
// the chosen encoder mode must actually work. In cpu mode a quick libx264
// encode is run; in gpu mode a quick h264_nvenc encode. Auto mode needs no
// test since the pipeline falls back to CPU on its own.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return ErrFfprobeNotFound
	}

	if cfg.StreamCopy {
		if !runSilent(ctx, cfg.FFmpegPath, aacTestArgs()...) {
			return ErrAACUnavailable
		}
		return nil
	}

	switch cfg.EncoderMode {
	case config.EncoderCPU:
		if !runSilent(ctx, cfg.FFmpegPath, x264TestArgs()...) {
			return ErrCPUEncodeFailed
		}
	case config.EncoderGPU:
		if !runSilent(ctx, cfg.FFmpegPath, nvencTestArgs()...) {
			return ErrNVENCTestFailed
		}
	}
	return nil
}

// --- internal helpers ---

func videoTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec, "-pix_fmt", "yuv420p",
		"-f", "null", "-",
	}
}

func x264TestArgs() []string  { return videoTestArgs("libx264") }
func nvencTestArgs() []string { return videoTestArgs("h264_nvenc") }

func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	return exec.CommandContext(ctx, name, args...).Run() == nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
