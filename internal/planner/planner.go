package planner

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/filtergraph"
	"github.com/BitEU/Hashbrown/internal/probe"
	"github.com/BitEU/Hashbrown/internal/segment"
)

// Errors returned by BuildPlan.
var (
	ErrNoVideoStream    = errors.New("input has no video stream")
	ErrNVENCUnavailable = errors.New("gpu mode selected but ffmpeg does not report h264_nvenc")
	ErrNothingToRedact  = errors.New("nothing to redact: no audio stream and no overlay")
	ErrOutputIsInput    = errors.New("output path equals input path")
)

// fallbackIconSize is used when the probe reports no frame height (720/5).
const fallbackIconSize = 144

// BuildPlan produces a complete Plan from config, probe data and validated
// segments. This is the decision matrix the pipeline runs once per job.
//
// Flow:
//  1. Pick the video encoder (copy, NVENC or libx264)
//  2. Decide the overlay and icon geometry
//  3. Resolve bitrate matching
//  4. Compile the filter graph (or the -af chain for stream copy)
//  5. Resolve the output path
func BuildPlan(cfg *config.Config, pr *probe.ProbeResult, segs []segment.Segment, caps Capabilities) (*Plan, error) {
	v := pr.PrimaryVideo
	if v == nil {
		return nil, ErrNoVideoStream
	}

	plan := &Plan{
		InputPath: cfg.InputPath,
		Duration:  pr.Duration(),
		Segments:  segs,
		Width:     v.Width,
		Height:    v.Height,
		HasAudio:  pr.HasAudio(),
		IconX:     cfg.IconX,
		IconY:     cfg.IconY,
	}

	// --- 1. Encoder ---
	enc, err := selectEncoder(cfg, caps)
	if err != nil {
		return nil, err
	}
	plan.Encoder = enc
	if enc == EncoderCopy && !cfg.NoIcon {
		plan.note("stream copy keeps the video untouched; overlay icon disabled")
	}

	// --- 2. Overlay ---
	plan.Overlay = cfg.OverlayWanted()
	if plan.Overlay {
		plan.IconSize = iconSize(v.Height, cfg.IconDivisor)
		if v.Height <= 0 {
			plan.note(fmt.Sprintf("video height unknown; icon fitted to %dpx", plan.IconSize))
		}
	}

	if !plan.HasAudio {
		if !plan.Overlay {
			return nil, ErrNothingToRedact
		}
		plan.note("input has no audio stream; applying overlay only")
	}

	// --- 3. Bitrate matching ---
	if cfg.MatchBitrate && enc != EncoderCopy {
		if target, ok := MatchBitrate(pr); ok {
			plan.Bitrate = target
		} else {
			plan.note("source bitrate unknown; using quality mode")
		}
	}

	// --- 4. Filters ---
	if enc == EncoderCopy {
		plan.AudioFilter = filtergraph.AudioFilter(segs)
	} else {
		plan.Graph = filtergraph.Compile(segs, filtergraph.Options{
			Overlay: plan.Overlay,
			IconX:   cfg.IconX,
			IconY:   cfg.IconY,
			Audio:   plan.HasAudio,
		})
	}

	// --- 5. Output ---
	plan.OutputPath = OutputPath(cfg)
	if sameFile(plan.InputPath, plan.OutputPath) {
		return nil, ErrOutputIsInput
	}
	return plan, nil
}

// selectEncoder maps the configured mode and detected capabilities onto a
// video encoder.
func selectEncoder(cfg *config.Config, caps Capabilities) (VideoEncoder, error) {
	if cfg.StreamCopy {
		return EncoderCopy, nil
	}
	switch cfg.EncoderMode {
	case config.EncoderGPU:
		if !caps.NVENC {
			return "", ErrNVENCUnavailable
		}
		return EncoderNVENC, nil
	case config.EncoderCPU:
		return EncoderX264, nil
	default:
		if caps.NVENC {
			return EncoderNVENC, nil
		}
		return EncoderX264, nil
	}
}

// iconSize returns the bounding square for the icon: height/divisor, at
// least 1px.
func iconSize(height, divisor int) int {
	if height <= 0 {
		return fallbackIconSize
	}
	if divisor < 1 {
		divisor = 1
	}
	if s := height / divisor; s > 0 {
		return s
	}
	return 1
}

// OutputPath returns cfg.OutputPath when set, otherwise the input's
// directory joined with OutputPrefix + the input's base name.
func OutputPath(cfg *config.Config) string {
	if cfg.OutputPath != "" {
		return cfg.OutputPath
	}
	dir, base := filepath.Split(cfg.InputPath)
	return filepath.Join(dir, cfg.OutputPrefix+base)
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (p *Plan) note(s string) { p.Notes = append(p.Notes, s) }
