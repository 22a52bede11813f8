package ffmpeg

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/planner"
)

// Build constructs the complete ffmpeg argument slice for a plan. args[0]
// is the ffmpeg binary.
//
// The retry parameter supplies the encoder and muxer settings currently in
// force, which may differ from the plan after retry adjustments.
func Build(cfg *config.Config, plan *planner.Plan, rs *RetryState) []string {
	args := make([]string, 0, 48)

	// --- Preamble ---
	args = append(args, cfg.FFmpegPath, "-hide_banner", "-nostdin")
	if cfg.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	if cfg.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// Machine-readable progress on stdout.
	args = append(args, "-progress", "pipe:1", "-nostats")

	// --- Pre-input flags (timestamp fix) ---
	if rs.TimestampFix {
		args = append(args, "-fflags", "+genpts")
	}

	// --- Inputs ---
	args = append(args, "-i", plan.InputPath)
	if plan.Overlay {
		args = append(args, "-i", plan.IconPath)
	}

	// --- Filters and maps ---
	if plan.StreamCopy() {
		args = appendCopyPath(args, plan)
	} else {
		args = appendEncodePath(args, cfg, plan, rs)
	}

	// --- Audio codec ---
	if plan.HasAudio {
		args = append(args, "-c:a", cfg.AudioCodec, "-b:a", cfg.AudioBitrate)
	}

	// --- Muxer ---
	if rs.MuxQueueSize > 0 {
		args = append(args, "-max_muxing_queue_size", strconv.Itoa(rs.MuxQueueSize))
	}
	args = append(args, containerOpts(plan.OutputPath)...)

	// --- Output ---
	args = append(args, plan.OutputPath)
	return args
}

// appendCopyPath maps the first video and audio streams, copies the video and
// mutes the audio with -af.
func appendCopyPath(args []string, plan *planner.Plan) []string {
	args = append(args, "-map", "0:v:0")
	if plan.HasAudio {
		args = append(args, "-map", "0:a:0", "-af", plan.AudioFilter)
	}
	return append(args, "-c:v", "copy")
}

// appendEncodePath adds the filter graph, maps and video codec arguments.
func appendEncodePath(args []string, cfg *config.Config, plan *planner.Plan, rs *RetryState) []string {
	g := plan.Graph
	if !g.Empty() {
		args = append(args, "-filter_complex", g.Complex)
	}

	if g.VideoLabel != "" {
		args = append(args, "-map", g.VideoLabel)
	} else {
		args = append(args, "-map", "0:v:0")
	}
	if plan.HasAudio {
		if g.AudioLabel != "" {
			args = append(args, "-map", g.AudioLabel)
		} else {
			args = append(args, "-map", "0:a:0")
		}
	}

	return appendVideoCodec(args, cfg, plan, rs)
}

// appendVideoCodec adds the codec-specific arguments for the video stream.
func appendVideoCodec(args []string, cfg *config.Config, plan *planner.Plan, rs *RetryState) []string {
	b := plan.Bitrate
	switch rs.Encoder {
	case planner.EncoderNVENC:
		args = append(args, "-c:v", string(planner.EncoderNVENC), "-preset", cfg.NvencPreset, "-rc:v", "vbr")
		if b.Enabled() {
			args = append(args, bitrateArgs(b)...)
		} else {
			args = append(args, "-cq", strconv.Itoa(cfg.NvencCQ))
		}
	default:
		args = append(args, "-c:v", string(planner.EncoderX264), "-preset", cfg.CpuPreset)
		if b.Enabled() {
			args = append(args, bitrateArgs(b)...)
		} else {
			args = append(args, "-crf", strconv.Itoa(cfg.CpuCRF))
		}
	}
	return append(args, "-pix_fmt", "yuv420p")
}

func bitrateArgs(b planner.BitrateTarget) []string {
	return []string{
		"-b:v", strconv.Itoa(b.Kbps) + "k",
		"-maxrate", strconv.Itoa(b.MaxKbps) + "k",
		"-bufsize", strconv.Itoa(b.BufKbps) + "k",
	}
}

// containerOpts returns muxer flags for the output extension.
func containerOpts(output string) []string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".mp4", ".mov", ".m4v":
		return []string{"-movflags", "+faststart"}
	}
	return nil
}
