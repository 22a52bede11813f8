package ffmpeg

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/filtergraph"
	"github.com/BitEU/Hashbrown/internal/planner"
	"github.com/BitEU/Hashbrown/internal/segment"
)

var segs = []segment.Segment{{Start: 5, End: 10}, {Start: 20, End: 25}}

const expr = "between(t,5,10)+between(t,20,25)"

func defaultCfg() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

func encodePlan(enc planner.VideoEncoder) *planner.Plan {
	return &planner.Plan{
		InputPath:  "in.mkv",
		OutputPath: "processed-in.mkv",
		Encoder:    enc,
		Overlay:    true,
		IconPath:   "/tmp/icon.png",
		HasAudio:   true,
		Graph: filtergraph.Compile(segs, filtergraph.Options{
			Overlay: true, IconX: 5, IconY: 5, Audio: true,
		}),
	}
}

func TestBuild_X264Overlay(t *testing.T) {
	plan := encodePlan(planner.EncoderX264)
	got := Build(defaultCfg(), plan, NewRetryState(plan, false))
	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-progress", "pipe:1", "-nostats",
		"-i", "in.mkv", "-i", "/tmp/icon.png",
		"-filter_complex",
		"[0:v][1:v]overlay=5:5:enable='" + expr + "'[v_out];[0:a]volume=enable='" + expr + "':volume=0[a_out]",
		"-map", "[v_out]", "-map", "[a_out]",
		"-c:v", "libx264", "-preset", "fast", "-crf", "23", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "192k",
		"processed-in.mkv",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_NVENCBitrateMatch(t *testing.T) {
	cfg := defaultCfg()
	cfg.Overwrite = false
	cfg.Verbose = true
	cfg.FFmpegPath = "/opt/ffmpeg/bin/ffmpeg"
	plan := encodePlan(planner.EncoderNVENC)
	plan.OutputPath = "out.mp4"
	plan.Bitrate = planner.BitrateTarget{Kbps: 8000, MaxKbps: 12000, BufKbps: 16000}

	got := Build(cfg, plan, NewRetryState(plan, false))
	want := []string{
		"/opt/ffmpeg/bin/ffmpeg", "-hide_banner", "-nostdin", "-n", "-loglevel", "info",
		"-progress", "pipe:1", "-nostats",
		"-i", "in.mkv", "-i", "/tmp/icon.png",
		"-filter_complex",
		"[0:v][1:v]overlay=5:5:enable='" + expr + "'[v_out];[0:a]volume=enable='" + expr + "':volume=0[a_out]",
		"-map", "[v_out]", "-map", "[a_out]",
		"-c:v", "h264_nvenc", "-preset", "p4", "-rc:v", "vbr",
		"-b:v", "8000k", "-maxrate", "12000k", "-bufsize", "16000k",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "192k",
		"-movflags", "+faststart",
		"out.mp4",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_NVENCQuality(t *testing.T) {
	plan := encodePlan(planner.EncoderNVENC)
	got := Build(defaultCfg(), plan, NewRetryState(plan, false))
	want := []string{"-c:v", "h264_nvenc", "-preset", "p4", "-rc:v", "vbr", "-cq", "24", "-pix_fmt", "yuv420p"}
	if !containsRun(got, want) {
		t.Errorf("Build() missing %v in %v", want, got)
	}
}

func TestBuild_RetryStateOverridesPlan(t *testing.T) {
	plan := encodePlan(planner.EncoderNVENC)
	rs := NewRetryState(plan, false)
	rs.Encoder = planner.EncoderX264
	rs.TimestampFix = true
	rs.MuxQueueSize = 4096

	got := Build(defaultCfg(), plan, rs)
	for _, run := range [][]string{
		{"-nostats", "-fflags", "+genpts", "-i", "in.mkv"},
		{"-c:v", "libx264"},
		{"-max_muxing_queue_size", "4096", "processed-in.mkv"},
	} {
		if !containsRun(got, run) {
			t.Errorf("Build() missing %v in %v", run, got)
		}
	}
}

func TestBuild_AudioOnlyGraph(t *testing.T) {
	plan := encodePlan(planner.EncoderX264)
	plan.Overlay = false
	plan.IconPath = ""
	plan.Graph = filtergraph.Compile(segs, filtergraph.Options{Audio: true})

	got := Build(defaultCfg(), plan, NewRetryState(plan, false))
	want := []string{
		"-i", "in.mkv",
		"-filter_complex", "[0:a]volume=enable='" + expr + "':volume=0[a_out]",
		"-map", "0:v:0", "-map", "[a_out]",
		"-c:v", "libx264",
	}
	if !containsRun(got, want) {
		t.Errorf("Build() missing %v in %v", want, got)
	}
}

func TestBuild_OverlayWithoutAudio(t *testing.T) {
	plan := encodePlan(planner.EncoderX264)
	plan.HasAudio = false
	plan.Graph = filtergraph.Compile(segs, filtergraph.Options{Overlay: true, IconX: 5, IconY: 5})

	got := Build(defaultCfg(), plan, NewRetryState(plan, false))
	for _, arg := range got {
		if arg == "-c:a" || arg == "[a_out]" || arg == "0:a:0" {
			t.Errorf("unexpected audio argument %q in %v", arg, got)
		}
	}
	if !containsRun(got, []string{"-map", "[v_out]", "-c:v"}) {
		t.Errorf("Build() should map only the overlay output: %v", got)
	}
}

func TestBuild_StreamCopy(t *testing.T) {
	plan := &planner.Plan{
		InputPath:   "clip.mov",
		OutputPath:  "processed-clip.mov",
		Encoder:     planner.EncoderCopy,
		HasAudio:    true,
		AudioFilter: filtergraph.AudioFilter(segs),
	}
	got := Build(defaultCfg(), plan, NewRetryState(plan, false))
	want := []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-progress", "pipe:1", "-nostats",
		"-i", "clip.mov",
		"-map", "0:v:0", "-map", "0:a:0", "-af", "volume=enable='" + expr + "':volume=0",
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", "192k",
		"-movflags", "+faststart",
		"processed-clip.mov",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestContainerOpts(t *testing.T) {
	tests := []struct {
		out  string
		want []string
	}{
		{"a.mp4", []string{"-movflags", "+faststart"}},
		{"a.MOV", []string{"-movflags", "+faststart"}},
		{"a.mkv", nil},
		{"a.avi", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, containerOpts(tt.out)); diff != "" {
			t.Errorf("containerOpts(%q) mismatch (-want +got):\n%s", tt.out, diff)
		}
	}
}

// containsRun reports whether want appears as a contiguous run in args.
func containsRun(args, want []string) bool {
	for i := 0; i+len(want) <= len(args); i++ {
		if cmp.Equal(args[i:i+len(want)], want) {
			return true
		}
	}
	return false
}
