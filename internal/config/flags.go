package config

// This file registers the command-line flags on a pflag.FlagSet owned by the
// cobra root command. Flags are grouped into segments, overlay, encoding,
// behavior and display. Negated flags (e.g. --no-progress) are applied after
// parsing so Config defaults hold unless set.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags binds a Config to a flag set and carries the negated flags that are
// folded into the Config once parsing is done.
type Flags struct {
	cfg     *Config
	negated negatedFlags
}

// negatedFlags holds boolean flags that are applied after Parse. They invert
// a default (e.g. noProgress -> ShowProgress=false) or pick a color mode.
type negatedFlags struct {
	noOverwrite bool
	noProgress  bool
	forceColor  bool
	noColor     bool
}

// RegisterFlags defines all redact flags on fs, bound to cfg. Persistent
// flags shared by every subcommand (logging, tool paths, config file) are
// registered separately with [RegisterPersistentFlags].
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) *Flags {
	f := &Flags{cfg: cfg}
	defineSegmentFlags(fs, cfg)
	defineOverlayFlags(fs, cfg)
	defineEncodingFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &f.negated)
	return f
}

// RegisterPersistentFlags defines the flags every subcommand accepts.
func RegisterPersistentFlags(fs *pflag.FlagSet, cfg *Config, f *Flags) {
	defineDisplayFlags(fs, cfg, &f.negated)
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to the ffmpeg binary")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "Path to the ffprobe binary")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML defaults file")
}

// Apply overlays the defaults file (for flags the user did not set) and then
// folds the negated flags into the Config. changed reports whether a flag was
// given on the command line.
func (f *Flags) Apply(changed func(name string) bool) error {
	path := ResolveConfigFile(f.cfg.ConfigFile)
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return err
		}
		fc.applyTo(f.cfg, changed)
	}
	applyNegatedFlags(f.cfg, &f.negated)
	return nil
}

// defineSegmentFlags registers -s/--segment and --segments-file.
func defineSegmentFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringArrayVarP(&cfg.SegmentSpecs, "segment", "s", nil, "Redact segment START-END (HH:MM:SS, MM:SS or SS); repeatable")
	fs.StringVar(&cfg.SegmentsFile, "segments-file", "", "YAML file listing segments")
}

// defineOverlayFlags registers --icon, --no-icon, --icon-divisor, --icon-x, --icon-y.
func defineOverlayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.IconPath, "icon", "", "Overlay icon image (default: mute.png beside the executable)")
	fs.BoolVar(&cfg.NoIcon, "no-icon", false, "Mute audio only; no overlay icon")
	fs.IntVar(&cfg.IconDivisor, "icon-divisor", cfg.IconDivisor, "Icon fits in a square of video height / N")
	fs.IntVar(&cfg.IconX, "icon-x", cfg.IconX, "Icon X offset in pixels")
	fs.IntVar(&cfg.IconY, "icon-y", cfg.IconY, "Icon Y offset in pixels")
}

// defineEncodingFlags registers -m/--mode, --copy, --match-bitrate and quality knobs.
func defineEncodingFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.VarP(&encoderModeValue{&cfg.EncoderMode}, "mode", "m", "Encoder mode: auto | cpu | gpu")
	fs.BoolVar(&cfg.StreamCopy, "copy", false, "Fast mode: copy video, only mute audio (no overlay)")
	fs.BoolVar(&cfg.MatchBitrate, "match-bitrate", false, "Encode at the source video bitrate")
	fs.StringVar(&cfg.CpuPreset, "preset", cfg.CpuPreset, "x264 preset")
	fs.IntVar(&cfg.CpuCRF, "crf", cfg.CpuCRF, "x264 CRF")
	fs.StringVar(&cfg.NvencPreset, "nvenc-preset", cfg.NvencPreset, "NVENC preset (p1-p7)")
	fs.IntVar(&cfg.NvencCQ, "cq", cfg.NvencCQ, "NVENC constant quality")
	fs.StringVar(&cfg.AudioBitrate, "audio-bitrate", cfg.AudioBitrate, "AAC bitrate (e.g. 192k)")
}

// defineBehaviorFlags registers output, dry-run, strict, overwrite and progress flags.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVarP(&cfg.OutputPath, "output", "o", "", "Output file (default: processed-<input> beside the input)")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Print the ffmpeg command; do not encode")
	fs.BoolVar(&cfg.StrictMode, "strict", false, "Disable the automatic GPU to CPU fallback")
	fs.BoolVar(&n.noOverwrite, "no-overwrite", false, "Fail instead of overwriting an existing output")
	fs.BoolVar(&n.noProgress, "no-progress", false, "Do not show encode progress")
}

// defineDisplayFlags registers --color, --no-color, verbose and --log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
}

// applyNegatedFlags copies negated flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noOverwrite {
		cfg.Overwrite = false
	}
	if n.noProgress {
		cfg.ShowProgress = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// pflag.Value adapter so EncoderMode can be used with fs.Var.

type encoderModeValue struct{ p *EncoderMode }

func (e *encoderModeValue) String() string { return string(*e.p) }
func (e *encoderModeValue) Type() string   { return "mode" }
func (e *encoderModeValue) Set(s string) error {
	m, err := ParseEncoderMode(s)
	if err != nil {
		return err
	}
	*e.p = m
	return nil
}

// ParseEncoderMode maps user input onto an EncoderMode. "nvenc" and "cuda"
// are accepted as aliases for gpu.
func ParseEncoderMode(s string) (EncoderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return EncoderAuto, nil
	case "cpu", "x264", "libx264":
		return EncoderCPU, nil
	case "gpu", "nvenc", "cuda":
		return EncoderGPU, nil
	default:
		return "", fmt.Errorf("invalid mode %q (use 'auto', 'cpu' or 'gpu')", s)
	}
}
