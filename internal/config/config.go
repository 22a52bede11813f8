// Package config holds runtime configuration: defaults, CLI flag parsing,
// the optional YAML defaults file, and validation. Defaults: libx264 fast at
// CRF 23, NVENC p4 at CQ 24, AAC 192k, icon at 1/5 of the video height.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// --- Enum types for validated string fields ---

// EncoderMode selects the video encoding backend.
type EncoderMode string

const (
	EncoderAuto EncoderMode = "auto" // NVENC when ffmpeg reports it, otherwise CPU (default).
	EncoderCPU  EncoderMode = "cpu"  // Software encoding via libx264.
	EncoderGPU  EncoderMode = "gpu"  // NVIDIA hardware encoding via h264_nvenc.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by the YAML defaults file, and finally mutated by command-line
// flags before being passed (by pointer) to packages that need it.
type Config struct {
	// Input and output (input set from the positional arg).
	InputPath    string
	OutputPath   string // Empty: <dir>/<OutputPrefix><basename>.
	OutputPrefix string // Default: "processed-".
	Overwrite    bool   // Default: true (ffmpeg -y). Cleared by --no-overwrite.

	// Segments.
	SegmentSpecs []string // Raw "START-END" values from -s/--segment.
	SegmentsFile string   // Optional YAML segment list.

	// Overlay icon.
	IconPath    string // Empty: mute.png beside the executable or in the working dir.
	NoIcon      bool   // Mute audio only.
	IconDivisor int    // Default: 5 (icon fits in height/5 square).
	IconX       int    // Default: 5.
	IconY       int    // Default: 5.

	// Encoder settings.
	EncoderMode  EncoderMode
	StreamCopy   bool   // Copy video, re-encode audio only. Disables the overlay.
	MatchBitrate bool   // Target the source video bitrate instead of CRF/CQ.
	CpuPreset    string // Default: "fast".
	CpuCRF       int    // Default: 23.
	NvencPreset  string // Default: "p4".
	NvencCQ      int    // Default: 24.

	// Audio encoding.
	AudioCodec   string // Fixed: "aac".
	AudioBitrate string // Default: "192k".

	// Tool paths.
	FFmpegPath  string // Default: "ffmpeg".
	FFprobePath string // Default: "ffprobe".

	// Behavior flags.
	DryRun       bool
	StrictMode   bool // Disable the GPU -> CPU fallback.
	ShowProgress bool // Default: true. Cleared by --no-progress.

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	ConfigFile string    // Optional YAML defaults file.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// the defaults file and flags apply overrides.
func DefaultConfig() Config {
	return Config{
		OutputPrefix: "processed-",
		Overwrite:    true,
		IconDivisor:  5,
		IconX:        5,
		IconY:        5,
		EncoderMode:  EncoderAuto,
		CpuPreset:    "fast",
		CpuCRF:       23,
		NvencPreset:  "p4",
		NvencCQ:      24,
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		ShowProgress: true,
		ColorMode:    ColorAuto,
	}
}

// Validate checks enum fields and numeric ranges and canonicalizes the audio
// bitrate. It does not require an input path; callers that redact a file
// check that separately via [Config.RequireInput].
func (c *Config) Validate() error {
	switch c.EncoderMode {
	case EncoderAuto, EncoderCPU, EncoderGPU:
		// valid
	default:
		return errors.New("invalid mode (use 'auto', 'cpu' or 'gpu')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.IconDivisor < 1 {
		return fmt.Errorf("icon divisor must be at least 1 (got %d)", c.IconDivisor)
	}
	if c.IconX < 0 || c.IconY < 0 {
		return errors.New("icon position must not be negative")
	}
	if c.CpuCRF < 0 || c.CpuCRF > 51 {
		return fmt.Errorf("CPU CRF must be within 0-51 (got %d)", c.CpuCRF)
	}
	if c.NvencCQ < 0 || c.NvencCQ > 51 {
		return fmt.Errorf("NVENC CQ must be within 0-51 (got %d)", c.NvencCQ)
	}

	normalizedBitrate, err := normalizeAudioBitrate(c.AudioBitrate)
	if err != nil {
		return err
	}
	c.AudioBitrate = normalizedBitrate
	return nil
}

// RequireInput reports an error when no input video or no segment source
// was given.
func (c *Config) RequireInput() error {
	if c.InputPath == "" {
		return errors.New("need exactly one input video")
	}
	if len(c.SegmentSpecs) == 0 && c.SegmentsFile == "" {
		return errors.New("need at least one --segment or a --segments-file")
	}
	return nil
}

// OverlayWanted reports whether the overlay icon should be applied. Stream
// copy cannot filter video, so it always disables the overlay.
func (c *Config) OverlayWanted() bool {
	return !c.NoIcon && !c.StreamCopy
}

// normalizeAudioBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "192", "192k", "192K", "192kbps". Output is "<n>k".
func normalizeAudioBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("audio bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid audio bitrate %q (use positive Kbps value, e.g. 192k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}
