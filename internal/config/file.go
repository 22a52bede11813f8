package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the environment variable that points at a defaults file.
const EnvConfigFile = "HASHBROWN_CONFIG"

// FileConfig is the YAML shape of the defaults file. Pointer fields
// distinguish "absent" from zero values so only keys present in the file
// override the built-in defaults.
type FileConfig struct {
	OutputPrefix *string `yaml:"output_prefix"`
	Overwrite    *bool   `yaml:"overwrite"`
	Icon         *string `yaml:"icon"`
	NoIcon       *bool   `yaml:"no_icon"`
	IconDivisor  *int    `yaml:"icon_divisor"`
	IconX        *int    `yaml:"icon_x"`
	IconY        *int    `yaml:"icon_y"`
	Mode         *string `yaml:"mode"`
	Copy         *bool   `yaml:"copy"`
	MatchBitrate *bool   `yaml:"match_bitrate"`
	Preset       *string `yaml:"preset"`
	CRF          *int    `yaml:"crf"`
	NvencPreset  *string `yaml:"nvenc_preset"`
	CQ           *int    `yaml:"cq"`
	AudioBitrate *string `yaml:"audio_bitrate"`
	FFmpeg       *string `yaml:"ffmpeg"`
	FFprobe      *string `yaml:"ffprobe"`
	Strict       *bool   `yaml:"strict"`
	Progress     *bool   `yaml:"progress"`
	Color        *string `yaml:"color"`
	Verbose      *bool   `yaml:"verbose"`
	Log          *string `yaml:"log"`
}

// LoadFile parses a YAML defaults file. Unknown keys are rejected so typos
// surface instead of silently doing nothing.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.Mode != nil {
		if _, err := ParseEncoderMode(*fc.Mode); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return &fc, nil
}

// ResolveConfigFile picks the defaults file: the explicit path, then
// $HASHBROWN_CONFIG, then $XDG_CONFIG_HOME/hashbrown/config.yaml (or the
// os.UserConfigDir equivalent) when it exists. Returns "" when none applies.
func ResolveConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(dir, "hashbrown", "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// applyTo copies every key present in the file into cfg unless the matching
// command-line flag was set explicitly.
func (fc *FileConfig) applyTo(cfg *Config, changed func(string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}
	setField(fc.OutputPrefix, &cfg.OutputPrefix, "", changed)
	setField(fc.Overwrite, &cfg.Overwrite, "no-overwrite", changed)
	setField(fc.Icon, &cfg.IconPath, "icon", changed)
	setField(fc.NoIcon, &cfg.NoIcon, "no-icon", changed)
	setField(fc.IconDivisor, &cfg.IconDivisor, "icon-divisor", changed)
	setField(fc.IconX, &cfg.IconX, "icon-x", changed)
	setField(fc.IconY, &cfg.IconY, "icon-y", changed)
	if fc.Mode != nil && !changed("mode") {
		// Validated in LoadFile.
		cfg.EncoderMode, _ = ParseEncoderMode(*fc.Mode)
	}
	setField(fc.Copy, &cfg.StreamCopy, "copy", changed)
	setField(fc.MatchBitrate, &cfg.MatchBitrate, "match-bitrate", changed)
	setField(fc.Preset, &cfg.CpuPreset, "preset", changed)
	setField(fc.CRF, &cfg.CpuCRF, "crf", changed)
	setField(fc.NvencPreset, &cfg.NvencPreset, "nvenc-preset", changed)
	setField(fc.CQ, &cfg.NvencCQ, "cq", changed)
	setField(fc.AudioBitrate, &cfg.AudioBitrate, "audio-bitrate", changed)
	setField(fc.FFmpeg, &cfg.FFmpegPath, "ffmpeg", changed)
	setField(fc.FFprobe, &cfg.FFprobePath, "ffprobe", changed)
	setField(fc.Strict, &cfg.StrictMode, "strict", changed)
	setField(fc.Progress, &cfg.ShowProgress, "no-progress", changed)
	if fc.Color != nil && !changed("color") && !changed("no-color") {
		cfg.ColorMode = ColorMode(*fc.Color)
	}
	setField(fc.Verbose, &cfg.Verbose, "verbose", changed)
	setField(fc.Log, &cfg.LogFile, "log", changed)
}

// setField copies src into dst when the key was present in the file and
// the named flag (if any) was not given on the command line.
func setField[T any](src *T, dst *T, flag string, changed func(string) bool) {
	if src != nil && (flag == "" || !changed(flag)) {
		*dst = *src
	}
}
