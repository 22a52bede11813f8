package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/BitEU/Hashbrown/internal/planner"
)

// DetectCapabilities runs "ffmpeg -hide_banner -encoders" and reports which
// of the encoders the redactor can use are compiled in.
func DetectCapabilities(ctx context.Context, ffmpegPath string) (planner.Capabilities, error) {
	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		return planner.Capabilities{}, fmt.Errorf("list ffmpeg encoders: %w", err)
	}
	return ParseEncoders(string(out)), nil
}

// ParseEncoders scans ffmpeg's encoder table. Each row looks like
// " V....D h264_nvenc           NVIDIA NVENC H.264 encoder".
func ParseEncoders(listing string) planner.Capabilities {
	var caps planner.Capabilities
	sc := bufio.NewScanner(strings.NewReader(listing))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		switch fields[1] {
		case "h264_nvenc":
			caps.NVENC = true
		case "libx264":
			caps.X264 = true
		case "aac":
			caps.AAC = true
		}
	}
	return caps
}
