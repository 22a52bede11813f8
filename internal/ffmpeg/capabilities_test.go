package ffmpeg

import (
	"testing"

	"github.com/BitEU/Hashbrown/internal/planner"
)

const encodersListing = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ..S... = Slice-level multithreading
 ...X.. = Codec is experimental
 ....B. = Supports draw_horiz_band
 .....D = Supports direct rendering method 1
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D h264_nvenc           NVIDIA NVENC H.264 encoder (codec h264)
 V....D hevc_nvenc           NVIDIA NVENC hevc encoder (codec hevc)
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libmp3lame           libmp3lame MP3 (MPEG audio layer 3) (codec mp3)`

func TestParseEncoders(t *testing.T) {
	got := ParseEncoders(encodersListing)
	want := planner.Capabilities{NVENC: true, X264: true, AAC: true}
	if got != want {
		t.Errorf("ParseEncoders() = %+v, want %+v", got, want)
	}
}

func TestParseEncoders_NoGPU(t *testing.T) {
	listing := " V....D libx264              libx264 H.264\n A....D aac                  AAC"
	got := ParseEncoders(listing)
	if got.NVENC {
		t.Error("NVENC should be false")
	}
	if !got.X264 || !got.AAC {
		t.Errorf("got %+v", got)
	}
}

func TestParseEncoders_IgnoresLegendAndProse(t *testing.T) {
	// "aac" appears in prose but not as an encoder row.
	got := ParseEncoders("Encoders:\n V..... = Video\nno h264_nvenc or aac support")
	if got != (planner.Capabilities{}) {
		t.Errorf("got %+v, want zero", got)
	}
}
