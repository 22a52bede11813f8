package ffmpeg

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/BitEU/Hashbrown/internal/progress"
)

// fakeFFmpeg writes an executable shell script and returns its path.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecute_ParsesProgress(t *testing.T) {
	bin := fakeFFmpeg(t, `
printf 'frame=10\nout_time_us=5000000\nspeed=2.0x\nprogress=continue\n'
printf 'out_time_us=10000000\nspeed=2.0x\nprogress=end\n'
echo "muxing overhead: 0.5%" >&2
`)

	var mu sync.Mutex
	var updates []progress.Update
	var live bytes.Buffer
	res := Execute(context.Background(), []string{bin}, ExecOptions{
		Duration: 10,
		OnProgress: func(u progress.Update) {
			mu.Lock()
			updates = append(updates, u)
			mu.Unlock()
		},
		Stderr: &live,
	})
	if res.Err != nil {
		t.Fatalf("Execute: %v", res.Err)
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}
	if got := updates[0].Percent; got != 50 {
		t.Errorf("first percent = %v, want 50", got)
	}
	if !updates[1].Done {
		t.Error("last update should be Done")
	}
	if res.Stderr != "muxing overhead: 0.5%" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if live.String() != "muxing overhead: 0.5%\n" {
		t.Errorf("live stderr = %q", live.String())
	}
}

func TestExecute_StderrStatsFallback(t *testing.T) {
	bin := fakeFFmpeg(t, `
echo "frame=  100 fps=25 q=28.0 size=    1024kB time=00:00:04.00 bitrate=2097.2kbits/s speed=2.0x" >&2
echo "frame=  200 fps=25 q=28.0 size=    2048kB time=00:00:08.00 bitrate=2097.2kbits/s speed=2.0x" >&2
`)

	var updates []progress.Update
	res := Execute(context.Background(), []string{bin}, ExecOptions{
		Duration:   10,
		OnProgress: func(u progress.Update) { updates = append(updates, u) },
	})
	if res.Err != nil {
		t.Fatalf("Execute: %v", res.Err)
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}
	if got := updates[1].Percent; got != 80 {
		t.Errorf("percent = %v, want 80", got)
	}
	if got := updates[1].Size; got != 2048*1024 {
		t.Errorf("size = %d", got)
	}
}

func TestExecute_FailureKeepsStderr(t *testing.T) {
	bin := fakeFFmpeg(t, `
echo "Too many packets buffered for output stream 0:1." >&2
echo "Conversion failed!" >&2
exit 1
`)
	res := Execute(context.Background(), []string{bin}, ExecOptions{})
	if res.Err == nil {
		t.Fatal("expected error")
	}
	if !MatchMuxQueueOverflow(res.Stderr) {
		t.Errorf("stderr tail lost the overflow line: %q", res.Stderr)
	}
	if got := res.Summary(); got != "Conversion failed!" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestExecute_Canceled(t *testing.T) {
	bin := fakeFFmpeg(t, "exec sleep 10\n")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := Execute(ctx, []string{bin}, ExecOptions{})
	if res.Err == nil {
		t.Fatal("expected interruption error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Execute did not stop on cancellation")
	}
}

func TestExecute_MissingBinary(t *testing.T) {
	res := Execute(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, ExecOptions{})
	if res.Err == nil {
		t.Fatal("expected start error")
	}
}
