// Command hashbrown mutes the audio of chosen time segments of a video and
// marks them with an overlay icon, using ffmpeg.
//
// It parses flags (layered over an optional YAML defaults file), validates
// configuration, and either runs system diagnostics, prints a probe report,
// or runs the redaction job.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// errReported marks an error that was already logged; run only sets the
// exit code for it.
var errReported = errors.New("reported")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// SIGINT/SIGTERM cancel the context: ffmpeg is killed and the partial
	// output removed by the pipeline.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "hashbrown: %v\n", err)
		}
		return 1
	}
	return 0
}
