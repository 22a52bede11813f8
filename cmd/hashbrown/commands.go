package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BitEU/Hashbrown/internal/check"
	"github.com/BitEU/Hashbrown/internal/config"
	"github.com/BitEU/Hashbrown/internal/display"
	"github.com/BitEU/Hashbrown/internal/logging"
	"github.com/BitEU/Hashbrown/internal/pipeline"
)

// app carries the configuration shared by every subcommand.
type app struct {
	cfg   config.Config
	flags *config.Flags
	log   *logging.Logger
}

func newApp() *app {
	return &app{cfg: config.DefaultConfig()}
}

func (a *app) close() {
	if a.log != nil {
		a.log.Close()
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hashbrown [flags] <video>",
		Short: "Mute and mark time segments of a video",
		Long: `Hashbrown mutes the audio of the given time segments and draws a mute
icon over the video while they play. The result is written next to the input
as processed-<name> unless -o is given.

Segments are START-END with times as HH:MM:SS, MM:SS or SS:
  hashbrown -s 00:01:02-00:01:10 -s 5:00-5:30 talk.mp4`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.redact,
	}
	a.flags = config.RegisterFlags(root.Flags(), &a.cfg)
	config.RegisterPersistentFlags(root.PersistentFlags(), &a.cfg, a.flags)

	root.AddCommand(a.checkCmd(), a.probeCmd(), versionCmd())
	return root
}

// setup layers the defaults file under explicit flags, validates the
// result and opens the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.flags.Apply(cmd.Flags().Changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.NewLogger(&a.cfg)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) redact(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		a.cfg.InputPath = args[0]
	}
	if err := a.cfg.RequireInput(); err != nil {
		return fmt.Errorf("%w (see --help)", err)
	}
	ctx := cmd.Context()
	log := a.log

	display.PrintBanner(os.Stdout)
	log.Info("=== Hashbrown v%s (%s) ===", version, commit)
	if a.cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	// Fail fast if ffmpeg/ffprobe or the chosen encoder are unavailable.
	if err := check.CheckDeps(ctx, &a.cfg); err != nil {
		log.Error("%v", err)
		return errReported
	}

	w := pipeline.NewWorker()
	defer w.Close()
	status, err := w.Submit(ctx, &a.cfg, log)
	if err != nil {
		return err
	}
	for s := range status {
		if s.Phase != pipeline.PhaseEncode {
			log.Debug("phase %s: %s", s.Phase, s.Message)
		}
	}
	if _, err := w.Wait(); err != nil {
		log.Error("%v", err)
		return errReported
	}
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg, ffprobe and encoder availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			display.PrintBanner(os.Stdout)
			if !check.RunCheck(cmd.Context(), &a.cfg, a.log) {
				return errReported
			}
			return nil
		},
	}
}

func (a *app) probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>",
		Short: "Show streams, duration and derived redaction settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pipeline.Inspect(cmd.Context(), &a.cfg, args[0], cmd.OutOrStdout())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No logger or config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hashbrown %s (commit %s)\n", version, commit)
		},
	}
}
