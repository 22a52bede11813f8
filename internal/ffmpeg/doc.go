// Package ffmpeg builds and executes the redaction command.
//
// Build assembles the argv from a planner.Plan: inputs (video plus the
// optional icon), -filter_complex or -af, stream maps, codec arguments and
// -progress pipe:1 so Execute can stream completion estimates. stderr is
// kept in a bounded tail for error reports and classified by regexes; a
// RetryState applies one fix per attempt, falling back from NVENC to
// libx264 when the GPU encoder cannot start.
package ffmpeg
