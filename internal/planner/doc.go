// Package planner turns a Config, probe data and a validated segment list
// into a Plan: which video encoder to run, the compiled filter graph, icon
// geometry, bitrate targets and the output path. The ffmpeg package
// consumes the Plan to construct command arguments.
package planner
