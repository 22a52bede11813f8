// Package probe provides ffprobe-based media inspection and typed result
// structures. One JSON call per file yields everything the planner needs:
// duration, the primary video stream (size and bitrate) and whether any
// audio stream is present.
package probe
