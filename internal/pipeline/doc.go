// Package pipeline runs one redaction job end to end: validate the input,
// probe it, validate the segments, detect encoders, prepare the icon, plan,
// and execute ffmpeg with retries. A Worker runs a job in the background
// and reports its phases over a channel.
package pipeline
