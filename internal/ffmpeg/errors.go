package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output into retryable
// error categories. Checked in order by [RetryState.Advance]; the first
// matching pattern whose fix has not yet been applied wins.
var (
	reNVENCFailure = regexp.MustCompile(
		`(?i)OpenEncodeSessionEx failed|` +
			`No NVENC capable devices found|` +
			`Cannot load (nvcuda\.dll|libcuda\.so|libnvidia-encode)|` +
			`Driver does not support the required nvenc API version|` +
			`nvenc.*(InitializeEncoder failed|out of memory|unsupported device)|` +
			`CUDA_ERROR_\w+|` +
			`Error (initializing output stream|while opening encoder).*h264_nvenc|` +
			`Could not open encoder.*h264_nvenc`)

	reMuxQueueOverflow = regexp.MustCompile(
		`Too many packets buffered for output stream`)

	reTimestampIssue = regexp.MustCompile(
		`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`invalid, non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order|` +
			`pts has no value|missing PTS|Timestamps are unset`)
)

// MatchNVENCFailure reports whether stderr shows the GPU encoder failing to start.
func MatchNVENCFailure(stderr string) bool {
	return reNVENCFailure.MatchString(stderr)
}

// MatchMuxQueueOverflow reports whether stderr contains a mux queue overflow.
func MatchMuxQueueOverflow(stderr string) bool {
	return reMuxQueueOverflow.MatchString(stderr)
}

// MatchTimestampIssue reports whether stderr contains a timestamp discontinuity.
func MatchTimestampIssue(stderr string) bool {
	return reTimestampIssue.MatchString(stderr)
}
