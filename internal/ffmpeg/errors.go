package ffmpeg

import (
	"errors"
	"regexp"
)

// ErrNoFrame is returned when ffmpeg exits cleanly but produced no image.
var ErrNoFrame = errors.New("ffmpeg produced no frame")

// Pre-compiled regexes for classifying ffmpeg stderr output into retryable
// error categories. Checked in order by [RetryState.Advance]; the first
// matching pattern whose fix has not yet been applied wins.
var (
	reTimestampIssue = regexp.MustCompile(
		`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`invalid, non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order|` +
			`pts has no value|missing PTS|Timestamps are unset`)

	reCorruptInput = regexp.MustCompile(
		`(?i)error while decoding|Invalid NAL unit|` +
			`corrupt (decoded )?frame|concealing \d+ (DC|AC|MV) errors|` +
			`decode_slice_header error|no frame!`)
)

// MatchTimestampIssue reports whether stderr contains a timestamp discontinuity.
func MatchTimestampIssue(stderr string) bool {
	return reTimestampIssue.MatchString(stderr)
}

// MatchCorruptInput reports whether stderr shows packet-level decode damage.
func MatchCorruptInput(stderr string) bool {
	return reCorruptInput.MatchString(stderr)
}
