package ffmpeg

import (
	"fmt"
)

// Logger receives retry diagnostics. *logging.Logger satisfies it.
type Logger interface {
	Debug(format string, args ...interface{})
}

// FrameRequest describes which frame to extract and how.
type FrameRequest struct {
	Bin       string // ffmpeg executable; "ffmpeg" when empty.
	Input     string
	StreamIdx int // Absolute stream index of the video to read; <0 maps the first video stream.
	Verbose   bool
	Log       Logger // Optional.
}

// Build constructs the ffmpeg argument slice that writes the first frame of
// req.Input to stdout as a single BMP image. The retry state decides whether
// timestamp regeneration and decode-error tolerance are enabled.
func Build(req FrameRequest, rs *RetryState) []string {
	bin := req.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, bin, "-hide_banner", "-nostdin")
	if req.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Pre-input flags ---
	if rs.TimestampFix {
		args = append(args, "-fflags", "+genpts+discardcorrupt")
	}
	if rs.IgnoreErrors {
		args = append(args, "-err_detect", "ignore_err")
	}

	// --- Input ---
	args = append(args, "-i", req.Input)

	// --- Stream map ---
	if req.StreamIdx >= 0 {
		args = append(args, "-map", fmt.Sprintf("0:%d", req.StreamIdx))
	} else {
		args = append(args, "-map", "0:v:0")
	}

	// --- One frame, video only, raw BMP to stdout ---
	args = append(args,
		"-frames:v", "1",
		"-an", "-sn", "-dn",
		"-f", "image2pipe",
		"-c:v", "bmp",
		"-",
	)
	return args
}

// BuildTestPattern returns arguments that render one synthetic frame from
// lavfi, used by diagnostics to prove the extraction path works.
func BuildTestPattern(bin string, width, height int) []string {
	if bin == "" {
		bin = "ffmpeg"
	}
	return []string{
		bin, "-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", fmt.Sprintf("testsrc=size=%dx%d:rate=1:duration=1", width, height),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "bmp",
		"-",
	}
}
