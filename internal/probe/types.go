package probe

import (
	"strconv"
	"strings"
)

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	FormatName string
	Duration   float64 // Seconds; 0 when unknown.
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	Width         int
	Height        int
	PixFmt        string
	AvgFrameRate  string
	FrameCount    int64
	IsAttachedPic bool
}

// ProbeResult is the parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type ProbeResult struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	VideoStreams int
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (p *ProbeResult) Resolution() string {
	if p.PrimaryVideo == nil || p.PrimaryVideo.Width <= 0 || p.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(p.PrimaryVideo.Width) + "x" + strconv.Itoa(p.PrimaryVideo.Height)
}

// FrameRate evaluates avg_frame_rate ("30000/1001") for the primary video
// stream. Returns 0 when unknown.
func (p *ProbeResult) FrameRate() float64 {
	if p.PrimaryVideo == nil {
		return 0
	}
	num, den, ok := strings.Cut(p.PrimaryVideo.AvgFrameRate, "/")
	n := parseFloat(num)
	if !ok {
		return n
	}
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}
