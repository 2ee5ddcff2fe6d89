// Package capture opens videos and reads their first frame.
//
// A [Source] opens a [Capture] handle per video; the handle yields at most one
// frame and must be closed by the caller. The ffmpeg-backed source verifies
// the file with ffprobe on Open and decodes the frame ffmpeg writes as BMP.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"golang.org/x/image/bmp"

	"github.com/backmassage/linebatch/internal/ffmpeg"
	"github.com/backmassage/linebatch/internal/probe"
)

var (
	// ErrNoVideoStream is returned by Open for files without a decodable video stream.
	ErrNoVideoStream = errors.New("no video stream")
	// ErrClosed is returned by ReadFrame after Close.
	ErrClosed = errors.New("capture is closed")
)

// Frame is a decoded still image.
type Frame struct {
	Image  image.Image
	Width  int
	Height int
}

// Source opens videos for frame capture.
type Source interface {
	Open(ctx context.Context, path string) (Capture, error)
}

// Capture is an open video handle.
type Capture interface {
	ReadFrame(ctx context.Context) (Frame, error)
	Close() error
}

// FFmpeg is a Source backed by the ffprobe and ffmpeg executables.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	Verbose     bool
	Log         ffmpeg.Logger // Optional; receives probe details and retries.
}

// Open probes path and returns a handle positioned at the first frame.
func (s *FFmpeg) Open(ctx context.Context, path string) (Capture, error) {
	pr, err := probe.Probe(ctx, s.FFprobePath, path)
	if err != nil {
		return nil, err
	}
	if pr.PrimaryVideo == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoVideoStream)
	}
	if s.Log != nil {
		s.Log.Debug("%s: %s", filepath.Base(path), describe(pr))
	}
	return &ffmpegCapture{
		source: s,
		path:   path,
		stream: pr.PrimaryVideo.Index,
	}, nil
}

type ffmpegCapture struct {
	source *FFmpeg
	path   string
	stream int
	closed bool
}

func (c *ffmpegCapture) ReadFrame(ctx context.Context) (Frame, error) {
	if c.closed {
		return Frame{}, ErrClosed
	}
	data, err := ffmpeg.ExtractFrame(ctx, ffmpeg.FrameRequest{
		Bin:       c.source.FFmpegPath,
		Input:     c.path,
		StreamIdx: c.stream,
		Verbose:   c.source.Verbose,
		Log:       c.source.Log,
	})
	if err != nil {
		return Frame{}, err
	}
	return DecodeBMP(data)
}

func (c *ffmpegCapture) Close() error {
	c.closed = true
	return nil
}

// describe summarizes the probed primary stream for debug output.
func describe(pr *probe.ProbeResult) string {
	v := pr.PrimaryVideo
	return fmt.Sprintf("%s %s %s, %.2f fps, %d frames, %.1fs %s, %d video stream(s)",
		v.Codec, pr.Resolution(), v.PixFmt, pr.FrameRate(), v.FrameCount,
		pr.Format.Duration, pr.Format.FormatName, pr.VideoStreams)
}

// DecodeBMP decodes a BMP image into a Frame.
func DecodeBMP(data []byte) (Frame, error) {
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	b := img.Bounds()
	return Frame{Image: img, Width: b.Dx(), Height: b.Dy()}, nil
}
