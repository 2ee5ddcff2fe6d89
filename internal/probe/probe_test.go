package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Traffic-camera style MP4 with a cover-art attached pic ahead of the real
// video stream, and an audio stream that must be ignored.
const sampleCamera = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600,
      "height": 900,
      "disposition": { "default": 0, "attached_pic": 1 }
    },
    {
      "index": 1,
      "codec_name": "h264",
      "codec_type": "video",
      "pix_fmt": "yuv420p",
      "width": 1280,
      "height": 720,
      "avg_frame_rate": "30000/1001",
      "nb_frames": "1798",
      "disposition": { "default": 1, "attached_pic": 0 }
    },
    {
      "index": 2,
      "codec_name": "aac",
      "codec_type": "audio",
      "disposition": { "default": 1 }
    }
  ],
  "format": {
    "filename": "/srv/input/crossing.mp4",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "60.026000",
    "size": "10485760"
  }
}`

const sampleAudioOnly = `{
  "streams": [
    { "index": 0, "codec_name": "mp3", "codec_type": "audio" }
  ],
  "format": { "filename": "song.mp4", "format_name": "mp3", "duration": "3.0", "size": "1000" }
}`

func TestParseJSON_PrimaryVideoSkipsAttachedPic(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleCamera))
	require.NoError(t, err)
	require.NotNil(t, pr.PrimaryVideo)

	v := pr.PrimaryVideo
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, "h264", v.Codec)
	assert.Equal(t, 1280, v.Width)
	assert.Equal(t, 720, v.Height)
	assert.Equal(t, int64(1798), v.FrameCount)
	assert.Equal(t, 2, pr.VideoStreams)
	assert.Equal(t, "1280x720", pr.Resolution())
	assert.InDelta(t, 29.97, pr.FrameRate(), 0.01)
}

func TestParseJSON_Format(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleCamera))
	require.NoError(t, err)
	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", pr.Format.FormatName)
	assert.InDelta(t, 60.026, pr.Format.Duration, 0.0001)
}

func TestParseJSON_NoVideo(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleAudioOnly))
	require.NoError(t, err)
	assert.Nil(t, pr.PrimaryVideo)
	assert.Equal(t, "unknown", pr.Resolution())
	assert.Zero(t, pr.FrameRate())
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestFrameRate(t *testing.T) {
	tests := []struct {
		rate string
		want float64
	}{
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			pr := &ProbeResult{PrimaryVideo: &VideoStream{AvgFrameRate: tt.rate}}
			assert.InDelta(t, tt.want, pr.FrameRate(), 0.0001)
		})
	}
}

func TestProbe_NotAVideo(t *testing.T) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}
	path := filepath.Join(t.TempDir(), "garbage.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not a video"), 0o644))

	_, err := Probe(context.Background(), "", path)
	assert.Error(t, err)
}
