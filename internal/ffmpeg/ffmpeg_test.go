package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Defaults(t *testing.T) {
	args := Build(FrameRequest{Input: "/in/a.mp4", StreamIdx: -1}, NewRetryState())

	assert.Equal(t, "ffmpeg", args[0])
	assert.Equal(t, "-", args[len(args)-1])
	assert.Contains(t, args, "0:v:0")
	assert.NotContains(t, args, "-fflags")
	assert.NotContains(t, args, "-err_detect")
	assert.Equal(t, "error", argAfter(args, "-loglevel"))
	assert.Equal(t, "1", argAfter(args, "-frames:v"))
	assert.Equal(t, "bmp", argAfter(args, "-c:v"))
}

func TestBuild_RetryFlagsPrecedeInput(t *testing.T) {
	rs := &RetryState{TimestampFix: true, IgnoreErrors: true}
	args := Build(FrameRequest{Bin: "/opt/ffmpeg", Input: "x.avi", StreamIdx: 2, Verbose: true}, rs)

	assert.Equal(t, "/opt/ffmpeg", args[0])
	assert.Equal(t, "info", argAfter(args, "-loglevel"))
	assert.Equal(t, "0:2", argAfter(args, "-map"))
	assert.Less(t, indexOf(args, "-fflags"), indexOf(args, "-i"))
	assert.Less(t, indexOf(args, "-err_detect"), indexOf(args, "-i"))
}

func TestRetryState_Advance(t *testing.T) {
	rs := NewRetryState()
	assert.Equal(t, RetryFixTimestamps, rs.Advance("[mp4] Non-monotonous DTS in output stream"))
	assert.True(t, rs.TimestampFix)

	assert.Equal(t, RetryNone, rs.Advance("Non-monotonous DTS again"), "timestamp fix already applied")
}

func TestRetryState_OneFixPerAttempt(t *testing.T) {
	rs := NewRetryState()
	stderr := "missing PTS\n[h264] error while decoding MB 3 4"
	assert.Equal(t, RetryFixTimestamps, rs.Advance(stderr))
	assert.Equal(t, RetryIgnoreErrors, rs.Advance(stderr))
	assert.True(t, rs.IgnoreErrors)
}

func TestRetryState_UnknownError(t *testing.T) {
	rs := NewRetryState()
	assert.Equal(t, RetryNone, rs.Advance("No such file or directory"))
}

func TestMatchers(t *testing.T) {
	assert.True(t, MatchTimestampIssue("pts has no value"))
	assert.False(t, MatchTimestampIssue("Invalid argument"))
	assert.True(t, MatchCorruptInput("[hevc @ 0x1] Invalid NAL unit 0, skipping."))
	assert.True(t, MatchCorruptInput("concealing 120 DC errors"))
	assert.False(t, MatchCorruptInput("Output file is empty"))
}

type debugLog struct{ msgs []string }

func (d *debugLog) Debug(format string, args ...interface{}) {
	d.msgs = append(d.msgs, fmt.Sprintf(format, args...))
}

func TestExtractFrame_RetriesAndLogsAction(t *testing.T) {
	var calls [][]string
	run := func(_ context.Context, args []string, _ bool) ExecResult {
		calls = append(calls, args)
		if len(calls) == 1 {
			return ExecResult{Stderr: "[mp4] pts has no value", Err: errors.New("exit status 1")}
		}
		return ExecResult{Stdout: []byte("BM...")}
	}
	log := &debugLog{}

	data, err := extractFrame(context.Background(), FrameRequest{Input: "cam.mp4", StreamIdx: 0, Log: log}, run)
	require.NoError(t, err)
	assert.Equal(t, []byte("BM..."), data)

	require.Len(t, calls, 2)
	assert.NotContains(t, calls[0], "-fflags")
	assert.Equal(t, "+genpts+discardcorrupt", argAfter(calls[1], "-fflags"))
	assert.Equal(t, []string{"Retrying cam.mp4 (attempt 2): fix timestamps"}, log.msgs)
}

func TestExtractFrame_UnfixableError(t *testing.T) {
	calls := 0
	run := func(context.Context, []string, bool) ExecResult {
		calls++
		return ExecResult{Stderr: "cam.mp4: No such file or directory", Err: errors.New("exit status 1")}
	}
	log := &debugLog{}

	_, err := extractFrame(context.Background(), FrameRequest{Input: "cam.mp4", Log: log}, run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such file or directory")
	assert.Equal(t, 1, calls)
	assert.Empty(t, log.msgs)
}

func TestExtractFrame_EmptyOutput(t *testing.T) {
	run := func(context.Context, []string, bool) ExecResult { return ExecResult{} }
	_, err := extractFrame(context.Background(), FrameRequest{Input: "cam.mp4"}, run)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestExtractFrame_TestPattern(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	args := BuildTestPattern("", 64, 48)
	result := Execute(context.Background(), args, false)
	require.NoError(t, result.Err, result.Stderr)
	assert.True(t, bytes.HasPrefix(result.Stdout, []byte("BM")), "BMP magic")
}

func TestExtractFrame_NotAVideo(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	path := filepath.Join(t.TempDir(), "broken.mov")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := ExtractFrame(context.Background(), FrameRequest{Input: path, StreamIdx: -1})
	assert.Error(t, err)
}

func argAfter(args []string, flag string) string {
	i := indexOf(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}
