package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/linebatch/internal/lines"
)

func TestRecord_Total(t *testing.T) {
	v, ok := Record{"total": 3}.Total()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = Record{"cars": 1}.Total()
	assert.False(t, ok)
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"total": 12, "by_line": {"gate": 12}}`))
	require.NoError(t, err)
	total, ok := rec.Total()
	require.True(t, ok)
	assert.Equal(t, json.Number("12"), total)
}

func TestDecodeRecord_Errors(t *testing.T) {
	_, err := DecodeRecord(nil)
	assert.ErrorIs(t, err, ErrNoResult)

	_, err = DecodeRecord([]byte("null"))
	assert.ErrorIs(t, err, ErrNoResult)

	_, err = DecodeRecord([]byte("[1,2]"))
	assert.Error(t, err)
}

func TestExitError_Message(t *testing.T) {
	base := errors.New("exit status 2")
	e := &ExitError{Err: base, Stderr: "loading model\ndecode error\n"}
	assert.Equal(t, "decode error", e.Error())
	assert.ErrorIs(t, e, base)

	assert.Equal(t, "exit status 2", (&ExitError{Err: base}).Error())
}

func TestFunc(t *testing.T) {
	var got Request
	a := Func(func(_ context.Context, req Request) (Record, error) {
		got = req
		return Record{"total": 0}, nil
	})
	req := Request{Video: "a.mp4", Lines: lines.Set{}}
	_, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestCommand_RoundTrip(t *testing.T) {
	sh := requireShell(t)
	// Echo the request fields back so the test can see what was sent.
	script := `read -r req; printf '{"total": 7, "video": "%s", "out": "%s", "req": %s}' "$LINEBATCH_VIDEO" "$LINEBATCH_OUTPUT_DIR" "$req"`
	c := &Command{Path: sh, Args: []string{"-c", script}}

	req := Request{
		VideoPath: "/in/a.mp4",
		Video:     "a.mp4",
		Lines:     lines.Set{{Label: "gate", A: lines.Point{X: 1, Y: 2}, B: lines.Point{X: 3, Y: 4}}},
		OutputDir: "/tmp/out/",
	}
	rec, err := c.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, json.Number("7"), rec["total"])
	assert.Equal(t, "a.mp4", rec["video"])
	assert.Equal(t, "/tmp/out/", rec["out"])
	sent, ok := rec["req"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/in/a.mp4", sent["video_path"])
	assert.Len(t, sent["lines"], 1)
}

func TestCommand_Failure(t *testing.T) {
	sh := requireShell(t)
	c := &Command{Path: sh, Args: []string{"-c", `cat >/dev/null; echo "decode error" >&2; exit 3`}}

	_, err := c.Analyze(context.Background(), Request{Video: "b.avi"})
	require.Error(t, err)
	assert.Equal(t, "decode error", err.Error())

	var exitErr *ExitError
	assert.ErrorAs(t, err, &exitErr)
}

func TestCommand_NoOutput(t *testing.T) {
	sh := requireShell(t)
	c := &Command{Path: sh, Args: []string{"-c", "cat >/dev/null"}}

	_, err := c.Analyze(context.Background(), Request{Video: "c.mov"})
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestCommand_Cancelled(t *testing.T) {
	sh := requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Command{Path: sh, Args: []string{"-c", "sleep 5"}}
	_, err := c.Analyze(ctx, Request{Video: "d.mp4"})
	assert.ErrorIs(t, err, context.Canceled)
}

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestRecord_Plain(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"total": 4, "speed": 1.5, "lines": [{"count": 2}], "meta": {"frames": 30}}`))
	require.NoError(t, err)

	plain := rec.Plain()
	assert.Equal(t, int64(4), plain["total"])
	assert.Equal(t, 1.5, plain["speed"])
	assert.Equal(t, []interface{}{map[string]interface{}{"count": int64(2)}}, plain["lines"])
	assert.Equal(t, map[string]interface{}{"frames": int64(30)}, plain["meta"])
}
