package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stdout []byte
	Stderr string
	Err    error
}

// Execute runs args (args[0] is the binary). Stdout is captured; stderr is
// captured for retry classification and tee'd to os.Stderr when verbose.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// ExtractFrame runs the frame extraction with the error-retry loop and
// returns the encoded BMP bytes.
func ExtractFrame(ctx context.Context, req FrameRequest) ([]byte, error) {
	return extractFrame(ctx, req, Execute)
}

type runner func(ctx context.Context, args []string, verbose bool) ExecResult

func extractFrame(ctx context.Context, req FrameRequest, run runner) ([]byte, error) {
	rs := NewRetryState()
	for {
		result := run(ctx, Build(req, rs), req.Verbose)
		if result.Err == nil {
			if len(result.Stdout) == 0 {
				return nil, ErrNoFrame
			}
			return result.Stdout, nil
		}

		// Stop retrying if the context has been cancelled (e.g. SIGINT).
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		action := rs.Advance(result.Stderr)
		if action == RetryNone {
			return nil, fmt.Errorf("ffmpeg: %w%s", result.Err, stderrTail(result.Stderr))
		}
		if req.Log != nil {
			req.Log.Debug("Retrying %s (attempt %d): %s", req.Input, rs.Attempt+1, action)
		}
	}
}

// stderrTail formats the last few stderr lines for an error message.
func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	start := 0
	if len(lines) > 3 {
		start = len(lines) - 3
	}
	return ": " + strings.Join(lines[start:], "; ")
}
