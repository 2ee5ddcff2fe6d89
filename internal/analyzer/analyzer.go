// Package analyzer runs the per-video counting analysis.
//
// The pipeline only sees the [Analyzer] interface. [Command] is the shipped
// implementation: it runs an external program once per video, sends the
// [Request] as JSON on stdin, and reads the result record as a JSON object
// from stdout.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/linebatch/internal/lines"
)

// TotalField is the record key reported after a successful analysis.
const TotalField = "total"

// ErrNoResult is returned when the analyzer exits cleanly without printing a record.
var ErrNoResult = errors.New("analyzer produced no result")

// Request is everything the analyzer needs for one video.
type Request struct {
	VideoPath string    `json:"video_path"`
	Video     string    `json:"video"`
	Lines     lines.Set `json:"lines"`
	OutputDir string    `json:"output_dir,omitempty"` // Ends with a separator when set.
}

// Record is the analyzer's result for one video. Its shape belongs to the
// analyzer; only [TotalField] is interpreted here.
type Record map[string]interface{}

// Total returns the record's total and whether it was present.
func (r Record) Total() (interface{}, bool) {
	v, ok := r[TotalField]
	return v, ok
}

// Analyzer analyzes one video with its configured lines.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Record, error)
}

// Func adapts a function to the Analyzer interface.
type Func func(ctx context.Context, req Request) (Record, error)

// Analyze calls f.
func (f Func) Analyze(ctx context.Context, req Request) (Record, error) { return f(ctx, req) }

// Command runs an external analyzer program.
type Command struct {
	Path string
	Args []string
	// Stderr, when set, receives the program's stderr live in addition to
	// the copy kept for error messages.
	Stderr io.Writer
}

// ExitError is returned when the analyzer program fails. Its message is the
// last line the program wrote to stderr, falling back to the exit status.
type ExitError struct {
	Err    error
	Stderr string
}

func (e *ExitError) Error() string {
	if line := lastLine(e.Stderr); line != "" {
		return line
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Analyze runs the program for req.
func (c *Command) Analyze(ctx context.Context, req Request) (Record, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Env = append(os.Environ(),
		"LINEBATCH_VIDEO="+req.Video,
		"LINEBATCH_VIDEO_PATH="+req.VideoPath,
		"LINEBATCH_OUTPUT_DIR="+req.OutputDir,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ExitError{Err: err, Stderr: stderr.String()}
	}
	return DecodeRecord(stdout.Bytes())
}

// DecodeRecord parses a JSON object. Numbers are kept as json.Number so
// integer totals print without a decimal point.
func DecodeRecord(data []byte) (Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoResult
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode analyzer result: %w", err)
	}
	if rec == nil {
		return nil, ErrNoResult
	}
	return rec, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}

// Plain returns a copy of r with json.Number values converted to int64 or
// float64, for encoders that would otherwise render them as strings.
func (r Record) Plain() map[string]interface{} {
	out := make(map[string]interface{}, len(r))
	for k, v := range r {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		return Record(t).Plain()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}
