// Package configurator asks the operator to place counting lines on a
// video's first frame.
//
// [Terminal] runs a small bubbletea prompt: the frame is saved as a PNG
// preview the operator can open, and each entered "x1,y1 x2,y2 [label]"
// becomes a line. A blank entry finishes; Ctrl+C aborts the whole run.
package configurator

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/backmassage/linebatch/internal/capture"
	"github.com/backmassage/linebatch/internal/lines"
)

// ErrAborted is returned when the operator cancels configuration.
var ErrAborted = errors.New("line configuration aborted by operator")

// Configurator returns the counting lines for one video's first frame. It
// blocks until the operator is done.
type Configurator interface {
	ConfigureLines(ctx context.Context, video string, frame capture.Frame) (lines.Set, error)
}

// Func adapts a function to the Configurator interface.
type Func func(ctx context.Context, video string, frame capture.Frame) (lines.Set, error)

// ConfigureLines calls f.
func (f Func) ConfigureLines(ctx context.Context, video string, frame capture.Frame) (lines.Set, error) {
	return f(ctx, video, frame)
}

// Terminal is the interactive Configurator.
type Terminal struct {
	In         io.Reader // Default: os.Stdin.
	Out        io.Writer // Default: os.Stdout.
	PreviewDir string    // Default: os.TempDir().
}

// ConfigureLines writes the preview, runs the prompt, and returns the lines.
func (t *Terminal) ConfigureLines(ctx context.Context, video string, frame capture.Frame) (lines.Set, error) {
	preview, err := t.writePreview(video, frame)
	if err != nil {
		return nil, err
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}

	final, err := tea.NewProgram(newModel(video, frame.Width, frame.Height, preview), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("line prompt: %w", err)
	}
	m, ok := final.(model)
	if !ok {
		return nil, fmt.Errorf("line prompt: unexpected model %T", final)
	}
	if m.aborted {
		return nil, ErrAborted
	}
	return m.lines, nil
}

// writePreview saves the frame as PNG so it can be opened in an image viewer
// to read off pixel coordinates. Returns "" when the frame has no image.
func (t *Terminal) writePreview(video string, frame capture.Frame) (string, error) {
	if frame.Image == nil {
		return "", nil
	}
	dir := t.PreviewDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("preview dir: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video)) + ".first-frame.png"
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write preview: %w", err)
	}
	if err := png.Encode(f, frame.Image); err != nil {
		f.Close()
		return "", fmt.Errorf("write preview: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write preview: %w", err)
	}
	return path, nil
}
