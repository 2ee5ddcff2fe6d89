package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/backmassage/linebatch/internal/analyzer"
	"github.com/backmassage/linebatch/internal/capture"
	"github.com/backmassage/linebatch/internal/configurator"
	"github.com/backmassage/linebatch/internal/lines"
)

// Reporter receives progress messages. It is called synchronously and must
// not block.
type Reporter func(msg string)

// Nop discards every message.
func Nop(string) {}

func (r Reporter) printf(format string, args ...interface{}) {
	r(fmt.Sprintf(format, args...))
}

// Pipeline wires the collaborators used by both phases.
type Pipeline struct {
	Source       capture.Source
	Configurator configurator.Configurator
	Analyzer     analyzer.Analyzer
	Report       Reporter // nil means silent.
}

// New returns a Pipeline. A nil report is replaced with [Nop].
func New(src capture.Source, conf configurator.Configurator, an analyzer.Analyzer, report Reporter) *Pipeline {
	if report == nil {
		report = Nop
	}
	return &Pipeline{Source: src, Configurator: conf, Analyzer: an, Report: report}
}

func (p *Pipeline) reporter() Reporter {
	if p.Report == nil {
		return Nop
	}
	return p.Report
}

// ConfigureAll runs phase 1 over the videos in dir (the default input
// directory when empty). Videos that cannot be opened or whose first frame
// cannot be read are reported and excluded. A configurator error stops the
// phase and is returned.
func (p *Pipeline) ConfigureAll(ctx context.Context, dir string) (*Configurations, error) {
	report := p.reporter()
	dir = ResolveInputDir(dir)
	videos := ListVideos(dir)
	cfgs := newConfigurations()

	report.printf("Configuring lines for %d video(s)", len(videos))

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, reason, err := p.firstFrame(ctx, filepath.Join(dir, video))
		if err != nil {
			switch reason {
			case ExcludedOpen:
				report.printf("[ERROR] Cannot open video: %s", video)
			default:
				report.printf("[ERROR] Cannot read first frame of: %s", video)
			}
			cfgs.exclude(Exclusion{Video: video, Reason: reason, Err: err.Error()})
			continue
		}

		report.printf("Configuring lines for: %s (%d/%d)", video, i+1, len(videos))

		set, err := p.Configurator.ConfigureLines(ctx, video, frame)
		if err != nil {
			return nil, fmt.Errorf("configure %s: %w", video, err)
		}
		if set == nil {
			set = lines.Set{}
		}
		cfgs.set(video, set)

		report.printf("[OK] %d line(s) configured for %s", len(set), video)
	}
	return cfgs, nil
}

// firstFrame opens path, reads one frame and closes the handle before
// returning, so at most one capture is open at a time.
func (p *Pipeline) firstFrame(ctx context.Context, path string) (capture.Frame, ExclusionReason, error) {
	c, err := p.Source.Open(ctx, path)
	if err != nil {
		return capture.Frame{}, ExcludedOpen, err
	}
	defer c.Close()

	frame, err := c.ReadFrame(ctx)
	if err != nil {
		return capture.Frame{}, ExcludedFrame, err
	}
	return frame, "", nil
}
