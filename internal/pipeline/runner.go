package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/linebatch/internal/analyzer"
	"github.com/backmassage/linebatch/internal/config"
	"github.com/backmassage/linebatch/internal/display"
)

// Summary is everything one automation run produced.
type Summary struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	InputDir  string        `json:"input_dir" yaml:"input_dir"`
	OutputDir string        `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Started   time.Time     `json:"started" yaml:"started"`
	Elapsed   time.Duration `json:"elapsed_ns" yaml:"elapsed"`
	Stats     RunStats      `json:"stats" yaml:"stats"`
	Results   *Results      `json:"results" yaml:"results"`
	Excluded  []Exclusion   `json:"excluded" yaml:"excluded"`
}

// RunAutomation configures every video in dir, then analyzes each configured
// video. outputDir, when non-empty, is normalized to end with a separator and
// handed to every analyzer call of this run. Only a configurator failure or
// cancellation during phase 1 returns an error; analyzer failures are
// recorded per video in the summary.
func (p *Pipeline) RunAutomation(ctx context.Context, dir, outputDir string) (*Summary, error) {
	report := p.reporter()
	dir = ResolveInputDir(dir)
	s := &Summary{
		RunID:    uuid.NewString(),
		InputDir: dir,
		Started:  time.Now(),
	}

	report("PHASE 1: COUNTING LINE CONFIGURATION")
	cfgs, err := p.ConfigureAll(ctx, dir)
	if err != nil {
		return nil, err
	}

	report("PHASE 2: AUTOMATIC VIDEO ANALYSIS")
	s.OutputDir = config.EnsureTrailingSeparator(outputDir)

	start := time.Now()
	s.Results = p.analyzeAll(ctx, dir, s.OutputDir, cfgs)
	s.Elapsed = time.Since(start)

	report("Automation completed in " + display.FormatMinutes(s.Elapsed))

	s.Excluded = cfgs.Excluded()
	s.Stats = RunStats{
		Cataloged:  cfgs.Len() + len(s.Excluded),
		Configured: cfgs.Len(),
		Excluded:   len(s.Excluded),
	}
	for _, video := range s.Results.Videos() {
		if o, _ := s.Results.Get(video); o.OK() {
			s.Stats.Succeeded++
		} else {
			s.Stats.Failed++
		}
	}
	return s, nil
}

// analyzeAll runs phase 2. Every configured video gets exactly one outcome:
// analyzer errors and panics become error outcomes, and once ctx is done the
// remaining videos are marked with the context error without being analyzed.
func (p *Pipeline) analyzeAll(ctx context.Context, dir, outputDir string, cfgs *Configurations) *Results {
	report := p.reporter()
	results := newResults()
	videos := cfgs.Videos()

	for i, video := range videos {
		set, _ := cfgs.Lines(video)
		report.printf("Analyzing %s (%d/%d)", video, i+1, len(videos))

		if err := ctx.Err(); err != nil {
			results.set(video, Failed(err))
			report.printf("[ERROR] %s: %v", video, err)
			continue
		}

		rec, err := p.analyzeOne(ctx, analyzer.Request{
			VideoPath: filepath.Join(dir, video),
			Video:     video,
			Lines:     set,
			OutputDir: outputDir,
		})
		if err != nil {
			results.set(video, Failed(err))
			report.printf("[ERROR] %s: %v", video, err)
			continue
		}

		results.set(video, Succeeded(rec))
		report.printf("[OK] %s: total=%s", video, formatTotal(rec))
	}
	return results
}

// analyzeOne calls the analyzer, converting a panic into an error so one bad
// video cannot take down the batch.
func (p *Pipeline) analyzeOne(ctx context.Context, req analyzer.Request) (rec analyzer.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("analyzer panic: %v", r)
		}
	}()
	return p.Analyzer.Analyze(ctx, req)
}

func formatTotal(rec analyzer.Record) string {
	if v, ok := rec.Total(); ok && v != nil {
		return fmt.Sprint(v)
	}
	return "unknown"
}
