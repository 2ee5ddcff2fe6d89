package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/linebatch/internal/analyzer"
	"github.com/backmassage/linebatch/internal/capture"
	"github.com/backmassage/linebatch/internal/config"
	"github.com/backmassage/linebatch/internal/configurator"
	"github.com/backmassage/linebatch/internal/logging"
	"github.com/backmassage/linebatch/internal/pipeline"
)

// errReported marks a failure that has already been logged; main exits 1
// without printing it again.
var errReported = errors.New("failure already reported")

// commandContext carries the resolved config and logger from
// PersistentPreRunE to the command bodies.
type commandContext struct {
	flags *config.Flags
	cfg   config.Config
	log   *logging.Logger
}

// setup layers defaults, the TOML file and changed flags, then opens the
// logger. A positional input_dir overrides the configured one.
func (c *commandContext) setup(args []string, needAnalyzer bool) error {
	cfg := config.DefaultConfig()
	if err := config.LoadFile(&cfg, c.flags.ConfigPath()); err != nil {
		return err
	}
	c.flags.Apply(&cfg)
	if len(args) > 0 {
		cfg.InputDir = args[0]
	}
	if err := cfg.Validate(needAnalyzer); err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = log
	return nil
}

func (c *commandContext) close() {
	if c.log != nil {
		c.log.Close()
	}
}

// newPipeline wires the ffmpeg capture source, the terminal configurator and the
// external analyzer command, reporting progress through the logger.
func (c *commandContext) newPipeline() *pipeline.Pipeline {
	cmd := &analyzer.Command{Path: c.cfg.AnalyzerCommand, Args: c.cfg.AnalyzerArgs}
	if c.cfg.Verbose {
		cmd.Stderr = os.Stderr
	}
	src := &capture.FFmpeg{
		FFmpegPath:  c.cfg.FFmpegPath,
		FFprobePath: c.cfg.FFprobePath,
		Verbose:     c.cfg.Verbose,
	}
	if c.log != nil {
		src.Log = c.log
	}
	conf := &configurator.Terminal{PreviewDir: previewDir()}
	return pipeline.New(src, conf, cmd, c.log.Progress)
}

// previewDir holds first-frame previews, kept apart from the analyzer's
// output directory.
func previewDir() string {
	return filepath.Join(os.TempDir(), "linebatch-previews")
}

// signalContext cancels on SIGINT or SIGTERM. The signal is logged so the
// operator knows the current step is being abandoned.
func (c *commandContext) signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			c.log.Warn("Received %s, stopping after the current step", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
