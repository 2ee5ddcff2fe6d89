// Package check provides system diagnostics (the check subcommand) and
// pre-run dependency validation (CheckDeps) for ffmpeg, ffprobe and the
// analyzer program.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/linebatch/internal/capture"
	"github.com/backmassage/linebatch/internal/config"
	"github.com/backmassage/linebatch/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool is missing or broken.
var (
	ErrFfmpegNotFound    = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound   = errors.New("ffprobe not found on PATH")
	ErrAnalyzerNotFound  = errors.New("analyzer command not found")
	ErrFrameDecodeFailed = errors.New("test frame extraction failed")
)

const (
	testWidth   = 64
	testHeight  = 48
	testTimeout = 30 * time.Second
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck prints the availability of ffmpeg, ffprobe and the analyzer, then
// extracts one synthetic frame through the same path used for real videos.
// It reports every problem and returns false if any was found.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg", cfg.FFmpegPath)
	ok = checkTool(log, "ffprobe", cfg.FFprobePath) && ok
	ok = checkAnalyzer(log, cfg.AnalyzerCommand) && ok

	log.Info("Testing first-frame extraction...")
	if err := testFrame(cfg.FFmpegPath); err != nil {
		log.Error("Frame extraction failed: %v", err)
		ok = false
	} else {
		log.Success("Frame extraction works (%dx%d test pattern)", testWidth, testHeight)
	}
	return ok
}

// checkTool verifies bin is on PATH and logs its version line.
func checkTool(log Logger, name, bin string) bool {
	path, err := exec.LookPath(bin)
	if err != nil {
		log.Error("%s not found (%s)", name, bin)
		return false
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		log.Warn("%s found at %s but -version failed: %v", name, path, err)
		return true
	}
	log.Success("%s: %s", name, firstLine(string(out)))
	return true
}

func checkAnalyzer(log Logger, command string) bool {
	if command == "" {
		log.Warn("No analyzer configured (set --analyzer or analyzer_command)")
		return true
	}
	path, err := exec.LookPath(command)
	if err != nil {
		log.Error("Analyzer not found: %s", command)
		return false
	}
	log.Success("Analyzer: %s", path)
	return true
}

// CheckDeps is the pre-run validation: ffmpeg and ffprobe must be on PATH and
// able to produce a decodable frame. When needAnalyzer is set the analyzer
// command must resolve too. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config, needAnalyzer bool) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return ErrFfprobeNotFound
	}
	if needAnalyzer {
		if _, err := exec.LookPath(cfg.AnalyzerCommand); err != nil {
			return fmt.Errorf("%w: %s", ErrAnalyzerNotFound, cfg.AnalyzerCommand)
		}
	}
	if err := testFrame(cfg.FFmpegPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFrameDecodeFailed, err)
	}
	return nil
}

// testFrame renders a lavfi test pattern as BMP and decodes it.
func testFrame(bin string) error {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	res := ffmpeg.Execute(ctx, ffmpeg.BuildTestPattern(bin, testWidth, testHeight), false)
	if res.Err != nil {
		if line := firstLine(res.Stderr); line != "" {
			return fmt.Errorf("%w: %s", res.Err, line)
		}
		return res.Err
	}
	frame, err := capture.DecodeBMP(res.Stdout)
	if err != nil {
		return err
	}
	if frame.Width != testWidth || frame.Height != testHeight {
		return fmt.Errorf("decoded %dx%d, want %dx%d", frame.Width, frame.Height, testWidth, testHeight)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}
