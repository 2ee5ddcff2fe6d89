// Package config holds runtime configuration: defaults, the optional TOML
// config file, CLI flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = "linebatch.toml"

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ReportFormat selects the machine-readable results report encoding.
type ReportFormat string

const (
	ReportJSON ReportFormat = "json"
	ReportYAML ReportFormat = "yaml"
)

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// by [LoadFile], then by changed CLI flags (see [Bind]).
type Config struct {
	// Paths.
	InputDir   string `toml:"input_dir"`  // Empty: the "input" dir next to the executable.
	OutputDir  string `toml:"output_dir"` // Empty: analyzer decides.
	ConfigFile string `toml:"-"`

	// External tools.
	AnalyzerCommand string   `toml:"analyzer_command"`
	AnalyzerArgs    []string `toml:"analyzer_args"`
	FFmpegPath      string   `toml:"ffmpeg"`  // Default: "ffmpeg".
	FFprobePath     string   `toml:"ffprobe"` // Default: "ffprobe".

	// Reports.
	ReportFile   string       `toml:"report_file"`
	ReportFormat ReportFormat `toml:"report_format"` // Default: "json".

	// Display and logging.
	ColorMode ColorMode `toml:"color"` // Default: "auto".
	LogFile   string    `toml:"log_file"`
	Verbose   bool      `toml:"verbose"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		ReportFormat: ReportJSON,
		ColorMode:    ColorAuto,
	}
}

// LoadFile decodes the TOML file at path over cfg. An empty path falls back to
// [DefaultConfigFile], which is silently skipped when it does not exist; an
// explicit path must exist.
func LoadFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// EnsureTrailingSeparator returns path ending in exactly one separator so
// callers can append file names directly. Empty input stays empty.
func EnsureTrailingSeparator(path string) string {
	if path == "" {
		return ""
	}
	sep := string(filepath.Separator)
	trimmed := strings.TrimRight(path, sep)
	if trimmed == "" {
		return sep
	}
	return trimmed + sep
}

// Validate checks enum fields and canonicalizes the tool paths. When
// needAnalyzer is set, an analyzer command must be configured.
func (c *Config) Validate(needAnalyzer bool) error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	c.ReportFormat = ReportFormat(strings.ToLower(string(c.ReportFormat)))
	switch c.ReportFormat {
	case ReportJSON, ReportYAML:
	default:
		return fmt.Errorf("invalid report format %q (use 'json' or 'yaml')", c.ReportFormat)
	}

	if strings.TrimSpace(c.FFmpegPath) == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if strings.TrimSpace(c.FFprobePath) == "" {
		c.FFprobePath = "ffprobe"
	}
	if c.InputDir != "" {
		c.InputDir = NormalizeDirArg(c.InputDir)
	}

	if needAnalyzer && strings.TrimSpace(c.AnalyzerCommand) == "" {
		return errors.New("no analyzer command configured (set --analyzer or analyzer_command)")
	}
	return nil
}
