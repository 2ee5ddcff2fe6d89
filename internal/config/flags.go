package config

// This file binds CLI flags. Flags are registered on a shadow Config so the
// TOML file can be applied first; only flags the user actually set are then
// copied over, giving flags > file > defaults.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds the shadow values populated by pflag.
type Flags struct {
	fs     *pflag.FlagSet
	values Config
}

// Bind registers the persistent flags on fs and returns a handle used by
// [Flags.Apply] after parsing.
func Bind(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs, values: DefaultConfig()}
	v := &f.values

	fs.StringVarP(&v.ConfigFile, "config", "C", "", "TOML config file (default: ./"+DefaultConfigFile+" when present)")
	fs.StringVarP(&v.OutputDir, "output", "o", "", "Directory handed to the analyzer for its output files")
	fs.StringVarP(&v.AnalyzerCommand, "analyzer", "a", "", "Analyzer program run once per video")
	fs.StringArrayVar(&v.AnalyzerArgs, "analyzer-arg", nil, "Extra argument for the analyzer (repeatable)")
	fs.StringVar(&v.FFmpegPath, "ffmpeg", v.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&v.FFprobePath, "ffprobe", v.FFprobePath, "ffprobe binary")
	fs.StringVarP(&v.ReportFile, "report", "r", "", "Write the results report to this file")
	fs.Var(&reportFormatValue{&v.ReportFormat}, "report-format", "Results report format: json | yaml")
	fs.Var(&colorModeValue{&v.ColorMode}, "color", "Colored logs: auto | always | never")
	fs.StringVarP(&v.LogFile, "log", "l", "", "Append logs to file")
	fs.BoolVarP(&v.Verbose, "verbose", "v", false, "Verbose output")
	return f
}

// Apply copies every flag the user changed into cfg.
func (f *Flags) Apply(cfg *Config) {
	v := &f.values
	f.fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "config":
			cfg.ConfigFile = v.ConfigFile
		case "output":
			cfg.OutputDir = v.OutputDir
		case "analyzer":
			cfg.AnalyzerCommand = v.AnalyzerCommand
		case "analyzer-arg":
			cfg.AnalyzerArgs = append([]string(nil), v.AnalyzerArgs...)
		case "ffmpeg":
			cfg.FFmpegPath = v.FFmpegPath
		case "ffprobe":
			cfg.FFprobePath = v.FFprobePath
		case "report":
			cfg.ReportFile = v.ReportFile
		case "report-format":
			cfg.ReportFormat = v.ReportFormat
		case "color":
			cfg.ColorMode = v.ColorMode
		case "log":
			cfg.LogFile = v.LogFile
		case "verbose":
			cfg.Verbose = v.Verbose
		}
	})
}

// ConfigPath returns the --config value (empty when not set).
func (f *Flags) ConfigPath() string {
	return f.values.ConfigFile
}

// pflag.Value adapters so enum types can be used with fs.Var.

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch ColorMode(strings.ToLower(s)) {
	case ColorAuto:
		*c.p = ColorAuto
	case ColorAlways:
		*c.p = ColorAlways
	case ColorNever:
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

type reportFormatValue struct{ p *ReportFormat }

func (r *reportFormatValue) String() string { return string(*r.p) }
func (r *reportFormatValue) Type() string   { return "format" }
func (r *reportFormatValue) Set(s string) error {
	switch ReportFormat(strings.ToLower(s)) {
	case ReportJSON:
		*r.p = ReportJSON
	case ReportYAML:
		*r.p = ReportYAML
	default:
		return fmt.Errorf("invalid report format %q (use 'json' or 'yaml')", s)
	}
	return nil
}
