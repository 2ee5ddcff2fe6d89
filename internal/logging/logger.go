// Package logging provides the leveled console logger used by the CLI. It is
// a thin layer over zerolog: a colored console writer on stdout/stderr plus
// an optional JSON-lines file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backmassage/linebatch/internal/config"
	"github.com/backmassage/linebatch/internal/term"
)

const (
	timeFormat   = "2006-01-02 15:04:05"
	successField = "success"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	zl      zerolog.Logger
	file    *os.File
	verbose bool
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile for appending. Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout, os.Stderr)
}

func newLogger(cfg *config.Config, stdout, stderr io.Writer) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	l := &Logger{verbose: cfg.Verbose}
	sinks := []io.Writer{levelSplitWriter{
		out: consoleWriter(stdout),
		err: consoleWriter(stderr),
	}}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		sinks = append(sinks, f)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	l.zl = zerolog.New(zerolog.MultiLevelWriter(sinks...)).Level(level).With().Timestamp().Logger()
	return l, nil
}

// consoleWriter renders events the way the shell tools we replace did:
// "<time> [LEVEL] message".
func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !term.Enabled(),
		TimeFormat: timeFormat,
		FormatPrepare: func(evt map[string]interface{}) error {
			if ok, _ := evt[successField].(bool); ok {
				evt[zerolog.LevelFieldName] = "success"
				delete(evt, successField)
			}
			return nil
		},
		FormatLevel: func(i interface{}) string {
			lvl, _ := i.(string)
			label, color := levelStyle(lvl)
			if color == "" {
				return "[" + label + "]"
			}
			return color + "[" + label + "]" + term.NC
		},
	}
}

func levelStyle(lvl string) (string, string) {
	switch lvl {
	case "success":
		return "SUCCESS", term.Green
	case zerolog.LevelWarnValue:
		return "WARN", term.Yellow
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return "ERROR", term.Red
	case zerolog.LevelDebugValue, zerolog.LevelTraceValue:
		return "DEBUG", term.Cyan
	default:
		return "INFO", term.Blue
	}
}

// levelSplitWriter sends error-and-above events to err and the rest to out.
type levelSplitWriter struct {
	out, err io.Writer
}

func (w levelSplitWriter) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

func (w levelSplitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel && level != zerolog.NoLevel {
		return w.err.Write(p)
	}
	return w.out.Write(p)
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Success logs at INFO level, rendered as SUCCESS (green) on the console.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Bool(successField, true).Msg(fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// Progress adapts a pipeline progress message onto a level by its prefix.
// It satisfies pipeline.Reporter.
func (l *Logger) Progress(msg string) {
	switch {
	case strings.HasPrefix(msg, "[ERROR]"):
		l.Error("%s", strings.TrimSpace(strings.TrimPrefix(msg, "[ERROR]")))
	case strings.HasPrefix(msg, "[OK]"):
		l.Success("%s", strings.TrimSpace(strings.TrimPrefix(msg, "[OK]")))
	default:
		l.Info("%s", msg)
	}
}
