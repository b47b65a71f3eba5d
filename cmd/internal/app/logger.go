package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the app-wide logger type (slog).
type Logger = *slog.Logger

// LogConfig selects the log level, format and optional rotated file sink.
type LogConfig struct {
	Level     string
	Format    string
	File      string
	FileMaxMB int
}

// LogConfigFrom extracts the logging settings from cfg.
func LogConfigFrom(cfg Config) LogConfig {
	return LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile, FileMaxMB: cfg.LogFileMaxMB}
}

// NewLogger creates a structured logger writing to stdout and, when File is set, to a rotated file.
// The returned closer releases the file sink.
func NewLogger(cfg LogConfig) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if file := strings.TrimSpace(cfg.File); file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    nonZeroInt(cfg.FileMaxMB, 50),
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, lj)
		closer = lj
	}

	log := slog.New(newHandler(out, cfg.Format, parseLogLevel(cfg.Level), isTerminal(os.Stdout) && cfg.File == ""))
	slog.SetDefault(log)
	return log, closer
}

func newHandler(w io.Writer, format string, lvl slog.Level, color bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: lvl, AddSource: true}
	if strings.EqualFold(strings.TrimSpace(format), "pretty") {
		return newPrettyHandler(w, opts, color)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
