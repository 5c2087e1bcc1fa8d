package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const defaultLevel = slog.LevelInfo

type Options struct {
	Level string
	File  string
}

// New builds a text logger writing to stdout and, when File is set, to an
// append-only log file as well. On a bad level or unusable file it still
// returns a working logger together with the error.
func New(opts Options) (*slog.Logger, error) {
	return newWithStdout(os.Stdout, opts)
}

func newWithStdout(stdout io.Writer, opts Options) (*slog.Logger, error) {
	level := defaultLevel
	var levelErr error
	if strings.TrimSpace(opts.Level) != "" {
		level, levelErr = ParseLogLevel(opts.Level)
	}

	writer := stdout
	var fileErr error
	if strings.TrimSpace(opts.File) != "" {
		dir := filepath.Dir(opts.File)
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			fileErr = mkErr
		} else {
			file, openErr := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if openErr != nil {
				fileErr = openErr
			} else {
				writer = io.MultiWriter(stdout, file)
			}
		}
	}

	log := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))

	if levelErr != nil || fileErr != nil {
		return log, errors.Join(levelErr, fileErr)
	}
	return log, nil
}

func ParseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return defaultLevel, fmt.Errorf("invalid log level %q", value)
	}
}

// OrDiscard returns log, or a logger that drops everything when log is nil.
func OrDiscard(log *slog.Logger) *slog.Logger {
	if log != nil {
		return log
	}
	return slog.New(slog.DiscardHandler)
}
