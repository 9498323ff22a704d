package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// L is the global logger instance. It discards all output until Init is
// called with logging enabled.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	logPrefix = "treefold-"
	logSuffix = ".log"
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // if false, all logging is discarded
	LogDir  string     // directory for log files; default ~/.treefold/logs
	Level   slog.Level // minimum level; default LevelInfo
}

// Init configures logging. Call from main() before any log calls.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	logDir := opts.LogDir
	if logDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		logDir = filepath.Join(home, ".treefold", "logs")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	filename := filepath.Join(logDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	return nil
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
