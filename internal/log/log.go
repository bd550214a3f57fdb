// Package log provides category-based structured logging for bbh.
//
// Every call names a Category so that output from the aligner, the pipeline
// and the history database can be told apart in a single stream:
//
//	log.Debug(log.CatAligner, "spawning exonerate", "query", q, "target", t)
//	log.ErrorErr(log.CatDB, "Failed to open database", err, "path", path)
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Category groups log lines by subsystem.
type Category string

const (
	CatConfig   Category = "config"
	CatAligner  Category = "aligner"
	CatPipeline Category = "pipeline"
	CatDB       Category = "db"
	CatWatch    Category = "watch"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// ParseLevel converts a config level name into a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Init replaces the package logger. It is called once by the root command
// after configuration has been loaded.
func Init(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func with(cat Category, kv []any) []any {
	return append([]any{"cat", string(cat)}, kv...)
}

// Debug logs at debug level.
func Debug(cat Category, msg string, kv ...any) {
	get().Debug(msg, with(cat, kv)...)
}

// Info logs at info level.
func Info(cat Category, msg string, kv ...any) {
	get().Info(msg, with(cat, kv)...)
}

// Warn logs at warn level.
func Warn(cat Category, msg string, kv ...any) {
	get().Warn(msg, with(cat, kv)...)
}

// Error logs at error level.
func Error(cat Category, msg string, kv ...any) {
	get().Error(msg, with(cat, kv)...)
}

// ErrorErr logs at error level with err attached under the "error" key.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	get().Error(msg, with(cat, append([]any{"error", err}, kv...))...)
}
