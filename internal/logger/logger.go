// Package logger provides a process-wide structured logger: a slog JSON
// handler behind a package-level singleton, in the shape the teacher's
// pkg/logger used before this module consolidated onto one logging facade.
package logger

import (
	"fmt"
	"log/slog"
	"os"
)

var instance *slog.Logger

// InitError reports that logger initialization failed.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string { return fmt.Sprintf("logger: %s failed: %v", e.Op, e.Err) }
func (e *InitError) Unwrap() error { return e.Err }

// Init sets up the default logger: JSON handler on stdout at info level.
func Init() error {
	return InitWithOptions(slog.HandlerOptions{Level: slog.LevelInfo})
}

// InitWithOptions sets up the logger with caller-supplied handler options.
func InitWithOptions(opts slog.HandlerOptions) error {
	handler := slog.NewJSONHandler(os.Stdout, &opts)
	instance = slog.New(handler)
	return nil
}

// Get returns the process logger, initializing it with defaults on first
// use if Init hasn't been called yet.
func Get() *slog.Logger {
	if instance == nil {
		_ = Init()
	}
	return instance
}

// MustGet returns the process logger and panics if Init hasn't run yet.
func MustGet() *slog.Logger {
	if instance == nil {
		panic("logger: not initialized, call Init() first")
	}
	return instance
}

// IsInitialized reports whether Init has run.
func IsInitialized() bool {
	return instance != nil
}
