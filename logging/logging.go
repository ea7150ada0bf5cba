// Package logging sets up the file logger used in debug runs.
//
// A terminal UI owns stdout and stderr, so log output only ever goes to a file,
// and only when debugging is enabled.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	// FileName is the active log file inside the log directory
	FileName = "cadence.log"
	// MaxSize triggers rotation of an existing log file at startup
	MaxSize = 10 << 20
)

// Setup returns the application logger and a closer for its file.
// Without debug the logger discards everything and the closer is a no-op
func Setup(debug bool, dir string) (zerolog.Logger, io.Closer, error) {
	if !debug {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := rotate(path); err != nil {
		return zerolog.Nop(), io.NopCloser(nil), err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).With().Timestamp().Str("app", "cadence").Logger().Level(zerolog.DebugLevel)
	return logger, f, nil
}

// rotate moves an oversized log aside under a timestamped name
func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxSize {
		return nil
	}
	stamp := time.Now().Format("20060102-150405")
	rotated := filepath.Join(filepath.Dir(path), "cadence-"+stamp+".log")
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
