// Package logging sets up the structured logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sadopc/apitester/internal/config"
)

// ParseLevel maps a config level name to a slog level. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// NewWriter returns a text logger writing to w at the given level.
func NewWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// NewFile opens <data_dir>/apitester.log for appending and returns a logger
// writing to it. The caller closes the returned file.
func NewFile(cfg config.Config) (*slog.Logger, io.Closer, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return NewWriter(f, cfg.LogLevel), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
