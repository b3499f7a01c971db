package config

import (
	"os"
	"path/filepath"
	"time"

	tlsconf "github.com/sadopc/apitester/internal/core/tls"
)

// Config holds the application configuration.
type Config struct {
	Theme          string         `yaml:"theme"`
	DefaultTimeout time.Duration  `yaml:"default_timeout"`
	HistoryLimit   int            `yaml:"history_limit"`
	DataDir        string         `yaml:"data_dir"`
	Proxy          string         `yaml:"proxy"`
	NoProxy        string         `yaml:"no_proxy"`
	LogLevel       string         `yaml:"log_level"`
	TLS            tlsconf.Config `yaml:"tls"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:          "dark",
		DefaultTimeout: 30 * time.Second,
		HistoryLimit:   500,
		DataDir:        defaultDataDir(),
		LogLevel:       "info",
	}
}

// HistoryPath returns the location of the SQLite history database.
func (c Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// LogPath returns the location of the log file used while the TUI owns the terminal.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "apitester.log")
}

// EnsureDataDir creates the data directory if it does not exist.
func (c Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "apitester")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "apitester")
}
