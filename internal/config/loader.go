package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the config file location.
const EnvPath = "APITESTER_CONFIG"

// Path returns the config file location, honouring APITESTER_CONFIG.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "apitester", "config.yaml")
}

// Load loads configuration from Path(). A missing or invalid file keeps defaults.
func Load() Config {
	cfg := DefaultConfig()

	path := Path()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	loaded := cfg
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg
	}
	return normalize(loaded)
}

func normalize(cfg Config) Config {
	def := DefaultConfig()
	switch strings.ToLower(cfg.Theme) {
	case "dark", "light":
		cfg.Theme = strings.ToLower(cfg.Theme)
	default:
		cfg.Theme = def.Theme
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = def.DefaultTimeout
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	} else if strings.HasPrefix(cfg.DataDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, cfg.DataDir[2:])
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	return cfg
}
