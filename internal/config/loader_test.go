package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv(EnvPath, "")
	return home
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	configDir := filepath.Join(home, ".config", "apitester")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	home := isolate(t)
	got := DefaultConfig()

	if got.Theme != "dark" {
		t.Fatalf("Theme = %q, want dark", got.Theme)
	}
	if got.DefaultTimeout != 30*time.Second {
		t.Fatalf("DefaultTimeout = %s, want 30s", got.DefaultTimeout)
	}
	if got.HistoryLimit != 500 {
		t.Fatalf("HistoryLimit = %d, want 500", got.HistoryLimit)
	}
	want := filepath.Join(home, ".local", "share", "apitester")
	if got.DataDir != want {
		t.Fatalf("DataDir = %q, want %q", got.DataDir, want)
	}
	if got.HistoryPath() != filepath.Join(want, "history.db") {
		t.Fatalf("HistoryPath() = %q", got.HistoryPath())
	}
}

func TestDefaultConfigHonoursXDG(t *testing.T) {
	isolate(t)
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	if got := DefaultConfig().DataDir; got != filepath.Join(xdg, "apitester") {
		t.Fatalf("DataDir = %q", got)
	}
}

func TestLoadReturnsDefaultsWhenConfigMissing(t *testing.T) {
	isolate(t)

	got := Load()
	want := DefaultConfig()

	if got != want {
		t.Fatalf("Load() = %#v, want defaults %#v", got, want)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := isolate(t)
	dataDir := filepath.Join(home, "data")
	writeConfig(t, home, "theme: light\ndefault_timeout: 42s\nhistory_limit: 20\ndata_dir: "+dataDir+
		"\nproxy: socks5://127.0.0.1:1080\nno_proxy: localhost\nlog_level: debug\n"+
		"tls:\n  insecure_skip_verify: true\n  min_version: \"1.3\"\n")

	got := Load()

	if got.Theme != "light" {
		t.Fatalf("Theme = %q, want light", got.Theme)
	}
	if got.DefaultTimeout != 42*time.Second {
		t.Fatalf("DefaultTimeout = %s, want 42s", got.DefaultTimeout)
	}
	if got.HistoryLimit != 20 {
		t.Fatalf("HistoryLimit = %d, want 20", got.HistoryLimit)
	}
	if got.DataDir != dataDir {
		t.Fatalf("DataDir = %q, want %q", got.DataDir, dataDir)
	}
	if got.Proxy != "socks5://127.0.0.1:1080" || got.NoProxy != "localhost" {
		t.Fatalf("proxy settings = %q / %q", got.Proxy, got.NoProxy)
	}
	if got.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", got.LogLevel)
	}
	if !got.TLS.InsecureSkipVerify || got.TLS.MinVersion != "1.3" {
		t.Fatalf("TLS = %#v", got.TLS)
	}
}

func TestLoadMergesPartialConfigWithDefaults(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "theme: light\n")

	got := Load()
	want := DefaultConfig()
	want.Theme = "light"

	if got != want {
		t.Fatalf("Load() = %#v, want %#v", got, want)
	}
}

func TestLoadInvalidYAMLKeepsDefaults(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "theme: [\n")

	got := Load()
	want := DefaultConfig()

	if got != want {
		t.Fatalf("Load() = %#v, want defaults %#v", got, want)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "theme: neon\ndefault_timeout: -1s\nhistory_limit: 0\ndata_dir: ~/hist\n")

	got := Load()

	if got.Theme != "dark" {
		t.Fatalf("Theme = %q, want dark", got.Theme)
	}
	if got.DefaultTimeout != 30*time.Second {
		t.Fatalf("DefaultTimeout = %s, want 30s", got.DefaultTimeout)
	}
	if got.HistoryLimit != 500 {
		t.Fatalf("HistoryLimit = %d, want 500", got.HistoryLimit)
	}
	if got.DataDir != filepath.Join(home, "hist") {
		t.Fatalf("DataDir = %q", got.DataDir)
	}
}

func TestLoadHonoursEnvPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("history_limit: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, path)

	if got := Load().HistoryLimit; got != 7 {
		t.Fatalf("HistoryLimit = %d, want 7", got)
	}
}

func TestEnsureDataDir(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "a", "b")

	if err := cfg.EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir() failed: %v", err)
	}
	if st, err := os.Stat(cfg.DataDir); err != nil || !st.IsDir() {
		t.Fatalf("data dir not created: %v", err)
	}
}
