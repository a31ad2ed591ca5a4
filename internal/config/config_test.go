package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"SECONDBRAIN_API_BASE_URL",
	"VITE_API_BASE_URL",
	"SECONDBRAIN_TIMEOUT",
	"SECONDBRAIN_LOG_LEVEL",
	"SECONDBRAIN_LOG_DIR",
}

// clearEnv unsets the config variables for the test and restores them after.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("Unsetenv(%s): %v", key, err)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := load(filepath.Join(home, "does-not-exist.toml"), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "" {
		t.Fatalf("BaseURL = %q, want empty", cfg.BaseURL)
	}
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeFile(t, "config.toml", `
base_url = "  http://10.0.0.5:8000  "
timeout = " 90s "
log_level = " debug "
log_dir = "  ~/.brain/logs  "
`)

	cfg, err := load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://10.0.0.5:8000" {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, "http://10.0.0.5:8000")
	}
	if cfg.Timeout != 90*time.Second {
		t.Fatalf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.LogPath() != filepath.Join(cfg.LogDir, "secondbrain.log") {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath(), filepath.Join(cfg.LogDir, "secondbrain.log"))
	}
}

func TestLoad_ZeroTimeoutDisables(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := writeFile(t, "config.toml", `timeout = "0"`)
	cfg, err := load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Timeout != 0 {
		t.Fatalf("Timeout = %v, want 0", cfg.Timeout)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := writeFile(t, "config.toml", `
base_url = "http://file:8000"
timeout = "10s"
`)
	t.Setenv("SECONDBRAIN_API_BASE_URL", "http://env:9000")
	t.Setenv("SECONDBRAIN_TIMEOUT", "15")
	t.Setenv("SECONDBRAIN_LOG_LEVEL", "warn")

	cfg, err := load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://env:9000" {
		t.Fatalf("BaseURL = %q, want http://env:9000", cfg.BaseURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_ViteBaseURLIsFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VITE_API_BASE_URL", "http://vite:8000")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.toml"), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://vite:8000" {
		t.Fatalf("BaseURL = %q, want http://vite:8000", cfg.BaseURL)
	}

	t.Setenv("SECONDBRAIN_API_BASE_URL", "http://primary:8000")
	cfg, err = load(filepath.Join(t.TempDir(), "missing.toml"), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://primary:8000" {
		t.Fatalf("BaseURL = %q, want http://primary:8000", cfg.BaseURL)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	dotEnv := writeFile(t, ".env", "SECONDBRAIN_API_BASE_URL=http://dotenv:8000\nSECONDBRAIN_TIMEOUT=2m\n")
	cfg, err := load(filepath.Join(t.TempDir(), "missing.toml"), dotEnv)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://dotenv:8000" {
		t.Fatalf("BaseURL = %q, want http://dotenv:8000", cfg.BaseURL)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("Timeout = %v, want 2m", cfg.Timeout)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `base_url = [`)
	_, err := load(path, "")
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidTimeoutFails(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `timeout = "soon"`)
	if _, err := load(path, ""); err == nil {
		t.Fatalf("Load returned nil error, want timeout error")
	}

	t.Setenv("SECONDBRAIN_TIMEOUT", "later")
	if _, err := load(filepath.Join(t.TempDir(), "missing.toml"), ""); err == nil {
		t.Fatalf("Load returned nil error, want env timeout error")
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", defaultTimeout},
		{"30", 30 * time.Second},
		{"1m30s", 90 * time.Second},
		{"0", 0},
		{"0s", 0},
		{"-5", 0},
		{"-1s", 0},
	}
	for _, tt := range tests {
		got, err := ParseTimeout(tt.in)
		if err != nil {
			t.Fatalf("ParseTimeout(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseTimeout(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseTimeout("abc"); err == nil {
		t.Fatalf("ParseTimeout(abc) returned nil error")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/secondbrain.log")) {
		t.Fatalf("LogPath = %q, want it to end with /secondbrain.log", got)
	}
}
