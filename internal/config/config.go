package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything the client needs at startup.
type Config struct {
	BaseURL  string
	Timeout  time.Duration // zero disables the request timeout
	LogLevel string
	LogDir   string
}

const (
	defaultConfigPath = "~/.config/secondbrain/config.toml"
	defaultLogDir     = "~/.local/share/secondbrain/logs"
	defaultLogLevel   = "info"
	defaultTimeout    = 60 * time.Second
	defaultDotEnv     = ".env"
	logFileName       = "secondbrain.log"
)

// envConfig is decoded from the process environment after .env is loaded.
type envConfig struct {
	BaseURL     string `env:"SECONDBRAIN_API_BASE_URL"`
	ViteBaseURL string `env:"VITE_API_BASE_URL"`
	Timeout     string `env:"SECONDBRAIN_TIMEOUT"`
	LogLevel    string `env:"SECONDBRAIN_LOG_LEVEL"`
	LogDir      string `env:"SECONDBRAIN_LOG_DIR"`
}

// Load reads the TOML config at path (default location when empty), then
// applies .env and environment overrides. A missing file is not an error. The
// base URL is not validated.
func Load(path string) (Config, error) {
	return load(path, defaultDotEnv)
}

func load(path, dotEnv string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Timeout: defaultTimeout, LogLevel: defaultLogLevel, LogDir: defaultLogDir}
	if err := applyFile(&cfg, resolved); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(dotEnv); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(cfg.LogDir) == "" {
		cfg.LogDir = defaultLogDir
	}
	cfg.LogDir = mustExpand(cfg.LogDir)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL  string `toml:"base_url"`
		Timeout  string `toml:"timeout"`
		LogLevel string `toml:"log_level"`
		LogDir   string `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(raw.BaseURL)
	if d, ok, err := parseTimeout(raw.Timeout); err != nil {
		return fmt.Errorf("parse config: timeout: %w", err)
	} else if ok {
		cfg.Timeout = d
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		cfg.LogDir = dir
	}
	return nil
}

func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var env envConfig
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}

	switch {
	case strings.TrimSpace(env.BaseURL) != "":
		cfg.BaseURL = strings.TrimSpace(env.BaseURL)
	case strings.TrimSpace(env.ViteBaseURL) != "":
		cfg.BaseURL = strings.TrimSpace(env.ViteBaseURL)
	}
	if d, ok, err := parseTimeout(env.Timeout); err != nil {
		return fmt.Errorf("SECONDBRAIN_TIMEOUT: %w", err)
	} else if ok {
		cfg.Timeout = d
	}
	if level := strings.TrimSpace(env.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if dir := strings.TrimSpace(env.LogDir); dir != "" {
		cfg.LogDir = dir
	}
	return nil
}

// ParseTimeout accepts a Go duration ("90s", "2m") or a whole number of
// seconds. Zero or negative values disable the timeout.
func ParseTimeout(value string) (time.Duration, error) {
	d, ok, err := parseTimeout(value)
	if err != nil {
		return 0, err
	}
	if !ok {
		return defaultTimeout, nil
	}
	return d, nil
}

func parseTimeout(value string) (time.Duration, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false, nil
	}
	if secs, err := strconv.Atoi(trimmed); err == nil {
		if secs <= 0 {
			return 0, true, nil
		}
		return time.Duration(secs) * time.Second, true, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, false, fmt.Errorf("invalid duration %q", value)
	}
	if d < 0 {
		d = 0
	}
	return d, true, nil
}

// LogPath returns the path to the client's log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
