// Package prefs persists secondbrain's UI preferences in
// ~/.config/secondbrain/prefs.toml. Unreadable or malformed files fall back to
// defaults so a bad prefs file never blocks startup.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds the settings the TUI changes at runtime.
type Prefs struct {
	Theme    string `toml:"theme"`
	Markdown bool   `toml:"markdown"`
	// Wrap is the answer wrap column; zero follows the terminal width.
	Wrap int `toml:"wrap"`
}

const (
	defaultPrefsPath = "~/.config/secondbrain/prefs.toml"
	defaultTheme     = "Nightfox"
	maxWrap          = 400
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Markdown: true}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path, falling back to defaults if the file is
// missing or unusable. The error is reserved for an unresolvable path.
func Load(path string) (Prefs, error) {
	prefs := Default()
	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Default(), nil
	}
	return prefs.normalize(), nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func (p Prefs) normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	if p.Wrap < 0 {
		p.Wrap = 0
	}
	if p.Wrap > maxWrap {
		p.Wrap = maxWrap
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
