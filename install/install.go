// Package install registers the statusline binary with Claude Code. It
// writes the statusLine entry into a settings.json file, keeping every other
// setting intact, and seeds the user config from the embedded defaults.
package install

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ThrownLemon/claude-code-plugins/config"
)

// ErrAlreadyConfigured is returned when settings already hold a different
// statusLine command and Force is not set.
var ErrAlreadyConfigured = errors.New("statusLine already configured")

// Config holds the settings for the install command.
type Config struct {
	SettingsPath string // settings.json to edit, e.g. ~/.claude/settings.json
	Command      string // command Claude Code runs for the status line
	ConfigPath   string // user config to seed; empty skips seeding
	Force        bool   // replace an existing statusLine command
}

// Result describes what Run changed.
type Result struct {
	SettingsPath string
	Previous     string // command that was replaced, if any
	Unchanged    bool   // settings already pointed at Command
	Seeded       bool   // user config was written from defaults
}

// DefaultSettingsPath returns ~/.claude/settings.json.
func DefaultSettingsPath() string {
	return config.ExpandHome("~/.claude/settings.json")
}

// statusLine is the settings.json entry Claude Code reads.
type statusLine struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Padding int    `json:"padding"`
}

// Run executes the full install sequence.
func Run(cfg Config) (*Result, error) {
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = DefaultSettingsPath()
	}
	if cfg.Command == "" {
		return nil, fmt.Errorf("install: empty command")
	}

	res := &Result{SettingsPath: cfg.SettingsPath}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"update Claude settings", func() error { return installStatusLine(cfg, res) }},
		{"seed user config", func() error { return seedConfig(cfg.ConfigPath, res) }},
	}

	for _, s := range steps {
		if err := s.fn(); err != nil {
			return res, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return res, nil
}

// installStatusLine sets the statusLine key of settings.json. Other keys are
// carried through untouched via a generic map.
func installStatusLine(cfg Config, res *Result) error {
	settings := make(map[string]any)

	data, err := os.ReadFile(cfg.SettingsPath)
	switch {
	case err == nil:
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &settings); err != nil {
				return fmt.Errorf("parse %s: %w", cfg.SettingsPath, err)
			}
			if settings == nil {
				settings = make(map[string]any)
			}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return err
	}

	if prev, ok := existingCommand(settings); ok {
		if prev == cfg.Command {
			res.Unchanged = true
			return nil
		}
		if !cfg.Force {
			return fmt.Errorf("%w: %q (use --force to replace)", ErrAlreadyConfigured, prev)
		}
		res.Previous = prev
	}

	settings["statusLine"] = statusLine{Type: "command", Command: cfg.Command}

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(cfg.SettingsPath, append(out, '\n'), 0o644)
}

// existingCommand reports the command of a statusLine entry, if one is set.
func existingCommand(settings map[string]any) (string, bool) {
	raw, ok := settings["statusLine"]
	if !ok || raw == nil {
		return "", false
	}
	entry, ok := raw.(map[string]any)
	if !ok {
		return fmt.Sprint(raw), true
	}
	cmd, _ := entry["command"].(string)
	return cmd, true
}

// seedConfig writes the default config to path unless a file already exists.
func seedConfig(path string, res *Result) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		log.Debug("user config exists, not seeding", "path", path)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := writeFileAtomic(path, config.DefaultBytes(), 0o644); err != nil {
		return err
	}
	res.Seeded = true
	return nil
}

// writeFileAtomic writes data through a temporary file and rename so a
// concurrent reader never sees a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
