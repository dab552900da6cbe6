package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ThrownLemon/claude-code-plugins/color"
)

// Theme is a named palette plus powerline glyphs.
type Theme struct {
	Name      string        `json:"name" yaml:"name"`
	Colors    color.Palette `json:"colors" yaml:"colors"`
	Powerline Powerline     `json:"powerline" yaml:"powerline"`
}

// Powerline holds the separator glyphs used in powerline mode.
type Powerline struct {
	Separator     string `json:"separator" yaml:"separator"`
	SeparatorThin string `json:"separator_thin" yaml:"separator_thin"`
}

// Color returns the style for category, zero when absent.
func (t *Theme) Color(category string) color.Style {
	if t == nil {
		return color.Style{}
	}
	return t.Colors[category]
}

// Paint styles text with the theme's entry for category.
func (t *Theme) Paint(category, text string) string {
	if t == nil {
		return text
	}
	return color.ThemeColor(category, text, t.Colors)
}

// ThemeSource names the tier a theme was resolved from.
type ThemeSource int

const (
	ThemeDefault ThemeSource = iota
	ThemeBuiltin
	ThemeInline
	ThemeUserFile
)

func (s ThemeSource) String() string {
	switch s {
	case ThemeBuiltin:
		return "builtin"
	case ThemeInline:
		return "inline"
	case ThemeUserFile:
		return "user-file"
	default:
		return "default"
	}
}

// DefaultTheme is the hardcoded theme used when every other tier fails.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "default",
		Colors: color.Palette{
			"model":         {FG: "cyan", Bold: true},
			"git":           {FG: "magenta"},
			"git_added":     {FG: "green"},
			"git_modified":  {FG: "yellow"},
			"git_deleted":   {FG: "red"},
			"context":       {FG: "blue"},
			"context_low":   {FG: "green"},
			"context_mid":   {FG: "yellow"},
			"context_high":  {FG: "red"},
			"tokens":        {FG: "white"},
			"cost":          {FG: "green"},
			"alert":         {FG: "red", Bold: true},
			"time":          {FG: "blue"},
			"mcp_ok":        {FG: "green"},
			"mcp_error":     {FG: "red"},
			"mcp_unknown":   {FG: "gray"},
			"directory":     {FG: "blue", Bold: true},
			"info":          {FG: "gray"},
			"lines_added":   {FG: "green"},
			"lines_removed": {FG: "red"},
			"custom":        {FG: "white"},
			"separator":     {FG: "gray"},
		},
		Powerline: Powerline{Separator: "", SeparatorThin: ""},
	}
}

// BuiltinThemes lists the embedded theme names, sorted.
func BuiltinThemes() []string {
	entries, err := fs.ReadDir(builtinThemes, "themes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// BuiltinTheme loads an embedded theme by name.
func BuiltinTheme(name string) (*Theme, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	data, err := builtinThemes.ReadFile(path.Join("themes", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	var th Theme
	if err := json.Unmarshal(data, &th); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", name, err)
	}
	if th.Name == "" {
		th.Name = name
	}
	return &th, nil
}

// Theme resolves the active theme: the explicit name when given, else the
// config's theme field (a name or an inline object), then the built-in of
// that name, then the user theme file, then DefaultTheme. It never fails;
// the returned source says which tier won. Results are cached per name.
func (s *Store) Theme(explicit string) (*Theme, ThemeSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.themes[explicit]; ok {
		return r.theme, r.source
	}
	th, src := s.resolveTheme(explicit)
	s.themes[explicit] = themeResult{theme: th, source: src}
	log.Debug("resolved theme", "name", th.Name, "source", src)
	return th, src
}

func (s *Store) resolveTheme(explicit string) (*Theme, ThemeSource) {
	name := strings.TrimSpace(explicit)
	if name == "" {
		switch v := s.raw["theme"].(type) {
		case string:
			name = strings.TrimSpace(v)
		default:
			if m, ok := asMap(v); ok {
				th, err := themeFromMap(m)
				if err == nil {
					if th.Name == "" {
						th.Name = "inline"
					}
					return th, ThemeInline
				}
				log.Warn("ignoring inline theme", "err", err)
			}
		}
	}

	if name != "" {
		th, err := BuiltinTheme(name)
		if err == nil {
			return th, ThemeBuiltin
		}
		log.Debug("no built-in theme", "name", name, "err", err)
	}

	if s.paths.ThemePath != "" {
		th, err := ReadTheme(s.paths.ThemePath)
		if err == nil {
			return th, ThemeUserFile
		}
		log.Debug("no user theme", "path", s.paths.ThemePath, "err", err)
	}

	return DefaultTheme(), ThemeDefault
}

// ReadTheme loads a theme file (JSON, or YAML by extension).
func ReadTheme(p string) (*Theme, error) {
	doc, err := ReadDocument(p)
	if err != nil {
		return nil, err
	}
	th, err := themeFromMap(doc)
	if err != nil {
		return nil, &LoadError{Path: p, Err: err}
	}
	if th.Name == "" {
		th.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	return th, nil
}

func themeFromMap(m map[string]any) (*Theme, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode theme: %w", err)
	}
	var th Theme
	if err := json.Unmarshal(data, &th); err != nil {
		return nil, fmt.Errorf("decode theme: %w", err)
	}
	return &th, nil
}
