// Package config loads the effective statusline configuration: the bundled
// defaults with the user's file deep-merged on top, the active theme and the
// per-widget option slices. A Store is built once per run and passed to
// whatever needs it; nothing here is global.
package config

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/config.json
var defaultConfig []byte

//go:embed themes/*.json
var builtinThemes embed.FS

// Environment variables consulted by DefaultPaths.
const (
	EnvConfig = "STATUSLINE_CONFIG"
	EnvTheme  = "STATUSLINE_THEME"
)

// DefaultSeparator joins widgets when no separator is configured.
const DefaultSeparator = " │ "

// Paths locates the files a Store reads. Empty DefaultPath selects the
// embedded defaults; empty UserPath or ThemePath skips that tier.
type Paths struct {
	DefaultPath string
	UserPath    string
	ThemePath   string
}

// DefaultPaths returns the user config and theme paths from the environment,
// falling back to ~/.claude/statusline-config.json and
// ~/.claude/statusline-theme.json.
func DefaultPaths() Paths {
	home, _ := os.UserHomeDir()
	p := Paths{
		UserPath:  filepath.Join(home, ".claude", "statusline-config.json"),
		ThemePath: filepath.Join(home, ".claude", "statusline-theme.json"),
	}
	if v := os.Getenv(EnvConfig); v != "" {
		p.UserPath = ExpandHome(v)
	}
	if v := os.Getenv(EnvTheme); v != "" {
		p.ThemePath = ExpandHome(v)
	}
	return p
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Source names the tier the base configuration came from.
type Source int

const (
	// SourceMinimal is the hardcoded single-widget config used when the
	// defaults cannot be read.
	SourceMinimal Source = iota
	SourceDefault
	// SourceMerged is the defaults with a user file merged on top.
	SourceMerged
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceMerged:
		return "merged"
	default:
		return "minimal"
	}
}

// Store is the effective configuration for one run. It is safe for
// concurrent use; the document never changes after Load.
type Store struct {
	paths       Paths
	raw         map[string]any
	source      Source
	userApplied bool
	problems    []error

	mu     sync.Mutex
	themes map[string]themeResult
}

type themeResult struct {
	theme  *Theme
	source ThemeSource
}

// Load reads the defaults and the user file. It never fails: unreadable or
// malformed files are recorded in Problems and the next tier is used.
func Load(p Paths) *Store {
	s := &Store{paths: p, themes: make(map[string]themeResult)}

	base, err := loadDefaults(p.DefaultPath)
	if err != nil {
		log.Warn("default config unavailable, using minimal config", "err", err)
		s.problems = append(s.problems, err)
		base = minimalConfig()
		s.source = SourceMinimal
	} else {
		s.source = SourceDefault
	}

	if p.UserPath != "" {
		user, err := ReadDocument(p.UserPath)
		switch {
		case err == nil:
			base = DeepMerge(base, user)
			s.userApplied = true
			if s.source == SourceDefault {
				s.source = SourceMerged
			}
		case errors.Is(err, ErrNotFound):
			log.Debug("no user config", "path", p.UserPath)
		default:
			log.Warn("ignoring user config", "path", p.UserPath, "err", err)
			s.problems = append(s.problems, err)
		}
	}

	s.raw = base
	return s
}

// FromMap builds a Store over an already merged document. Theme files are
// not consulted beyond the built-ins. Intended for tests and previews.
func FromMap(doc map[string]any) *Store {
	return &Store{
		raw:    DeepMerge(nil, doc),
		source: SourceMerged,
		themes: make(map[string]themeResult),
	}
}

func loadDefaults(path string) (map[string]any, error) {
	if path != "" {
		return ReadDocument(path)
	}
	doc, err := decodeDocument(defaultConfig, ".json")
	if err != nil {
		return nil, &LoadError{Path: "<embedded>", Err: err}
	}
	return doc, nil
}

func minimalConfig() map[string]any {
	return map[string]any{
		"layout": []any{[]any{"model_name"}},
		"widgets": map[string]any{
			"model_name": map[string]any{"enabled": true, "short": true},
		},
	}
}

// DefaultDocument returns a copy of the embedded default configuration.
func DefaultDocument() map[string]any {
	doc, err := decodeDocument(defaultConfig, ".json")
	if err != nil {
		return minimalConfig()
	}
	return doc
}

// DefaultBytes returns the embedded default configuration file.
func DefaultBytes() []byte {
	return append([]byte(nil), defaultConfig...)
}

// ReadDocument reads a JSON or YAML object from path. The format follows
// the extension; anything but .yaml/.yml is JSON.
func ReadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: ErrNotFound}
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	doc, err := decodeDocument(data, filepath.Ext(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return doc, nil
}

func decodeDocument(data []byte, ext string) (map[string]any, error) {
	var v any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, ErrNotObject
	}
	return DeepMerge(nil, m), nil
}

// ConfigSource reports which tier the base configuration came from.
func (s *Store) ConfigSource() Source { return s.source }

// UserApplied reports whether a user file was merged in.
func (s *Store) UserApplied() bool { return s.userApplied }

// Problems lists the load errors that caused a fallback.
func (s *Store) Problems() []error { return s.problems }

// Paths returns the locations the store was loaded from.
func (s *Store) Paths() Paths { return s.paths }

// Raw returns the merged document. Callers must not modify it.
func (s *Store) Raw() map[string]any { return s.raw }

// Get resolves a dotted path such as "widgets.git_branch.max_length".
func (s *Store) Get(path string) (any, bool) {
	return lookup(s.raw, path)
}

// WidgetConfig returns the option slice for name, empty when absent.
func (s *Store) WidgetConfig(name string) Options {
	widgets, ok := asMap(s.raw["widgets"])
	if !ok {
		return Options{}
	}
	if m, ok := asMap(widgets[name]); ok {
		return Options(m)
	}
	return Options{}
}

// IsWidgetEnabled reports widgets.<name>.enabled, defaulting to true.
func (s *Store) IsWidgetEnabled(name string) bool {
	return s.WidgetConfig(name).Bool("enabled", true)
}

// Powerline reports whether powerline mode is on.
func (s *Store) Powerline() bool {
	return Options(s.raw).Bool("powerline", false)
}

// Separator returns the string placed between adjacent widgets.
func (s *Store) Separator() string {
	sep := s.WidgetConfig("separator")
	if s.Powerline() {
		return sep.String("powerline", "")
	}
	return sep.String("char", DefaultSeparator)
}

// Layout returns the rows of widget names. A missing or malformed layout
// yields a single model_name row. A flat list of names is one row.
func (s *Store) Layout() [][]string {
	rows, ok := parseLayout(s.raw["layout"])
	if !ok {
		return [][]string{{"model_name"}}
	}
	return rows
}

func parseLayout(v any) ([][]string, bool) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}

	if _, flat := items[0].(string); flat {
		row, ok := stringRow(items)
		if !ok {
			return nil, false
		}
		return [][]string{row}, true
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		cells, ok := item.([]any)
		if !ok {
			return nil, false
		}
		row, ok := stringRow(cells)
		if !ok {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}

func stringRow(cells []any) ([]string, bool) {
	row := make([]string, 0, len(cells))
	for _, c := range cells {
		name, ok := c.(string)
		if !ok {
			return nil, false
		}
		row = append(row, name)
	}
	return row, true
}
