// Package cache is a small file-backed TTL cache shared by concurrent
// statusline processes. Each entry is one flat file named after its sanitized
// key; the file's modification time is the entry's timestamp.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultTTL applies when a caller passes a non-positive TTL.
	DefaultTTL = 300 * time.Second

	maxKeyLen = 64
	emptyKey  = "_empty_"
)

// Environment variables consulted by FromEnv.
const (
	EnvDir = "STATUSLINE_CACHE_DIR"
	EnvTTL = "STATUSLINE_CACHE_TTL"
)

// Store reads and writes cache entries under one directory.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New returns a store rooted at dir. ttl is the default freshness window.
func New(dir string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// FromEnv builds a store from STATUSLINE_CACHE_DIR and STATUSLINE_CACHE_TTL,
// defaulting to ~/.cache/ultimate-statusline and 300 seconds.
func FromEnv() *Store {
	dir := os.Getenv(EnvDir)
	if dir == "" {
		dir = DefaultDir()
	}
	return New(dir, ParseTTL(os.Getenv(EnvTTL)))
}

// DefaultDir is ~/.cache/ultimate-statusline.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "ultimate-statusline")
}

// ParseTTL reads a TTL in whole seconds. Empty or invalid input yields
// DefaultTTL.
func ParseTTL(s string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultTTL
	}
	return time.Duration(n) * time.Second
}

// WithClock replaces the store's time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// TTL returns the default freshness window.
func (s *Store) TTL() time.Duration { return s.ttl }

// SanitizeKey maps key onto a safe file name: characters outside
// [A-Za-z0-9_.-] become '_', the result is cut to 64 bytes, and the empty
// key becomes "_empty_". Names made only of dots are rewritten so they can
// never address the directory itself or its parent.
func SanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if len(out) > maxKeyLen {
		out = out[:maxKeyLen]
	}
	if out == "" {
		return emptyKey
	}
	if strings.Trim(out, ".") == "" {
		return strings.Repeat("_", len(out))
	}
	return out
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, SanitizeKey(key))
}

// Get returns the cached value for key when it is younger than ttl. A stale
// entry is deleted. Any I/O problem is a miss.
func (s *Store) Get(key string, ttl time.Duration) (string, bool) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	p := s.path(key)
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if s.now().Sub(info.ModTime()) >= ttl {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Debug("cache: remove stale entry", "key", key, "err", err)
		}
		return "", false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores value under key. The value is written to a temporary file in
// the cache directory and renamed into place, so readers never observe a
// partial write; concurrent writers race and the last rename wins.
func (s *Store) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	name := SanitizeKey(key)
	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close entry %s: %w", name, err)
	}

	now := s.now()
	if err := os.Chtimes(tmpPath, now, now); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stamp entry %s: %w", name, err)
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename entry %s: %w", name, err)
	}
	return nil
}

// GetOrCompute returns the cached value for key or computes, stores and
// returns a fresh one. A failed computation is returned but not stored; a
// failed store is logged and the computed value still returned.
func (s *Store) GetOrCompute(key string, ttl time.Duration, compute func() (string, error)) (string, error) {
	if v, ok := s.Get(key, ttl); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return "", err
	}
	if err := s.Set(key, v); err != nil {
		log.Debug("cache: store failed", "key", key, "err", err)
	}
	return v, nil
}

// Clear removes every entry in the cache directory and returns how many were
// removed. Subdirectories and anything outside the directory are left alone.
// A missing directory is not an error.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}
