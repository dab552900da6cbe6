package install

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThrownLemon/claude-code-plugins/config"
)

func readSettings(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, ".claude", "settings.json")
	userConfig := filepath.Join(dir, ".claude", "statusline-config.json")

	res, err := Run(Config{
		SettingsPath: settings,
		Command:      "/usr/local/bin/statusline",
		ConfigPath:   userConfig,
	})
	require.NoError(t, err)
	assert.False(t, res.Unchanged)
	assert.True(t, res.Seeded)

	t.Run("statusLine written", func(t *testing.T) {
		m := readSettings(t, settings)
		assert.Equal(t, map[string]any{
			"type":    "command",
			"command": "/usr/local/bin/statusline",
			"padding": 0.0,
		}, m["statusLine"])
	})

	t.Run("user config seeded from defaults", func(t *testing.T) {
		data, err := os.ReadFile(userConfig)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultBytes(), data)
	})

	t.Run("no temp files left", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(dir, ".claude"))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestRunPreservesOtherSettings(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{
  "model": "opus",
  "hooks": {"SessionEnd": [{"hooks": [{"type": "command", "command": "save.sh"}]}]}
}`), 0o644))

	_, err := Run(Config{SettingsPath: settings, Command: "statusline"})
	require.NoError(t, err)

	m := readSettings(t, settings)
	assert.Equal(t, "opus", m["model"])
	assert.Contains(t, m, "hooks")
	assert.Contains(t, m, "statusLine")
}

func TestRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	userConfig := filepath.Join(dir, "config.json")
	cfg := Config{SettingsPath: settings, Command: "statusline", ConfigPath: userConfig}

	_, err := Run(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(userConfig, []byte(`{"theme":"nord"}`), 0o644))

	res, err := Run(cfg)
	require.NoError(t, err)
	assert.True(t, res.Unchanged)
	assert.False(t, res.Seeded)

	data, err := os.ReadFile(userConfig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"nord"}`, string(data), "an existing user config is never overwritten")
}

func TestRunRefusesOtherCommand(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	existing := `{"statusLine": {"type": "command", "command": "other-tool"}}`
	require.NoError(t, os.WriteFile(settings, []byte(existing), 0o644))

	_, err := Run(Config{SettingsPath: settings, Command: "statusline"})
	require.ErrorIs(t, err, ErrAlreadyConfigured)
	assert.Contains(t, err.Error(), "other-tool")

	data, err := os.ReadFile(settings)
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))

	res, err := Run(Config{SettingsPath: settings, Command: "statusline", Force: true})
	require.NoError(t, err)
	assert.Equal(t, "other-tool", res.Previous)
	assert.Equal(t, "statusline", readSettings(t, settings)["statusLine"].(map[string]any)["command"])
}

func TestRunInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{"model": `), 0o644))

	_, err := Run(Config{SettingsPath: settings, Command: "statusline", Force: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update Claude settings")

	data, err := os.ReadFile(settings)
	require.NoError(t, err)
	assert.Equal(t, `{"model": `, string(data))
}

func TestRunEmptySettingsFile(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(settings, nil, 0o644))

	_, err := Run(Config{SettingsPath: settings, Command: "statusline"})
	require.NoError(t, err)
	assert.Contains(t, readSettings(t, settings), "statusLine")
}

func TestRunRequiresCommand(t *testing.T) {
	_, err := Run(Config{SettingsPath: filepath.Join(t.TempDir(), "s.json")})
	assert.Error(t, err)
}
