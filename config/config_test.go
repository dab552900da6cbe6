package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDeepMerge(t *testing.T) {
	base := map[string]any{
		"a": 1.0,
		"nested": map[string]any{
			"keep":     "base",
			"override": "base",
			"deeper":   map[string]any{"x": 1.0, "y": 2.0},
		},
		"list":   []any{"a", "b"},
		"nulled": "kept",
	}
	override := map[string]any{
		"nested": map[string]any{
			"override": "user",
			"deeper":   map[string]any{"y": 3.0},
			"added":    true,
		},
		"list":   []any{"c"},
		"nulled": nil,
		"new":    "value",
	}

	got := DeepMerge(base, override)

	assert.Equal(t, map[string]any{
		"a": 1.0,
		"nested": map[string]any{
			"keep":     "base",
			"override": "user",
			"deeper":   map[string]any{"x": 1.0, "y": 3.0},
			"added":    true,
		},
		"list":   []any{"c"},
		"nulled": "kept",
		"new":    "value",
	}, got)

	// inputs untouched
	assert.Equal(t, "base", base["nested"].(map[string]any)["override"])
	assert.Equal(t, []any{"a", "b"}, base["list"])
	assert.Nil(t, override["nulled"])
}

func TestDeepMergeScalarReplacesObject(t *testing.T) {
	got := DeepMerge(
		map[string]any{"theme": map[string]any{"name": "x"}},
		map[string]any{"theme": "nord"},
	)
	assert.Equal(t, "nord", got["theme"])

	got = DeepMerge(
		map[string]any{"theme": "nord"},
		map[string]any{"theme": map[string]any{"name": "x"}},
	)
	assert.Equal(t, map[string]any{"name": "x"}, got["theme"])
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	s := Load(Paths{})

	assert.Equal(t, SourceDefault, s.ConfigSource())
	assert.False(t, s.UserApplied())
	assert.Empty(t, s.Problems())
	assert.Equal(t, DefaultSeparator, s.Separator())
	assert.NotEmpty(t, s.Layout())
	assert.Equal(t, "model_emoji", s.Layout()[0][0])
}

func TestLoadUserJSON(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.json", `{
		"layout": [["model_name", "session_cost"]],
		"widgets": {"session_cost": {"decimals": 3}, "git_branch": {"enabled": false}}
	}`)

	s := Load(Paths{UserPath: user})

	assert.Equal(t, SourceMerged, s.ConfigSource())
	assert.True(t, s.UserApplied())
	assert.Equal(t, [][]string{{"model_name", "session_cost"}}, s.Layout())
	assert.Equal(t, 3, s.WidgetConfig("session_cost").Int("decimals", 2))
	assert.Equal(t, "$", s.WidgetConfig("session_cost").String("icon", ""), "default keys survive the merge")
	assert.False(t, s.IsWidgetEnabled("git_branch"))
	assert.True(t, s.IsWidgetEnabled("model_name"))
}

func TestLoadUserYAML(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.yaml", `
theme: nord
layout:
  - [model_name, directory]
widgets:
  directory:
    style: fish
    max_segments: 2
`)

	s := Load(Paths{UserPath: user})

	assert.Equal(t, SourceMerged, s.ConfigSource())
	assert.Equal(t, [][]string{{"model_name", "directory"}}, s.Layout())
	opts := s.WidgetConfig("directory")
	assert.Equal(t, "fish", opts.String("style", "basename"))
	assert.Equal(t, 2, opts.Int("max_segments", 3))

	th, src := s.Theme("")
	assert.Equal(t, ThemeBuiltin, src)
	assert.Equal(t, "nord", th.Name)
}

func TestLoadMalformedUserFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.json", `{"layout": [["model_name"]`)

	s := Load(Paths{UserPath: user})

	assert.Equal(t, SourceDefault, s.ConfigSource())
	assert.False(t, s.UserApplied())
	require.Len(t, s.Problems(), 1)
	var le *LoadError
	require.ErrorAs(t, s.Problems()[0], &le)
	assert.Equal(t, user, le.Path)
}

func TestLoadNonObjectUser(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.json", `[1, 2, 3]`)

	s := Load(Paths{UserPath: user})

	assert.Equal(t, SourceDefault, s.ConfigSource())
	require.Len(t, s.Problems(), 1)
	assert.ErrorIs(t, s.Problems()[0], ErrNotObject)
}

func TestLoadMissingUserIsNotAProblem(t *testing.T) {
	s := Load(Paths{UserPath: filepath.Join(t.TempDir(), "absent.json")})

	assert.Equal(t, SourceDefault, s.ConfigSource())
	assert.Empty(t, s.Problems())
}

func TestLoadMissingDefaultsUsesMinimal(t *testing.T) {
	dir := t.TempDir()
	s := Load(Paths{DefaultPath: filepath.Join(dir, "missing.json")})

	assert.Equal(t, SourceMinimal, s.ConfigSource())
	require.Len(t, s.Problems(), 1)
	assert.ErrorIs(t, s.Problems()[0], ErrNotFound)
	assert.Equal(t, [][]string{{"model_name"}}, s.Layout())

	user := writeFile(t, dir, "user.json", `{"layout": [["session_cost"]]}`)
	s = Load(Paths{DefaultPath: filepath.Join(dir, "missing.json"), UserPath: user})
	assert.Equal(t, SourceMinimal, s.ConfigSource())
	assert.True(t, s.UserApplied())
	assert.Equal(t, [][]string{{"session_cost"}}, s.Layout())
}

func TestLoadIsSnapshot(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.json", `{"layout": [["model_name"]]}`)
	s := Load(Paths{UserPath: user})

	writeFile(t, dir, "user.json", `{"layout": [["session_cost"]]}`)

	assert.Equal(t, [][]string{{"model_name"}}, s.Layout())
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout any
		want   [][]string
	}{
		{"absent", nil, [][]string{{"model_name"}}},
		{"rows", []any{[]any{"a", "b"}, []any{"c"}}, [][]string{{"a", "b"}, {"c"}}},
		{"flat", []any{"a", "b"}, [][]string{{"a", "b"}}},
		{"empty", []any{}, [][]string{{"model_name"}}},
		{"string", "model_name", [][]string{{"model_name"}}},
		{"mixed row", []any{[]any{"a", 3.0}}, [][]string{{"model_name"}}},
		{"row not list", []any{[]any{"a"}, "b"}, [][]string{{"model_name"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := map[string]any{}
			if tt.layout != nil {
				doc["layout"] = tt.layout
			}
			assert.Equal(t, tt.want, FromMap(doc).Layout())
		})
	}
}

func TestSeparator(t *testing.T) {
	assert.Equal(t, " │ ", FromMap(map[string]any{}).Separator())

	s := FromMap(map[string]any{
		"widgets": map[string]any{"separator": map[string]any{"char": " | ", "powerline": ">"}},
	})
	assert.Equal(t, " | ", s.Separator())

	s = FromMap(map[string]any{
		"powerline": true,
		"widgets":   map[string]any{"separator": map[string]any{"char": " | ", "powerline": ">"}},
	})
	assert.Equal(t, ">", s.Separator())

	s = FromMap(map[string]any{"powerline": true})
	assert.Equal(t, "", s.Separator())
}

func TestWidgetEnablementIsOptOut(t *testing.T) {
	s := FromMap(map[string]any{
		"widgets": map[string]any{
			"off":       map[string]any{"enabled": false},
			"on":        map[string]any{"enabled": true},
			"no_flag":   map[string]any{"icon": "x"},
			"as_string": map[string]any{"enabled": "false"},
		},
	})

	assert.False(t, s.IsWidgetEnabled("off"))
	assert.True(t, s.IsWidgetEnabled("on"))
	assert.True(t, s.IsWidgetEnabled("no_flag"))
	assert.True(t, s.IsWidgetEnabled("never_mentioned"))
	assert.False(t, s.IsWidgetEnabled("as_string"))
	assert.Equal(t, Options{}, s.WidgetConfig("never_mentioned"))
}

func TestGet(t *testing.T) {
	s := FromMap(map[string]any{
		"widgets": map[string]any{"git_branch": map[string]any{"max_length": 12.0}},
	})

	v, ok := s.Get("widgets.git_branch.max_length")
	require.True(t, ok)
	assert.Equal(t, 12.0, v)

	_, ok = s.Get("widgets.git_branch.nope")
	assert.False(t, ok)
	_, ok = s.Get("widgets.git_branch.max_length.deeper")
	assert.False(t, ok)
}

func TestOptions(t *testing.T) {
	o := Options{
		"f":      12.0,
		"i":      7,
		"frac":   2.5,
		"numstr": "42",
		"s":      "text",
		"b":      true,
		"bstr":   "false",
		"list":   []any{"a", 1.0, "b"},
		"nested": map[string]any{"k": "v"},
		"null":   nil,
	}

	assert.Equal(t, 12, o.Int("f", 0))
	assert.Equal(t, 7, o.Int("i", 0))
	assert.Equal(t, 9, o.Int("frac", 9))
	assert.Equal(t, 42, o.Int("numstr", 0))
	assert.Equal(t, 3, o.Int("s", 3))
	assert.Equal(t, 3, o.Int("missing", 3))
	assert.Equal(t, 3, o.Int("null", 3))

	assert.Equal(t, 2.5, o.Float("frac", 0))
	assert.Equal(t, 7.0, o.Float("i", 0))

	assert.Equal(t, "text", o.String("s", ""))
	assert.Equal(t, "12", o.String("f", ""))
	assert.Equal(t, "dflt", o.String("null", "dflt"))

	assert.True(t, o.Bool("b", false))
	assert.False(t, o.Bool("bstr", true))
	assert.True(t, o.Bool("s", true))

	assert.Equal(t, []string{"a", "b"}, o.Strings("list"))
	assert.Nil(t, o.Strings("s"))
	assert.Equal(t, "v", o.Map("nested").String("k", ""))
	assert.Equal(t, Options{}, o.Map("s"))
	assert.True(t, o.Has("s"))
	assert.False(t, o.Has("null"))
}
