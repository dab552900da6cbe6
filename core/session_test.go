package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    bool
		wantWindow int
		wantUsed   int
	}{
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "  \n\t",
			wantErr: true,
		},
		{
			name:    "invalid json",
			input:   "{not json",
			wantErr: true,
		},
		{
			name:       "missing window size defaults",
			input:      `{"context_window":{"total_input_tokens":10,"total_output_tokens":5}}`,
			wantWindow: DefaultContextWindow,
			wantUsed:   15,
		},
		{
			name:       "explicit zero window kept",
			input:      `{"context_window":{"context_window_size":0}}`,
			wantWindow: 0,
		},
		{
			name:       "empty object",
			input:      `{}`,
			wantWindow: DefaultContextWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWindow, s.ContextWindow.ContextWindowSize)
			assert.Equal(t, tt.wantUsed, s.UsedTokens())
		})
	}
}

func TestParseEmptyInputSentinel(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseFullInput(t *testing.T) {
	input := `{
		"session_id": "abc",
		"model": {"id": "claude-opus-4-5", "display_name": "Opus 4.5"},
		"context_window": {"total_input_tokens": 45000, "total_output_tokens": 8000, "context_window_size": 200000, "cached_tokens": 300},
		"cost": {"total_cost_usd": 2.34, "total_duration_ms": 3600000},
		"workspace": {"current_dir": "/home/dev/project"},
		"mcp_servers": [{"name": "a", "status": "connected"}, {"name": "b", "status": "failed"}],
		"output_style": {"name": "explanatory"},
		"message_count": 7
	}`

	s, err := Parse([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "Opus 4.5", s.Model.DisplayName)
	assert.Equal(t, 53000, s.UsedTokens())
	assert.Equal(t, 300, s.ContextWindow.CachedTokens)
	assert.InDelta(t, 2.34, s.Cost.TotalCostUSD, 1e-9)
	assert.Equal(t, int64(3600000), s.Cost.TotalDurationMS)
	assert.Equal(t, "/home/dev/project", s.Dir())
	assert.Len(t, s.MCPServers, 2)
	assert.Equal(t, "explanatory", s.OutputStyleName())
	assert.Equal(t, "7", s.MessageCountText())
}

func TestMCPServersAbsent(t *testing.T) {
	s, err := Parse([]byte(`{"model":{"display_name":"Sonnet"}}`))
	require.NoError(t, err)
	assert.Nil(t, s.MCPServers)
}

func TestOutputStyleName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"concise"`, "concise"},
		{"object", `{"name":"learning"}`, "learning"},
		{"number", `3`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{OutputStyle: []byte(tt.raw)}
			assert.Equal(t, tt.want, s.OutputStyleName())
		})
	}
}

func TestDirFallbacks(t *testing.T) {
	assert.Equal(t, "/a", (&Session{Workspace: Workspace{CurrentDir: "/a", ProjectDir: "/c"}, CWD: "/b"}).Dir())
	assert.Equal(t, "/b", (&Session{Workspace: Workspace{ProjectDir: "/c"}, CWD: "/b"}).Dir())
	assert.Equal(t, "/c", (&Session{Workspace: Workspace{ProjectDir: "/c"}}).Dir())
	assert.Equal(t, "", (&Session{}).Dir())
}

func TestMessageCountText(t *testing.T) {
	assert.Equal(t, "", (&Session{}).MessageCountText())
	assert.Equal(t, "", (&Session{MessageCount: []byte("null")}).MessageCountText())
	assert.Equal(t, "42", (&Session{MessageCount: []byte(`"42"`)}).MessageCountText())
	assert.Equal(t, "3.5", (&Session{MessageCount: []byte(`3.5`)}).MessageCountText())
}

func TestParseMistypedFieldsDegrade(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s *Session)
	}{
		{
			name:  "fractional duration",
			input: `{"model":{"display_name":"Opus 4.5"},"cost":{"total_cost_usd":2.34,"total_duration_ms":1234.5}}`,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, "Opus 4.5", s.Model.DisplayName)
				assert.InDelta(t, 2.34, s.Cost.TotalCostUSD, 1e-9)
				assert.Equal(t, int64(1234), s.Cost.TotalDurationMS)
			},
		},
		{
			name:  "object mcp_servers reads as absent",
			input: `{"model":{"display_name":"Opus"},"mcp_servers":{}}`,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, "Opus", s.Model.DisplayName)
				assert.Nil(t, s.MCPServers)
			},
		},
		{
			name:  "bad mcp entries skipped",
			input: `{"mcp_servers":[{"name":"a","status":"connected"},"junk",7]}`,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, []MCPServer{{Name: "a", Status: "connected"}}, s.MCPServers)
			},
		},
		{
			name:  "string where number expected",
			input: `{"context_window":{"total_input_tokens":"1000","total_output_tokens":"lots","context_window_size":"2000"}}`,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, 1000, s.UsedTokens())
				assert.Equal(t, 2000, s.ContextWindow.ContextWindowSize)
			},
		},
		{
			name:  "unusable window size defaults",
			input: `{"context_window":{"context_window_size":true}}`,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, DefaultContextWindow, s.ContextWindow.ContextWindowSize)
			},
		},
		{
			name:  "number where string expected",
			input: `{"model":{"display_name":42},"cwd":"/w","workspace":"nope"}`,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, "", s.Model.DisplayName)
				assert.Equal(t, "/w", s.Dir())
			},
		},
		{
			name:  "section of the wrong type",
			input: `{"model":"Opus","cost":[1,2],"session_id":"x"}`,
			check: func(t *testing.T, s *Session) {
				assert.Equal(t, Model{}, s.Model)
				assert.Equal(t, Cost{}, s.Cost)
				assert.Equal(t, "x", s.SessionID)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"str"`, `42`} {
		_, err := Parse([]byte(in))
		assert.Error(t, err, in)
	}
}
