// Package core defines the session snapshot that Claude Code pipes to the
// statusline on every prompt render. All widgets read from it; nothing in the
// renderer mutates it.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultContextWindow is used when the input omits context_window_size.
const DefaultContextWindow = 200000

// ErrEmptyInput is returned by Parse when stdin carried no JSON at all.
var ErrEmptyInput = errors.New("empty session input")

// Session is the JSON object received on stdin.
type Session struct {
	SessionID     string        `json:"session_id,omitempty"`
	CWD           string        `json:"cwd,omitempty"`
	Version       string        `json:"version,omitempty"`
	Model         Model         `json:"model"`
	ContextWindow ContextWindow `json:"context_window"`
	Cost          Cost          `json:"cost"`
	Workspace     Workspace     `json:"workspace"`

	// MCPServers is nil when the input carried no mcp_servers array.
	MCPServers []MCPServer `json:"mcp_servers,omitempty"`

	OutputStyle  json.RawMessage `json:"output_style,omitempty"`
	MessageCount json.RawMessage `json:"message_count,omitempty"`
}

// Model identifies the active model.
type Model struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ContextWindow holds cumulative token counters for the session.
type ContextWindow struct {
	TotalInputTokens  int `json:"total_input_tokens"`
	TotalOutputTokens int `json:"total_output_tokens"`
	ContextWindowSize int `json:"context_window_size"`
	CachedTokens      int `json:"cached_tokens"`
}

// Cost holds spend and timing counters.
type Cost struct {
	TotalCostUSD       float64 `json:"total_cost_usd"`
	TotalDurationMS    int64   `json:"total_duration_ms"`
	TotalAPIDurationMS int64   `json:"total_api_duration_ms"`
	TotalLinesAdded    int     `json:"total_lines_added"`
	TotalLinesRemoved  int     `json:"total_lines_removed"`
}

// Workspace holds the directories Claude Code is operating in.
type Workspace struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

// MCPServer is one entry of the mcp_servers array.
type MCPServer struct {
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
}

// Parse decodes one session object. Empty input yields ErrEmptyInput and
// input that is not a JSON object is a wrapped decode error. Inside the
// object every field is read on its own: a field of the wrong type takes its
// zero value instead of failing the whole session. A missing or unusable
// context_window_size defaults to DefaultContextWindow, while an explicit
// zero is kept.
func Parse(data []byte) (*Session, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var top fields
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s := &Session{
		SessionID:    top.str("session_id"),
		CWD:          top.str("cwd"),
		Version:      top.str("version"),
		OutputStyle:  top["output_style"],
		MessageCount: top["message_count"],
	}

	model := top.object("model")
	s.Model = Model{ID: model.str("id"), DisplayName: model.str("display_name")}

	cw := top.object("context_window")
	s.ContextWindow = ContextWindow{
		TotalInputTokens:  int(cw.int64("total_input_tokens")),
		TotalOutputTokens: int(cw.int64("total_output_tokens")),
		CachedTokens:      int(cw.int64("cached_tokens")),
		ContextWindowSize: DefaultContextWindow,
	}
	if size, ok := cw.number("context_window_size"); ok {
		s.ContextWindow.ContextWindowSize = int(size)
	}

	cost := top.object("cost")
	s.Cost = Cost{
		TotalCostUSD:       cost.float("total_cost_usd"),
		TotalDurationMS:    cost.int64("total_duration_ms"),
		TotalAPIDurationMS: cost.int64("total_api_duration_ms"),
		TotalLinesAdded:    int(cost.int64("total_lines_added")),
		TotalLinesRemoved:  int(cost.int64("total_lines_removed")),
	}

	ws := top.object("workspace")
	s.Workspace = Workspace{CurrentDir: ws.str("current_dir"), ProjectDir: ws.str("project_dir")}

	s.MCPServers = top.servers("mcp_servers")
	return s, nil
}

// fields is one JSON object with its values left undecoded.
type fields map[string]json.RawMessage

// object returns the nested object at key, or nil when it is absent or not
// an object.
func (f fields) object(key string) fields {
	var out fields
	if raw, ok := f[key]; ok {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil
		}
	}
	return out
}

func (f fields) str(key string) string {
	var v string
	if raw, ok := f[key]; ok {
		if err := json.Unmarshal(raw, &v); err != nil {
			return ""
		}
	}
	return v
}

// number reads a JSON number or a numeric string.
func (f fields) number(key string) (float64, bool) {
	raw, ok := f[key]
	if !ok {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch v := v.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func (f fields) float(key string) float64 {
	v, _ := f.number(key)
	return v
}

// int64 truncates fractional values toward zero.
func (f fields) int64(key string) int64 {
	v, _ := f.number(key)
	return int64(v)
}

// servers reads the mcp_servers array. Anything but an array reads as
// absent; entries that are not objects are skipped.
func (f fields) servers(key string) []MCPServer {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return nil
	}
	out := make([]MCPServer, 0, len(entries))
	for _, e := range entries {
		var obj fields
		if err := json.Unmarshal(e, &obj); err != nil || obj == nil {
			continue
		}
		out = append(out, MCPServer{Name: obj.str("name"), Status: obj.str("status")})
	}
	return out
}

// UsedTokens is input plus output tokens.
func (s *Session) UsedTokens() int {
	return s.ContextWindow.TotalInputTokens + s.ContextWindow.TotalOutputTokens
}

// Dir returns the directory widgets should describe: the workspace's current
// dir, then cwd, then the project dir.
func (s *Session) Dir() string {
	switch {
	case s.Workspace.CurrentDir != "":
		return s.Workspace.CurrentDir
	case s.CWD != "":
		return s.CWD
	default:
		return s.Workspace.ProjectDir
	}
}

// OutputStyleName returns output_style as text. Claude Code sends either a
// bare string or an object with a name field.
func (s *Session) OutputStyleName() string {
	if len(s.OutputStyle) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(s.OutputStyle, &name); err == nil {
		return name
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(s.OutputStyle, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// MessageCountText returns message_count as text, or "" when absent or null.
func (s *Session) MessageCountText() string {
	return scalarText(s.MessageCount)
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
	return strings.Trim(string(raw), `"`)
}
