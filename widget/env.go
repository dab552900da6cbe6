package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

func (r *Registry) mcpStatus(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	label := opts.String("label", "MCP")
	if in.MCPServers != nil {
		connected := 0
		for _, s := range in.MCPServers {
			if s.Status == "connected" {
				connected++
			}
		}
		total := len(in.MCPServers)
		text := fmt.Sprintf("%s %d/%d", label, connected, total)
		if connected == total {
			return th.Paint("mcp_ok", opts.String("icon_ok", "●")) + " " + text
		}
		return th.Paint("mcp_error", opts.String("icon_error", "●")) + " " + text
	}

	global := opts.String("config_path", filepath.Join(r.home, ".claude.json"))
	n := countMCPServers(config.ExpandHome(global))
	if dir := in.Workspace.ProjectDir; dir != "" {
		n += countMCPServers(filepath.Join(dir, ".mcp.json"))
	}
	if n == 0 {
		return ""
	}
	return th.Paint("mcp_unknown", fmt.Sprintf("%s %s %d", opts.String("icon_unknown", "○"), label, n))
}

func countMCPServers(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var doc struct {
		MCPServers map[string]any `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0
	}
	return len(doc.MCPServers)
}

func (r *Registry) tmuxInfo(ctx context.Context, _ *core.Session, opts config.Options, th *config.Theme) string {
	s, err := r.query.TmuxSession(ctx, opts.Bool("show_window", false))
	if err != nil || s == "" {
		return ""
	}
	return th.Paint("info", opts.String("icon", "")+s)
}

// Directory styles.
const (
	DirBasename = "basename"
	DirFull     = "full"
	DirFish     = "fish"
)

// FormatDir renders dir in the given style. full and fish paths are made
// home-relative and, past maxSegments segments, cut to the last ones behind
// a leading "…/". fish abbreviates every segment but the last to its first
// character (keeping a leading dot).
func FormatDir(dir, home, style string, maxSegments int) string {
	if dir == "" {
		return ""
	}
	dir = filepath.Clean(dir)
	if style != DirFull && style != DirFish {
		return filepath.Base(dir)
	}

	prefix := ""
	rel := dir
	switch {
	case home != "" && dir == home:
		return "~"
	case home != "" && strings.HasPrefix(dir, home+string(filepath.Separator)):
		prefix = "~/"
		rel = strings.TrimPrefix(dir, home+string(filepath.Separator))
	case strings.HasPrefix(dir, string(filepath.Separator)):
		prefix = "/"
		rel = strings.TrimPrefix(dir, string(filepath.Separator))
	}
	if rel == "" {
		return prefix
	}

	segs := strings.Split(rel, string(filepath.Separator))
	if style == DirFish {
		for i := 0; i < len(segs)-1; i++ {
			segs[i] = abbreviate(segs[i])
		}
	}
	if maxSegments > 0 && len(segs) > maxSegments {
		return ellipsis + "/" + strings.Join(segs[len(segs)-maxSegments:], "/")
	}
	return prefix + strings.Join(segs, "/")
}

func abbreviate(seg string) string {
	runes := []rune(seg)
	if len(runes) == 0 {
		return seg
	}
	if runes[0] == '.' && len(runes) > 1 {
		return string(runes[:2])
	}
	return string(runes[:1])
}

// truncateLeft keeps the rightmost cells of s behind an ellipsis so the
// result fits in limit cells.
func truncateLeft(s string, limit int) string {
	if limit <= 0 || runewidth.StringWidth(s) <= limit {
		return s
	}
	budget := limit - runewidth.StringWidth(ellipsis)
	runes := []rune(s)
	i, w := len(runes), 0
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > budget {
			break
		}
		w += rw
		i--
	}
	return ellipsis + string(runes[i:])
}

func (r *Registry) directory(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	text := FormatDir(in.Dir(), r.home, opts.String("style", DirBasename), opts.Int("max_segments", 3))
	if text == "" {
		return ""
	}
	text = truncateLeft(text, opts.Int("max_length", 0))
	return th.Paint("directory", opts.String("icon", "")+text)
}

var semverRe = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`)

// ExtractVersion finds the first semantic version in s.
func ExtractVersion(s string) (string, bool) {
	v := semverRe.FindString(s)
	return v, v != ""
}

func (r *Registry) version(ctx context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	var raw string
	if opts.String("source", "command") == "session" {
		raw = in.Version
	} else {
		out, err := r.query.ToolVersion(ctx, opts.String("command", "claude"))
		if err != nil {
			return th.Paint("info", "?")
		}
		raw = out
	}
	v, ok := ExtractVersion(raw)
	if !ok {
		return th.Paint("info", "?")
	}
	return th.Paint("info", opts.String("prefix", "")+v)
}

func outputStyle(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	name := in.OutputStyleName()
	if name == "" {
		name = opts.String("default", "default")
	}
	return th.Paint("info", opts.String("icon", "")+name)
}

func messageCount(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	n := in.MessageCountText()
	if n == "" {
		n = opts.String("default", "0")
	}
	return th.Paint("info", opts.String("icon", "")+n)
}
