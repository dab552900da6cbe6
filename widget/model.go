package widget

import (
	"context"
	"strings"

	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

var families = []string{"opus", "sonnet", "haiku"}

// family returns "opus", "sonnet" or "haiku" when s names one, else "".
func family(s string) string {
	s = strings.ToLower(s)
	for _, f := range families {
		if strings.Contains(s, f) {
			return f
		}
	}
	return ""
}

func modelEmoji(_ context.Context, in *core.Session, opts config.Options, _ *config.Theme) string {
	id := in.Model.ID
	if id == "" {
		id = in.Model.DisplayName
	}
	if f := family(id); f != "" {
		return opts.String(f, defaultEmoji[f])
	}
	return opts.String("default", "🤖")
}

var defaultEmoji = map[string]string{
	"opus":   "🎭",
	"sonnet": "🎵",
	"haiku":  "🍃",
}

func modelName(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	name := in.Model.DisplayName
	if name == "" {
		name = in.Model.ID
	}
	if name == "" {
		return ""
	}
	if opts.Bool("short", true) {
		if f := family(name); f != "" {
			name = strings.ToUpper(f[:1]) + f[1:]
		}
	}
	return th.Paint("model", name)
}
