package widget

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
	"github.com/ThrownLemon/claude-code-plugins/query"
)

// Markers shown by custom_command instead of running a refused command.
const (
	MarkerUnsafe     = "[unsafe cmd]"
	MarkerNotAllowed = "[cmd not allowed]"
	MarkerNotFound   = "[cmd not found]"
)

// Metacharacters is the set of characters that make a command unsafe.
const Metacharacters = ";|&$`()<>!~#"

// DefaultAllowedCommands is always whitelisted; the allowed option extends it.
var DefaultAllowedCommands = []string{"date", "uptime", "whoami", "hostname", "pwd", "echo", "basename", "dirname"}

// CheckCommand applies the custom_command policy: a command containing any
// metacharacter is unsafe whatever its name; otherwise its first word must
// be whitelisted. It returns the split command or the refusal marker.
func CheckCommand(command string, extra []string) (fields []string, marker string) {
	if strings.ContainsAny(command, Metacharacters) {
		return nil, MarkerUnsafe
	}
	fields = strings.Fields(command)
	if len(fields) == 0 {
		return nil, ""
	}
	if !slices.Contains(DefaultAllowedCommands, fields[0]) && !slices.Contains(extra, fields[0]) {
		return nil, MarkerNotAllowed
	}
	return fields, ""
}

func (r *Registry) customCommand(ctx context.Context, _ *core.Session, opts config.Options, th *config.Theme) string {
	command := strings.TrimSpace(opts.String("command", ""))
	if command == "" {
		return ""
	}
	fields, marker := CheckCommand(command, opts.Strings("allowed"))
	if marker != "" {
		return marker
	}
	if len(fields) == 0 {
		return ""
	}

	out, err := r.query.RunCommand(ctx, fields[0], fields[1:])
	if errors.Is(err, query.ErrToolMissing) {
		return MarkerNotFound
	}
	if err != nil {
		return ""
	}
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	if out == "" {
		return ""
	}
	return th.Paint("custom", opts.String("icon", "")+out)
}

func customText(_ context.Context, _ *core.Session, opts config.Options, th *config.Theme) string {
	text := opts.String("text", "")
	if text == "" {
		return ""
	}
	return th.Paint("custom", text)
}

func (r *Registry) separator(context.Context, *core.Session, config.Options, *config.Theme) string {
	return r.store.Separator()
}
