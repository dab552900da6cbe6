// Package widget holds the catalog of statusline widgets. Each widget is a
// Func producing a short, possibly colored fragment from the session input,
// its own option slice and the active theme; an empty result means the
// widget has nothing to show.
package widget

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
	"github.com/ThrownLemon/claude-code-plugins/query"
)

// Func renders one widget.
type Func func(ctx context.Context, in *core.Session, opts config.Options, th *config.Theme) string

// Registry maps widget names to their Funcs and dispatches with the
// configured enablement.
type Registry struct {
	store *config.Store
	query query.Querier
	now   func() time.Time
	home  string

	funcs map[string]Func
	descs map[string]string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now for widgets that depend on the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithHome sets the home directory used for path shortening and the MCP
// config fallback.
func WithHome(dir string) Option {
	return func(r *Registry) { r.home = dir }
}

// NewRegistry returns a registry populated with the built-in catalog.
func NewRegistry(store *config.Store, q query.Querier, opts ...Option) *Registry {
	home, _ := os.UserHomeDir()
	r := &Registry{
		store: store,
		query: q,
		now:   time.Now,
		home:  home,
		funcs: make(map[string]Func),
		descs: make(map[string]string),
	}
	for _, o := range opts {
		o(r)
	}
	r.registerBuiltins()
	return r
}

// Register adds or replaces a widget.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

func (r *Registry) add(name, desc string, fn Func) {
	r.funcs[name] = fn
	r.descs[name] = desc
}

// Names returns every registered widget name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// Description returns the one-line summary of a built-in widget.
func (r *Registry) Description(name string) string {
	return r.descs[name]
}

// Enabled reports whether the configuration enables name.
func (r *Registry) Enabled(name string) bool {
	return r.store.IsWidgetEnabled(name)
}

// Render runs the widget called name. A disabled widget returns "" without
// running, so none of its queries happen. Unknown names also return "". A
// panicking widget is logged and treated as empty.
func (r *Registry) Render(ctx context.Context, name string, in *core.Session, th *config.Theme) (out string) {
	if !r.store.IsWidgetEnabled(name) {
		return ""
	}
	fn, ok := r.funcs[name]
	if !ok {
		log.Debug("skipping unknown widget", "name", name)
		return ""
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("widget panicked", "name", name, "err", fmt.Sprint(rec))
			out = ""
		}
	}()
	return fn(ctx, in, r.store.WidgetConfig(name), th)
}

func (r *Registry) registerBuiltins() {
	r.add("model_emoji", "emoji for the model family", modelEmoji)
	r.add("model_name", "model display name, shortened to its family by default", modelName)

	r.add("git_branch", "current git branch, truncated", r.gitBranch)
	r.add("git_changes", "added, modified and deleted file counts", r.gitChanges)
	r.add("git_worktree", "name of the git top-level directory", r.gitWorktree)
	r.add("commits_today", "commits since local midnight", r.commitsToday)
	r.add("lines_changed", "lines added and removed in the working tree", r.linesChanged)

	r.add("context_percent", "context window usage with optional bar", contextPercent)
	r.add("context_length", "tokens used over the window size", contextLength)
	r.add("context_usable", "share of the context window still free", contextUsable)
	r.add("tokens_input", "input tokens", tokenCounter(func(in *core.Session) int { return in.ContextWindow.TotalInputTokens }, "↑"))
	r.add("tokens_output", "output tokens", tokenCounter(func(in *core.Session) int { return in.ContextWindow.TotalOutputTokens }, "↓"))
	r.add("tokens_cached", "cached tokens", tokenCounter(func(in *core.Session) int { return in.ContextWindow.CachedTokens }, "⚡"))
	r.add("tokens_total", "input plus output tokens", tokenCounter((*core.Session).UsedTokens, "Σ"))

	r.add("session_cost", "session spend in USD", sessionCost)
	r.add("daily_cost", "today's spend from ccusage", r.usageCost(query.PeriodDaily))
	r.add("weekly_cost", "this week's spend from ccusage", r.usageCost(query.PeriodWeekly))
	r.add("monthly_cost", "this month's spend from ccusage", r.usageCost(query.PeriodMonthly))
	r.add("burn_rate", "spend per hour of session time", burnRate)
	r.add("budget_alert", "warning once spend reaches a threshold", budgetAlert)

	r.add("session_clock", "session duration", sessionClock)
	r.add("block_timer", "time elapsed in the current usage block", blockTimer)
	r.add("reset_timer", "time until the current usage block resets", resetTimer)
	r.add("response_time", "total API response time", responseTime)

	r.add("mcp_status", "connected MCP servers", r.mcpStatus)
	r.add("tmux_info", "tmux session and window", r.tmuxInfo)
	r.add("directory", "working directory as basename, full or fish style", r.directory)
	r.add("version", "version of an external CLI", r.version)
	r.add("output_style", "active output style", outputStyle)
	r.add("message_count", "messages in the session", messageCount)

	r.add("custom_text", "static configured text", customText)
	r.add("custom_command", "output of a whitelisted command", r.customCommand)
	r.add("separator", "explicit separator", r.separator)
}
