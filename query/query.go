// Package query is the statusline's window onto the outside world: git
// repository state, tool versions, usage reports and the terminal
// multiplexer. Widgets depend on the Querier interface only, so tests swap
// in a fake and never start a process.
package query

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotRepo is returned by git queries outside a repository.
	ErrNotRepo = errors.New("not a git repository")
	// ErrToolMissing is returned when an external program is not on PATH.
	ErrToolMissing = errors.New("tool not found")
)

// Usage periods accepted by UsageCost.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Querier answers the questions widgets cannot answer from the session
// input alone. Every method may block on I/O and honors ctx.
type Querier interface {
	// GitBranch returns the checked-out branch, or the short commit hash
	// when HEAD is detached.
	GitBranch(ctx context.Context, dir string) (string, error)
	// GitStatus returns porcelain v1 status lines ("XY path").
	GitStatus(ctx context.Context, dir string) ([]string, error)
	// GitTopLevel returns the root of the working tree containing dir.
	GitTopLevel(ctx context.Context, dir string) (string, error)
	// CommitsSince counts commits reachable from HEAD authored after since.
	CommitsSince(ctx context.Context, dir string, since time.Time) (int, error)
	// DiffShortStat returns the `git diff --shortstat` summary line.
	DiffShortStat(ctx context.Context, dir string) (string, error)
	// ToolVersion returns the raw `<name> --version` output.
	ToolVersion(ctx context.Context, name string) (string, error)
	// UsageCost returns the current period's spend in USD from ccusage.
	UsageCost(ctx context.Context, period string) (float64, error)
	// TmuxSession returns the tmux session name, with ":window" appended
	// when withWindow is set. Outside tmux it returns "".
	TmuxSession(ctx context.Context, withWindow bool) (string, error)
	// RunCommand runs name with args and returns trimmed stdout.
	RunCommand(ctx context.Context, name string, args []string) (string, error)
}
