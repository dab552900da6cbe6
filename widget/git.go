package widget

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

const ellipsis = "…"

// truncate cuts s to limit display cells, ending in an ellipsis when cut.
func truncate(s string, limit int) string {
	if limit <= 0 || runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, ellipsis)
}

func (r *Registry) gitBranch(ctx context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	branch, err := r.query.GitBranch(ctx, in.Dir())
	if err != nil || branch == "" {
		return ""
	}
	branch = truncate(branch, opts.Int("max_length", 20))
	return th.Paint("git", opts.String("icon", "")+branch)
}

// ChangeCounts tallies porcelain status lines.
type ChangeCounts struct {
	Added, Modified, Deleted int
}

// CountChanges classifies porcelain lines: "A" or "??" is added, "M" or
// " M" modified, "D" or " D" deleted. Each category is counted on its own.
func CountChanges(lines []string) ChangeCounts {
	var c ChangeCounts
	for _, l := range lines {
		if strings.HasPrefix(l, "A") || strings.HasPrefix(l, "??") {
			c.Added++
		}
		if strings.HasPrefix(l, "M") || strings.HasPrefix(l, " M") {
			c.Modified++
		}
		if strings.HasPrefix(l, "D") || strings.HasPrefix(l, " D") {
			c.Deleted++
		}
	}
	return c
}

func (r *Registry) gitChanges(ctx context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	lines, err := r.query.GitStatus(ctx, in.Dir())
	if err != nil {
		return ""
	}
	c := CountChanges(lines)

	var parts []string
	if c.Added > 0 {
		parts = append(parts, th.Paint("git_added", opts.String("icon_added", "+")+strconv.Itoa(c.Added)))
	}
	if c.Modified > 0 {
		parts = append(parts, th.Paint("git_modified", opts.String("icon_modified", "~")+strconv.Itoa(c.Modified)))
	}
	if c.Deleted > 0 {
		parts = append(parts, th.Paint("git_deleted", opts.String("icon_deleted", "-")+strconv.Itoa(c.Deleted)))
	}
	if len(parts) == 0 {
		if opts.Bool("show_clean", false) {
			return th.Paint("git_added", opts.String("icon_clean", "✓"))
		}
		return ""
	}
	return strings.Join(parts, " ")
}

func (r *Registry) gitWorktree(ctx context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	top, err := r.query.GitTopLevel(ctx, in.Dir())
	if err != nil || top == "" {
		return ""
	}
	return th.Paint("git", opts.String("icon", "")+filepath.Base(top))
}

func (r *Registry) commitsToday(ctx context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	now := r.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	n, err := r.query.CommitsSince(ctx, in.Dir(), midnight)
	if err != nil {
		return ""
	}
	return th.Paint("git", opts.String("icon", "")+strconv.Itoa(n))
}

var (
	insertionsRe = regexp.MustCompile(`(\d+) insertions?\(\+\)`)
	deletionsRe  = regexp.MustCompile(`(\d+) deletions?\(-\)`)
)

// ParseShortStat extracts the insertion and deletion counts from a
// `git diff --shortstat` line. Missing counts are zero.
func ParseShortStat(line string) (added, removed int) {
	if m := insertionsRe.FindStringSubmatch(line); m != nil {
		added, _ = strconv.Atoi(m[1])
	}
	if m := deletionsRe.FindStringSubmatch(line); m != nil {
		removed, _ = strconv.Atoi(m[1])
	}
	return added, removed
}

func (r *Registry) linesChanged(ctx context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	var added, removed int
	if opts.String("source", "git") == "session" {
		added, removed = in.Cost.TotalLinesAdded, in.Cost.TotalLinesRemoved
	} else {
		stat, err := r.query.DiffShortStat(ctx, in.Dir())
		if err != nil {
			return ""
		}
		added, removed = ParseShortStat(stat)
	}
	return th.Paint("lines_added", fmt.Sprintf("+%d", added)) + " " + th.Paint("lines_removed", fmt.Sprintf("-%d", removed))
}
