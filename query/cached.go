package query

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/ThrownLemon/claude-code-plugins/cache"
)

// Freshness windows for cached answers.
const (
	GitTTL     = 5 * time.Second
	VersionTTL = time.Hour
)

// Cached wraps a Querier with the on-disk cache so repeated renders across
// processes share git and tool lookups. Failures are never cached. The
// usage tier follows the store's configured TTL.
type Cached struct {
	next  Querier
	store *cache.Store
}

// NewCached decorates next with store.
func NewCached(next Querier, store *cache.Store) *Cached {
	return &Cached{next: next, store: store}
}

// dirKey keeps keys for long paths distinct after sanitizing and truncation.
func dirKey(prefix, dir string) string {
	h := fnv.New64a()
	h.Write([]byte(dir))
	return fmt.Sprintf("%s_%016x", prefix, h.Sum64())
}

func (c *Cached) GitBranch(ctx context.Context, dir string) (string, error) {
	return c.store.GetOrCompute(dirKey("git_branch", dir), GitTTL, func() (string, error) {
		return c.next.GitBranch(ctx, dir)
	})
}

func (c *Cached) GitStatus(ctx context.Context, dir string) ([]string, error) {
	v, err := c.store.GetOrCompute(dirKey("git_status", dir), GitTTL, func() (string, error) {
		lines, err := c.next.GitStatus(ctx, dir)
		return strings.Join(lines, "\n"), err
	})
	if err != nil || v == "" {
		return nil, err
	}
	return strings.Split(v, "\n"), nil
}

func (c *Cached) GitTopLevel(ctx context.Context, dir string) (string, error) {
	return c.store.GetOrCompute(dirKey("git_toplevel", dir), GitTTL, func() (string, error) {
		return c.next.GitTopLevel(ctx, dir)
	})
}

func (c *Cached) CommitsSince(ctx context.Context, dir string, since time.Time) (int, error) {
	key := dirKey("git_commits_"+since.Format("20060102"), dir)
	v, err := c.store.GetOrCompute(key, GitTTL, func() (string, error) {
		n, err := c.next.CommitsSince(ctx, dir, since)
		return strconv.Itoa(n), err
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (c *Cached) DiffShortStat(ctx context.Context, dir string) (string, error) {
	return c.store.GetOrCompute(dirKey("git_shortstat", dir), GitTTL, func() (string, error) {
		return c.next.DiffShortStat(ctx, dir)
	})
}

func (c *Cached) ToolVersion(ctx context.Context, name string) (string, error) {
	return c.store.GetOrCompute("version_"+name, VersionTTL, func() (string, error) {
		return c.next.ToolVersion(ctx, name)
	})
}

func (c *Cached) UsageCost(ctx context.Context, period string) (float64, error) {
	v, err := c.store.GetOrCompute("usage_"+period, c.store.TTL(), func() (string, error) {
		cost, err := c.next.UsageCost(ctx, period)
		return strconv.FormatFloat(cost, 'f', -1, 64), err
	})
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(v, 64)
}

func (c *Cached) TmuxSession(ctx context.Context, withWindow bool) (string, error) {
	return c.next.TmuxSession(ctx, withWindow)
}

func (c *Cached) RunCommand(ctx context.Context, name string, args []string) (string, error) {
	return c.next.RunCommand(ctx, name, args)
}
