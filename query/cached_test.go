package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThrownLemon/claude-code-plugins/cache"
	"github.com/ThrownLemon/claude-code-plugins/query"
	"github.com/ThrownLemon/claude-code-plugins/query/querytest"
)

func count(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestCachedGit(t *testing.T) {
	fake := &querytest.Fake{Branch: "main", Status: []string{" M a.go", "?? b.go"}, Commits: 4}
	q := query.NewCached(fake, cache.New(t.TempDir(), time.Minute))
	ctx := context.Background()

	for range 3 {
		b, err := q.GitBranch(ctx, "/repo")
		require.NoError(t, err)
		assert.Equal(t, "main", b)

		st, err := q.GitStatus(ctx, "/repo")
		require.NoError(t, err)
		assert.Equal(t, []string{" M a.go", "?? b.go"}, st)

		n, err := q.CommitsSince(ctx, "/repo", time.Now())
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	}

	calls := fake.Calls()
	assert.Equal(t, 1, count(calls, "GitBranch"))
	assert.Equal(t, 1, count(calls, "GitStatus"))
	assert.Equal(t, 1, count(calls, "CommitsSince"))

	_, err := q.GitBranch(ctx, "/other")
	require.NoError(t, err)
	assert.Equal(t, 2, count(fake.Calls(), "GitBranch"), "keyed per directory")
}

func TestCachedCleanStatus(t *testing.T) {
	fake := &querytest.Fake{Branch: "main"}
	q := query.NewCached(fake, cache.New(t.TempDir(), time.Minute))

	for range 2 {
		st, err := q.GitStatus(context.Background(), "/repo")
		require.NoError(t, err)
		assert.Empty(t, st)
	}
	assert.Equal(t, 1, count(fake.Calls(), "GitStatus"))
}

func TestCachedFailuresNotStored(t *testing.T) {
	fake := &querytest.Fake{}
	q := query.NewCached(fake, cache.New(t.TempDir(), time.Minute))

	for range 2 {
		_, err := q.GitBranch(context.Background(), "/nowhere")
		assert.ErrorIs(t, err, query.ErrNotRepo)
		_, err = q.ToolVersion(context.Background(), "claude")
		assert.ErrorIs(t, err, query.ErrToolMissing)
	}
	assert.Equal(t, 2, count(fake.Calls(), "GitBranch"))
	assert.Equal(t, 2, count(fake.Calls(), "ToolVersion"))
}

func TestCachedUsageAndVersion(t *testing.T) {
	fake := &querytest.Fake{
		Versions: map[string]string{"claude": "2.0.14 (Claude Code)"},
		Costs:    map[string]float64{query.PeriodDaily: 3.125},
	}
	q := query.NewCached(fake, cache.New(t.TempDir(), time.Minute))
	ctx := context.Background()

	for range 2 {
		v, err := q.ToolVersion(ctx, "claude")
		require.NoError(t, err)
		assert.Equal(t, "2.0.14 (Claude Code)", v)

		c, err := q.UsageCost(ctx, query.PeriodDaily)
		require.NoError(t, err)
		assert.InDelta(t, 3.125, c, 1e-9)
	}
	assert.Equal(t, 1, count(fake.Calls(), "ToolVersion"))
	assert.Equal(t, 1, count(fake.Calls(), "UsageCost"))
}

func TestCachedPassThrough(t *testing.T) {
	fake := &querytest.Fake{Tmux: "work", Commands: map[string]string{"date +%H": "12"}}
	q := query.NewCached(fake, cache.New(t.TempDir(), time.Minute))
	ctx := context.Background()

	for range 2 {
		s, err := q.TmuxSession(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, "work", s)
		out, err := q.RunCommand(ctx, "date", []string{"+%H"})
		require.NoError(t, err)
		assert.Equal(t, "12", out)
	}
	assert.Equal(t, 2, count(fake.Calls(), "TmuxSession"))
	assert.Equal(t, 2, count(fake.Calls(), "RunCommand"))
}
