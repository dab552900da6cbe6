package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/osfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// DefaultTimeout bounds each subprocess started by Local.
const DefaultTimeout = 2 * time.Second

// Local answers queries from the local machine: repositories are read with
// go-git, everything else through short-lived subprocesses.
type Local struct {
	Timeout time.Duration
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// NewLocal returns a Local with the default timeout.
func NewLocal() *Local {
	return &Local{Timeout: DefaultTimeout, Getenv: os.Getenv}
}

func (l *Local) open(dir string) (*git.Repository, error) {
	if dir == "" {
		return nil, ErrNotRepo
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepo
	}
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	return repo, nil
}

func (l *Local) GitBranch(_ context.Context, dir string) (string, error) {
	repo, err := l.open(dir)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			return head.Name().Short(), nil
		}
		return head.Hash().String()[:7], nil
	}
	// unborn branch: HEAD is symbolic but points at nothing yet
	ref, rerr := repo.Storer.Reference(plumbing.HEAD)
	if rerr == nil && ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}
	return "", fmt.Errorf("read HEAD: %w", err)
}

func (l *Local) GitStatus(_ context.Context, dir string) ([]string, error) {
	repo, err := l.open(dir)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	wt.Excludes = append(wt.Excludes, l.globalExcludes()...)
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for p, fs := range status {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		fs := status[p]
		lines = append(lines, fmt.Sprintf("%c%c %s", fs.Staging, fs.Worktree, p))
	}
	return lines, nil
}

// globalExcludes returns the ignore patterns git reads outside the
// repository: the system config's core.excludesFile, then the user's
// core.excludesFile or, when that is unset, $XDG_CONFIG_HOME/git/ignore.
func (l *Local) globalExcludes() []gitignore.Pattern {
	root := osfs.New("/")

	var patterns []gitignore.Pattern
	if ps, err := gitignore.LoadSystemPatterns(root); err == nil {
		patterns = append(patterns, ps...)
	} else {
		log.Debug("query: system excludes", "err", err)
	}

	user, err := gitignore.LoadGlobalPatterns(root)
	if err != nil {
		log.Debug("query: global excludes", "err", err)
	}
	if len(user) == 0 {
		user = readIgnoreFile(l.defaultExcludesFile())
	}
	return append(patterns, user...)
}

func (l *Local) getenv(key string) string {
	if l.Getenv != nil {
		return l.Getenv(key)
	}
	return os.Getenv(key)
}

// defaultExcludesFile is where git looks when core.excludesFile is unset.
func (l *Local) defaultExcludesFile() string {
	if xdg := l.getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home := l.getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

func readIgnoreFile(path string) []gitignore.Pattern {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

func (l *Local) GitTopLevel(_ context.Context, dir string) (string, error) {
	repo, err := l.open(dir)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

func (l *Local) CommitsSince(ctx context.Context, dir string, since time.Time) (int, error) {
	repo, err := l.open(dir)
	if err != nil {
		return 0, err
	}
	if _, err := repo.Head(); err != nil {
		return 0, nil
	}
	// Newest first, so the walk can stop at the first commit before since
	// instead of visiting the whole history.
	iter, err := repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return 0, fmt.Errorf("log: %w", err)
	}
	defer iter.Close()

	n := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil || c.Committer.When.Before(since) {
			return storer.ErrStop
		}
		n++
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return n, fmt.Errorf("walk log: %w", err)
	}
	return n, ctx.Err()
}

func (l *Local) DiffShortStat(ctx context.Context, dir string) (string, error) {
	if _, err := l.open(dir); err != nil {
		return "", err
	}
	return l.run(ctx, dir, "git", "diff", "--shortstat")
}

func (l *Local) ToolVersion(ctx context.Context, name string) (string, error) {
	return l.run(ctx, "", name, "--version")
}

func (l *Local) UsageCost(ctx context.Context, period string) (float64, error) {
	args := []string{period, "--json"}
	if period == PeriodDaily {
		args = append(args, "--since", time.Now().Format("20060102"))
	}
	out, err := l.run(ctx, "", "ccusage", args...)
	if err != nil {
		return 0, err
	}
	return ParseUsageCost([]byte(out), period)
}

// ParseUsageCost extracts the latest period's totalCost from ccusage JSON
// output, falling back to totals.totalCost.
func ParseUsageCost(data []byte, period string) (float64, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse usage report: %w", err)
	}

	type entry struct {
		TotalCost *float64 `json:"totalCost"`
	}
	if raw, ok := doc[period]; ok {
		var entries []entry
		if err := json.Unmarshal(raw, &entries); err == nil && len(entries) > 0 {
			if c := entries[len(entries)-1].TotalCost; c != nil {
				return *c, nil
			}
		}
	}
	if raw, ok := doc["totals"]; ok {
		var totals entry
		if err := json.Unmarshal(raw, &totals); err == nil && totals.TotalCost != nil {
			return *totals.TotalCost, nil
		}
	}
	return 0, fmt.Errorf("usage report has no %s cost", period)
}

func (l *Local) TmuxSession(ctx context.Context, withWindow bool) (string, error) {
	if l.getenv("TMUX") == "" {
		return "", nil
	}
	format := "#S"
	if withWindow {
		format = "#S:#W"
	}
	return l.run(ctx, "", "tmux", "display-message", "-p", format)
}

func (l *Local) RunCommand(ctx context.Context, name string, args []string) (string, error) {
	return l.run(ctx, "", name, args...)
}

func (l *Local) run(ctx context.Context, dir, name string, args ...string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolMissing, name)
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Debug("query: command failed", "cmd", name, "args", args, "stderr", strings.TrimSpace(stderr.String()), "err", err)
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	return strings.TrimSpace(out.String()), nil
}
