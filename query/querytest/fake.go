// Package querytest provides a scripted Querier for tests.
package querytest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ThrownLemon/claude-code-plugins/query"
)

// Fake answers every query from its fields and records each call by method
// name. The zero value behaves like a machine outside any repository with
// no tools installed.
type Fake struct {
	Branch    string
	Status    []string
	TopLevel  string
	Commits   int
	ShortStat string
	Versions  map[string]string
	Costs     map[string]float64
	Tmux      string
	Commands  map[string]string

	// GitErr, when set, fails every git query. With no Branch or TopLevel
	// set the git queries fail with query.ErrNotRepo.
	GitErr error

	mu    sync.Mutex
	calls []string
}

var _ query.Querier = (*Fake)(nil)

func (f *Fake) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// Calls returns the recorded method names in call order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) gitErr() error {
	if f.GitErr != nil {
		return f.GitErr
	}
	if f.Branch == "" && f.TopLevel == "" {
		return query.ErrNotRepo
	}
	return nil
}

func (f *Fake) GitBranch(context.Context, string) (string, error) {
	f.record("GitBranch")
	if err := f.gitErr(); err != nil {
		return "", err
	}
	return f.Branch, nil
}

func (f *Fake) GitStatus(context.Context, string) ([]string, error) {
	f.record("GitStatus")
	if err := f.gitErr(); err != nil {
		return nil, err
	}
	return f.Status, nil
}

func (f *Fake) GitTopLevel(context.Context, string) (string, error) {
	f.record("GitTopLevel")
	if err := f.gitErr(); err != nil {
		return "", err
	}
	return f.TopLevel, nil
}

func (f *Fake) CommitsSince(context.Context, string, time.Time) (int, error) {
	f.record("CommitsSince")
	if err := f.gitErr(); err != nil {
		return 0, err
	}
	return f.Commits, nil
}

func (f *Fake) DiffShortStat(context.Context, string) (string, error) {
	f.record("DiffShortStat")
	if err := f.gitErr(); err != nil {
		return "", err
	}
	return f.ShortStat, nil
}

func (f *Fake) ToolVersion(_ context.Context, name string) (string, error) {
	f.record("ToolVersion")
	v, ok := f.Versions[name]
	if !ok {
		return "", query.ErrToolMissing
	}
	return v, nil
}

func (f *Fake) UsageCost(_ context.Context, period string) (float64, error) {
	f.record("UsageCost")
	c, ok := f.Costs[period]
	if !ok {
		return 0, query.ErrToolMissing
	}
	return c, nil
}

func (f *Fake) TmuxSession(context.Context, bool) (string, error) {
	f.record("TmuxSession")
	return f.Tmux, nil
}

// RunCommand looks up the command line (name and args joined by spaces) in
// Commands.
func (f *Fake) RunCommand(_ context.Context, name string, args []string) (string, error) {
	f.record("RunCommand")
	line := strings.Join(append([]string{name}, args...), " ")
	out, ok := f.Commands[line]
	if !ok {
		return "", query.ErrToolMissing
	}
	return out, nil
}
