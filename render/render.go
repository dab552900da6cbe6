// Package render turns a session snapshot into statusline text: each layout
// row becomes one line of widget fragments joined by the configured
// separator.
package render

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ThrownLemon/claude-code-plugins/color"
	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
	"github.com/ThrownLemon/claude-code-plugins/widget"
)

// Fallback is printed when stdin holds no usable session.
const Fallback = "Ultimate Statusline"

// SeparatorWidget is the widget that supplies its own spacing.
const SeparatorWidget = "separator"

// Renderer composes rows of widgets.
type Renderer struct {
	store   *config.Store
	widgets *widget.Registry
	theme   string
	noColor bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme forces a theme by name, ahead of the configured one.
func WithTheme(name string) Option {
	return func(r *Renderer) { r.theme = name }
}

// WithNoColor strips every ANSI sequence from the output.
func WithNoColor(on bool) Option {
	return func(r *Renderer) { r.noColor = on }
}

// New returns a Renderer over store and widgets.
func New(store *config.Store, widgets *widget.Registry, opts ...Option) *Renderer {
	r := &Renderer{store: store, widgets: widgets}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RenderLine renders one layout row. Widget bodies run concurrently; the
// join walks the results in layout order. The first non-empty fragment
// starts the line. After that, a fragment from the separator widget, or one
// directly after it, is appended as is; any other fragment gets the
// configured separator in front. The previous name advances even past
// widgets that rendered nothing.
func (r *Renderer) RenderLine(ctx context.Context, names []string, in *core.Session, th *config.Theme) string {
	outs := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i] = r.widgets.Render(ctx, name, in, th)
		}()
	}
	wg.Wait()

	sep := r.store.Separator()
	var b strings.Builder
	started := false
	prev := ""
	for i, name := range names {
		text := outs[i]
		if text != "" {
			switch {
			case !started:
				started = true
			case name == SeparatorWidget, prev == SeparatorWidget:
			default:
				b.WriteString(sep)
			}
			b.WriteString(text)
		}
		prev = name
	}
	return b.String()
}

// RenderSession renders every layout row for in and joins the visible ones
// with newlines. The result has no trailing newline.
func (r *Renderer) RenderSession(ctx context.Context, in *core.Session) string {
	th, src := r.store.Theme(r.theme)
	log.Debug("rendering", "theme", th.Name, "theme_source", src, "config_source", r.store.ConfigSource())

	var lines []string
	for _, row := range r.store.Layout() {
		line := r.RenderLine(ctx, row, in, th)
		if strings.TrimSpace(color.Strip(line)) == "" {
			continue
		}
		lines = append(lines, line)
	}

	out := strings.Join(lines, "\n")
	if r.noColor {
		out = color.Strip(out)
	}
	return out
}

// Render is the full stdin-to-stdout transformation: empty or invalid input
// yields the fallback line. The result always ends in a single newline.
func (r *Renderer) Render(ctx context.Context, stdin []byte) string {
	in, err := core.Parse(stdin)
	if err != nil {
		log.Debug("unusable session input", "err", err)
		return Fallback + "\n"
	}
	return r.RenderSession(ctx, in) + "\n"
}

// Run reads the session from stdin and writes the statusline to w. Read and
// write failures are logged, never returned: the host prompt must not see
// an error from the statusline.
func (r *Renderer) Run(ctx context.Context, stdin io.Reader, w io.Writer) {
	data, err := io.ReadAll(stdin)
	if err != nil {
		log.Warn("read stdin", "err", err)
		data = nil
	}
	if _, err := io.WriteString(w, r.Render(ctx, data)); err != nil {
		log.Warn("write statusline", "err", err)
	}
}
