package widget

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ThrownLemon/claude-code-plugins/color"
	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

// ContextPercent is floor(used*100/window), or 0 for a non-positive window.
func ContextPercent(in *core.Session) int {
	window := in.ContextWindow.ContextWindowSize
	if window <= 0 {
		return 0
	}
	return in.UsedTokens() * 100 / window
}

func contextPercent(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	pct := ContextPercent(in)
	text := fmt.Sprintf("%d%%", pct)
	if opts.Bool("show_bar", false) {
		bar := color.ProgressBar(float64(pct), opts.Int("bar_length", 10), opts.String("empty_char", ""), opts.String("fill_char", ""))
		if bar != "" {
			text = bar + " " + text
		}
	}

	esc := color.ThresholdColor(float64(pct),
		opts.Float("low", 50), opts.Float("mid", 75), opts.Float("high", 90),
		themeFG(th, "context_low", "green"), themeFG(th, "context_mid", "yellow"), themeFG(th, "context_high", "red"),
	)
	if esc == "" {
		return text
	}
	return esc + text + color.Reset
}

// themeFG returns the theme's foreground for category, or def.
func themeFG(th *config.Theme, category, def string) string {
	if fg := th.Color(category).FG; fg != "" {
		return fg
	}
	return def
}

func contextLength(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	used := int64(in.UsedTokens())
	window := int64(in.ContextWindow.ContextWindowSize)
	var text string
	if opts.String("format", "short") == "long" {
		text = humanize.Comma(used) + "/" + humanize.Comma(window) + " tokens"
	} else {
		text = color.FormatNumber(used) + "/" + color.FormatNumber(window)
	}
	return th.Paint("context", text)
}

// UsablePercent is the share of the window still free, 100 for a
// non-positive window and never below zero.
func UsablePercent(in *core.Session) int {
	window := in.ContextWindow.ContextWindowSize
	if window <= 0 {
		return 100
	}
	pct := (window - in.UsedTokens()) * 100 / window
	return max(pct, 0)
}

func contextUsable(_ context.Context, in *core.Session, _ config.Options, th *config.Theme) string {
	return th.Paint("context", fmt.Sprintf("%d%% free", UsablePercent(in)))
}

func tokenCounter(value func(*core.Session) int, icon string) Func {
	return func(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
		return th.Paint("tokens", opts.String("icon", icon)+color.FormatNumber(int64(value(in))))
	}
}
