package widget

import (
	"context"
	"fmt"

	"github.com/ThrownLemon/claude-code-plugins/color"
	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

func sessionClock(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	d := color.FormatDuration(in.Cost.TotalDurationMS, opts.String("style", color.DurationShort))
	return th.Paint("time", opts.String("icon", "")+d)
}

// BlockPosition splits durationMS into the time elapsed in the current usage
// block and the time remaining in it. Blocks are windowHours long; a
// non-positive window falls back to five hours.
func BlockPosition(durationMS int64, windowHours float64) (elapsed, remaining, window int64) {
	if windowHours <= 0 {
		windowHours = 5
	}
	window = int64(windowHours * 3_600_000)
	if window <= 0 {
		window = 5 * 3_600_000
	}
	if durationMS < 0 {
		durationMS = 0
	}
	elapsed = durationMS % window
	return elapsed, window - elapsed, window
}

func blockBar(opts config.Options, elapsed, window int64) string {
	if !opts.Bool("show_bar", false) {
		return ""
	}
	bar := color.ProgressBar(float64(elapsed)*100/float64(window), opts.Int("bar_length", 5), "", "")
	if bar == "" {
		return ""
	}
	return " " + bar
}

func blockTimer(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	elapsed, _, window := BlockPosition(in.Cost.TotalDurationMS, opts.Float("window_hours", 5))
	text := opts.String("icon", "") + color.FormatDuration(elapsed, color.DurationShort) + blockBar(opts, elapsed, window)
	return th.Paint("time", text)
}

func resetTimer(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	elapsed, remaining, window := BlockPosition(in.Cost.TotalDurationMS, opts.Float("window_hours", 5))
	text := opts.String("icon", "") + color.FormatDuration(remaining, color.DurationShort) + blockBar(opts, elapsed, window)
	return th.Paint("time", text)
}

func responseTime(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	ms := in.Cost.TotalAPIDurationMS
	var text string
	if opts.String("unit", "ms") == "s" {
		text = fmt.Sprintf("%ds", ms/1000)
	} else {
		text = fmt.Sprintf("%dms", ms)
	}
	return th.Paint("time", opts.String("icon", "")+text)
}
