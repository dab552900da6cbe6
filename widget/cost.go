package widget

import (
	"context"
	"strconv"

	"github.com/ThrownLemon/claude-code-plugins/color"
	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

const defaultDecimals = 2

func sessionCost(_ context.Context, in *core.Session, opts config.Options, th *config.Theme) string {
	decimals := opts.Int("decimals", defaultDecimals)
	if !config.ValidDecimals(decimals) {
		decimals = defaultDecimals
	}
	text := opts.String("icon", "$") + strconv.FormatFloat(in.Cost.TotalCostUSD, 'f', decimals, 64)
	return th.Paint("cost", text)
}

func (r *Registry) usageCost(period string) Func {
	return func(ctx context.Context, _ *core.Session, opts config.Options, th *config.Theme) string {
		label := opts.String("label", "")
		cost, err := r.query.UsageCost(ctx, period)
		if err != nil {
			return th.Paint("cost", label+"N/A")
		}
		return th.Paint("cost", label+"$"+strconv.FormatFloat(cost, 'f', 2, 64))
	}
}

func burnRate(_ context.Context, in *core.Session, _ config.Options, th *config.Theme) string {
	hours := float64(in.Cost.TotalDurationMS) / 3_600_000
	return th.Paint("cost", "$"+color.FloatDiv(in.Cost.TotalCostUSD, hours, 2)+"/hr")
}

func budgetAlert(_ context.Context, in *core.Session, opts config.Options, _ *config.Theme) string {
	if !color.FloatGTE(in.Cost.TotalCostUSD, opts.Float("threshold", 10)) {
		return ""
	}
	return color.Colorize(opts.String("icon", "⚠ ")+opts.String("label", "Budget"), "red", "", true)
}
