package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ThrownLemon/claude-code-plugins/color"
	"github.com/ThrownLemon/claude-code-plugins/config"
)

// swatchCategories are the theme categories shown by `statusline themes`.
var swatchCategories = []string{"model", "git", "context", "tokens", "cost", "time", "mcp_ok", "directory", "alert"}

func themesCmd() *cli.Command {
	return &cli.Command{
		Name:  "themes",
		Usage: "List built-in themes with color swatches",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := newApp(cmd)
			active, src := a.store.Theme(cmd.String("theme"))

			var b strings.Builder
			for _, name := range config.BuiltinThemes() {
				th, err := config.BuiltinTheme(name)
				if err != nil {
					return err
				}
				marker := "  "
				if src == config.ThemeBuiltin && active.Name == name {
					marker = "* "
				}
				b.WriteString(marker + styleName.Render(name) + swatches(th) + "\n")
			}
			if src != config.ThemeBuiltin {
				b.WriteString(styleMeta.Render(fmt.Sprintf("\nactive: %s (%s)", active.Name, src)) + "\n")
			}

			out := b.String()
			if noColor(cmd) {
				out = color.Strip(out)
			}
			_, err := fmt.Fprint(cmd.Root().Writer, out)
			return err
		},
	}
}

func swatches(th *config.Theme) string {
	parts := make([]string, 0, len(swatchCategories))
	for _, cat := range swatchCategories {
		parts = append(parts, th.Paint(cat, cat))
	}
	return strings.Join(parts, " ")
}

func widgetsCmd() *cli.Command {
	return &cli.Command{
		Name:  "widgets",
		Usage: "List the widget catalog with its enabled state",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := newApp(cmd)

			inLayout := make(map[string]bool)
			for _, row := range a.store.Layout() {
				for _, name := range row {
					inLayout[name] = true
				}
			}

			var b strings.Builder
			b.WriteString(styleTitle.Render("Widgets") + "\n")
			for _, name := range a.widgets.Names() {
				state := styleOn.Render("on")
				if !a.widgets.Enabled(name) {
					state = styleOff.Render("off")
				}
				mark := " "
				if inLayout[name] {
					mark = "●"
				}
				fmt.Fprintf(&b, "%s %s %s %s\n", mark, styleName.Render(name), state, styleMeta.Render(a.widgets.Description(name)))
			}
			b.WriteString(styleMeta.Render("\n● shown in the current layout") + "\n")

			out := b.String()
			if noColor(cmd) {
				out = color.Strip(out)
			}
			_, err := fmt.Fprint(cmd.Root().Writer, out)
			return err
		},
	}
}
