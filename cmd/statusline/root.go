package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/term"
	"github.com/urfave/cli/v3"

	"github.com/ThrownLemon/claude-code-plugins/cache"
	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/render"
)

func newRoot() *cli.Command {
	return &cli.Command{
		Name:  "statusline",
		Usage: "Render a configurable status line for Claude Code",
		Description: `Reads the session JSON Claude Code pipes to its statusLine command and
prints one or more lines of widgets: model, git state, context usage,
cost, timers and more. Layout, widget options and theme come from
~/.claude/statusline-config.json (JSON or YAML) merged over the
built-in defaults.

Run without a subcommand to render stdin. The render path never fails:
empty or unreadable input prints a fallback line and exits 0.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log",
				Usage:   "Log level: debug, info, warn, error",
				Value:   "error",
				Sources: cli.EnvVars("STATUSLINE_LOG"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Append logs to this file instead of stderr",
				Sources: cli.EnvVars("STATUSLINE_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "User config file (JSON or YAML)",
				Value:   config.DefaultPaths().UserPath,
				Sources: cli.EnvVars(config.EnvConfig),
			},
			&cli.StringFlag{
				Name:    "theme-file",
				Usage:   "User theme file, used when no built-in theme matches",
				Value:   config.DefaultPaths().ThemePath,
				Sources: cli.EnvVars(config.EnvTheme),
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "Theme name, overriding the configured one",
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "Directory for cached git and tool results",
				Value:   cache.DefaultDir(),
				Sources: cli.EnvVars(cache.EnvDir),
			},
			&cli.StringFlag{
				Name:    "cache-ttl",
				Usage:   "Cache TTL in seconds",
				Value:   "300",
				Sources: cli.EnvVars(cache.EnvTTL),
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Strip ANSI colors (also set by a non-empty NO_COLOR)",
			},
		},
		Before: setupLogging,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			in := cmd.Root().Reader
			if in == nil {
				in = os.Stdin
			}
			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			renderStdin(ctx, newApp(cmd), in, out)
			return nil
		},
		Commands: []*cli.Command{
			previewCmd(),
			themesCmd(),
			widgetsCmd(),
			configCmd(),
			cacheCmd(),
			installCmd(),
			versionCmd(),
		},
	}
}

// setupLogging applies --log and --log-file. A bad level or an unopenable
// log file is reported and ignored so the render path still prints.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	log.SetOutput(os.Stderr)
	if p := cmd.String("log-file"); p != "" {
		f, err := os.OpenFile(config.ExpandHome(p), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Warn("open log file", "path", p, "err", err)
		} else {
			log.SetOutput(f)
		}
	}

	level, err := log.ParseLevel(cmd.String("log"))
	if err != nil {
		log.Warn("invalid log level", "level", cmd.String("log"), "err", err)
		level = log.ErrorLevel
	}
	log.SetLevel(level)
	return ctx, nil
}

// renderStdin is the statusLine contract: read the session from in, write
// the status line to out. An interactive stdin would block forever, so it
// gets the fallback line instead.
func renderStdin(ctx context.Context, a *app, in io.Reader, out io.Writer) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		log.Debug("stdin is a terminal, not waiting for session input")
		writeLine(out, render.Fallback+"\n")
		return
	}
	a.renderer.Run(ctx, in, out)
}

// writeLine writes a finished status line. Claude Code owns the other end
// of out, so a failed write is logged rather than returned.
func writeLine(out io.Writer, line string) {
	if _, err := io.WriteString(out, line); err != nil {
		log.Warn("write statusline", "err", err)
	}
}
