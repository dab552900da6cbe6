package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/core"
)

// reloadDebounce collapses the burst of events an editor save produces.
const reloadDebounce = 200 * time.Millisecond

func previewCmd() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Render a sample session with the effective config",
		Description: `Renders a built-in sample session, or the session JSON in --input,
exactly as Claude Code would see it. Use the global --theme flag to try a
theme without editing the config.

With --watch the preview is re-rendered whenever the user config, the
user theme file or the input file changes.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Session JSON file to render instead of the sample",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-render when config or theme files change",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer
			input := cmd.String("input")

			if err := preview(ctx, newApp(cmd), input, out); err != nil {
				return err
			}
			if !cmd.Bool("watch") {
				return nil
			}

			return watchFiles(ctx, watchTargets(cmd, input), func() {
				fmt.Fprintln(out, styleMeta.Render("── reloaded "+time.Now().Format("15:04:05")))
				if err := preview(ctx, newApp(cmd), input, out); err != nil {
					log.Warn("preview", "err", err)
				}
			})
		},
	}
}

// preview writes one rendering of input, or of the sample session when
// input is empty.
func preview(ctx context.Context, a *app, input string, w io.Writer) error {
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		_, err = io.WriteString(w, a.renderer.Render(ctx, data))
		return err
	}

	dir, _ := os.Getwd()
	_, err := io.WriteString(w, a.renderer.RenderSession(ctx, core.Sample(dir))+"\n")
	return err
}

func watchTargets(cmd *cli.Command, input string) []string {
	var targets []string
	for _, p := range []string{cmd.String("config"), cmd.String("theme-file"), input} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(config.ExpandHome(p))
		if err != nil {
			continue
		}
		targets = append(targets, abs)
	}
	return targets
}

// watchFiles calls onChange after any of files is written, created, renamed
// or removed, until ctx ends or the process is interrupted. Parent
// directories are watched so editors that replace files by rename are seen.
func watchFiles(ctx context.Context, files []string, onChange func()) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]bool, len(files))
	for _, f := range files {
		watched[f] = true
		dir := filepath.Dir(f)
		if err := w.Add(dir); err != nil {
			log.Warn("cannot watch", "dir", dir, "err", err)
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			log.Debug("file changed", "path", event.Name, "op", event.Op.String())
			pending = time.After(reloadDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)

		case <-pending:
			pending = nil
			onChange()
		}
	}
}
