package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/ThrownLemon/claude-code-plugins/install"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage cached git and tool results",
		Commands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Remove every cache entry",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a := newApp(cmd)
					n, err := a.cache.Clear()
					if err != nil {
						return fmt.Errorf("clear cache: %w", err)
					}
					fmt.Fprintf(cmd.Root().Writer, "Removed %d cache entries from %s\n", n, a.cache.Dir())
					return nil
				},
			},
		},
	}
}

func installCmd() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Register the statusline with Claude Code",
		Description: `Writes a statusLine entry into Claude Code's settings.json, leaving
every other setting as it is, and copies the default config to the user
config path if no config exists yet.

An existing statusLine pointing at another command is only replaced
with --force.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "settings",
				Usage: "Claude Code settings file",
				Value: install.DefaultSettingsPath(),
			},
			&cli.StringFlag{
				Name:  "command",
				Usage: "Command Claude Code should run (defaults to this binary)",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Replace an existing statusLine command",
			},
			&cli.BoolFlag{
				Name:  "no-seed",
				Usage: "Do not write the default user config",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			command := cmd.String("command")
			if command == "" {
				exe, err := os.Executable()
				if err != nil {
					return fmt.Errorf("locate executable: %w", err)
				}
				command = exe
			}

			cfg := install.Config{
				SettingsPath: cmd.String("settings"),
				Command:      command,
				Force:        cmd.Bool("force"),
			}
			if !cmd.Bool("no-seed") {
				cfg.ConfigPath = newApp(cmd).store.Paths().UserPath
			}

			res, err := install.Run(cfg)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			switch {
			case res.Unchanged:
				fmt.Fprintln(out, "Already installed.")
			case res.Previous != "":
				fmt.Fprintf(out, "Installed, replacing %q.\n", res.Previous)
			default:
				fmt.Fprintln(out, "Installed successfully.")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Settings:  %s\n", res.SettingsPath)
			fmt.Fprintf(out, "  Command:   %s\n", command)
			if res.Seeded {
				fmt.Fprintf(out, "  Config:    %s (new)\n", cfg.ConfigPath)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Restart Claude Code to pick up the new status line.")
			return nil
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the build version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(cmd.Root().Writer, "statusline "+buildVersion())
			return err
		},
	}
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}
