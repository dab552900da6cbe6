package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/x/term"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Commands: []*cli.Command{
			configShowCmd(),
			configGetCmd(),
			configValidateCmd(),
			configPathCmd(),
		},
	}
}

func configShowCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the merged configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: json, yaml",
				Value: "json",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := newApp(cmd)
			format := cmd.String("format")

			data, err := encodeDocument(a.store.Raw(), format)
			if err != nil {
				return err
			}
			return writeHighlighted(cmd.Root().Writer, string(data), format, !noColor(cmd))
		},
	}
}

// encodeDocument renders doc as indented JSON or YAML.
func encodeDocument(doc map[string]any, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q; use json or yaml", format)
	}
}

// writeHighlighted syntax-highlights src when w is a terminal.
func writeHighlighted(w io.Writer, src, lexer string, colorOK bool) error {
	if f, ok := w.(*os.File); ok && colorOK && term.IsTerminal(f.Fd()) {
		if err := quick.Highlight(w, src, lexer, "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(w, src)
	return err
}

func configGetCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value at a dotted path, e.g. widgets.git_branch.max_length",
		ArgsUsage: "<path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("a dotted path is required")
			}

			v, ok := newApp(cmd).store.Get(path)
			if !ok {
				return fmt.Errorf("no value at %q", path)
			}

			out := cmd.Root().Writer
			switch v := v.(type) {
			case string:
				_, err := fmt.Fprintln(out, v)
				return err
			case map[string]any, []any:
				data, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			default:
				data, err := json.Marshal(v)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
		},
	}
}

func configValidateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check the config for unknown widgets, bad colors and out-of-range options",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := newApp(cmd)
			out := cmd.Root().Writer

			n := 0
			for _, err := range a.store.Problems() {
				fmt.Fprintln(out, styleIssue.Render("load: ")+err.Error())
				n++
			}
			for _, issue := range a.store.Validate(a.widgets.Names()) {
				fmt.Fprintln(out, styleIssue.Render(issue.Path+": ")+issue.Message)
				n++
			}

			if n > 0 {
				return fmt.Errorf("%d problem(s) in %s", n, a.store.Paths().UserPath)
			}
			fmt.Fprintf(out, "config OK (%s)\n", a.store.ConfigSource())
			return nil
		},
	}
}

func configPathCmd() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Print the files and directories the statusline reads",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := newApp(cmd)
			p := a.store.Paths()

			rows := [][2]string{
				{"config", p.UserPath},
				{"theme", p.ThemePath},
				{"cache", a.cache.Dir()},
				{"source", a.store.ConfigSource().String()},
			}
			for _, r := range rows {
				if _, err := fmt.Fprintf(cmd.Root().Writer, "%-8s %s\n", r[0], r[1]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
