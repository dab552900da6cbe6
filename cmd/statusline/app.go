package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ThrownLemon/claude-code-plugins/cache"
	"github.com/ThrownLemon/claude-code-plugins/config"
	"github.com/ThrownLemon/claude-code-plugins/query"
	"github.com/ThrownLemon/claude-code-plugins/render"
	"github.com/ThrownLemon/claude-code-plugins/widget"
)

// app wires the config, cache, query and widget layers for one command.
type app struct {
	store    *config.Store
	cache    *cache.Store
	widgets  *widget.Registry
	renderer *render.Renderer
}

// newApp loads the configuration named by the global flags and builds the
// render pipeline on top of it.
func newApp(cmd *cli.Command) *app {
	paths := config.Paths{
		UserPath:  config.ExpandHome(cmd.String("config")),
		ThemePath: config.ExpandHome(cmd.String("theme-file")),
	}
	store := config.Load(paths)
	for _, err := range store.Problems() {
		log.Warn("config problem", "err", err)
	}

	ttl := cache.ParseTTL(cmd.String("cache-ttl"))
	cacheStore := cache.New(config.ExpandHome(cmd.String("cache-dir")), ttl)

	q := query.NewCached(query.NewLocal(), cacheStore)
	widgets := widget.NewRegistry(store, q)

	theme := cmd.String("theme")
	renderer := render.New(store, widgets,
		render.WithTheme(theme),
		render.WithNoColor(noColor(cmd)),
	)

	log.Debug("loaded config",
		"source", store.ConfigSource(),
		"user", store.UserApplied(),
		"cache", cacheStore.Dir(),
		"ttl", ttl,
	)

	return &app{store: store, cache: cacheStore, widgets: widgets, renderer: renderer}
}

// noColor honors --no-color and the NO_COLOR convention (any non-empty value).
func noColor(cmd *cli.Command) bool {
	return cmd.Bool("no-color") || os.Getenv("NO_COLOR") != ""
}
