package cmd

import (
	"context"
	"io"
	"time"

	"github.com/conneroisu/termfolio/internal/commands"
	"github.com/conneroisu/termfolio/internal/config"
	"github.com/conneroisu/termfolio/internal/errors"
	"github.com/conneroisu/termfolio/internal/logging"
	"github.com/conneroisu/termfolio/internal/profile"
	"github.com/conneroisu/termfolio/internal/terminal"
	"github.com/conneroisu/termfolio/internal/version"
)

// app holds the pieces every subcommand shares.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	profiles *profile.Store
	version  *version.Cache
	resolver *terminal.Resolver
}

// loadConfig loads the configuration, attaching suggestions on failure.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		path := configPath()
		return nil, errors.NewEnhancedError(
			"Failed to load configuration",
			err,
			errors.ConfigSuggestions(err.Error(), path),
		)
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg, writing to out.
func newLogger(cfg *config.Config, out io.Writer) logging.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: out,
	})
}

// newApp wires config into a resolver: profile store, version cache and the
// command registry.
func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	logger := newLogger(cfg, logOut)

	profiles, err := profile.NewStore(cfg.Profile.Path, logger)
	if err != nil {
		return nil, err
	}

	source, err := version.NewSource(cfg.Version.Source, cfg.Version.Timeout)
	if err != nil {
		logger.Warn(context.Background(), err, "version source unusable, version will show as unknown")
	}
	cache := version.NewCache(source, cfg.Version.Timeout, logger)

	registry := commands.NewRegistry(commands.Deps{
		Profiles: profiles,
		Version:  cache,
		Now:      time.Now,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		profiles: profiles,
		version:  cache,
		resolver: terminal.NewResolver(registry, logger),
	}, nil
}

// watchProfile starts hot reload when profile.watch is set.
func (a *app) watchProfile(ctx context.Context) (func() error, error) {
	if !a.cfg.Profile.Watch {
		return func() error { return nil }, nil
	}
	return a.profiles.Watch(ctx, profile.DefaultReloadDelay)
}
