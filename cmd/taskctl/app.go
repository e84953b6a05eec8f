package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/client"
	"github.com/phrazzld/tasktracker/internal/client/cache"
	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/urfave/cli/v3"
)

// app carries what the commands share. The cache and controller are opened
// on first use so login and register never touch the cache directory.
type app struct {
	cfg    *config.ClientConfig
	logger *slog.Logger

	store      *cache.NutsCache
	controller *client.Controller

	// flag values
	baseURL  string
	cacheDir string
	logLevel string
	token    string
}

func newRootCommand(stdout, stderr io.Writer) *cli.Command {
	a := &app{}

	root := &cli.Command{
		Name:      "taskctl",
		Usage:     "Manage tasks on a tasktracker server",
		UsageText: "taskctl [global options] command [command options]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "server URL (overrides client.base_url)",
				Destination: &a.baseURL,
			},
			&cli.StringFlag{
				Name:        "cache-dir",
				Usage:       "local cache directory (overrides client.cache_dir)",
				Destination: &a.cacheDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Destination: &a.logLevel,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "bearer token from login (overrides client.token)",
				Destination: &a.token,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, a.setup(c.Root().ErrWriter)
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return a.close()
		},
	}

	root.Commands = []*cli.Command{
		a.listCommand(),
		a.addCommand(),
		a.editCommand(),
		a.deleteCommand(),
		a.loginCommand(),
		a.registerCommand(),
	}
	return root
}

// setup loads the client configuration and applies flag overrides.
func (a *app) setup(logOut io.Writer) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.cacheDir != "" {
		cfg.CacheDir = a.cacheDir
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.token != "" {
		cfg.Token = a.token
	}

	level, ok := logger.ParseLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	a.cfg = cfg
	a.logger = logger.New(logOut, level).With("app", "taskctl")
	return nil
}

// tasks returns the controller, opening the cache on first call.
func (a *app) tasks() (*client.Controller, error) {
	if a.controller != nil {
		return a.controller, nil
	}

	store, err := cache.OpenNutsCache(a.cfg.CacheDir, a.logger)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.controller = client.NewController(
		client.NewHTTPRemoteFromConfig(*a.cfg, a.logger),
		store,
		client.WithLogger(a.logger),
	)
	return a.controller, nil
}

func (a *app) authClient() *client.AuthClient {
	return client.NewAuthClient(*a.cfg, a.logger)
}

func (a *app) close() error {
	if a.controller != nil {
		a.controller.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}
