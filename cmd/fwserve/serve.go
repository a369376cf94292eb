package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/always-cache/fwserve"
	"github.com/always-cache/fwserve/config"
	"github.com/always-cache/fwserve/metrics"
	"github.com/always-cache/fwserve/nonce"
	"github.com/always-cache/fwserve/resource"
	"github.com/always-cache/fwserve/store"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the resources of a framework build",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "Address to listen on"},
			&cli.StringFlag{Name: "mount", Usage: "Path prefix of the resources"},
			&cli.StringFlag{Name: "dir", Usage: "Serve the resource tree in this directory"},
			&cli.StringFlag{Name: "db", Usage: "Serve a SQLite resource bundle (use 'memory' for in-memory db)"},
			&cli.StringFlag{Name: "nonce", Usage: "Nonce of the framework build", Sources: cli.EnvVars("FWSERVE_NONCE")},
			&cli.StringFlag{Name: "uid", Usage: "Framework uid, accepted like the nonce"},
			&cli.BoolFlag{Name: "production", Usage: "Prefer minified resources"},
			&cli.StringFlag{Name: "redis", Usage: "Redis address to watch for announced builds"},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	for _, warning := range cfg.Warnings() {
		log.Warn().Msg(warning)
	}

	resources, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	holder := nonce.NewHolder(cfg.Build)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		watcher, err := nonce.NewWatcher(nonce.WatcherConfig{
			Client:   client,
			Key:      cfg.Redis.Key,
			Interval: cfg.Redis.Interval,
			Holder:   holder,
			Logger:   &log.Logger,
		})
		if err != nil {
			return err
		}
		go watcher.Run(ctx)
	}

	if cfg.Metrics.Endpoint != "" {
		provider, err := metrics.NewProvider(ctx, cfg.Metrics, version)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Could not flush metrics")
			}
		}()
	}

	server, err := fwserve.CreateServer(fwserve.Config{
		Store:   resources,
		Build:   holder,
		Mount:   cfg.Mount,
		Policy:  cfg.Policy,
		Headers: cfg.Headers,
		Logger:  &log.Logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("store", cfg.Store.Kind).
		Str("nonce", cfg.Build.Nonce).
		Bool("production", cfg.Build.Production).
		Msgf("Serving %s on %s", cfg.Mount, cfg.Listen)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func applyServeFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("listen") {
		cfg.Listen = cmd.String("listen")
	}
	if cmd.IsSet("mount") {
		cfg.Mount = cmd.String("mount")
	}
	if cmd.IsSet("dir") {
		cfg.Store.Kind = config.StoreDir
		cfg.Store.Dir = cmd.String("dir")
	}
	if cmd.IsSet("db") {
		cfg.Store.Kind = config.StoreSQLite
		cfg.Store.SQLite = cmd.String("db")
	}
	if cmd.IsSet("nonce") {
		cfg.Build.Nonce = cmd.String("nonce")
	}
	if cmd.IsSet("uid") {
		cfg.Build.UID = cmd.String("uid")
	}
	if cmd.IsSet("production") {
		cfg.Build.Production = cmd.Bool("production")
	}
	if cmd.IsSet("redis") {
		cfg.Redis.Addr = cmd.String("redis")
	}
}

// openStore returns the configured resource store and a function releasing it.
func openStore(ctx context.Context, cfg config.Store) (resource.Store, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case config.StoreDir:
		s, err := store.OpenDir(cfg.Dir)
		return s, noop, err
	case config.StoreSQLite:
		filename := cfg.SQLite
		if filename == "memory" {
			filename = store.MemoryDSN
		}
		s, err := store.NewSQLiteStore(filename)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { s.Close() }, nil
	case config.StoreS3:
		s, err := store.NewS3Store(ctx, cfg.S3)
		return s, noop, err
	case config.StoreMemory:
		return store.NewMemStore(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store %q", cfg.Kind)
}
