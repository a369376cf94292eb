package main

import (
	"context"
	"errors"

	"github.com/always-cache/fwserve/nonce"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Announce a framework build to running servers through Redis",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "redis", Usage: "Redis address"},
			&cli.StringFlag{Name: "key", Usage: "Redis key of the announced build"},
			&cli.StringFlag{Name: "nonce", Usage: "Nonce of the build", Required: true},
			&cli.StringFlag{Name: "uid", Usage: "Framework uid of the build"},
			&cli.BoolFlag{Name: "production", Usage: "Serve minified resources"},
		},
		Action: publishAction,
	}
}

func publishAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	if cmd.IsSet("redis") {
		cfg.Redis.Addr = cmd.String("redis")
	}
	if cmd.IsSet("key") {
		cfg.Redis.Key = cmd.String("key")
	}
	if cfg.Redis.Addr == "" {
		return errors.New("publish: no redis address configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	build := nonce.Snapshot{
		Nonce:      cmd.String("nonce"),
		UID:        cmd.String("uid"),
		Production: cmd.Bool("production"),
	}
	if err := nonce.Announce(ctx, client, cfg.Redis.Key, build); err != nil {
		return err
	}
	log.Info().Str("nonce", build.Nonce).Str("key", cfg.Redis.Key).Msg("Announced build")
	return nil
}
