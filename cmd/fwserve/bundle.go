package main

import (
	"context"
	"errors"

	"github.com/always-cache/fwserve/config"
	"github.com/always-cache/fwserve/store"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func bundleCommand() *cli.Command {
	return &cli.Command{
		Name:  "bundle",
		Usage: "Copy a resource tree into a SQLite bundle or the configured S3 bucket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "Resource tree to copy", Required: true},
			&cli.StringFlag{Name: "db", Usage: "SQLite bundle to write"},
		},
		Action: bundleAction,
	}
}

func bundleAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := store.OpenDir(cmd.String("dir"))
	if err != nil {
		return err
	}

	var dst store.Putter
	if cmd.IsSet("db") || cfg.Store.Kind != config.StoreS3 {
		filename := cmd.String("db")
		if filename == "" {
			filename = cfg.Store.SQLite
		}
		if filename == "" {
			return errors.New("bundle: no SQLite file given")
		}
		bundle, err := store.NewSQLiteStore(filename)
		if err != nil {
			return err
		}
		defer bundle.Close()
		dst = bundle
	} else {
		bucket, err := store.NewS3Store(ctx, cfg.Store.S3)
		if err != nil {
			return err
		}
		dst = bucket
	}

	count, err := store.Copy(ctx, src.FS(), dst, log.Logger)
	if err != nil {
		return err
	}
	log.Info().Int("resources", count).Str("dir", cmd.String("dir")).Msg("Bundled resources")
	return nil
}
