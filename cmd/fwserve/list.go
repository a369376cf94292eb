package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/always-cache/fwserve/store"

	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the resource names in a SQLite bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite bundle to read"},
			&cli.StringFlag{Name: "prefix", Usage: "Only names starting with this, e.g. resources/"},
		},
		Action: listAction,
	}
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	filename := cmd.String("db")
	if filename == "" {
		filename = cfg.Store.SQLite
	}
	if filename == "" {
		return errors.New("list: no SQLite file given")
	}

	bundle, err := store.NewSQLiteStore(filename)
	if err != nil {
		return err
	}
	defer bundle.Close()

	out := cmd.Root().Writer
	return bundle.Names(ctx, cmd.String("prefix"), func(name string) {
		fmt.Fprintln(out, name)
	})
}
