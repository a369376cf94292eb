package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/always-cache/fwserve/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// this is set by goreleaser
var version string

func init() {
	if version == "" {
		version = "DEV"
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "fwserve",
		Usage:          "Serve framework resources with nonce-aware cache headers",
		Version:        version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				Sources: cli.EnvVars("FWSERVE_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "Verbosity: trace logging",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file to use (in addition to stdout)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			publishCommand(),
			bundleCommand(),
			listCommand(),
		},
	}
}

// loadConfig reads the config file if one is given and applies the global
// flags on top of it.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()
	if filename := cmd.String("config"); filename != "" {
		var err error
		if cfg, err = config.Load(filename); err != nil {
			return cfg, err
		}
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}
	if cmd.Bool("vv") {
		cfg.Log.Level = zerolog.TraceLevel.String()
	}
	return cfg, nil
}

// setupLogging sets the global logger. Output goes to stdout and, if
// configured, to a log file as well. The returned function closes the file.
func setupLogging(cfg config.Log) (func(), error) {
	logLevel, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		logLevel = zerolog.DebugLevel
	}

	logOutputs := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout}}
	closeFn := func() {}
	if cfg.File != "" {
		logFileOutput, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return closeFn, fmt.Errorf("cannot open log file: %w", err)
		}
		logOutputs = append(logOutputs, logFileOutput)
		closeFn = func() { logFileOutput.Close() }
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Timestamp().Str("version", version).Logger()
	return closeFn, nil
}
