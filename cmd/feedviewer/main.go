package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"feedviewer/internal/app"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "feedviewer",
		Usage: "A read-only web viewer for a handful of syndication feeds",
		Description: `Fetches the configured RSS/Atom feeds at startup and serves them as
		HTML pages. A feed is refetched when a page needs it and it is older than
		the staleness window (30 minutes by default).

		Flags can generally be set via environment variables, e.g.:

		--config => FEEDVIEWER_CONFIG=config.yaml
		--root => ROOT=/viewer
		`,
		Commands: []*cli.Command{
			serveCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Fetch the feeds and serve the viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file; built-in defaults are used when empty",
				EnvVars: []string{"FEEDVIEWER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "Optional dotenv file loaded before the config",
				EnvVars: []string{"FEEDVIEWER_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address, overrides http.host and http.port",
				EnvVars: []string{"FEEDVIEWER_ADDR"},
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "Path prefix used in rendered links",
				EnvVars: []string{"ROOT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			opts := app.Options{
				ConfigPath: ctx.String("config"),
				EnvFile:    ctx.String("env-file"),
				Addr:       ctx.String("addr"),
			}
			if ctx.IsSet("root") {
				root := ctx.String("root")
				opts.Root = &root
			}
			return app.Run(ctx.Context, opts)
		},
	}
}
