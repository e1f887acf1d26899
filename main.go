package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-authgate/secrets/internal/bootstrap"
	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/logutil"
	"github.com/go-authgate/secrets/internal/version"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "secrets",
		Usage:   "Share secrets anonymously with every signed-in user",
		Version: version.String(),
		Commands: []*cli.Command{
			serverCmd(),
			versionCmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}

func serverCmd() *cli.Command {
	var addr string
	return &cli.Command{
		Name:  "server",
		Usage: "Start the secrets web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Address to listen on (overrides SERVER_ADDR)",
				Destination: &addr,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			if addr != "" {
				cfg.ServerAddr = addr
			}
			logutil.Setup(cfg.LogLevel, cfg.LogFormat)
			return bootstrap.Run(c.Context, cfg)
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			version.PrintVersion(c.App.Writer)
			return nil
		},
	}
}
