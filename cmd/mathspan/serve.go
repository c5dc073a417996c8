package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/mathspan/internal/cache"
	"github.com/g5becks/mathspan/internal/config"
	"github.com/g5becks/mathspan/internal/render"
	"github.com/g5becks/mathspan/internal/server"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the segment, render and parse API over HTTP",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "cache-size", Usage: "Parse cache capacity (0 = unbounded)"},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}
	cacheSize := cfg.CacheSize
	if cmd.IsSet("cache-size") {
		cacheSize = cmd.Int("cache-size")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(render.New(cache.New(cacheSize)), loggerFrom(ctx))
	return srv.ListenAndServe(ctx, addr)
}
