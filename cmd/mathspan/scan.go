package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/mathspan/internal/cache"
	"github.com/g5becks/mathspan/internal/config"
	"github.com/g5becks/mathspan/internal/render"
	"github.com/g5becks/mathspan/internal/scan"
	"github.com/g5becks/mathspan/internal/ui"
)

func newScanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Scan configured sources and record their math spans",
		ArgsUsage: "[source-name...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Re-parse every file and skip freshness checks"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Scan without writing the manifest"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum parallel source scans (0 = use config)"},
		},
		Action: scanAction,
	}
}

func scanAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	printer := ui.NewScanPrinterWithWriter(stderr(cmd), dryRun)

	result, runErr := scan.Run(ctx, cfg, render.New(cache.New(cfg.CacheSize)), scan.Options{
		SourceNames: cmd.Args().Slice(),
		Force:       cmd.Bool("force"),
		DryRun:      dryRun,
		MaxParallel: cmd.Int("parallel"),
		OnEvent:     printer.HandleEvent,
		Logger:      loggerFrom(ctx),
	})

	printer.PrintSummary(result)
	return runErr
}
