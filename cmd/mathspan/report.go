package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mathspan/internal/config"
	"github.com/g5becks/mathspan/internal/manifest"
	"github.com/g5becks/mathspan/internal/search"
	"github.com/g5becks/mathspan/internal/ui"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"}
}

func newSpansCommand() *cli.Command {
	return &cli.Command{
		Name:      "spans",
		Usage:     "Search math spans recorded by the last scan",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "collection", Usage: "Restrict to one collection"},
			&cli.BoolFlag{Name: "unknown", Usage: "Only spans that use unknown commands"},
			&cli.StringFlag{Name: "format", Usage: "Output format: table, json, csv"},
			&cli.IntFlag{Name: "limit", Usage: "Show first N spans (0 = use config default)"},
			&cli.BoolFlag{Name: "all", Usage: "Show all spans (no limit)"},
			&cli.IntFlag{Name: "source-length", Usage: "Max source length in tables (0 = use config default)"},
		},
		Action: spansAction,
	}
}

func spansAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	format, err := checkFormat(resolveFormat(cmd, cfg))
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.Output)
	if err != nil {
		return err
	}

	results, err := search.Spans(m, search.SpanOptions{
		Query:       joinArgs(cmd),
		Collection:  cmd.String("collection"),
		UnknownOnly: cmd.Bool("unknown"),
		Limit:       resolveLimit(cmd, cfg),
	})
	if err != nil {
		return err
	}

	return ui.RenderSpans(stdout(cmd), results, format, resolveSourceLength(cmd, cfg))
}

func newCollectionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "collections",
		Usage: "List scanned collections",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
			&cli.StringFlag{Name: "format", Usage: "Output format: table, json, csv"},
		},
		Action: collectionsAction,
	}
}

func collectionsAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	format, err := checkFormat(resolveFormat(cmd, cfg))
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.Output)
	if err != nil {
		return err
	}

	return ui.RenderCollections(stdout(cmd), m, format)
}

func resolveLimit(cmd *cli.Command, cfg *config.Config) int {
	if cmd.Bool("all") {
		return 0
	}
	if cmd.IsSet("limit") {
		return cmd.Int("limit")
	}
	return cfg.Display.DefaultLimit
}

func resolveFormat(cmd *cli.Command, cfg *config.Config) string {
	if cmd.Bool("json") {
		return ui.FormatJSON
	}
	if cmd.IsSet("format") {
		return cmd.String("format")
	}
	return cfg.Display.Format
}

func resolveSourceLength(cmd *cli.Command, cfg *config.Config) int {
	if cmd.IsSet("source-length") {
		return cmd.Int("source-length")
	}
	return cfg.Display.SourceLength
}

func joinArgs(cmd *cli.Command) string {
	return strings.Join(cmd.Args().Slice(), " ")
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return oops.
			Code("JSON_ERROR").
			Wrapf(err, "encoding output")
	}

	return nil
}
