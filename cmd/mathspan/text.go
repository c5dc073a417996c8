package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mathspan/internal/cache"
	"github.com/g5becks/mathspan/internal/mathexpr"
	"github.com/g5becks/mathspan/internal/render"
	"github.com/g5becks/mathspan/internal/search"
	"github.com/g5becks/mathspan/internal/segment"
	"github.com/g5becks/mathspan/internal/ui"
)

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read input from a file ('-' for stdin)"},
	}
}

func formatFlag(defaultFormat string) cli.Flag {
	return &cli.StringFlag{Name: "format", Usage: "Output format: table, json, csv", Value: defaultFormat}
}

func newSegmentCommand() *cli.Command {
	return &cli.Command{
		Name:      "segment",
		Usage:     "Split text into text and math segments",
		ArgsUsage: "[text]",
		Flags: append(inputFlags(),
			formatFlag(ui.FormatTable),
			&cli.IntFlag{Name: "width", Usage: "Truncate table text to N characters (0 = no limit)"},
		),
		Action: segmentAction,
	}
}

func segmentAction(_ context.Context, cmd *cli.Command) error {
	format, err := checkFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	text, err := readInput(cmd)
	if err != nil {
		return err
	}

	return ui.RenderSegments(stdout(cmd), segment.Split(text), format, cmd.Int("width"))
}

func newParseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse one math source and show its expression tree",
		ArgsUsage: "<source>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Emit JSON output"},
		},
		Action: parseAction,
	}
}

type parseOutput struct {
	Normalized string        `json:"normalized"`
	Expr       mathexpr.Node `json:"expr"`
	Nodes      int           `json:"nodes"`
	Unknown    []string      `json:"unknown"`
}

func parseAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code("INVALID_ARGS").
			Hint(`Usage: mathspan parse '<source>', e.g. mathspan parse '\frac{a}{b}'`).
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	source := cmd.Args().First()
	expr := render.New(nil).Expr(source)
	unknown := mathexpr.UnknownCommands(source)
	w := stdout(cmd)

	if cmd.Bool("json") {
		if unknown == nil {
			unknown = []string{}
		}
		return writeJSON(w, parseOutput{
			Normalized: cache.Normalize(source),
			Expr:       expr,
			Nodes:      mathexpr.Count(expr),
			Unknown:    unknown,
		})
	}

	ui.RenderTree(w, expr)
	fmt.Fprintf(w, "\ncanonical: %s\n", expr.String())
	if len(unknown) > 0 {
		fmt.Fprintf(w, "unknown commands: \\%s\n", strings.Join(unknown, `, \`))
	}
	return nil
}

func newRenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Segment text and attach an expression tree to each math segment",
		ArgsUsage: "[text]",
		Flags:     append(inputFlags(), formatFlag(ui.FormatJSON)),
		Action:    renderAction,
	}
}

func renderAction(_ context.Context, cmd *cli.Command) error {
	format, err := checkFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	text, err := readInput(cmd)
	if err != nil {
		return err
	}

	parts := render.New(nil).Render(text)
	return ui.RenderParts(stdout(cmd), parts, format, 0)
}

func newSymbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "Look up supported commands by name or glyph",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			formatFlag(ui.FormatTable),
			&cli.IntFlag{Name: "limit", Usage: "Limit number of results (0 = all)"},
		},
		Action: symbolsAction,
	}
}

func symbolsAction(_ context.Context, cmd *cli.Command) error {
	format, err := checkFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	query := strings.Join(cmd.Args().Slice(), " ")
	return ui.RenderSymbols(stdout(cmd), search.Symbols(query, cmd.Int("limit")), format)
}

// readInput returns the --file contents, the joined arguments, or stdin,
// in that order of preference.
func readInput(cmd *cli.Command) (string, error) {
	if path := cmd.String("file"); path != "" {
		if path == "-" {
			return readAll(cmd.Root().Reader, "stdin")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", oops.
				Code("READ_FAILED").
				With("path", path).
				Wrapf(err, "reading input file")
		}
		return string(data), nil
	}

	if cmd.Args().Present() {
		return strings.Join(cmd.Args().Slice(), " "), nil
	}

	return readAll(cmd.Root().Reader, "stdin")
}

func readAll(r io.Reader, what string) (string, error) {
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", oops.
			Code("READ_FAILED").
			Wrapf(err, "reading %s", what)
	}
	return string(data), nil
}

func checkFormat(format string) (string, error) {
	if slices.Contains([]string{ui.FormatTable, ui.FormatJSON, ui.FormatCSV}, format) {
		return format, nil
	}
	return "", oops.
		Code("INVALID_ARGS").
		With("format", format).
		Hint("Use --format table, json, or csv").
		Errorf("unknown output format %q", format)
}
