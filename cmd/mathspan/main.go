package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"
)

var (
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	version = "dev"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	commit = "unknown"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	buildTime = "unknown"
)

func main() {
	if err := run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return newRootCommand().Run(context.Background(), args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "mathspan",
		Usage:   "Find, parse and index math spans in mixed text and documents",
		Version: versionString(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
			&cli.StringFlag{Name: "log-format", Usage: "Log format: text or json", Value: "text"},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			newSegmentCommand(),
			newParseCommand(),
			newRenderCommand(),
			newSymbolsCommand(),
			newScanCommand(),
			newSpansCommand(),
			newCollectionsCommand(),
			newServeCommand(),
			newInitCommand(),
		},
	}
}

type loggerKey struct{}

func setupLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}

	log, err := newLogger(stderr(cmd), cmd.String("log-format"), level)
	if err != nil {
		return ctx, err
	}

	return context.WithValue(ctx, loggerKey{}, log), nil
}

func newLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, oops.
			Code("INVALID_ARGS").
			With("log_format", format).
			Hint("Use --log-format text or --log-format json").
			Errorf("unknown log format %q", format)
	}
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.New(slog.DiscardHandler)
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime)
}
