package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mathspan/internal/config"
)

const starterConfigName = "mathspan.toml"

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter mathspan.toml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing mathspan.toml"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	if !cmd.Bool("force") {
		if _, err := os.Stat(starterConfigName); err == nil {
			return oops.
				Code("CONFIG_EXISTS").
				With("path", starterConfigName).
				Hint("Pass --force to overwrite it").
				Errorf("%s already exists", starterConfigName)
		} else if !errors.Is(err, os.ErrNotExist) {
			return oops.Wrapf(err, "checking for %s", starterConfigName)
		}
	}

	if err := os.WriteFile(starterConfigName, []byte(config.StarterConfig), 0o644); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", starterConfigName).
			Wrapf(err, "writing starter config")
	}

	fmt.Fprintf(stdout(cmd), "created %s\n", starterConfigName)
	return nil
}
