package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/vmssnmi/internal/logger"
)

func main() {
	app := &cli.Command{
		Name:  "vmssnmi",
		Usage: "Inspect and patch pending-NMI state in VMware suspended state (VMSS) files",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			nmiCmd(),
			inspectCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the run logger from the logging flags. --verbose forces
// debug level so every decoded tag is traced.
func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if verbose {
		level = slog.LevelDebug
	}
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Text(os.Stderr, level)
	default:
		return logger.Pretty(os.Stderr, level)
	}
}
