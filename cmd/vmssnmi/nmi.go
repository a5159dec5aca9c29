package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/vmssnmi/internal/vmss"
)

func nmiCmd() *cli.Command {
	return &cli.Command{
		Name:      "nmi",
		Usage:     "Post (or clear) a pending NMI on a CPU in a suspended VM",
		ArgsUsage: "<vmss-file>",
		Flags: append([]cli.Flag{
			&cli.Int64Flag{
				Name:        "cpu",
				Aliases:     []string{"c"},
				Usage:       "set pendingNMI only on the specified CPU",
				Destination: &cpuID,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "report pendingNMI for every CPU, never write",
				Destination: &allCPUs,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Aliases:     []string{"n"},
				Usage:       "display but don't alter pendingNMI",
				Destination: &dryRun,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Aliases:     []string{"z"},
				Usage:       "zero out pendingNMI rather than set it",
				Destination: &clearNMI,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit results as JSON on stdout",
				Destination: &jsonOut,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			if c.Args().Len() != 1 {
				return cli.Exit("error: expected a VMSS file", 1)
			}
			if cpuID < 0 {
				return cli.Exit(fmt.Sprintf("error: invalid CPU %d", cpuID), 1)
			}
			applyConfig(c, LoadConfig())
			log := newLogger()

			opts := vmss.Options{
				CPU:    int(cpuID),
				DryRun: dryRun,
				Value:  1,
				Log:    log,
			}
			if allCPUs {
				opts.CPU = vmss.AllCPUs
			}
			if clearNMI {
				opts.Value = 0
			}

			f, err := vmss.Open(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			log.Debug("container",
				"version", f.Header.Version,
				"groups", f.Header.NumGroups)

			statuses, err := f.PatchPendingNMI(opts)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if jsonOut {
				if statuses == nil {
					statuses = []vmss.Status{}
				}
				out, err := json.MarshalIndent(statuses, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode results: %v", err), 1)
				}
				fmt.Println(string(out))
				return nil
			}

			for _, st := range statuses {
				switch {
				case st.Updated:
					fmt.Printf("pendingNMI for CPU %d is %d; setting to %d\n", st.CPU, st.Value, opts.Value)
				case !dryRun && opts.CPU >= 0:
					fmt.Printf("pendingNMI for CPU %d is %d; skipping (target CPU is %d)\n", st.CPU, st.Value, opts.CPU)
				default:
					fmt.Printf("pendingNMI for CPU %d is %d\n", st.CPU, st.Value)
				}
			}
			if len(statuses) == 0 {
				fmt.Println("no pendingNMI records found")
			}
			return nil
		},
	}
}
