package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/vmssnmi/internal/vmss"
)

func inspectCmd() *cli.Command {
	var (
		groupFilter string
		showTags    bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Dump the container header, group table, and tag records",
		ArgsUsage: "<vmss-file>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "group",
				Aliases:     []string{"g"},
				Usage:       "only walk groups with this name",
				Destination: &groupFilter,
			},
			&cli.BoolFlag{
				Name:        "tags",
				Aliases:     []string{"t"},
				Usage:       "walk each group's tag stream",
				Destination: &showTags,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			if c.Args().Len() != 1 {
				return cli.Exit("error: expected a VMSS file", 1)
			}
			applyConfig(c, LoadConfig())
			log := newLogger()

			f, err := vmss.Open(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			fmt.Printf("File: %s\n", f.Path)
			fmt.Printf("VMSS %s | version %d | %d groups\n",
				magicName(f.Header.Magic), f.Header.Version, f.Header.NumGroups)

			for i, g := range f.Groups {
				fmt.Printf("group %3d: %-28s offs=0x%x size=0x%x\n", i, g.Name, g.Offset, g.Size)
			}

			if !showTags {
				return nil
			}
			for _, g := range f.Groups {
				if groupFilter != "" && g.Name != groupFilter {
					continue
				}
				fmt.Printf("\n%s:\n", g.Name)
				err := f.WalkGroup(g, log, func(rec vmss.Record) error {
					printRecord(rec)
					return nil
				})
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			return nil
		},
	}
}

func printRecord(rec vmss.Record) {
	if rec.Tag.IsBlock() {
		kind := "block"
		if rec.Tag.ValSize() == vmss.ValSizeBlockCompressed {
			kind = "compressed block"
		}
		fmt.Printf("  %-30s %s size %d memsize %d pad %d ([%d][%d][%d])\n",
			rec.Name, kind, rec.BlockSize, rec.BlockMemSize, rec.BlockPad,
			rec.Indices[0], rec.Indices[1], rec.Indices[2])
		return
	}
	fmt.Printf("  %-30s size %3d nindx %d ([%d][%d][%d])\n",
		rec.Name, rec.Tag.ValSize(), rec.Tag.NumIndices(),
		rec.Indices[0], rec.Indices[1], rec.Indices[2])
}

func magicName(magic uint32) string {
	switch magic {
	case vmss.Magic:
		return "suspended"
	case vmss.MagicRestored:
		return "restored"
	case vmss.MagicPartial:
		return "partial"
	case vmss.MagicOld:
		return "32-bit (unsupported)"
	default:
		return fmt.Sprintf("unknown (0x%08x)", magic)
	}
}
