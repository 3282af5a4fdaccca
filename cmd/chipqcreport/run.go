package main

import (
	"context"
	"fmt"
	"log"

	"github.com/carbocation/chipqc"
	"github.com/carbocation/chipqc/compileinfo"
	"github.com/carbocation/chipqc/config"
	"github.com/carbocation/chipqc/palette"
	"github.com/carbocation/chipqc/report"
	"github.com/spf13/cobra"
)

func registerFlags(cmd *cobra.Command) {
	config.RegisterFlags(cmd.Flags())
}

func run(cmd *cobra.Command, args []string, cfgFile, saveConfig string) error {
	log.Println(compileinfo.Get())

	if len(args) == 1 {
		if err := cmd.Flags().Set("input", args[0]); err != nil {
			return err
		}
	}

	if cfgFile != "" {
		expanded, err := chipqc.ExpandHome(cfgFile)
		if err != nil {
			return err
		}
		cfgFile = expanded
	}

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	if cfg.Input, err = chipqc.ExpandHome(cfg.Input); err != nil {
		return err
	}
	if cfg.Output, err = chipqc.ExpandHome(cfg.Output); err != nil {
		return err
	}

	if saveConfig != "" {
		if err := config.Save(cfg, saveConfig); err != nil {
			return err
		}
		log.Println("Saved configuration to", saveConfig)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opener := chipqc.NewOpener(ctx, nil)
	defer opener.Close()

	r, err := report.Build(*cfg, opener)
	if err != nil {
		return err
	}

	out, err := r.Write(cfg.Output)
	if err != nil {
		return err
	}

	log.Printf("Report written to %s (%d tables, %d charts)\n", out.Dir, len(out.Tables), len(out.Charts))

	return nil
}

func newPalettesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palettes",
		Short: "List the qualitative palettes accepted by --palette",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range palette.Names() {
				p, _ := palette.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d colors\n", name, len(p.Colors))
			}
		},
	}
}
