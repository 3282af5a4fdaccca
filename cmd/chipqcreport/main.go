// chipqcreport turns ChIP-seq QC results into tidy CSV tables, faceted
// charts, and a markdown index.
package main

import (
	"log"
	"os"

	"github.com/carbocation/chipqc/compileinfo"
	"github.com/spf13/cobra"
)

func main() {
	log.SetOutput(os.Stderr)

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalln(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile    string
		saveConfig string
	)

	root := &cobra.Command{
		Use:   "chipqcreport [input]",
		Short: "Build a ChIP-seq QC report from a sample sheet or an aggregate QC object",
		Long: `chipqcreport reads either a sample sheet (.csv or .tsv) whose rows point at
per-sample QC files, or a single aggregate QC object (.json). It writes tidy
CSV tables for every metric family, PNG charts faceted by two metadata
columns, and a report.md index into the output directory.

Inputs may be gzip, bzip2, xz, or zip compressed and may live at gs://.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, cfgFile, saveConfig)
		},
	}

	root.Flags().StringVar(&cfgFile, "config", "", "YAML config file. Flags and CHIPQC_* environment variables take precedence.")
	root.Flags().StringVar(&saveConfig, "save-config", "", "Write the resolved configuration to this YAML file.")
	registerFlags(root)

	root.AddCommand(newPalettesCmd(), newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	var deps bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			compileinfo.Get().Fprint(cmd.OutOrStdout(), deps)
		},
	}
	cmd.Flags().BoolVar(&deps, "deps", false, "Also list linked module versions.")

	return cmd
}
