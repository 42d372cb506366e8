// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/zxgsy520/findPUL/internal/annotation"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge SUS, CAZy and PUL annotations into one table",
	Long: `Merge reads the per-gene SUS, CAZy and PUL homology tables and writes one
row per gene found in any of them. The family column joins the SUS label and
the accepted CAZy classes; genes with neither get ".". Rows are ordered by
contig then gene position. Any source may be omitted.`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, paths, err := mergeInputs(cmd)
	if err != nil {
		return err
	}
	records, err := annotation.NewMerger(cfg, logger).MergeFiles(paths)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	w, closeOut, err := createOutput(cmd, output)
	if err != nil {
		return err
	}
	if err := annotation.WriteMerged(w, records); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func init() {
	addMergeFlags(mergeCmd)
	mergeCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(mergeCmd)
}
