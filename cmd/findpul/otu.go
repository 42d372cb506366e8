// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zxgsy520/findPUL/internal/otu"
)

var otuCmd = &cobra.Command{
	Use:   "cazy-otu FILE...",
	Short: "Build a cross-sample CAZy class abundance matrix",
	Long: `Cazy-otu reads one "class<TAB>count" table per sample, scales each sample
to the mean sample size and prints the --maxrow classes with the highest
minimum abundance as per-sample z-scores. The sample name is the file name
up to its first dot.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOTU,
}

func runOTU(cmd *cobra.Command, args []string) error {
	samples, err := otu.LoadFiles(args)
	if err != nil {
		return err
	}
	m := otu.Build(samples)
	maxRows, _ := cmd.Flags().GetInt("maxrow")
	rows := m.Top(maxRows)
	logger.Info("built abundance matrix",
		zap.Int("samples", len(m.Samples)),
		zap.Int("classes", len(m.Classes)),
		zap.Int("rows", len(rows)))

	output, _ := cmd.Flags().GetString("output")
	w, closeOut, err := createOutput(cmd, output)
	if err != nil {
		return err
	}
	if err := otu.WriteRows(w, m.Samples, rows); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func init() {
	otuCmd.Flags().Int("maxrow", otu.DefaultMaxRows, "number of classes to report (0 reports all)")
	otuCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(otuCmd)
}
