// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zxgsy520/findPUL/internal/sus"
	"github.com/zxgsy520/findPUL/internal/tsvio"
)

var susCmd = &cobra.Command{
	Use:   "sus SUS_OUT",
	Short: "Convert SusC/SusD hits into a SUS annotation table",
	Long: `Sus reads a best-hit table whose subject ids carry the family after a
'#' (for example BT_3701#SusC) and writes the qseqid, sseqid and family
columns that merge --sus expects.`,
	Args: cobra.ExactArgs(1),
	RunE: runSus,
}

func runSus(cmd *cobra.Command, args []string) error {
	rc, err := tsvio.Open(args[0])
	if err != nil {
		return err
	}
	defer rc.Close()

	hits, err := sus.ReadHits(rc, args[0])
	if err != nil {
		return err
	}
	logger.Info("read SUS hits", zap.String("path", args[0]), zap.Int("hits", len(hits)))

	output, _ := cmd.Flags().GetString("output")
	w, closeOut, err := createOutput(cmd, output)
	if err != nil {
		return err
	}
	if err := sus.WriteTable(w, hits); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func init() {
	susCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(susCmd)
}
