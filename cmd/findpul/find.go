// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/zxgsy520/findPUL/internal/annotation"
	"github.com/zxgsy520/findPUL/internal/locus"
	"github.com/zxgsy520/findPUL/internal/report"
	"github.com/zxgsy520/findPUL/internal/tsvio"
	"github.com/zxgsy520/findPUL/pkg/types"
)

var findCmd = &cobra.Command{
	Use:   "find MERGED",
	Short: "Call PULs from a merged annotation table",
	Long: `Find groups the genes of a merged annotation table by contig and scans
each contig for runs of annotated genes. Neighbours up to --gaplen positions
apart join a run; after --gaps such gaps the run is split. Runs with fewer
than --minegene genes are dropped. A run is reported when its annotation
rate exceeds --anrate and its structure holds one of --markers.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := clusterConfig(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	records, err := readMergedFile(args[0])
	if err != nil {
		return err
	}
	finder, err := locus.NewFinder(cfg, logger)
	if err != nil {
		return err
	}
	calls, _, err := finder.FindRecords(records)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	w, closeOut, err := createOutput(cmd, output)
	if err != nil {
		return err
	}
	if err := report.Write(w, format, calls); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func readMergedFile(path string) ([]types.MergedGeneRecord, error) {
	rc, err := tsvio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return annotation.ReadMerged(rc, path)
}

func init() {
	addClusterFlags(findCmd)
	findCmd.Flags().String("format", string(report.FormatTSV), "output format: tsv, json, yaml or gff")
	findCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(findCmd)
}
