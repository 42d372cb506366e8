// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zxgsy520/findPUL/internal/annotation"
	"github.com/zxgsy520/findPUL/internal/locus"
	"github.com/zxgsy520/findPUL/internal/report"
	"github.com/zxgsy520/findPUL/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Merge annotations and call PULs in one step",
	Long: `Run merges the annotation tables and calls PULs from the result. It writes
<prefix>.merge_puldb.tsv, <prefix>.stat_pul.tsv and <prefix>.pul.gff into
--out-dir. With --store the run is also recorded in the --db database.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	mergeCfg, paths, err := mergeInputs(cmd)
	if err != nil {
		return err
	}
	clusterCfg, err := clusterConfig(cmd)
	if err != nil {
		return err
	}
	finder, err := locus.NewFinder(clusterCfg, logger)
	if err != nil {
		return err
	}

	records, err := annotation.NewMerger(mergeCfg, logger).MergeFiles(paths)
	if err != nil {
		return err
	}
	calls, _, err := finder.FindRecords(records)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	prefix, _ := cmd.Flags().GetString("prefix")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outputs := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{".merge_puldb.tsv", func(w io.Writer) error { return annotation.WriteMerged(w, records) }},
		{".stat_pul.tsv", func(w io.Writer) error { return report.WriteLoci(w, calls) }},
		{".pul.gff", func(w io.Writer) error { return report.WriteGFF(w, calls) }},
	}
	for _, o := range outputs {
		path := filepath.Join(outDir, prefix+o.suffix)
		if err := writeFile(path, o.write); err != nil {
			return err
		}
		logger.Info("wrote output", zap.String("path", path))
	}

	if persist, _ := cmd.Flags().GetBool("store"); persist {
		storeCfg, err := storeConfig(cmd)
		if err != nil {
			return err
		}
		s, err := store.Open(storeCfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		run, err := s.IngestRun(cmd.Context(), clusterCfg, records, calls)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored run %s (%d loci)\n", run.ID, run.Loci)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	addMergeFlags(runCmd)
	addClusterFlags(runCmd)
	addStoreFlags(runCmd)
	runCmd.Flags().String("prefix", "out", "output file name prefix")
	runCmd.Flags().String("out-dir", ".", "output directory")
	runCmd.Flags().Bool("store", false, "record the run in the locus database")

	rootCmd.AddCommand(runCmd)
}
