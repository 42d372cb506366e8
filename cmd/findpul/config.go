// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zxgsy520/findPUL/internal/annotation"
	"github.com/zxgsy520/findPUL/pkg/types"
)

// Viper keys. Flags, the config file and FINDPUL_* variables all feed them.
const (
	keyGapLen   = "cluster.gaplen"
	keyGaps     = "cluster.gaps"
	keyMinGenes = "cluster.minegene"
	keyAnRate   = "cluster.anrate"
	keyMarkers  = "cluster.markers"
	keyThreads  = "cluster.threads"
	keyClasses  = "merge.classes"
	keyDB       = "db"
	keyMaxRes   = "max-results"
)

// bindFlags binds the named flags of cmd to viper keys. It runs when the
// command executes so commands sharing a flag name do not overwrite each
// other's binding.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// splitList splits comma-separated elements and drops blanks. Environment
// values reach viper as one string, unlike slice flags.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// --- cluster flags ---

func addClusterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("gaplen", types.DefaultGapLen, "largest gap between annotated genes tolerated inside a locus")
	cmd.Flags().Int("gaps", types.DefaultGaps, "number of tolerated gaps before a locus is split")
	cmd.Flags().Int("minegene", types.DefaultMinGenes, "minimum number of annotated genes in a locus")
	cmd.Flags().Float64("anrate", types.DefaultAnnotationRate, "annotation rate (%) a locus must exceed")
	cmd.Flags().StringSlice("markers", types.DefaultMarkers, "family markers of which a locus must contain one")
	cmd.Flags().Int("threads", 0, "contigs scanned concurrently (0 uses all CPUs)")
}

func clusterConfig(cmd *cobra.Command) (types.ClusterConfig, error) {
	err := bindFlags(cmd, map[string]string{
		"gaplen":   keyGapLen,
		"gaps":     keyGaps,
		"minegene": keyMinGenes,
		"anrate":   keyAnRate,
		"markers":  keyMarkers,
		"threads":  keyThreads,
	})
	if err != nil {
		return types.ClusterConfig{}, err
	}

	cfg := types.DefaultClusterConfig()
	if viper.IsSet(keyGapLen) {
		cfg.GapLen = viper.GetInt(keyGapLen)
	}
	if viper.IsSet(keyGaps) {
		cfg.Gaps = viper.GetInt(keyGaps)
	}
	if viper.IsSet(keyMinGenes) {
		cfg.MinGenes = viper.GetInt(keyMinGenes)
	}
	if viper.IsSet(keyAnRate) {
		cfg.AnnotationRate = viper.GetFloat64(keyAnRate)
	}
	if viper.IsSet(keyMarkers) {
		cfg.Markers = splitList(viper.GetStringSlice(keyMarkers))
	}
	if viper.IsSet(keyThreads) {
		cfg.Threads = viper.GetInt(keyThreads)
	}
	return cfg, cfg.Validate()
}

// --- merge flags ---

func addMergeFlags(cmd *cobra.Command) {
	cmd.Flags().String("sus", "", "SUS annotation table (gene id first, family last)")
	cmd.Flags().String("cazy", "", "CAZy classification table (class list in column 4)")
	cmd.Flags().String("pul", "", "PUL homology table (reference PUL id in column 3)")
	cmd.Flags().StringSlice("classes", types.DefaultEnzymeClasses, "CAZy classes admitted into the merge")
}

func mergeInputs(cmd *cobra.Command) (types.MergeConfig, annotation.Paths, error) {
	if err := bindFlags(cmd, map[string]string{"classes": keyClasses}); err != nil {
		return types.MergeConfig{}, annotation.Paths{}, err
	}
	cfg := types.DefaultMergeConfig()
	if viper.IsSet(keyClasses) {
		cfg.EnzymeClasses = splitList(viper.GetStringSlice(keyClasses))
	}

	var p annotation.Paths
	p.SUS, _ = cmd.Flags().GetString("sus")
	p.CAZy, _ = cmd.Flags().GetString("cazy")
	p.PUL, _ = cmd.Flags().GetString("pul")
	if p.SUS == "" && p.CAZy == "" && p.PUL == "" {
		return cfg, p, fmt.Errorf("at least one of --sus, --cazy or --pul is required")
	}
	return cfg, p, nil
}

// --- store flags ---

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", "findpul.db", "SQLite locus database")
	cmd.Flags().Int("max-results", 50, "maximum number of query results")
}

func storeConfig(cmd *cobra.Command) (types.StoreConfig, error) {
	if err := bindFlags(cmd, map[string]string{"db": keyDB, "max-results": keyMaxRes}); err != nil {
		return types.StoreConfig{}, err
	}
	return types.StoreConfig{
		DBPath:     viper.GetString(keyDB),
		MaxResults: viper.GetInt(keyMaxRes),
	}, nil
}

// --- output ---

// createOutput opens path for writing; "" and "-" select the command's
// standard output.
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}
