// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zxgsy520/findPUL/internal/locus"
	"github.com/zxgsy520/findPUL/internal/report"
	"github.com/zxgsy520/findPUL/internal/store"
	"github.com/zxgsy520/findPUL/internal/tsvio"
	"github.com/zxgsy520/findPUL/pkg/types"
)

var lociCmd = &cobra.Command{
	Use:   "loci",
	Short: "Manage the locus database (store, runs, retrieve, export, locate)",
	Long: `Loci keeps findPUL runs in a local SQLite database. Each run records its
clustering parameters, the merged gene table and the called loci. Queries
default to the most recent run.`,
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := storeConfig(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg, logger)
}

// --- store subcommand ---

var lociStoreCmd = &cobra.Command{
	Use:   "store MERGED [LOCI]",
	Short: "Record a run from a merged table",
	Long: `Store records a run in the database. With only MERGED the loci are
called with the clustering flags; with LOCI the given locus table is stored
as is and the flags are recorded as its parameters.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLociStore,
}

func runLociStore(cmd *cobra.Command, args []string) error {
	cfg, err := clusterConfig(cmd)
	if err != nil {
		return err
	}
	records, err := readMergedFile(args[0])
	if err != nil {
		return err
	}

	var calls []types.LocusCall
	if len(args) == 2 {
		rc, err := tsvio.Open(args[1])
		if err != nil {
			return err
		}
		calls, err = report.ReadLoci(rc, args[1])
		rc.Close()
		if err != nil {
			return err
		}
	} else {
		finder, err := locus.NewFinder(cfg, logger)
		if err != nil {
			return err
		}
		if calls, _, err = finder.FindRecords(records); err != nil {
			return err
		}
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.IngestRun(cmd.Context(), cfg, records, calls)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored run %s (%d genes, %d loci)\n", run.ID, run.Genes, run.Loci)
	return nil
}

// --- runs subcommand ---

var lociRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLociRuns,
}

func runLociRuns(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs stored.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tGENES\tLOCI\tGAPLEN\tGAPS\tMINEGENE\tANRATE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%g\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Genes, r.Loci,
			r.Params.GapLen, r.Params.Gaps, r.Params.MinGenes, r.Params.AnnotationRate)
	}
	return tw.Flush()
}

// --- retrieve subcommand ---

var lociRetrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Query stored loci",
	Long: `Retrieve lists the loci of a stored run, filtered by contig, function,
minimum annotation rate or a family marker in the structure.`,
	Args: cobra.NoArgs,
	RunE: runLociRetrieve,
}

func runLociRetrieve(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	opts, err := queryOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	calls, err := s.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), format, calls)
}

// --- export subcommand ---

var lociExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run to YAML or JSON",
	Long: `Export writes the run record and its loci (or a filtered subset) to a
YAML or JSON file. It accepts the same filters as retrieve.`,
	Args: cobra.NoArgs,
	RunE: runLociExport,
}

func runLociExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	opts, err := queryOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	switch format {
	case "yaml", "":
		if output == "" {
			output = "findpul-export.yaml"
		}
		err = s.ExportYAML(cmd.Context(), output, opts)
	case "json":
		if output == "" {
			output = "findpul-export.json"
		}
		err = s.ExportJSON(cmd.Context(), output, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Exported to", output)
	return nil
}

// --- locate subcommand ---

var lociLocateCmd = &cobra.Command{
	Use:   "locate GENE...",
	Short: "Find the stored loci containing genes",
	Long: `Locate reports, for each gene id (sample.contig.position), the loci of
the selected run whose span covers the gene, including loci where the gene
is an unannotated gap.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLociLocate,
}

func runLociLocate(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	calls, err := s.Retrieve(cmd.Context(), store.QueryOptions{RunID: runID, MaxResults: 1 << 30})
	if err != nil {
		return err
	}
	loc, err := locus.NewLocator(calls)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "#Gene\tSeq_id\tPULs\tStart\tEnd\tFunction")
	for _, gene := range args {
		hits, err := loc.Locate(gene)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Fprintf(out, "%s\t.\t.\t.\t.\t.\n", gene)
			continue
		}
		for _, c := range hits {
			fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%d\t%s\n", gene, c.SeqID, c.Index, c.Start, c.End, c.Function)
		}
	}
	return nil
}

// --- shared helpers ---

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("run", "", "run id (default: latest run)")
	cmd.Flags().String("seq", "", "filter by sample.contig")
	cmd.Flags().String("function", "", "filter by function: degradation or biosynthesis")
	cmd.Flags().Float64("min-rate", 0, "minimum annotation rate (%)")
	cmd.Flags().String("marker", "", "filter by a family label in the structure")
}

func queryOptsFromFlags(cmd *cobra.Command) (store.QueryOptions, error) {
	var opts store.QueryOptions
	opts.RunID, _ = cmd.Flags().GetString("run")
	opts.SeqID, _ = cmd.Flags().GetString("seq")
	opts.MinRate, _ = cmd.Flags().GetFloat64("min-rate")
	opts.Marker, _ = cmd.Flags().GetString("marker")

	if fn, _ := cmd.Flags().GetString("function"); fn != "" {
		opts.Function = types.Role(strings.ToLower(fn))
		if !opts.Function.Qualifies() {
			return opts, fmt.Errorf("unknown function %q: use degradation or biosynthesis", fn)
		}
	}
	return opts, nil
}

func init() {
	addClusterFlags(lociStoreCmd)
	addQueryFlags(lociRetrieveCmd)
	addQueryFlags(lociExportCmd)
	lociRetrieveCmd.Flags().String("format", string(report.FormatTSV), "output format: tsv, json, yaml or gff")
	lociExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	lociExportCmd.Flags().StringP("output", "o", "", "export file (default findpul-export.<format>)")
	lociLocateCmd.Flags().String("run", "", "run id (default: latest run)")

	lociCmd.PersistentFlags().String("db", "findpul.db", "SQLite locus database")
	lociCmd.PersistentFlags().Int("max-results", 50, "maximum number of query results")

	lociCmd.AddCommand(lociStoreCmd, lociRunsCmd, lociRetrieveCmd, lociExportCmd, lociLocateCmd)
	rootCmd.AddCommand(lociCmd)
}
