// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/zxgsy520/findPUL/internal/locus"
	"github.com/zxgsy520/findPUL/pkg/types"
)

// QueryOptions holds locus query filters.
type QueryOptions struct {
	// RunID selects the run. Empty selects the latest run.
	RunID string

	// SeqID filters by sample.contig key.
	SeqID string

	// Function filters by majority role.
	Function types.Role

	// MinRate keeps loci with an annotation rate of at least MinRate.
	MinRate float64

	// Marker keeps loci whose structure contains this family label.
	Marker string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

func (s *Store) resolveRun(ctx context.Context, runID string) (string, error) {
	if runID != "" {
		return runID, nil
	}
	run, err := s.LatestRun(ctx)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// Retrieve returns the loci of one run matching opts, ordered by index.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.LocusCall, error) {
	runID, err := s.resolveRun(ctx, opts.RunID)
	if err != nil {
		return nil, err
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args = []any{runID}
	)
	qb.WriteString(
		`SELECT seq_id, idx, start_pos, end_pos, gene_count, annotated, rate, structure, role
		FROM loci WHERE run_id = ?`)

	if opts.SeqID != "" {
		qb.WriteString(` AND seq_id = ?`)
		args = append(args, opts.SeqID)
	}
	if opts.Function != types.RoleNone {
		qb.WriteString(` AND role = ?`)
		args = append(args, string(opts.Function))
	}
	if opts.MinRate > 0 {
		qb.WriteString(` AND rate >= ?`)
		args = append(args, opts.MinRate)
	}
	if opts.Marker != "" {
		// Coarse prefilter; labels are matched exactly below.
		qb.WriteString(` AND instr(structure, ?) > 0`)
		args = append(args, opts.Marker)
	}
	qb.WriteString(` ORDER BY idx`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying loci: %w", err)
	}
	defer rows.Close()

	var marker locus.Filter
	if opts.Marker != "" {
		marker = locus.NewFilter(0, []string{opts.Marker})
	}

	var results []types.LocusCall
	for rows.Next() && len(results) < maxResults {
		var (
			c         types.LocusCall
			structure string
			function  sql.NullString
		)
		if err := rows.Scan(
			&c.SeqID, &c.Index, &c.Start, &c.End, &c.GeneCount,
			&c.AnnotatedGeneCount, &c.AnnotationRate, &structure, &function,
		); err != nil {
			return nil, fmt.Errorf("scanning locus: %w", err)
		}
		c.Structure = strings.Split(structure, types.StructureSep)
		c.Function = types.Role(function.String)

		if opts.Marker != "" && !marker.HasMarker(c.Structure) {
			continue
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Genes returns the merged gene records of one run, optionally limited to a
// contig, in contig then position order.
func (s *Store) Genes(ctx context.Context, runID, seqID string) ([]types.MergedGeneRecord, error) {
	runID, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	query := `SELECT gene_id, family, pul_id, description FROM genes WHERE run_id = ?`
	args := []any{runID}
	if seqID != "" {
		query += ` AND seq_id = ?`
		args = append(args, seqID)
	}
	query += ` ORDER BY seq_id, position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying genes: %w", err)
	}
	defer rows.Close()

	var out []types.MergedGeneRecord
	for rows.Next() {
		var (
			r    types.MergedGeneRecord
			desc sql.NullString
		)
		if err := rows.Scan(&r.GeneID, &r.Family, &r.PulID, &desc); err != nil {
			return nil, fmt.Errorf("scanning gene: %w", err)
		}
		r.Description = desc.String
		out = append(out, r)
	}
	return out, rows.Err()
}
