// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// Export is a run with the loci selected for export.
type Export struct {
	Run  Run               `json:"run" yaml:"run"`
	Loci []types.LocusCall `json:"loci" yaml:"loci"`
}

const exportLimit = 1000000

// ExportYAML writes the loci selected by opts to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string, opts QueryOptions) error {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the loci selected by opts to path as JSON.
func (s *Store) ExportJSON(ctx context.Context, path string, opts QueryOptions) error {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) export(ctx context.Context, opts QueryOptions) (Export, error) {
	runID, err := s.resolveRun(ctx, opts.RunID)
	if err != nil {
		return Export{}, err
	}
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return Export{}, err
	}

	opts.RunID = runID
	opts.MaxResults = exportLimit
	loci, err := s.Retrieve(ctx, opts)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	if loci == nil {
		loci = []types.LocusCall{}
	}
	return Export{Run: run, Loci: loci}, nil
}
