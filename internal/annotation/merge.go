// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotation reconciles the SUS, CAZy and PUL homology tables into
// one MergedGeneRecord per gene.
package annotation

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/zxgsy520/findPUL/internal/tsvio"
	"github.com/zxgsy520/findPUL/pkg/types"
)

// Merge builds one record per gene id found in any source. Records are
// ordered by contig key, then numeric position. A malformed gene id aborts
// the merge.
func Merge(src Sources) ([]types.MergedGeneRecord, error) {
	type keyed struct {
		id  types.GeneID
		rec types.MergedGeneRecord
	}

	seen := make(map[string]struct{}, len(src.SUS)+len(src.CAZy)+len(src.PUL))
	var ids []string
	collect := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for id := range src.SUS {
		collect(id)
	}
	for id := range src.CAZy {
		collect(id)
	}
	for id := range src.PUL {
		collect(id)
	}

	out := make([]keyed, 0, len(ids))
	for _, id := range ids {
		gid, err := types.ParseGeneID(id)
		if err != nil {
			return nil, fmt.Errorf("merging annotations: %w", err)
		}
		rec := types.MergedGeneRecord{
			GeneID: id,
			Family: joinFamily(src.SUS[id], src.CAZy[id]),
			PulID:  types.NoPulID,
		}
		if hit, ok := src.PUL[id]; ok {
			rec.PulID = hit.PulID
			rec.Description = hit.Description
		}
		out = append(out, keyed{id: gid, rec: rec})
	}

	slices.SortFunc(out, func(a, b keyed) int {
		return cmp.Or(
			strings.Compare(a.id.ContigKey(), b.id.ContigKey()),
			cmp.Compare(a.id.Position, b.id.Position),
			strings.Compare(a.rec.GeneID, b.rec.GeneID),
		)
	})

	records := make([]types.MergedGeneRecord, len(out))
	for i, k := range out {
		records[i] = k.rec
	}
	return records, nil
}

func joinFamily(sus string, cazy []string) string {
	parts := splitUnique(append([]string{sus}, cazy...)...)
	if len(parts) == 0 {
		return types.NoFamily
	}
	return strings.Join(parts, ";")
}

// Merger loads the three source tables from disk and merges them.
type Merger struct {
	classes []string
	log     *zap.Logger
}

// NewMerger returns a Merger. Empty EnzymeClasses fall back to the defaults.
func NewMerger(cfg types.MergeConfig, log *zap.Logger) *Merger {
	classes := cfg.EnzymeClasses
	if len(classes) == 0 {
		classes = types.DefaultEnzymeClasses
	}
	return &Merger{classes: classes, log: log}
}

// Paths names the three source tables. An empty path is read as an empty table.
type Paths struct {
	SUS  string
	CAZy string
	PUL  string
}

// Load reads the source tables named by p.
func (m *Merger) Load(p Paths) (Sources, error) {
	var src Sources
	var err error

	if src.SUS, err = loadTable(m, p.SUS, "sus", ReadSUS); err != nil {
		return Sources{}, err
	}
	if src.CAZy, err = loadTable(m, p.CAZy, "cazy", func(r io.Reader, name string) (CAZyTable, error) {
		return ReadCAZy(r, name, m.classes)
	}); err != nil {
		return Sources{}, err
	}
	if src.PUL, err = loadTable(m, p.PUL, "pul", ReadPUL); err != nil {
		return Sources{}, err
	}
	return src, nil
}

// MergeFiles loads and merges the tables named by p.
func (m *Merger) MergeFiles(p Paths) ([]types.MergedGeneRecord, error) {
	src, err := m.Load(p)
	if err != nil {
		return nil, err
	}
	records, err := Merge(src)
	if err != nil {
		return nil, err
	}
	m.log.Info("merged annotations",
		zap.Int("sus", len(src.SUS)),
		zap.Int("cazy", len(src.CAZy)),
		zap.Int("pul", len(src.PUL)),
		zap.Int("genes", len(records)))
	return records, nil
}

func loadTable[T ~map[string]V, V any](m *Merger, path, source string, read func(io.Reader, string) (T, error)) (T, error) {
	if path == "" {
		m.log.Warn("no table given, treating source as empty", zap.String("source", source))
		return T{}, nil
	}
	m.log.Info("reading table", zap.String("source", source), zap.String("path", path))
	rc, err := tsvio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := read(rc, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s table: %w", source, err)
	}
	if len(t) == 0 {
		m.log.Warn("table has no usable rows", zap.String("source", source), zap.String("path", path))
	}
	return t, nil
}
