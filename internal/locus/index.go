// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locus calls polysaccharide utilization loci from merged gene
// records: it indexes annotated positions per contig, partitions them into
// gap-tolerant runs, annotates each run over its full span and filters the
// result.
package locus

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// ErrDuplicatePosition is returned when two gene ids resolve to the same
// position on one contig.
var ErrDuplicatePosition = errors.New("duplicate gene position")

// Contig holds the annotated positions of one sample.contig.
type Contig struct {
	// Key is the sample.contig identifier.
	Key string

	// Positions is strictly ascending.
	Positions []int

	genes map[int]types.MergedGeneRecord
}

// Gene returns the record stored at position.
func (c *Contig) Gene(position int) (types.MergedGeneRecord, bool) {
	r, ok := c.genes[position]
	return r, ok
}

// Index groups merged records by contig, keeping first-seen contig order.
type Index struct {
	contigs []*Contig
	byKey   map[string]*Contig
}

// BuildIndex parses every gene id of records and groups them by contig.
func BuildIndex(records []types.MergedGeneRecord) (*Index, error) {
	x := &Index{byKey: make(map[string]*Contig)}

	for _, rec := range records {
		gid, err := types.ParseGeneID(rec.GeneID)
		if err != nil {
			return nil, fmt.Errorf("indexing genes: %w", err)
		}
		key := gid.ContigKey()
		c, ok := x.byKey[key]
		if !ok {
			c = &Contig{Key: key, genes: make(map[int]types.MergedGeneRecord)}
			x.byKey[key] = c
			x.contigs = append(x.contigs, c)
		}
		if prev, dup := c.genes[gid.Position]; dup {
			return nil, fmt.Errorf("indexing genes: %w: %q and %q", ErrDuplicatePosition, prev.GeneID, rec.GeneID)
		}
		c.genes[gid.Position] = rec
		c.Positions = append(c.Positions, gid.Position)
	}

	for _, c := range x.contigs {
		slices.Sort(c.Positions)
	}
	return x, nil
}

// Contigs returns the contigs in first-seen order.
func (x *Index) Contigs() []*Contig { return x.contigs }

// Contig returns the contig with the given sample.contig key.
func (x *Index) Contig(key string) (*Contig, bool) {
	c, ok := x.byKey[key]
	return c, ok
}

// Len returns the number of contigs.
func (x *Index) Len() int { return len(x.contigs) }
