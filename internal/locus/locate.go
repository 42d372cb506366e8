// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locus

import (
	"fmt"
	"slices"

	"github.com/biogo/store/interval"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// span is a locus call stored in an interval tree. Ranges are half-open.
type span struct {
	uid        uintptr
	start, end int
}

func (s span) Overlap(b interval.IntRange) bool {
	return b.Start < s.end && s.start < b.End
}
func (s span) ID() uintptr { return s.uid }
func (s span) Range() interval.IntRange {
	return interval.IntRange{Start: s.start, End: s.end}
}

// point queries the spans containing one gene position.
type point int

func (p point) Overlap(b interval.IntRange) bool {
	return b.Start <= int(p) && int(p) < b.End
}

// Locator finds the loci that contain a gene.
type Locator struct {
	calls []types.LocusCall
	trees map[string]*interval.IntTree
}

// NewLocator indexes calls by contig.
func NewLocator(calls []types.LocusCall) (*Locator, error) {
	l := &Locator{calls: calls, trees: make(map[string]*interval.IntTree)}
	for i, c := range calls {
		t, ok := l.trees[c.SeqID]
		if !ok {
			t = &interval.IntTree{}
			l.trees[c.SeqID] = t
		}
		if err := t.Insert(span{uid: uintptr(i), start: c.Start, end: c.End + 1}, true); err != nil {
			return nil, fmt.Errorf("indexing locus %d: %w", c.Index, err)
		}
	}
	for _, t := range l.trees {
		t.AdjustRanges()
	}
	return l, nil
}

// Locate returns the loci whose span contains geneID, ordered by Index.
func (l *Locator) Locate(geneID string) ([]types.LocusCall, error) {
	gid, err := types.ParseGeneID(geneID)
	if err != nil {
		return nil, err
	}
	t, ok := l.trees[gid.ContigKey()]
	if !ok {
		return nil, nil
	}
	var out []types.LocusCall
	for _, hit := range t.Get(point(gid.Position)) {
		out = append(out, l.calls[hit.ID()])
	}
	slices.SortFunc(out, func(a, b types.LocusCall) int { return a.Index - b.Index })
	return out, nil
}
