// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locus

import (
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// Summary holds counts from one Find call.
type Summary struct {
	Contigs    int
	Candidates int
	Rejected   int
	Loci       int
}

// Finder runs clustering, annotation and filtering over an Index.
type Finder struct {
	params  ClusterParams
	filter  Filter
	threads int
	log     *zap.Logger
}

// NewFinder validates cfg and returns a Finder.
func NewFinder(cfg types.ClusterConfig, log *zap.Logger) (*Finder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cluster config: %w", err)
	}
	return &Finder{
		params: ClusterParams{
			GapLen:   cfg.GapLen,
			Gaps:     cfg.Gaps,
			MinGenes: cfg.MinGenes,
		},
		filter:  NewFilter(cfg.AnnotationRate, cfg.Markers),
		threads: cfg.Threads,
		log:     log,
	}, nil
}

type contigResult struct {
	calls      []types.LocusCall
	candidates int
}

// FindContig returns the accepted loci of one contig with Index unset.
func (f *Finder) FindContig(c *Contig) []types.LocusCall {
	return f.scan(c).calls
}

func (f *Finder) scan(c *Contig) contigResult {
	cands := Cluster(c.Positions, f.params)
	res := contigResult{candidates: len(cands)}
	for _, cand := range cands {
		call := Annotate(c, cand)
		if !f.filter.Accept(call) {
			f.log.Debug("locus rejected",
				zap.String("seq_id", call.SeqID),
				zap.Int("start", call.Start),
				zap.Int("end", call.End),
				zap.Float64("rate", call.AnnotationRate))
			continue
		}
		res.calls = append(res.calls, call)
	}
	return res
}

// Find scans every contig of idx concurrently and returns the accepted
// loci in contig order, numbered 1..N across all contigs.
func (f *Finder) Find(idx *Index) ([]types.LocusCall, Summary) {
	mapper := iter.Mapper[*Contig, contigResult]{MaxGoroutines: f.threads}
	results := mapper.Map(idx.Contigs(), func(c **Contig) contigResult {
		return f.scan(*c)
	})

	sum := Summary{Contigs: idx.Len()}
	var calls []types.LocusCall
	for _, r := range results {
		sum.Candidates += r.candidates
		sum.Rejected += r.candidates - len(r.calls)
		for _, call := range r.calls {
			call.Index = len(calls) + 1
			calls = append(calls, call)
		}
	}
	sum.Loci = len(calls)

	f.log.Info("locus scan finished",
		zap.Int("contigs", sum.Contigs),
		zap.Int("candidates", sum.Candidates),
		zap.Int("rejected", sum.Rejected),
		zap.Int("loci", sum.Loci))
	return calls, sum
}

// FindRecords indexes records and runs Find over them.
func (f *Finder) FindRecords(records []types.MergedGeneRecord) ([]types.LocusCall, Summary, error) {
	idx, err := BuildIndex(records)
	if err != nil {
		return nil, Summary{}, err
	}
	calls, sum := f.Find(idx)
	return calls, sum, nil
}
