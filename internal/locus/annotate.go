// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locus

import "github.com/zxgsy520/findPUL/pkg/types"

// Annotate builds the LocusCall of candidate c on contig. Every position of
// the inclusive span is labelled, not only the run members. Index is left
// zero; the finder assigns it.
func Annotate(contig *Contig, c Candidate) types.LocusCall {
	start, end := c.Start(), c.End()
	call := types.LocusCall{
		SeqID:     contig.Key,
		Start:     start,
		End:       end,
		GeneCount: end - start + 1,
		Structure: make([]string, 0, end-start+1),
	}

	var roles []types.Role
	for pos := start; pos <= end; pos++ {
		rec, ok := contig.Gene(pos)
		if !ok {
			call.Structure = append(call.Structure, types.GapLabel)
			continue
		}
		call.Structure = append(call.Structure, rec.Label())
		call.AnnotatedGeneCount++
		if r := rec.Role(); r.Qualifies() {
			roles = append(roles, r)
		}
	}

	call.AnnotationRate = float64(call.AnnotatedGeneCount) * 100 / float64(call.GeneCount)
	call.Function = majority(roles)
	return call
}

// majority returns the most frequent role; on a tie the role seen first wins.
func majority(roles []types.Role) types.Role {
	counts := make(map[types.Role]int, 2)
	for _, r := range roles {
		counts[r]++
	}
	best, bestN := types.RoleNone, 0
	for _, r := range roles {
		if counts[r] > bestN {
			best, bestN = r, counts[r]
		}
	}
	return best
}
