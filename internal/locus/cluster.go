// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locus

// Candidate is one gap-tolerant run of annotated positions, ascending.
type Candidate []int

// Start returns the first position of the run.
func (c Candidate) Start() int { return c[0] }

// End returns the last position of the run.
func (c Candidate) End() int { return c[len(c)-1] }

// ClusterParams bound the runs produced by Cluster.
type ClusterParams struct {
	// GapLen is the largest numeric gap tolerated between neighbours.
	GapLen int

	// Gaps is the number of tolerated gaps; gap event Gaps+1 splits the run.
	Gaps int

	// MinGenes is the smallest run kept.
	MinGenes int
}

// Cluster partitions ascending positions into runs in one left-to-right
// pass. A position adjacent to the run extends it; one within GapLen+1 counts
// as a gap event and extends it unless the event budget is exhausted, in
// which case the run closes and a new one starts there; anything farther
// closes the run. Runs smaller than MinGenes are discarded, including the
// run still open when input ends.
func Cluster(positions []int, p ClusterParams) []Candidate {
	var (
		out       []Candidate
		run       Candidate
		gapEvents int
	)

	closeRun := func(next int) {
		if len(run) >= p.MinGenes {
			out = append(out, run)
		}
		run = Candidate{next}
		gapEvents = 0
	}

	for _, pos := range positions {
		if len(run) == 0 {
			run = append(run, pos)
			continue
		}
		step := pos - run[len(run)-1]
		switch {
		case step <= 1:
			run = append(run, pos)
		case step-1 <= p.GapLen:
			gapEvents++
			if gapEvents >= p.Gaps+1 {
				closeRun(pos)
			} else {
				run = append(run, pos)
			}
		default:
			closeRun(pos)
		}
	}

	if len(run) > 0 && len(run) >= p.MinGenes {
		out = append(out, run)
	}
	return out
}
