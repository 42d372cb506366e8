// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zxgsy520/findPUL/internal/tsvio"
	"github.com/zxgsy520/findPUL/pkg/types"
)

// LociHeader is the header line of the locus table.
const LociHeader = "#Seq_id\tPULs\tStart\tEnd\tGene Number\tAnnotation Genes\tAnnotation rate(%)\tPul structure\tFunction"

const lociColumns = 9

// WriteLoci writes calls as the locus table. Rates carry two decimals.
func WriteLoci(w io.Writer, calls []types.LocusCall) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, LociHeader)
	for _, c := range calls {
		fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\t%d\t%.2f\t%s\t%s\n",
			c.SeqID, c.Index, c.Start, c.End, c.GeneCount,
			c.AnnotatedGeneCount, c.AnnotationRate, c.StructureString(), c.Function)
	}
	return bw.Flush()
}

// ReadLoci parses a locus table written by WriteLoci.
func ReadLoci(r io.Reader, name string) ([]types.LocusCall, error) {
	sc := tsvio.NewScanner(r, name)
	var out []types.LocusCall
	for sc.Next() {
		// The function column is empty for loci without a role.
		if err := sc.Require(lociColumns - 1); err != nil {
			return nil, err
		}
		f := sc.Fields()

		var (
			c    = types.LocusCall{SeqID: f[0]}
			ints = []*int{&c.Index, &c.Start, &c.End, &c.GeneCount, &c.AnnotatedGeneCount}
		)
		for i, dst := range ints {
			v, err := strconv.Atoi(strings.TrimSpace(f[i+1]))
			if err != nil {
				return nil, sc.Wrap(fmt.Errorf("column %d: %w", i+2, err))
			}
			*dst = v
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(f[6]), 64)
		if err != nil {
			return nil, sc.Wrap(fmt.Errorf("annotation rate: %w", err))
		}
		c.AnnotationRate = rate
		c.Structure = strings.Split(f[7], types.StructureSep)
		if len(f) >= lociColumns {
			c.Function = types.Role(strings.TrimSpace(f[8]))
		}
		out = append(out, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
