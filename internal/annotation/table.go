// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotation

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/zxgsy520/findPUL/internal/tsvio"
	"github.com/zxgsy520/findPUL/pkg/types"
)

// MergedHeader is the header line of the merged annotation table.
const MergedHeader = "#Seqid\tGene family\tPulid\tDegradation/Biosynthesis"

// WriteMerged writes records as the merged annotation table.
func WriteMerged(w io.Writer, records []types.MergedGeneRecord) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, MergedHeader)
	for _, r := range records {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\n", r.GeneID, r.Family, r.PulID, r.Description)
	}
	return bw.Flush()
}

// ReadMerged reads a merged annotation table. Rows keep file order; the
// family column is required, pul id and description default when absent.
func ReadMerged(r io.Reader, name string) ([]types.MergedGeneRecord, error) {
	sc := tsvio.NewScanner(r, name)
	var out []types.MergedGeneRecord
	for sc.Next() {
		if err := sc.Require(2); err != nil {
			return nil, err
		}
		f := sc.Fields()
		rec := types.MergedGeneRecord{
			GeneID: strings.TrimSpace(f[0]),
			Family: strings.TrimSpace(f[1]),
			PulID:  types.NoPulID,
		}
		if rec.Family == "" {
			rec.Family = types.NoFamily
		}
		if len(f) > 2 && strings.TrimSpace(f[2]) != "" {
			rec.PulID = strings.TrimSpace(f[2])
		}
		if len(f) > 3 {
			rec.Description = strings.TrimSpace(f[len(f)-1])
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
