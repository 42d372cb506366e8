// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/biogo/biogo/io/featio/gff"

	"github.com/zxgsy520/findPUL/pkg/types"
)

const (
	gffSource  = "findPUL"
	gffFeature = "PUL"
)

// WriteGFF writes one GFF feature per locus. Gene-order positions stand in
// for sequence coordinates; the score is the annotation rate.
func WriteGFF(w io.Writer, calls []types.LocusCall) error {
	gw := gff.NewWriter(w, 60, true)
	for _, c := range calls {
		score := c.AnnotationRate
		attrs := gff.Attributes{
			{Tag: "ID", Value: "PUL" + strconv.Itoa(c.Index)},
			{Tag: "Genes", Value: strconv.Itoa(c.GeneCount)},
			{Tag: "Structure", Value: strconv.Quote(c.StructureString())},
		}
		if c.Function != types.RoleNone {
			attrs = append(attrs, gff.Attribute{Tag: "Function", Value: string(c.Function)})
		}
		_, err := gw.Write(&gff.Feature{
			SeqName:        c.SeqID,
			Source:         gffSource,
			Feature:        gffFeature,
			FeatStart:      c.Start - 1,
			FeatEnd:        c.End,
			FeatScore:      &score,
			FeatFrame:      gff.NoFrame,
			FeatAttributes: attrs,
		})
		if err != nil {
			return fmt.Errorf("writing GFF feature for locus %d: %w", c.Index, err)
		}
	}
	return nil
}
