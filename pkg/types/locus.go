// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// StructureSep joins structure labels in tabular output.
const StructureSep = "|"

// LocusCall is one accepted polysaccharide utilization locus.
type LocusCall struct {
	// SeqID is the sample.contig key the locus lies on.
	SeqID string `json:"seq_id" yaml:"seq_id"`

	// Index is the 1-based serial number in emission order across all contigs.
	Index int `json:"index" yaml:"index"`

	// Start and End are inclusive gene-order positions.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// GeneCount is End-Start+1, unannotated interior positions included.
	GeneCount int `json:"gene_count" yaml:"gene_count"`

	// AnnotatedGeneCount counts span positions that carry an annotation.
	AnnotatedGeneCount int `json:"annotated_genes" yaml:"annotated_genes"`

	// AnnotationRate is AnnotatedGeneCount*100/GeneCount.
	AnnotationRate float64 `json:"annotation_rate" yaml:"annotation_rate"`

	// Structure holds one label per span position, GapLabel where unannotated.
	Structure []string `json:"structure" yaml:"structure"`

	// Function is the majority role of the span, or RoleNone.
	Function Role `json:"function" yaml:"function"`
}

// StructureString returns the pipe-joined structure.
func (l LocusCall) StructureString() string {
	return strings.Join(l.Structure, StructureSep)
}

// Contains reports whether position lies inside the locus span.
func (l LocusCall) Contains(position int) bool {
	return l.Start <= position && position <= l.End
}
