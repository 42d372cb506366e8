// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedGeneID is returned when a gene identifier does not have the
// form sample.contig.position with an integer position.
var ErrMalformedGeneID = errors.New("malformed gene id")

const (
	// NoFamily marks a merged record without a structural family.
	NoFamily = "."

	// NoPulID marks a merged record without a reference PUL hit.
	NoPulID = "."

	// GapLabel fills positions of a locus span that carry no annotation.
	GapLabel = "_"

	// HomologyLabel labels a gene known only from the PUL homology source.
	HomologyLabel = "PUL"
)

// Role is the functional class of a gene, taken from the description of
// its reference PUL hit.
type Role string

const (
	RoleNone         Role = ""
	RoleDegradation  Role = "degradation"
	RoleBiosynthesis Role = "biosynthesis"
)

// ParseRole derives a Role from a homology description. Matching is case
// insensitive; when both keywords appear the earlier one wins.
func ParseRole(description string) Role {
	d := strings.ToLower(description)
	deg := strings.Index(d, string(RoleDegradation))
	bio := strings.Index(d, string(RoleBiosynthesis))
	switch {
	case deg < 0 && bio < 0:
		return RoleNone
	case bio < 0 || (deg >= 0 && deg < bio):
		return RoleDegradation
	default:
		return RoleBiosynthesis
	}
}

// Qualifies reports whether r takes part in the locus function vote.
func (r Role) Qualifies() bool {
	return r == RoleDegradation || r == RoleBiosynthesis
}

// GeneID is a parsed gene identifier.
type GeneID struct {
	Sample   string
	Contig   string
	Position int
}

// ParseGeneID splits id into its sample, contig and position parts.
func ParseGeneID(id string) (GeneID, error) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return GeneID{}, fmt.Errorf("%w: %q has %d components, want 3", ErrMalformedGeneID, id, len(parts))
	}
	pos, err := strconv.Atoi(parts[2])
	if err != nil {
		return GeneID{}, fmt.Errorf("%w: %q has non-integer position %q", ErrMalformedGeneID, id, parts[2])
	}
	return GeneID{Sample: parts[0], Contig: parts[1], Position: pos}, nil
}

// ContigKey returns the sample.contig key that groups genes of one contig.
func (g GeneID) ContigKey() string {
	return g.Sample + "." + g.Contig
}

func (g GeneID) String() string {
	return g.ContigKey() + "." + strconv.Itoa(g.Position)
}

// MergedGeneRecord is the reconciled annotation of one gene across the SUS,
// CAZy and PUL sources.
type MergedGeneRecord struct {
	// GeneID is the raw identifier as it appeared in the source tables.
	GeneID string `json:"gene_id" yaml:"gene_id"`

	// Family is the semicolon-joined structural family, or NoFamily.
	Family string `json:"family" yaml:"family"`

	// PulID is the homologous reference PUL, or NoPulID.
	PulID string `json:"pul_id" yaml:"pul_id"`

	// Description is the free-text annotation of the PUL hit.
	Description string `json:"description" yaml:"description"`
}

// Role returns the functional role implied by the record's description.
func (r MergedGeneRecord) Role() Role {
	return ParseRole(r.Description)
}

// Label returns the structure label of the gene inside a locus.
func (r MergedGeneRecord) Label() string {
	if r.Family == "" || r.Family == NoFamily {
		return HomologyLabel
	}
	return r.Family
}
