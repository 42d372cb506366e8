// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Clustering defaults. The two historical defaults for gap length and gap
// count were 1 and 4; findPUL uses 1 for both.
const (
	DefaultGapLen         = 1
	DefaultGaps           = 1
	DefaultMinGenes       = 2
	DefaultAnnotationRate = 0.0

	// MaxGapLen and MaxGaps bound the gap settings. Together they limit how
	// far a locus can stretch between annotated genes.
	MaxGapLen = 1000
	MaxGaps   = 1000
)

// DefaultEnzymeClasses are the CAZy classes that admit a gene into the merge.
var DefaultEnzymeClasses = []string{"GH", "CE"}

// DefaultMarkers are the family markers a locus must contain at least once.
var DefaultMarkers = []string{"GH", "CE", "SusC", "SusD"}

// MergeConfig holds settings for the annotation merge stage.
type MergeConfig struct {
	// EnzymeClasses lists the accepted CAZy class codes (default GH, CE).
	EnzymeClasses []string `json:"enzyme_classes" yaml:"enzyme_classes"`
}

// DefaultMergeConfig returns a MergeConfig with default values.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{EnzymeClasses: append([]string(nil), DefaultEnzymeClasses...)}
}

// ClusterConfig holds settings for locus clustering and filtering.
type ClusterConfig struct {
	// GapLen is the largest numeric gap tolerated inside a run.
	GapLen int `json:"gaplen" yaml:"gaplen"`

	// Gaps is the number of tolerated gap events before a run is split.
	Gaps int `json:"gaps" yaml:"gaps"`

	// MinGenes is the smallest run size kept as a candidate.
	MinGenes int `json:"minegene" yaml:"minegene"`

	// AnnotationRate is the strict lower bound on a locus annotation rate (percent).
	AnnotationRate float64 `json:"anrate" yaml:"anrate"`

	// Markers are the family labels of which a locus must contain one.
	Markers []string `json:"markers" yaml:"markers"`

	// Threads bounds the number of contigs clustered concurrently; 0 uses GOMAXPROCS.
	Threads int `json:"threads" yaml:"threads"`
}

// DefaultClusterConfig returns a ClusterConfig with default values.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		GapLen:         DefaultGapLen,
		Gaps:           DefaultGaps,
		MinGenes:       DefaultMinGenes,
		AnnotationRate: DefaultAnnotationRate,
		Markers:        append([]string(nil), DefaultMarkers...),
	}
}

// Validate reports the first invalid setting.
func (c ClusterConfig) Validate() error {
	switch {
	case c.GapLen < 0 || c.GapLen > MaxGapLen:
		return fmt.Errorf("gaplen must be within [0, %d], got %d", MaxGapLen, c.GapLen)
	case c.Gaps < 0 || c.Gaps > MaxGaps:
		return fmt.Errorf("gaps must be within [0, %d], got %d", MaxGaps, c.Gaps)
	case c.MinGenes < 1:
		return fmt.Errorf("minegene must be >= 1, got %d", c.MinGenes)
	case c.AnnotationRate < 0 || c.AnnotationRate > 100:
		return fmt.Errorf("anrate must be within [0, 100], got %g", c.AnnotationRate)
	case len(c.Markers) == 0:
		return errors.New("at least one family marker is required")
	case c.Threads < 0:
		return fmt.Errorf("threads must be >= 0, got %d", c.Threads)
	}
	return nil
}

// StoreConfig holds settings for the locus database.
type StoreConfig struct {
	// DBPath is the SQLite database file (e.g. "findpul.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Merge   MergeConfig   `json:"merge" yaml:"merge"`
	Cluster ClusterConfig `json:"cluster" yaml:"cluster"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
