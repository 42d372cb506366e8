// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locus

import (
	"strings"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// Filter accepts loci above an annotation-rate floor that carry at least one
// required family marker.
type Filter struct {
	minRate float64
	markers map[string]struct{}
}

// NewFilter returns a Filter. minRate is a strict bound in percent.
func NewFilter(minRate float64, markers []string) Filter {
	f := Filter{minRate: minRate, markers: make(map[string]struct{}, len(markers))}
	for _, m := range markers {
		f.markers[m] = struct{}{}
	}
	return f
}

// Accept reports whether call passes both the rate and the marker check.
func (f Filter) Accept(call types.LocusCall) bool {
	return call.AnnotationRate > f.minRate && f.HasMarker(call.Structure)
}

// HasMarker reports whether any label, split on ';', names a marker.
func (f Filter) HasMarker(structure []string) bool {
	for _, label := range structure {
		for _, part := range strings.Split(label, ";") {
			if _, ok := f.markers[part]; ok {
				return true
			}
		}
	}
	return false
}
