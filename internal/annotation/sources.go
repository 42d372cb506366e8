// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotation

import (
	"io"
	"slices"
	"strings"

	"github.com/zxgsy520/findPUL/internal/tsvio"
)

// Column layout of the upstream tables.
const (
	cazyTypeColumn = 3
	pulIDColumn    = 2

	susMinColumns  = 2
	cazyMinColumns = cazyTypeColumn + 1
	pulMinColumns  = pulIDColumn + 2
)

// SUSTable maps gene id to its SusC/SusD family label.
type SUSTable map[string]string

// CAZyTable maps gene id to its de-duplicated CAZy class list.
type CAZyTable map[string][]string

// PULHit is the best reference PUL hit of one gene.
type PULHit struct {
	PulID       string
	Description string
}

// PULTable maps gene id to its reference PUL hit.
type PULTable map[string]PULHit

// Sources holds the three per-gene annotation tables.
type Sources struct {
	SUS  SUSTable
	CAZy CAZyTable
	PUL  PULTable
}

// ReadSUS reads a SUS table: gene id in the first column, family in the last.
func ReadSUS(r io.Reader, name string) (SUSTable, error) {
	sc := tsvio.NewScanner(r, name)
	out := make(SUSTable)
	for sc.Next() {
		if err := sc.Require(susMinColumns); err != nil {
			return nil, err
		}
		f := sc.Fields()
		out[f[0]] = strings.TrimSpace(f[len(f)-1])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadCAZy reads a CAZy classification table. Column 3 holds a
// semicolon-separated class list; rows whose list contains none of classes
// are dropped.
func ReadCAZy(r io.Reader, name string, classes []string) (CAZyTable, error) {
	sc := tsvio.NewScanner(r, name)
	out := make(CAZyTable)
	for sc.Next() {
		if err := sc.Require(cazyMinColumns); err != nil {
			return nil, err
		}
		f := sc.Fields()
		found := splitUnique(f[cazyTypeColumn])
		if !containsAny(found, classes) {
			continue
		}
		out[f[0]] = found
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadPUL reads a PUL homology table: the reference PUL id sits in column 2
// and the description in the last column.
func ReadPUL(r io.Reader, name string) (PULTable, error) {
	sc := tsvio.NewScanner(r, name)
	out := make(PULTable)
	for sc.Next() {
		if err := sc.Require(pulMinColumns); err != nil {
			return nil, err
		}
		f := sc.Fields()
		out[f[0]] = PULHit{
			PulID:       strings.TrimSpace(f[pulIDColumn]),
			Description: strings.TrimSpace(f[len(f)-1]),
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitUnique splits a semicolon list, dropping blanks, "." and repeats
// while keeping first-seen order.
func splitUnique(lists ...string) []string {
	var out []string
	for _, list := range lists {
		for _, p := range strings.Split(list, ";") {
			p = strings.TrimSpace(p)
			if p == "" || p == "." || slices.Contains(out, p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
