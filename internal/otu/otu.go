// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package otu builds a cross-sample abundance matrix of CAZy classes.
// Per-sample counts are scaled to the mean sample size, rows are ranked by
// their smallest scaled value and each kept row is reported as z-scores.
package otu

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/zxgsy520/findPUL/internal/tsvio"
)

// DefaultMaxRows is the number of rows reported when no limit is given.
const DefaultMaxRows = 20

// SampleCounts holds the class counts of one sample.
type SampleCounts struct {
	Name   string
	Counts map[string]int
	// Order lists classes in first-seen order.
	Order []string
}

// Total returns the sum of all class counts.
func (s SampleCounts) Total() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

// SampleName derives a sample name from a file path: the base name up to
// its first dot.
func SampleName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// ReadCounts parses a "class<TAB>count" table. Repeated classes are summed.
func ReadCounts(r io.Reader, name string) (SampleCounts, error) {
	sc := tsvio.NewScanner(r, name)
	s := SampleCounts{Name: SampleName(name), Counts: make(map[string]int)}
	for sc.Next() {
		if err := sc.Require(2); err != nil {
			return SampleCounts{}, err
		}
		f := sc.Fields()
		class := strings.TrimSpace(f[0])
		n, err := strconv.Atoi(strings.TrimSpace(f[1]))
		if err != nil {
			return SampleCounts{}, sc.Wrap(fmt.Errorf("count for %q: %w", class, err))
		}
		if _, ok := s.Counts[class]; !ok {
			s.Order = append(s.Order, class)
		}
		s.Counts[class] += n
	}
	if err := sc.Err(); err != nil {
		return SampleCounts{}, err
	}
	return s, nil
}

// LoadFiles reads one sample per path concurrently, keeping path order.
func LoadFiles(paths []string) ([]SampleCounts, error) {
	return iter.MapErr(paths, func(p *string) (SampleCounts, error) {
		rc, err := tsvio.Open(*p)
		if err != nil {
			return SampleCounts{}, err
		}
		defer rc.Close()
		return ReadCounts(rc, *p)
	})
}

// Matrix is the scaled class-by-sample abundance table.
type Matrix struct {
	Samples []string
	Classes []string
	// Values[i][j] is the scaled abundance of Classes[i] in Samples[j].
	Values [][]float64
}

// Build scales every sample to the mean sample total. A class missing from
// a sample counts as zero, as does every class of an empty sample. Classes
// keep first-seen order across samples.
func Build(samples []SampleCounts) Matrix {
	m := Matrix{Samples: make([]string, len(samples))}
	if len(samples) == 0 {
		return m
	}

	totals := make([]int, len(samples))
	sum := 0
	seen := make(map[string]bool)
	for j, s := range samples {
		m.Samples[j] = s.Name
		totals[j] = s.Total()
		sum += totals[j]
		for _, class := range s.Order {
			if !seen[class] {
				seen[class] = true
				m.Classes = append(m.Classes, class)
			}
		}
	}
	mean := float64(sum) / float64(len(samples))

	m.Values = make([][]float64, len(m.Classes))
	for i, class := range m.Classes {
		row := make([]float64, len(samples))
		for j, s := range samples {
			if totals[j] == 0 {
				continue
			}
			row[j] = float64(s.Counts[class]) * mean / float64(totals[j])
		}
		m.Values[i] = row
	}
	return m
}

// Row is one reported class with its per-sample z-scores.
type Row struct {
	Class  string
	Scores []float64
}

// Top returns the maxRows classes with the largest minimum abundance,
// converted to z-scores. Ties keep class order. maxRows <= 0 keeps all rows.
func (m Matrix) Top(maxRows int) []Row {
	order := make([]int, len(m.Classes))
	for i := range order {
		order[i] = i
	}
	mins := make([]float64, len(m.Classes))
	for i, row := range m.Values {
		mins[i] = slices.Min(row)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(mins[b], mins[a])
	})
	if maxRows > 0 && len(order) > maxRows {
		order = order[:maxRows]
	}

	rows := make([]Row, len(order))
	for k, i := range order {
		rows[k] = Row{Class: m.Classes[i], Scores: ZScores(m.Values[i])}
	}
	return rows
}

// ZScores standardizes values with the population standard deviation.
// A constant row yields zeros.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(ss / float64(len(values)))
	if sd == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / sd
	}
	return out
}

// WriteRows writes the z-score table with one column per sample.
func WriteRows(w io.Writer, samples []string, rows []Row) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#ID\t%s\n", strings.Join(samples, "\t"))
	for _, r := range rows {
		bw.WriteString(r.Class)
		for _, s := range r.Scores {
			fmt.Fprintf(bw, "\t%.6f", s)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
