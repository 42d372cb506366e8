// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sus converts SusC/SusD similarity hits into the SUS annotation
// table read by the merge stage. Subject ids carry their family after a '#',
// as in "BT_1234#SusC".
package sus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zxgsy520/findPUL/internal/tsvio"
)

// Header is the header line of the SUS annotation table.
const Header = "#qseqid\tsseqid\tGene family"

// ErrNoFamily is returned for a subject id without a '#family' suffix.
var ErrNoFamily = errors.New("subject id has no #family suffix")

// Hit is one processed SUS hit.
type Hit struct {
	Query   string
	Subject string
	Family  string
}

// ReadHits parses a best-hit table whose first two columns are the query
// and the family-tagged subject.
func ReadHits(r io.Reader, name string) ([]Hit, error) {
	sc := tsvio.NewScanner(r, name)
	var out []Hit
	for sc.Next() {
		if err := sc.Require(2); err != nil {
			return nil, err
		}
		f := sc.Fields()
		subject, family, ok := strings.Cut(f[1], "#")
		if !ok {
			return nil, sc.Wrap(fmt.Errorf("%w: %q", ErrNoFamily, f[1]))
		}
		out = append(out, Hit{
			Query:   strings.TrimSpace(f[0]),
			Subject: subject,
			Family:  strings.TrimSpace(family),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteTable writes hits as the SUS annotation table.
func WriteTable(w io.Writer, hits []Hit) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Header)
	for _, h := range hits {
		fmt.Fprintf(bw, "%s\t%s\t%s\n", h.Query, h.Subject, h.Family)
	}
	return bw.Flush()
}
