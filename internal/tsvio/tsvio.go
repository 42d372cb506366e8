// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tsvio reads the tab-separated tables exchanged between findPUL
// stages. Blank lines and lines starting with '#' are skipped; files ending
// in .gz are decompressed transparently.
package tsvio

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrShortRow is returned when a row has fewer columns than its table requires.
var ErrShortRow = errors.New("too few columns")

const maxLineSize = 4 << 20

// RowError locates a parse failure inside a table.
type RowError struct {
	Name string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Name, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return zerr
}

// Open opens path for reading. Paths ending in .gz are gunzipped.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
	}
	return gzipFile{Reader: zr, f: f}, nil
}

// Scanner walks the data rows of a table.
type Scanner struct {
	sc     *bufio.Scanner
	name   string
	line   int
	fields []string
}

// NewScanner returns a Scanner over r. name is used in error messages.
func NewScanner(r io.Reader, name string) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{sc: sc, name: name}
}

// Next advances to the next data row.
func (s *Scanner) Next() bool {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimRight(s.sc.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		s.fields = strings.Split(strings.TrimLeft(text, " "), "\t")
		return true
	}
	s.fields = nil
	return false
}

// Fields returns the columns of the current row.
func (s *Scanner) Fields() []string { return s.fields }

// Line returns the 1-based line number of the current row.
func (s *Scanner) Line() int { return s.line }

// Err returns the first read error, if any.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", s.name, err)
	}
	return nil
}

// Require returns a RowError wrapping ErrShortRow when the current row has
// fewer than n columns.
func (s *Scanner) Require(n int) error {
	if len(s.fields) < n {
		return s.Errorf("%w: got %d, want at least %d", ErrShortRow, len(s.fields), n)
	}
	return nil
}

// Errorf returns a RowError for the current row.
func (s *Scanner) Errorf(format string, a ...any) error {
	return &RowError{Name: s.name, Line: s.line, Err: fmt.Errorf(format, a...)}
}

// Wrap returns err as a RowError for the current row.
func (s *Scanner) Wrap(err error) error {
	return &RowError{Name: s.name, Line: s.line, Err: err}
}
