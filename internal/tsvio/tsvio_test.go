// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tsvio

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerSkipsCommentsAndBlanks(t *testing.T) {
	in := "#header\tcol\n\nA\tB\tC\r\n   \n# note\nD\t\tF\t\n"
	sc := NewScanner(strings.NewReader(in), "t.tsv")

	var rows [][]string
	var lines []int
	for sc.Next() {
		rows = append(rows, sc.Fields())
		lines = append(lines, sc.Line())
	}
	require.NoError(t, sc.Err())

	assert.Equal(t, [][]string{{"A", "B", "C"}, {"D", "", "F", ""}}, rows)
	assert.Equal(t, []int{3, 6}, lines)
}

func TestScannerRequire(t *testing.T) {
	sc := NewScanner(strings.NewReader("only\n"), "short.tsv")
	require.True(t, sc.Next())

	assert.NoError(t, sc.Require(1))
	err := sc.Require(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortRow))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "short.tsv", rowErr.Name)
	assert.Equal(t, 1, rowErr.Line)
	assert.Contains(t, err.Error(), "short.tsv:1:")
}

func TestOpenPlainAndGzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.tsv")
	require.NoError(t, os.WriteFile(plain, []byte("x\ty\n"), 0o644))

	gz := filepath.Join(dir, "a.tsv.gz")
	f, err := os.Create(gz)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("x\ty\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	for _, path := range []string{plain, gz} {
		rc, err := Open(path)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "x\ty\n", string(data), path)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
