package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

func TestInputArgsOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "data/pul/p.tsv", "data/sus/s.tsv.gz", "data/cazy/c.tsv")

	for range 5 {
		args, err := inputArgs(root)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"--sus", filepath.Join(root, "data/sus/s.tsv.gz"),
			"--cazy", filepath.Join(root, "data/cazy/c.tsv"),
			"--pul", filepath.Join(root, "data/pul/p.tsv"),
		}, args)
	}
}

func TestInputArgsSkipsEmptyDir(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "data/cazy/c.tsv")

	args, err := inputArgs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"--cazy", filepath.Join(root, "data/cazy/c.tsv")}, args)
}

func TestInputArgsRejectsSeveralTables(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "data/sus/a.tsv", "data/sus/b.tsv")

	_, err := inputArgs(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data/sus holds 2 tables")
}
