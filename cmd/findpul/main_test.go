// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zxgsy520/findPUL/internal/report"
	"github.com/zxgsy520/findPUL/pkg/types"
)

// --- test helpers ---

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeTables(t *testing.T, dir string) (sus, cazy, pul string) {
	t.Helper()
	sus = writeFixture(t, dir, "sus.tsv", "#qseqid\tsseqid\tGene family\n"+
		"S1.c1.1\tBT_1\tSusC\n"+
		"S1.c1.2\tBT_2\tSusD\n")
	cazy = writeFixture(t, dir, "cazy.tsv", ""+
		"S1.c1.3\tq\t1\tGH\n"+
		"S1.c1.9\tq\t1\tGT\n")
	pul = writeFixture(t, dir, "pul.tsv", ""+
		"S1.c1.1\tq\tPUL0001\txylan degradation\n")
	return sus, cazy, pul
}

// --- tests ---

func TestVersion(t *testing.T) {
	assert.Equal(t, "findpul dev\n", execute(t, "version"))
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	sus, cazy, pul := writeTables(t, dir)
	out := filepath.Join(dir, "out")

	execute(t, "run", "--sus", sus, "--cazy", cazy, "--pul", pul,
		"--out-dir", out, "--prefix", "S1")

	merged, err := os.ReadFile(filepath.Join(out, "S1.merge_puldb.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "#Seqid\tGene family\tPulid\tDegradation/Biosynthesis\n"+
		"S1.c1.1\tSusC\tPUL0001\txylan degradation\n"+
		"S1.c1.2\tSusD\t.\t\n"+
		"S1.c1.3\tGH\t.\t\n", string(merged))

	loci, err := os.ReadFile(filepath.Join(out, "S1.stat_pul.tsv"))
	require.NoError(t, err)
	assert.Equal(t, report.LociHeader+"\n"+
		"S1.c1\t1\t1\t3\t3\t3\t100.00\tSusC|SusD|GH\tdegradation\n", string(loci))

	gff, err := os.ReadFile(filepath.Join(out, "S1.pul.gff"))
	require.NoError(t, err)
	assert.Contains(t, string(gff), "S1.c1\tfindPUL\tPUL\t1\t3\t")
}

func TestMergeThenFindJSON(t *testing.T) {
	dir := t.TempDir()
	sus, cazy, pul := writeTables(t, dir)
	merged := filepath.Join(dir, "merged.tsv")
	lociPath := filepath.Join(dir, "loci.json")

	execute(t, "merge", "--sus", sus, "--cazy", cazy, "--pul", pul, "-o", merged)
	execute(t, "find", merged, "--format", "json", "-o", lociPath)

	data, err := os.ReadFile(lociPath)
	require.NoError(t, err)
	var calls []types.LocusCall
	require.NoError(t, json.Unmarshal(data, &calls))
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"SusC", "SusD", "GH"}, calls[0].Structure)
}

func TestLociStoreRetrieveLocate(t *testing.T) {
	dir := t.TempDir()
	sus, cazy, pul := writeTables(t, dir)
	merged := filepath.Join(dir, "merged.tsv")
	db := filepath.Join(dir, "findpul.db")

	execute(t, "merge", "--sus", sus, "--cazy", cazy, "--pul", pul, "-o", merged)

	out := execute(t, "loci", "store", merged, "--db", db)
	assert.Contains(t, out, "3 genes, 1 loci")

	out = execute(t, "loci", "retrieve", "--db", db, "--function", "degradation")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "S1.c1\t1\t1\t3\t"))

	out = execute(t, "loci", "locate", "--db", db, "S1.c1.2", "S1.c1.9")
	assert.Contains(t, out, "S1.c1.2\tS1.c1\t1\t1\t3\tdegradation\n")
	assert.Contains(t, out, "S1.c1.9\t.\t.\t.\t.\t.\n")
}

func TestSusCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "sus.out", "S1.c1.1\tBT_1#SusC\t99.0\n")

	out := execute(t, "sus", in)
	assert.Equal(t, "#qseqid\tsseqid\tGene family\nS1.c1.1\tBT_1\tSusC\n", out)
}

func TestCazyOTUCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "A.stat.tsv", "GH\t1\nCE\t3\n")
	b := writeFixture(t, dir, "B.stat.tsv", "GH\t3\nCE\t1\n")

	out := execute(t, "cazy-otu", a, b, "--maxrow", "1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "#ID\tA\tB", lines[0])
}
