// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"go.yaml.in/yaml/v3"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(types.StoreConfig{DBPath: filepath.Join(dir, "db", "findpul.db")}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func testRecords() []types.MergedGeneRecord {
	return []types.MergedGeneRecord{
		{GeneID: "S1.c1.2", Family: "SusC", PulID: "PUL0001", Description: "xylan degradation"},
		{GeneID: "S1.c1.3", Family: "SusD", PulID: types.NoPulID},
		{GeneID: "S1.c1.5", Family: "GH;CE", PulID: types.NoPulID},
		{GeneID: "S1.c2.1", Family: "CE", PulID: "PUL0002", Description: "capsule biosynthesis"},
		{GeneID: "S1.c2.2", Family: "GT", PulID: types.NoPulID},
	}
}

func testLoci() []types.LocusCall {
	return []types.LocusCall{
		{
			SeqID: "S1.c1", Index: 1, Start: 2, End: 5, GeneCount: 4, AnnotatedGeneCount: 3,
			AnnotationRate: 75, Structure: []string{"SusC", "SusD", "_", "GH;CE"},
			Function: types.RoleDegradation,
		},
		{
			SeqID: "S1.c2", Index: 2, Start: 1, End: 2, GeneCount: 2, AnnotatedGeneCount: 2,
			AnnotationRate: 100, Structure: []string{"CE", "GT"},
			Function: types.RoleBiosynthesis,
		},
	}
}

func ingest(t *testing.T, s *Store) Run {
	t.Helper()
	run, err := s.IngestRun(context.Background(), types.DefaultClusterConfig(), testRecords(), testLoci())
	require.NoError(t, err)
	return run
}

// --- tests ---

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(types.StoreConfig{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findpul.db")
	for range 2 {
		s, err := Open(types.StoreConfig{DBPath: path}, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}
}

func TestIngestRun(t *testing.T) {
	s, _ := testStore(t)
	run := ingest(t, s)

	assert.Len(t, run.ID, 36)
	assert.Equal(t, 5, run.Genes)
	assert.Equal(t, 2, run.Loci)

	got, err := s.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, types.DefaultClusterConfig(), got.Params)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestIngestRunRejectsMalformedID(t *testing.T) {
	s, _ := testStore(t)
	records := append(testRecords(), types.MergedGeneRecord{GeneID: "bad", Family: "GH", PulID: "."})
	_, err := s.IngestRun(context.Background(), types.DefaultClusterConfig(), records, nil)
	assert.True(t, errors.Is(err, types.ErrMalformedGeneID))

	// The failed run was rolled back.
	_, err = s.LatestRun(context.Background())
	assert.True(t, errors.Is(err, ErrNoRuns))
}

func TestRunsNewestFirst(t *testing.T) {
	s, _ := testStore(t)
	first := ingest(t, s)
	second := ingest(t, s)

	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	latest, err := s.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestGetRunUnknown(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRetrieveNoRuns(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.Retrieve(context.Background(), QueryOptions{})
	assert.True(t, errors.Is(err, ErrNoRuns))
}

func TestRetrieve(t *testing.T) {
	s, _ := testStore(t)
	ingest(t, s)

	tests := []struct {
		name string
		opts QueryOptions
		want []int
	}{
		{"all", QueryOptions{}, []int{1, 2}},
		{"by seq", QueryOptions{SeqID: "S1.c2"}, []int{2}},
		{"by function", QueryOptions{Function: types.RoleDegradation}, []int{1}},
		{"by min rate", QueryOptions{MinRate: 80}, []int{2}},
		{"by marker inside joined label", QueryOptions{Marker: "CE"}, []int{1, 2}},
		{"marker must match a whole label", QueryOptions{Marker: "Sus"}, nil},
		{"marker", QueryOptions{Marker: "SusD"}, []int{1}},
		{"limit", QueryOptions{MaxResults: 1}, []int{1}},
		{"no match", QueryOptions{SeqID: "S9.c9"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Retrieve(context.Background(), tt.opts)
			require.NoError(t, err)
			var idx []int
			for _, c := range got {
				idx = append(idx, c.Index)
			}
			assert.Equal(t, tt.want, idx)
		})
	}
}

func TestRetrieveRoundTripsCalls(t *testing.T) {
	s, _ := testStore(t)
	ingest(t, s)

	got, err := s.Retrieve(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, testLoci(), got)
}

func TestRetrieveSelectsRun(t *testing.T) {
	s, _ := testStore(t)
	first := ingest(t, s)
	_, err := s.IngestRun(context.Background(), types.DefaultClusterConfig(), testRecords(), testLoci()[:1])
	require.NoError(t, err)

	latest, err := s.Retrieve(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, latest, 1)

	older, err := s.Retrieve(context.Background(), QueryOptions{RunID: first.ID})
	require.NoError(t, err)
	assert.Len(t, older, 2)
}

func TestGenes(t *testing.T) {
	s, _ := testStore(t)
	ingest(t, s)

	all, err := s.Genes(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, testRecords(), all)

	c2, err := s.Genes(context.Background(), "", "S1.c2")
	require.NoError(t, err)
	require.Len(t, c2, 2)
	assert.Equal(t, "S1.c2.1", c2[0].GeneID)
}

func TestExport(t *testing.T) {
	s, dir := testStore(t)
	run := ingest(t, s)
	ctx := context.Background()

	jsonPath := filepath.Join(dir, "export.json")
	require.NoError(t, s.ExportJSON(ctx, jsonPath, QueryOptions{Function: types.RoleBiosynthesis}))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var doc Export
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, run.ID, doc.Run.ID)
	require.Len(t, doc.Loci, 1)
	assert.Equal(t, "S1.c2", doc.Loci[0].SeqID)

	yamlPath := filepath.Join(dir, "export.yaml")
	require.NoError(t, s.ExportYAML(ctx, yamlPath, QueryOptions{}))

	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	doc = Export{}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, run.ID, doc.Run.ID)
	assert.Len(t, doc.Loci, 2)
}

func TestExportEmptySelection(t *testing.T) {
	s, dir := testStore(t)
	ingest(t, s)

	path := filepath.Join(dir, "empty.json")
	require.NoError(t, s.ExportJSON(context.Background(), path, QueryOptions{SeqID: "none"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"loci": []`)
}
