// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// resetViper clears configuration state before and after the test.
func resetViper(t *testing.T) {
	t.Helper()
	reset := func() {
		viper.Reset()
		_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
		_ = rootCmd.PersistentFlags().Set("config", "")
	}
	reset()
	t.Cleanup(reset)
}

// unsetAfter removes variables that godotenv.Load exported during the test.
func unsetAfter(t *testing.T, dotenv string) {
	t.Helper()
	for _, line := range strings.Split(dotenv, "\n") {
		if key, _, ok := strings.Cut(line, "="); ok {
			key = strings.TrimSpace(key)
			t.Cleanup(func() { os.Unsetenv(key) })
		}
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"GT", "CBM", "PL"}, splitList([]string{"GT,CBM", " PL ", ""}))
	assert.Equal(t, []string{"GH"}, splitList([]string{"GH,,"}))
	assert.Nil(t, splitList(nil))
}

func TestConfigSources(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		config      string
		env         map[string]string
		flags       map[string]string
		wantCluster func(*types.ClusterConfig)
		wantClasses []string
	}{
		{
			name: "config file",
			files: map[string]string{"c.yaml": "cluster:\n  gaplen: 4\n  gaps: 3\n  markers: [GT, CBM]\n" +
				"merge:\n  classes: [PL]\n"},
			config: "c.yaml",
			wantCluster: func(c *types.ClusterConfig) {
				c.GapLen, c.Gaps = 4, 3
				c.Markers = []string{"GT", "CBM"}
			},
			wantClasses: []string{"PL"},
		},
		{
			name:        "findpul.yaml in working directory",
			files:       map[string]string{"findpul.yaml": "cluster:\n  minegene: 5\n"},
			wantCluster: func(c *types.ClusterConfig) { c.MinGenes = 5 },
			wantClasses: types.DefaultEnzymeClasses,
		},
		{
			name:   "env overrides config file",
			files:  map[string]string{"c.yaml": "cluster:\n  gaplen: 4\n  gaps: 3\n"},
			config: "c.yaml",
			env: map[string]string{
				"FINDPUL_CLUSTER_GAPS":    "2",
				"FINDPUL_CLUSTER_MARKERS": "GT,CBM",
				"FINDPUL_MERGE_CLASSES":   "GH, PL",
			},
			wantCluster: func(c *types.ClusterConfig) {
				c.GapLen, c.Gaps = 4, 2
				c.Markers = []string{"GT", "CBM"}
			},
			wantClasses: []string{"GH", "PL"},
		},
		{
			name:  "flag overrides env",
			env:   map[string]string{"FINDPUL_CLUSTER_GAPLEN": "7", "FINDPUL_CLUSTER_MARKERS": "GT,CBM"},
			flags: map[string]string{"gaplen": "5", "markers": "SusC"},
			wantCluster: func(c *types.ClusterConfig) {
				c.GapLen = 5
				c.Markers = []string{"SusC"}
			},
			wantClasses: types.DefaultEnzymeClasses,
		},
		{
			name:  ".env file",
			files: map[string]string{".env": "FINDPUL_CLUSTER_ANRATE=50\nFINDPUL_CLUSTER_MARKERS=GT,CBM\nFINDPUL_MERGE_CLASSES=PL,GH\n"},
			wantCluster: func(c *types.ClusterConfig) {
				c.AnnotationRate = 50
				c.Markers = []string{"GT", "CBM"}
			},
			wantClasses: []string{"PL", "GH"},
		},
		{
			name:        "env overrides .env",
			files:       map[string]string{".env": "FINDPUL_CLUSTER_GAPS=9\n"},
			env:         map[string]string{"FINDPUL_CLUSTER_GAPS": "2"},
			wantCluster: func(c *types.ClusterConfig) { c.Gaps = 2 },
			wantClasses: types.DefaultEnzymeClasses,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			dir := t.TempDir()
			t.Chdir(dir)
			t.Setenv("HOME", dir)
			for name, content := range tt.files {
				writeFixture(t, dir, name, content)
				if name == ".env" {
					unsetAfter(t, content)
				}
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.config != "" {
				require.NoError(t, rootCmd.PersistentFlags().Set("config", filepath.Join(dir, tt.config)))
			}
			initConfig()

			cmd := &cobra.Command{Use: "find"}
			addClusterFlags(cmd)
			addMergeFlags(cmd)
			require.NoError(t, cmd.Flags().Set("sus", "sus.tsv"))
			for k, v := range tt.flags {
				require.NoError(t, cmd.Flags().Set(k, v))
			}

			want := types.DefaultClusterConfig()
			tt.wantCluster(&want)
			got, err := clusterConfig(cmd)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			mcfg, _, err := mergeInputs(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClasses, mcfg.EnzymeClasses)
		})
	}
}

func TestFindMarkersFromEnv(t *testing.T) {
	tests := []struct {
		markers string
		want    int
	}{
		{"GT,SusC", 1},
		{"GT,CBM", 0},
	}
	for _, tt := range tests {
		t.Run(tt.markers, func(t *testing.T) {
			resetViper(t)
			dir := t.TempDir()
			sus, cazy, pul := writeTables(t, dir)
			merged := filepath.Join(dir, "merged.tsv")
			lociPath := filepath.Join(dir, "loci.json")
			t.Setenv("FINDPUL_CLUSTER_MARKERS", tt.markers)

			execute(t, "merge", "--sus", sus, "--cazy", cazy, "--pul", pul, "-o", merged)
			execute(t, "find", merged, "--format", "json", "-o", lociPath)

			data, err := os.ReadFile(lociPath)
			require.NoError(t, err)
			var calls []types.LocusCall
			require.NoError(t, json.Unmarshal(data, &calls))
			assert.Len(t, calls, tt.want)
		})
	}
}

func TestMergeClassesFromEnv(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	sus, cazy, pul := writeTables(t, dir)
	t.Setenv("FINDPUL_MERGE_CLASSES", "GT,GH")

	out := execute(t, "merge", "--sus", sus, "--cazy", cazy, "--pul", pul)
	assert.Contains(t, out, "S1.c1.3\tGH\t.\t\n")
	assert.Contains(t, out, "S1.c1.9\tGT\t.\t\n")
}
