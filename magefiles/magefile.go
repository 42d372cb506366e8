// Package main contains Mage build targets for findpul developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories a findPUL analysis expects.
var projectDirs = []string{
	"data/sus",
	"data/cazy",
	"data/pul",
	"results",
}

// Init creates the project directory structure for an analysis.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "findpul"
	cmdPkg  = "./cmd/findpul"
)

// Build compiles the CLI binary into bin/, stamping the git version.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + strings.TrimSpace(version)
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// analysisInputs pairs each run flag with the data directory holding its table.
var analysisInputs = []struct{ flag, dir string }{
	{"--sus", "data/sus"},
	{"--cazy", "data/cazy"},
	{"--pul", "data/pul"},
}

// Analyze runs the full pipeline over the tables in data/ and writes the
// results into results/.
func Analyze() error {
	mg.Deps(Build, Init)
	inputs, err := inputArgs(".")
	if err != nil {
		return err
	}
	args := append([]string{"run", "--out-dir", "results", "--prefix", "findpul"}, inputs...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// inputArgs returns the run flags for the tables under root, in sus, cazy,
// pul order. An empty directory is skipped; more than one table is an error.
func inputArgs(root string) ([]string, error) {
	var args []string
	for _, in := range analysisInputs {
		matches, err := filepath.Glob(filepath.Join(root, in.dir, "*.tsv*"))
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 0:
			fmt.Printf("No table in %s, skipping %s\n", in.dir, in.flag)
		case 1:
			args = append(args, in.flag, matches[0])
		default:
			return nil, fmt.Errorf("%s holds %d tables, expected one: %s",
				in.dir, len(matches), strings.Join(matches, ", "))
		}
	}
	return args, nil
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// skipDir reports whether a directory is outside the project's own sources.
func skipDir(path string) bool {
	base := filepath.Base(path)
	return path != "." && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == binDir)
}

// countGoLines walks the directory tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}

// countDocWords counts words in the Markdown files of the project.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
		return nil
	})
	return total, err
}
