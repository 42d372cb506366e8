// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists findPUL runs in SQLite. A run holds the clustering
// parameters, the merged gene records it was computed from and the loci it
// produced, so earlier results can be queried and exported later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/zxgsy520/findPUL/pkg/types"
)

const defaultMaxResults = 50

// ErrNoRuns is returned when a query needs a run and the database has none.
var ErrNoRuns = errors.New("no runs stored")

// Store manages the locus database.
type Store struct {
	db         *sql.DB
	maxResults int
	log        *zap.Logger
}

// Run describes one stored findPUL run.
type Run struct {
	ID        string              `json:"id" yaml:"id"`
	CreatedAt time.Time           `json:"created_at" yaml:"created_at"`
	Params    types.ClusterConfig `json:"params" yaml:"params"`
	Genes     int                 `json:"genes" yaml:"genes"`
	Loci      int                 `json:"loci" yaml:"loci"`
}

// Open opens or creates the database at cfg.DBPath and ensures the schema
// exists.
func Open(cfg types.StoreConfig, log *zap.Logger) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("database path is required")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			params TEXT NOT NULL,
			gene_count INTEGER NOT NULL,
			locus_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS genes (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			gene_id TEXT NOT NULL,
			seq_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			family TEXT NOT NULL,
			pul_id TEXT NOT NULL,
			description TEXT,
			PRIMARY KEY (run_id, gene_id)
		)`,
		`CREATE TABLE IF NOT EXISTS loci (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			seq_id TEXT NOT NULL,
			start_pos INTEGER NOT NULL,
			end_pos INTEGER NOT NULL,
			gene_count INTEGER NOT NULL,
			annotated INTEGER NOT NULL,
			rate REAL NOT NULL,
			structure TEXT NOT NULL,
			role TEXT,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_genes_seq ON genes(run_id, seq_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_loci_seq ON loci(run_id, seq_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestRun stores records and calls as a new run in one transaction and
// returns the run record.
func (s *Store) IngestRun(ctx context.Context, params types.ClusterConfig, records []types.MergedGeneRecord, calls []types.LocusCall) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Params:    params,
		Genes:     len(records),
		Loci:      len(calls),
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return Run{}, fmt.Errorf("encoding run parameters: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, params, gene_count, locus_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), string(paramsJSON), run.Genes, run.Loci,
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	geneStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO genes (run_id, gene_id, seq_id, position, family, pul_id, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing gene insert: %w", err)
	}
	defer geneStmt.Close()

	for _, r := range records {
		gid, err := types.ParseGeneID(r.GeneID)
		if err != nil {
			return Run{}, err
		}
		if _, err := geneStmt.ExecContext(ctx,
			run.ID, r.GeneID, gid.ContigKey(), gid.Position, r.Family, r.PulID, r.Description,
		); err != nil {
			return Run{}, fmt.Errorf("inserting gene %s: %w", r.GeneID, err)
		}
	}

	locusStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO loci (run_id, idx, seq_id, start_pos, end_pos, gene_count, annotated, rate, structure, role)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing locus insert: %w", err)
	}
	defer locusStmt.Close()

	for _, c := range calls {
		if _, err := locusStmt.ExecContext(ctx,
			run.ID, c.Index, c.SeqID, c.Start, c.End, c.GeneCount,
			c.AnnotatedGeneCount, c.AnnotationRate, c.StructureString(), string(c.Function),
		); err != nil {
			return Run{}, fmt.Errorf("inserting locus %d: %w", c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}

	s.log.Info("run stored",
		zap.String("run_id", run.ID),
		zap.Int("genes", run.Genes),
		zap.Int("loci", run.Loci))
	return run, nil
}

// Runs returns every stored run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, params, gene_count, locus_count FROM runs ORDER BY rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently stored run, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, params, gene_count, locus_count FROM runs ORDER BY rowid DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	return run, err
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, params, gene_count, locus_count FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s not found", id)
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		created    string
		paramsJSON string
	)
	if err := row.Scan(&run.ID, &created, &paramsJSON, &run.Genes, &run.Loci); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: parsing created_at: %w", run.ID, err)
	}
	run.CreatedAt = t
	if err := json.Unmarshal([]byte(paramsJSON), &run.Params); err != nil {
		return Run{}, fmt.Errorf("run %s: decoding parameters: %w", run.ID, err)
	}
	return run, nil
}
