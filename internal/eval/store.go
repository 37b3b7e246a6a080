// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eval

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

const dbFile = "evaluations.db"

// Store persists evaluation runs to a SQLite database under the
// results directory.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the results database at
// resultsDir/evaluations.db, creating the schema if needed.
func NewStore(resultsDir string) (*Store, error) {
	if resultsDir == "" {
		resultsDir = "results"
	}
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	dbPath := filepath.Join(resultsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
			started_at TEXT NOT NULL,
			cases INTEGER NOT NULL,
			errored INTEGER NOT NULL,
			summary TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS case_results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			query TEXT NOT NULL,
			category TEXT,
			difficulty TEXT,
			agent TEXT,
			question_type TEXT,
			answer TEXT,
			search_count INTEGER,
			time_seconds REAL,
			error TEXT,
			scores TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_case_results_run_id ON case_results(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun writes the summary and all case results in one transaction.
func (s *Store) SaveRun(ctx context.Context, summary *types.RunSummary, results []types.CaseResult) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, cases, errored, summary) VALUES (?, ?, ?, ?, ?)`,
		summary.ID, summary.StartedAt.Format(time.RFC3339Nano), summary.Cases, summary.Errored, string(summaryJSON),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO case_results
			(run_id, idx, query, category, difficulty, agent, question_type, answer, search_count, time_seconds, error, scores)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		scoresJSON, err := json.Marshal(r.Scores)
		if err != nil {
			return fmt.Errorf("marshaling scores for case %d: %w", i, err)
		}

		agentName := ""
		if len(r.Response.Agents) > 0 {
			agentName = r.Response.Agents[0]
		}

		if _, err := stmt.ExecContext(ctx,
			summary.ID, i, r.Case.Query, r.Case.Category, r.Case.Difficulty,
			agentName, string(r.Response.QuestionType), r.Response.Answer,
			r.Response.SearchCount, r.Response.TimeSeconds, r.Err, string(scoresJSON),
		); err != nil {
			return fmt.Errorf("inserting case %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadRun retrieves a run summary by ID.
func (s *Store) LoadRun(ctx context.Context, id string) (*types.RunSummary, error) {
	var summaryJSON string
	err := s.db.QueryRowContext(ctx, `SELECT summary FROM runs WHERE id = ?`, id).Scan(&summaryJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}

	var summary types.RunSummary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("unmarshaling run %s: %w", id, err)
	}
	return &summary, nil
}

// ListRuns returns all stored run summaries, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]types.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT summary FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunSummary
	for rows.Next() {
		var summaryJSON string
		if err := rows.Scan(&summaryJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		var summary types.RunSummary
		if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
			return nil, fmt.Errorf("unmarshaling run: %w", err)
		}
		runs = append(runs, summary)
	}
	return runs, rows.Err()
}
