// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists batch runs so reports and analyses can be
// produced after the scoring pass ends, including from a later process.
// Implements: prd004-session (R1-R5);
//
//	docs/ARCHITECTURE § Session.
package session

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

	"github.com/NaomiVK/page-speed-accessibility/internal/batch"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

const dbFile = "audits.db"

// ErrNoRuns is returned when the store holds no recorded runs.
var ErrNoRuns = errors.New("no audit runs recorded yet")

// Store manages the audit-session SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the session database at DataDir/audits.db,
// creating the schema when it does not exist (R1.1, R1.2).
func Open(cfg types.SessionConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
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
			created_at TEXT NOT NULL,
			strategies TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_urls (
			run_id TEXT NOT NULL REFERENCES runs(id),
			url_index INTEGER NOT NULL,
			url TEXT NOT NULL,
			PRIMARY KEY (run_id, url_index)
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id),
			url_index INTEGER NOT NULL,
			strategy TEXT NOT NULL,
			score TEXT,
			audits TEXT,
			failure TEXT,
			PRIMARY KEY (run_id, url_index, strategy)
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			run_id TEXT NOT NULL REFERENCES runs(id),
			url_index INTEGER NOT NULL,
			strategy TEXT NOT NULL,
			advice TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (run_id, url_index, strategy)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run describes one persisted batch run.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Strategies []types.Strategy
	URLs       []string
}

// SaveRun persists a completed batch under a fresh run ID and returns the
// ID (R2.1). The whole run goes in one transaction: a run is either fully
// recorded or absent.
func (s *Store) SaveRun(ctx context.Context, results *batch.Store, strategies []types.Strategy) (string, error) {
	runID := uuid.NewString()

	strategiesJSON, err := json.Marshal(strategies)
	if err != nil {
		return "", fmt.Errorf("marshaling strategies: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, strategies) VALUES (?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano), string(strategiesJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	urlStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_urls (run_id, url_index, url) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing url insert: %w", err)
	}
	defer urlStmt.Close()

	urls := results.URLs()
	for i, u := range urls {
		if _, err := urlStmt.ExecContext(ctx, runID, i, u); err != nil {
			return "", fmt.Errorf("inserting url %d: %w", i, err)
		}
	}

	resultStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, url_index, strategy, score, audits, failure)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing result insert: %w", err)
	}
	defer resultStmt.Close()

	for i := range urls {
		for _, strategy := range strategies {
			result, ok := results.Get(i, strategy)
			if !ok {
				continue
			}

			auditsJSON, err := json.Marshal(result.Audits)
			if err != nil {
				return "", fmt.Errorf("marshaling audits for url %d: %w", i, err)
			}

			var failureJSON sql.NullString
			if result.Failure != nil {
				data, err := json.Marshal(result.Failure)
				if err != nil {
					return "", fmt.Errorf("marshaling failure for url %d: %w", i, err)
				}
				failureJSON = sql.NullString{String: string(data), Valid: true}
			}

			_, err = resultStmt.ExecContext(ctx,
				runID, i, string(strategy), result.Score, string(auditsJSON), failureJSON)
			if err != nil {
				return "", fmt.Errorf("inserting result %d/%s: %w", i, strategy, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recently saved run, or ErrNoRuns when the
// store is empty (R3.1).
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	var createdAt, strategiesJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, strategies FROM runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&run.ID, &createdAt, &strategiesJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing run timestamp: %w", err)
	}
	if err := json.Unmarshal([]byte(strategiesJSON), &run.Strategies); err != nil {
		return nil, fmt.Errorf("parsing run strategies: %w", err)
	}

	if run.URLs, err = s.runURLs(ctx, run.ID); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *Store) runURLs(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url FROM run_urls WHERE run_id = ? ORDER BY url_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// Results reloads a run's results into a batch store keyed exactly as the
// original run recorded them (R3.2).
func (s *Store) Results(ctx context.Context, runID string) (*batch.Store, error) {
	urls, err := s.runURLs(ctx, runID)
	if err != nil {
		return nil, err
	}
	store := batch.NewStore(urls)

	rows, err := s.db.QueryContext(ctx,
		`SELECT url_index, strategy, score, audits, failure FROM results WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var urlIndex int
		var strategy, score, auditsJSON string
		var failureJSON sql.NullString
		if err := rows.Scan(&urlIndex, &strategy, &score, &auditsJSON, &failureJSON); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}

		result := types.ScoringResult{Score: score}
		if err := json.Unmarshal([]byte(auditsJSON), &result.Audits); err != nil {
			return nil, fmt.Errorf("parsing audits for url %d: %w", urlIndex, err)
		}
		if failureJSON.Valid {
			result.Failure = &types.Failure{}
			if err := json.Unmarshal([]byte(failureJSON.String), result.Failure); err != nil {
				return nil, fmt.Errorf("parsing failure for url %d: %w", urlIndex, err)
			}
		}

		store.Put(urlIndex, types.Strategy(strategy), result)
	}
	return store, rows.Err()
}

// SaveAnalysis records advisory text for one URL and strategy within a
// run, replacing any earlier analysis under the same key (R4.1, R4.2).
func (s *Store) SaveAnalysis(ctx context.Context, runID string, urlIndex int, strategy types.Strategy, advice string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (run_id, url_index, strategy, advice, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, url_index, strategy) DO UPDATE SET
			advice=excluded.advice, created_at=excluded.created_at`,
		runID, urlIndex, string(strategy), advice,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

// Analysis returns the stored advisory for one URL and strategy, with a
// miss reported as ok=false rather than an error (R4.3).
func (s *Store) Analysis(ctx context.Context, runID string, urlIndex int, strategy types.Strategy) (string, bool, error) {
	var advice string
	err := s.db.QueryRowContext(ctx,
		`SELECT advice FROM analyses WHERE run_id = ? AND url_index = ? AND strategy = ?`,
		runID, urlIndex, string(strategy),
	).Scan(&advice)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying analysis: %w", err)
	}
	return advice, true, nil
}

// Analyses returns every stored advisory for a run, keyed like the batch
// store (R4.4).
func (s *Store) Analyses(ctx context.Context, runID string) (map[batch.Key]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url_index, strategy, advice FROM analyses WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := make(map[batch.Key]string)
	for rows.Next() {
		var urlIndex int
		var strategy, advice string
		if err := rows.Scan(&urlIndex, &strategy, &advice); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		out[batch.Key{URLIndex: urlIndex, Strategy: types.Strategy(strategy)}] = advice
	}
	return out, rows.Err()
}
