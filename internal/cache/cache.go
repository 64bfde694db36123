// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is an optional SQLite-backed layer in front of the
// search and verification stages. Entries expire after a TTL (default
// 24 h). The cache is a separate, opt-in layer: the core pipeline
// contract does not depend on it and nothing is persisted unless it is
// enabled.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sourcecheck/pkg/types"
)

const (
	dbFile     = "sourcecheck.db"
	defaultTTL = 24 * time.Hour
)

// Store holds cached search results and verification outcomes.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open creates or opens the cache database under cfg.Dir.
func Open(cfg types.CacheConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".sourcecheck"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	s := &Store{db: db, ttl: ttl}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS search_results (
			query TEXT NOT NULL,
			region TEXT NOT NULL,
			results TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			PRIMARY KEY (query, region)
		)`,
		`CREATE TABLE IF NOT EXISTS verifications (
			url TEXT PRIMARY KEY,
			outcome TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// GetSearch returns cached results for a query, reporting whether a
// fresh entry existed.
func (s *Store) GetSearch(query, region string) ([]types.CandidateResult, bool) {
	var raw, fetchedAt string
	err := s.db.QueryRow(
		`SELECT results, fetched_at FROM search_results WHERE query = ? AND region = ?`,
		query, region,
	).Scan(&raw, &fetchedAt)
	if err != nil {
		return nil, false
	}
	if s.expired(fetchedAt) {
		return nil, false
	}
	var results []types.CandidateResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, false
	}
	return results, true
}

// PutSearch stores results for a query, replacing any prior entry.
func (s *Store) PutSearch(query, region string, results []types.CandidateResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling search results: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO search_results (query, region, results, fetched_at) VALUES (?, ?, ?, ?)`,
		query, region, string(raw), now(),
	)
	return err
}

// GetOutcome returns a cached verification outcome for a normalized URL.
func (s *Store) GetOutcome(url string) (types.VerificationOutcome, bool) {
	var raw, fetchedAt string
	err := s.db.QueryRow(
		`SELECT outcome, fetched_at FROM verifications WHERE url = ?`, url,
	).Scan(&raw, &fetchedAt)
	if err != nil {
		return types.VerificationOutcome{}, false
	}
	if s.expired(fetchedAt) {
		return types.VerificationOutcome{}, false
	}
	var outcome types.VerificationOutcome
	if err := json.Unmarshal([]byte(raw), &outcome); err != nil {
		return types.VerificationOutcome{}, false
	}
	return outcome, true
}

// PutOutcome stores a verification outcome keyed by normalized URL.
func (s *Store) PutOutcome(url string, outcome types.VerificationOutcome) error {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshaling outcome: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO verifications (url, outcome, fetched_at) VALUES (?, ?, ?)`,
		url, string(raw), now(),
	)
	return err
}

func (s *Store) expired(fetchedAt string) bool {
	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return true
	}
	return time.Since(t) > s.ttl
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
