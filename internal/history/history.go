// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists resolved artists in a local SQLite database
// so past batch runs can be queried without re-hitting the API.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/artist-resolver/pkg/types"
)

const dbFile = "history.db"

// Store manages the resolution history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at
// historyDir/history.db, creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.HistoryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

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
		`CREATE TABLE IF NOT EXISTS resolutions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT NOT NULL,
			artist_name TEXT,
			artist_id INTEGER,
			followers_count INTEGER,
			resolved_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_term ON resolutions(term)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_artist_id ON resolutions(artist_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends batch rows to the history, all stamped with the same
// resolution time. Rows with null fields are recorded too; a miss is
// history worth keeping.
func (s *Store) Record(ctx context.Context, rows []types.ResultRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO resolutions (term, artist_name, artist_id, followers_count, resolved_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.SearchTerm, r.ArtistName, r.ArtistID, r.FollowersCount, now,
		); err != nil {
			return fmt.Errorf("inserting resolution for %q: %w", r.SearchTerm, err)
		}
	}

	return tx.Commit()
}

// QueryOptions holds parameters for history queries.
type QueryOptions struct {
	// Term filters by search-term substring.
	Term string

	// Artist filters by artist-name substring.
	Artist string

	// ResolvedOnly drops rows whose resolution produced no artist.
	ResolvedOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Query returns recorded resolutions, newest first.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.Resolution, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT term, artist_name, artist_id, followers_count, resolved_at
		 FROM resolutions WHERE 1=1`)

	if opts.Term != "" {
		qb.WriteString(` AND term LIKE ?`)
		args = append(args, "%"+opts.Term+"%")
	}
	if opts.Artist != "" {
		qb.WriteString(` AND artist_name LIKE ?`)
		args = append(args, "%"+opts.Artist+"%")
	}
	if opts.ResolvedOnly {
		qb.WriteString(` AND artist_id IS NOT NULL`)
	}

	qb.WriteString(` ORDER BY rowid DESC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var results []types.Resolution
	for rows.Next() {
		var (
			res        types.Resolution
			name       sql.NullString
			artistID   sql.NullInt64
			followers  sql.NullInt64
			resolvedAt string
		)
		if err := rows.Scan(&res.SearchTerm, &name, &artistID, &followers, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if name.Valid {
			res.ArtistName = &name.String
		}
		if artistID.Valid {
			res.ArtistID = &artistID.Int64
		}
		if followers.Valid {
			res.FollowersCount = &followers.Int64
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, resolvedAt); parseErr == nil {
			res.ResolvedAt = t
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Count returns the total number of recorded resolutions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM resolutions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return n, nil
}
