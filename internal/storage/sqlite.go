package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/shikisai/internal/models"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens or creates the journal database at dbPath and
// initializes the schema. Parent directories are created if they do not
// exist.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		path TEXT PRIMARY KEY,
		analysis_id TEXT NOT NULL,
		size INTEGER NOT NULL,
		mod_time INTEGER NOT NULL,
		analyzed_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the journal entry for path, or ErrNotFound.
func (j *SQLiteJournal) Get(ctx context.Context, path string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := j.db.QueryRowContext(ctx,
		`SELECT path, analysis_id, size, mod_time, analyzed_at
		 FROM analyses WHERE path = ?`, path,
	).Scan(&entry.Path, &entry.AnalysisID, &entry.Size, &entry.ModTime, &entry.AnalyzedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert inserts or replaces the entry for entry.Path. A zero AnalyzedAt is
// filled in with the current time.
func (j *SQLiteJournal) Upsert(ctx context.Context, entry *models.JournalEntry) error {
	if entry.AnalyzedAt.IsZero() {
		entry.AnalyzedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO analyses (path, analysis_id, size, mod_time, analyzed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			analysis_id = excluded.analysis_id,
			size = excluded.size,
			mod_time = excluded.mod_time,
			analyzed_at = excluded.analyzed_at`,
		entry.Path, entry.AnalysisID, entry.Size, entry.ModTime, entry.AnalyzedAt,
	)
	return err
}

// Delete removes the entry for path. Deleting an absent path is not an
// error.
func (j *SQLiteJournal) Delete(ctx context.Context, path string) error {
	_, err := j.db.ExecContext(ctx, `DELETE FROM analyses WHERE path = ?`, path)
	return err
}

// List returns entries ordered by most recent analysis first.
func (j *SQLiteJournal) List(ctx context.Context, offset, limit int) ([]*models.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT path, analysis_id, size, mod_time, analyzed_at
		 FROM analyses ORDER BY analyzed_at DESC, path LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		if err := rows.Scan(&entry.Path, &entry.AnalysisID, &entry.Size, &entry.ModTime, &entry.AnalyzedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Count returns the total number of journal entries.
func (j *SQLiteJournal) Count(ctx context.Context) (int64, error) {
	var count int64
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
