// Package storage persists the analysis journal: bookkeeping rows recording
// which files were analyzed and when. Analysis payloads and vectors are
// never stored here.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/shikisai/internal/models"
)

// ErrNotFound is returned by Get for paths with no journal entry.
var ErrNotFound = errors.New("journal entry not found")

// Journal defines journal persistence operations, keyed by absolute path.
type Journal interface {
	Get(ctx context.Context, path string) (*models.JournalEntry, error)
	Upsert(ctx context.Context, entry *models.JournalEntry) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, offset, limit int) ([]*models.JournalEntry, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
