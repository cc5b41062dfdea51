package gallery

import (
	"context"

	"github.com/dmitrijs2005/genstudio/internal/models"
)

// Capacity is the fixed upper bound of archive records the gallery keeps.
// A write that pushes the count above this bound evicts the oldest records
// until the count equals it again.
const Capacity = 50

// Repository describes the durable operations on archive records.
// Implementations are backed by a local SQLite database and may be bound to
// either a *sql.DB or a transaction via dbx.DBTX.
type Repository interface {
	// Upsert inserts a record or overwrites an existing one by ID.
	Upsert(ctx context.Context, rec *models.ArchiveRecord) error

	// GetAllByCreatedDesc returns all records, newest-first.
	GetAllByCreatedDesc(ctx context.Context) ([]models.ArchiveRecord, error)

	// GetByID returns one record or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.ArchiveRecord, error)

	// DeleteByID removes a record if present. Deleting an absent ID is a
	// no-op, not an error.
	DeleteByID(ctx context.Context, id string) error

	// Count returns the current number of records.
	Count(ctx context.Context) (int, error)

	// DeleteOldest removes the n records with the oldest creation
	// timestamps, strictly oldest-first.
	DeleteOldest(ctx context.Context, n int) error
}
