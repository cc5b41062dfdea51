// Package gallery is the durable, bounded, time-ordered archive of generated
// artifacts. Records are kept in a local SQLite database; a fixed capacity is
// enforced on write by evicting the oldest records (FIFO by creation time,
// never by access recency).
package gallery

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/genstudio/internal/dbx"
	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/media"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

// Service exposes the gallery operations used by the CLI: save an artifact,
// list the archive and remove a record. Saving normalizes the media locator
// first (best-effort) and then runs the insert and any eviction inside one
// transaction, so concurrent writers can never jointly over-evict or leave
// the store above capacity.
type Service struct {
	db       *sql.DB
	fetcher  *media.Fetcher
	log      logging.Logger
	capacity int
}

// NewService returns a gallery Service with the standard capacity bound.
func NewService(db *sql.DB, fetcher *media.Fetcher, log logging.Logger) *Service {
	return &Service{db: db, fetcher: fetcher, log: log, capacity: Capacity}
}

// Save archives an artifact and returns the updated newest-first listing.
//
// The artifact's locator is normalized into a self-contained payload when
// possible; normalization failure is logged and the original locator is
// stored instead — losing the save is worse than losing durability of the
// media. If the write pushes the record count above the capacity bound,
// exactly count-capacity oldest records are evicted in the same transaction.
func (s *Service) Save(ctx context.Context, a models.Artifact) ([]models.ArchiveRecord, error) {
	rec := models.NewArchiveRecord(a)
	rec.MediaURL = s.fetcher.Normalize(ctx, a.MediaURL, a.Kind)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		if err := repo.Upsert(ctx, &rec); err != nil {
			return err
		}

		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > s.capacity {
			s.log.Info(ctx, "gallery over capacity, evicting oldest records",
				"count", n, "capacity", s.capacity)
			return repo.DeleteOldest(ctx, n-s.capacity)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive artifact: %w", err)
	}

	return s.List(ctx)
}

// List returns all archive records, newest-first.
func (s *Service) List(ctx context.Context) ([]models.ArchiveRecord, error) {
	return NewSQLiteRepository(s.db).GetAllByCreatedDesc(ctx)
}

// Get returns a single archive record by id.
func (s *Service) Get(ctx context.Context, id string) (*models.ArchiveRecord, error) {
	return NewSQLiteRepository(s.db).GetByID(ctx, id)
}

// Remove deletes a record by id (idempotent) and returns the updated listing.
func (s *Service) Remove(ctx context.Context, id string) ([]models.ArchiveRecord, error) {
	if err := NewSQLiteRepository(s.db).DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	return s.List(ctx)
}
