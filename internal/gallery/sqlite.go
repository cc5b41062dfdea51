package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/genstudio/internal/common"
	"github.com/dmitrijs2005/genstudio/internal/dbx"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts a record or overwrites it by id. On conflict all columns are
// replaced; the count is unaffected, so an overwrite never triggers eviction.
func (r *SQLiteRepository) Upsert(ctx context.Context, rec *models.ArchiveRecord) error {
	query := ` INSERT INTO records (id, kind, media_url, prompt, negative_prompt, style, aspect_ratio, model, seed, created_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET kind = excluded.kind,
				media_url = excluded.media_url,
				prompt = excluded.prompt,
				negative_prompt = excluded.negative_prompt,
				style = excluded.style,
				aspect_ratio = excluded.aspect_ratio,
				model = excluded.model,
				seed = excluded.seed,
				created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, string(rec.Kind), rec.MediaURL, rec.Prompt, rec.NegativePrompt,
		rec.Style, rec.AspectRatio, rec.Model, rec.Seed, rec.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

const selectColumns = `id, kind, media_url, prompt, negative_prompt, style, aspect_ratio, model, seed, created_at`

// GetAllByCreatedDesc lists all records, newest-first. Ties on the timestamp
// are broken by id so the ordering is deterministic.
func (r *SQLiteRepository) GetAllByCreatedDesc(ctx context.Context) ([]models.ArchiveRecord, error) {
	query := `select ` + selectColumns + ` from records order by created_at desc, id desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.ArchiveRecord
	for rows.Next() {
		item, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns one record or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ArchiveRecord, error) {
	query := `select ` + selectColumns + ` from records where id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	item, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return item, nil
}

// DeleteByID removes a record by id. Removal is idempotent: deleting an id
// that is not present succeeds without error.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `delete from records where id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `select count(*) from records`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// DeleteOldest removes the n oldest records by creation timestamp.
func (r *SQLiteRepository) DeleteOldest(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	query := `delete from records where id in (
			select id from records order by created_at asc, id asc limit ?
	)`
	if _, err := r.db.ExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to evict oldest records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.ArchiveRecord, error) {
	var item models.ArchiveRecord
	var kind string
	var createdAt int64
	err := row.Scan(&item.ID, &kind, &item.MediaURL, &item.Prompt, &item.NegativePrompt,
		&item.Style, &item.AspectRatio, &item.Model, &item.Seed, &createdAt)
	if err != nil {
		return nil, err
	}
	item.Kind = models.Mode(kind)
	item.CreatedAt = time.UnixMilli(createdAt)
	return &item, nil
}

var _ Repository = (*SQLiteRepository)(nil)
