package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/genstudio/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add upserts text at the head of the list (the conflict path refreshes the
// timestamp, which is what moves a duplicate to the front) and trims the
// tail beyond Limit.
func (r *SQLiteRepository) Add(ctx context.Context, kind Kind, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	query := `INSERT INTO prompts (kind, text, created_at) VALUES (?, ?, ?)
			ON CONFLICT(kind, text) DO UPDATE SET created_at = excluded.created_at`
	if _, err := r.db.ExecContext(ctx, query, string(kind), text, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to record %s: %w", kind, err)
	}

	trim := `DELETE FROM prompts WHERE kind = ? AND text IN (
			SELECT text FROM prompts WHERE kind = ?
			ORDER BY created_at DESC, text LIMIT -1 OFFSET ?
	)`
	if _, err := r.db.ExecContext(ctx, trim, string(kind), string(kind), Limit); err != nil {
		return fmt.Errorf("failed to trim %s list: %w", kind, err)
	}
	return nil
}

// List returns up to Limit entries, most-recent-first.
func (r *SQLiteRepository) List(ctx context.Context, kind Kind) ([]string, error) {
	query := `SELECT text FROM prompts WHERE kind = ?
			ORDER BY created_at DESC, text LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, string(kind), Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s list: %w", kind, err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		result = append(result, text)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ Repository = (*SQLiteRepository)(nil)
