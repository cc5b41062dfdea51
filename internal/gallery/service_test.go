package gallery

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/media"
	"github.com/dmitrijs2005/genstudio/internal/models"

	_ "modernc.org/sqlite"
)

func setupServiceDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:gallerysvc?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS records (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  media_url TEXT NOT NULL,
  prompt TEXT NOT NULL,
  negative_prompt TEXT NOT NULL DEFAULT '',
  style TEXT NOT NULL DEFAULT '',
  aspect_ratio TEXT NOT NULL DEFAULT '',
  model TEXT NOT NULL DEFAULT '',
  seed INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);
DELETE FROM records;
`)
	require.NoError(t, err)
	return db
}

func newTestService(t *testing.T, db *sql.DB) *Service {
	t.Helper()
	log := logging.NewDefault(slog.LevelError)
	return NewService(db, media.NewFetcher(log), log)
}

func testArtifact(id string, createdAt time.Time) models.Artifact {
	return models.Artifact{
		ID:        id,
		MediaURL:  "data:image/png;base64,AAAA",
		Kind:      models.ModeImage,
		Prompt:    "a red fox",
		Seed:      7,
		CreatedAt: createdAt,
	}
}

func TestSave_ReturnsNewestFirstListing(t *testing.T) {
	db := setupServiceDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	base := time.Now()
	_, err := s.Save(ctx, testArtifact("first", base.Add(-time.Minute)))
	require.NoError(t, err)

	list, err := s.Save(ctx, testArtifact("second", base))
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].ID)
	assert.Equal(t, "first", list[1].ID)
}

func TestSave_EvictsOldestBeyondCapacity(t *testing.T) {
	db := setupServiceDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var list []models.ArchiveRecord
	var err error
	for i := 0; i < Capacity+1; i++ {
		id := fmt.Sprintf("art%02d", i)
		list, err = s.Save(ctx, testArtifact(id, base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	require.Len(t, list, Capacity, "a put crossing the bound evicts down to capacity")

	// the single oldest record is gone, the other 50 survive
	ids := make(map[string]struct{}, len(list))
	for _, rec := range list {
		ids[rec.ID] = struct{}{}
	}
	assert.NotContains(t, ids, "art00")
	assert.Contains(t, ids, "art01")
	assert.Contains(t, ids, fmt.Sprintf("art%02d", Capacity))
}

func TestSave_UpsertDoesNotEvict(t *testing.T) {
	db := setupServiceDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < Capacity; i++ {
		_, err := s.Save(ctx, testArtifact(fmt.Sprintf("art%02d", i), base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	// re-saving an existing id overwrites in place: same count, no eviction
	list, err := s.Save(ctx, testArtifact("art00", base))
	require.NoError(t, err)
	require.Len(t, list, Capacity)

	ids := make(map[string]struct{}, len(list))
	for _, rec := range list {
		ids[rec.ID] = struct{}{}
	}
	assert.Contains(t, ids, "art00")
}

func TestSave_NormalizationFailureKeepsOriginalLocator(t *testing.T) {
	db := setupServiceDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	a := testArtifact("degraded", time.Now())
	a.MediaURL = "http://127.0.0.1:1/unreachable.mp4"
	a.Kind = models.ModeVideo

	list, err := s.Save(ctx, a)
	require.NoError(t, err, "normalization failure must never block the save")

	require.Len(t, list, 1)
	assert.Equal(t, "http://127.0.0.1:1/unreachable.mp4", list[0].MediaURL)
}

func TestSave_NormalizesRemoteLocator(t *testing.T) {
	db := setupServiceDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	// data locators pass through normalization unchanged
	list, err := s.Save(ctx, testArtifact("plain", time.Now()))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "data:image/png;base64,AAAA", list[0].MediaURL)
}

func TestRemove_Idempotent(t *testing.T) {
	db := setupServiceDB(t)
	s := newTestService(t, db)
	ctx := context.Background()

	_, err := s.Save(ctx, testArtifact("gone", time.Now()))
	require.NoError(t, err)

	list, err := s.Remove(ctx, "gone")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.Remove(ctx, "gone")
	require.NoError(t, err, "removing an absent id must not fail")
	assert.Empty(t, list)
}
