package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// fixedClock returns the same instant on every call
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestDocumentRepository_InsertAssignsIdentity(t *testing.T) {
	db := setupTestDB(t)
	cols := NewCollections(db)
	require.NoError(t, cols.MigrateAll())
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	post := &domain.Post{Title: "A", Content: "hello"}
	post.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC) // ignored
	require.NoError(t, cols.Posts.Insert(ctx, post))

	assert.NotEmpty(t, post.ID)
	assert.NotZero(t, post.Seq)
	assert.False(t, post.CreatedAt.Before(before))

	items, err := cols.Posts.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, post.ID, items[0].ID)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, "hello", items[0].Content)
	assert.Equal(t, "", items[0].ImageURL)
	assert.True(t, items[0].CreatedAt.Equal(post.CreatedAt))
}

func TestDocumentRepository_OrderNewestFirstWithTieBreak(t *testing.T) {
	db := setupTestDB(t)
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := NewDocumentRepository[domain.GalleryItem, *domain.GalleryItem](db, WithClock(fixedClock(at)))
	require.NoError(t, repo.Migrate())
	ctx := context.Background()

	// identical createdAt: insertion order decides
	require.NoError(t, repo.Insert(ctx, &domain.GalleryItem{Title: "first", Category: domain.CategoryEvent}))
	require.NoError(t, repo.Insert(ctx, &domain.GalleryItem{Title: "second", Category: domain.CategoryTraining}))

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)
	assert.Equal(t, domain.CategoryTraining, items[0].Category)
	assert.Equal(t, "first", items[1].Title)
}

func TestDatabaseNow_SQLite(t *testing.T) {
	db := setupTestDB(t)

	now, err := DatabaseNow(db)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, 5*time.Second)
}

func TestDocumentRepository_CreatedAtFromDatabaseClock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepository[domain.Post, *domain.Post](db)
	require.NoError(t, repo.Migrate())
	ctx := context.Background()

	first := &domain.Post{Title: "first"}
	require.NoError(t, repo.Insert(ctx, first))
	second := &domain.Post{Title: "second"}
	require.NoError(t, repo.Insert(ctx, second))

	// millisecond clock: equal stamps fall back to seq
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)
	assert.True(t, items[1].CreatedAt.Equal(first.CreatedAt))
}

func TestDocumentRepository_OrderByCreatedAt(t *testing.T) {
	db := setupTestDB(t)
	times := []time.Time{
		time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	clock := func() time.Time { at := times[i]; i++; return at }
	repo := NewDocumentRepository[domain.Episode, *domain.Episode](db, WithClock(clock))
	require.NoError(t, repo.Migrate())
	ctx := context.Background()

	for _, title := range []string{"jan3", "jan1", "jan2"} {
		require.NoError(t, repo.Insert(ctx, &domain.Episode{Title: title, Link: "https://example.org/" + title}))
	}

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"jan3", "jan2", "jan1"}, []string{items[0].Title, items[1].Title, items[2].Title})
}

func TestDocumentRepository_DeleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	cols := NewCollections(db)
	require.NoError(t, cols.MigrateAll())
	ctx := context.Background()

	ep := &domain.Episode{Title: "Ep 1", Link: "https://example.org/1"}
	require.NoError(t, cols.Episodes.Insert(ctx, ep))

	n, err := cols.Episodes.DeleteByID(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = cols.Episodes.DeleteByID(ctx, ep.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = cols.Episodes.DeleteByID(ctx, ep.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	items, err := cols.Episodes.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestDocumentRepository_DuplicateIDRejected(t *testing.T) {
	db := setupTestDB(t)
	cols := NewCollections(db)
	require.NoError(t, cols.MigrateAll())
	ctx := context.Background()

	first := &domain.Post{Title: "one"}
	first.ID = "fixed-id"
	require.NoError(t, cols.Posts.Insert(ctx, first))

	second := &domain.Post{Title: "two"}
	second.ID = "fixed-id"
	err := cols.Posts.Insert(ctx, second)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestNewDocumentID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewDocumentID()
		assert.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
