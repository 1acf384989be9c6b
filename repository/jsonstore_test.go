package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"autopost/entities"
)

func testRecord(filename, videoID string, uploadedAt time.Time) *entities.UploadRecord {
	return &entities.UploadRecord{
		Filename:   filename,
		VideoID:    videoID,
		Platform:   "youtube",
		Title:      "title",
		Privacy:    "public",
		Tags:       []string{"Property"},
		UploadedAt: uploadedAt,
	}
}

func TestJSONStoreUpsertAndFind(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "records.json"))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Upsert(ctx, testRecord("tour.mp4", "yt-1", now)))

	got, err := store.FindByFilename(ctx, "tour.mp4")
	require.NoError(t, err)
	require.Equal(t, "yt-1", got.VideoID)
	require.Equal(t, []string{"Property"}, got.Tags)
	require.True(t, got.UploadedAt.Equal(now))
}

func TestJSONStoreUpsertReplacesByFilename(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "records.json"))
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, store.Upsert(ctx, testRecord("tour.mp4", "yt-1", now)))
	require.NoError(t, store.Upsert(ctx, testRecord("tour.mp4", "yt-2", now.Add(time.Minute))))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "yt-2", records[0].VideoID)
}

func TestJSONStoreListNewestFirst(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "records.json"))
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, store.Upsert(ctx, testRecord("old.mp4", "yt-old", base.Add(-time.Hour))))
	require.NoError(t, store.Upsert(ctx, testRecord("new.mp4", "yt-new", base)))
	require.NoError(t, store.Upsert(ctx, testRecord("mid.mp4", "yt-mid", base.Add(-time.Minute))))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "new.mp4", records[0].Filename)
	require.Equal(t, "mid.mp4", records[1].Filename)
	require.Equal(t, "old.mp4", records[2].Filename)
}

func TestJSONStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	ctx := context.Background()

	first := NewJSONStore(path)
	require.NoError(t, first.Upsert(ctx, testRecord("tour.mp4", "yt-1", time.Now().UTC())))

	reopened := NewJSONStore(path)
	got, err := reopened.FindByFilename(ctx, "tour.mp4")
	require.NoError(t, err)
	require.Equal(t, "yt-1", got.VideoID)
}

func TestJSONStoreMissingFileIsEmpty(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	ctx := context.Background()

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	_, err = store.FindByFilename(ctx, "tour.mp4")
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestJSONStoreCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "records.json")
	store := NewJSONStore(path)

	require.NoError(t, store.Upsert(context.Background(), testRecord("tour.mp4", "yt-1", time.Now().UTC())))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
