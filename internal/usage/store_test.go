package usage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/postwerk/postwerk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newMockStore(t *testing.T) (*UsageStore, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	return NewUsageStore(bunDB), mock
}

func usageColumns() []string {
	return []string{
		"user_id", "month",
		"posts_generated", "hashtags_generated", "image_ideas_generated",
		"images_generated", "videos_generated",
		"extra_tokens_purchased", "last_updated",
	}
}

func TestUsageStoreInitializeDatabase(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "usage_records"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS "?idx_usage_records_user_id"?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.InitializeDatabase(context.Background())
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageStoreGet(t *testing.T) {
	store, mock := newMockStore(t)

	lastUpdated := time.Date(2025, time.March, 5, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM "usage_records"`).
		WillReturnRows(sqlmock.NewRows(usageColumns()).
			AddRow("user-1", "2025-03", 3, 0, 1, 0, 0, 5, lastUpdated))

	rec, err := store.Get(context.Background(), "user-1", "2025-03")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "2025-03", rec.Month)
	assert.Equal(t, 3, rec.PostsGenerated)
	assert.Equal(t, 1, rec.ImageIdeasGenerated)
	assert.Equal(t, 5, rec.ExtraTokensPurchased)
	assert.Equal(t, lastUpdated, rec.LastUpdated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageStoreGetAbsentRecord(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM "usage_records"`).
		WillReturnRows(sqlmock.NewRows(usageColumns()))

	rec, err := store.Get(context.Background(), "user-1", "2025-03")
	require.NoError(t, err)
	assert.Nil(t, rec)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// counterColumnsExcept returns the default-tagged counter columns bun leaves
// at their SQL default on this insert; bun fetches them back via RETURNING,
// so the upsert arrives as a query.
func counterColumnsExcept(except string) []string {
	all := []string{
		"posts_generated", "hashtags_generated", "image_ideas_generated",
		"images_generated", "videos_generated", "extra_tokens_purchased",
	}
	cols := make([]string, 0, len(all)-1)
	for _, col := range all {
		if col != except {
			cols = append(cols, col)
		}
	}
	return cols
}

func TestUsageStoreIncrementGeneratedUpserts(t *testing.T) {
	tests := []struct {
		contentType models.ContentType
		column      string
	}{
		{models.ContentTypePosts, "posts_generated"},
		{models.ContentTypeHashtags, "hashtags_generated"},
		{models.ContentTypeImageIdeas, "image_ideas_generated"},
		{models.ContentTypeImages, "images_generated"},
		{models.ContentTypeVideos, "videos_generated"},
	}

	for _, tt := range tests {
		t.Run(string(tt.contentType), func(t *testing.T) {
			store, mock := newMockStore(t)

			// The increment must be a single SQL-side upsert so concurrent
			// calls for the same key never lose updates.
			mock.ExpectQuery(`INSERT INTO "usage_records" .+ ON CONFLICT .+ DO UPDATE SET ` + tt.column + ` = ur\.` + tt.column + ` \+ 1.+RETURNING`).
				WillReturnRows(sqlmock.NewRows(counterColumnsExcept(tt.column)).
					AddRow(0, 0, 0, 0, 0))

			err := store.IncrementGenerated(context.Background(), "user-1", "2025-03", tt.contentType)
			require.NoError(t, err)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUsageStoreIncrementGeneratedUnknownType(t *testing.T) {
	store, mock := newMockStore(t)

	err := store.IncrementGenerated(context.Background(), "user-1", "2025-03", "stories")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageStoreAddExtraTokensUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "usage_records" .+ ON CONFLICT .+ DO UPDATE SET extra_tokens_purchased = ur\.extra_tokens_purchased \+ EXCLUDED\.extra_tokens_purchased.+RETURNING`).
		WillReturnRows(sqlmock.NewRows(counterColumnsExcept("extra_tokens_purchased")).
			AddRow(0, 0, 0, 0, 0))

	err := store.AddExtraTokens(context.Background(), "user-1", "2025-03", 5)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
