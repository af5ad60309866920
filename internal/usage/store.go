package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/postwerk/postwerk/internal/models"
	"github.com/uptrace/bun"
)

// Store persists usage records keyed by (userID, month). Both write
// operations are atomic upserts so concurrent calls for the same key never
// lose updates.
type Store interface {
	InitializeDatabase(ctx context.Context) error
	// Get returns the record for (userID, month), or nil when none exists.
	// Reads never create a record.
	Get(ctx context.Context, userID, month string) (*models.UsageRecord, error)
	// IncrementGenerated advances the counter for one content type by one,
	// creating the record if absent.
	IncrementGenerated(ctx context.Context, userID, month string, t models.ContentType) error
	// AddExtraTokens adds purchased top-up capacity to the record, creating
	// it if absent.
	AddExtraTokens(ctx context.Context, userID, month string, count int) error
}

type UsageStore struct {
	db *bun.DB
}

func NewUsageStore(db *bun.DB) *UsageStore {
	return &UsageStore{db: db}
}

func (s *UsageStore) InitializeDatabase(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*models.UsageRecordDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.NewCreateIndex().
		Model((*models.UsageRecordDB)(nil)).
		Index("idx_usage_records_user_id").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *UsageStore) Get(ctx context.Context, userID, month string) (*models.UsageRecord, error) {
	recDB := new(models.UsageRecordDB)
	err := s.db.NewSelect().
		Model(recDB).
		Where("user_id = ?", userID).
		Where("month = ?", month).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return recDB.ToUsageRecord(), nil
}

func (s *UsageStore) IncrementGenerated(ctx context.Context, userID, month string, t models.ContentType) error {
	recDB := &models.UsageRecordDB{
		UserID:      userID,
		Month:       month,
		LastUpdated: time.Now(),
	}

	var incrExpr string
	switch t {
	case models.ContentTypePosts:
		recDB.PostsGenerated = 1
		incrExpr = "posts_generated = ur.posts_generated + 1"
	case models.ContentTypeHashtags:
		recDB.HashtagsGenerated = 1
		incrExpr = "hashtags_generated = ur.hashtags_generated + 1"
	case models.ContentTypeImageIdeas:
		recDB.ImageIdeasGenerated = 1
		incrExpr = "image_ideas_generated = ur.image_ideas_generated + 1"
	case models.ContentTypeImages:
		recDB.ImagesGenerated = 1
		incrExpr = "images_generated = ur.images_generated + 1"
	case models.ContentTypeVideos:
		recDB.VideosGenerated = 1
		incrExpr = "videos_generated = ur.videos_generated + 1"
	default:
		return fmt.Errorf("unknown content type %q", t)
	}

	_, err := s.db.NewInsert().
		Model(recDB).
		On("CONFLICT (user_id, month) DO UPDATE").
		Set(incrExpr).
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	return err
}

func (s *UsageStore) AddExtraTokens(ctx context.Context, userID, month string, count int) error {
	recDB := &models.UsageRecordDB{
		UserID:               userID,
		Month:                month,
		ExtraTokensPurchased: count,
		LastUpdated:          time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(recDB).
		On("CONFLICT (user_id, month) DO UPDATE").
		Set("extra_tokens_purchased = ur.extra_tokens_purchased + EXCLUDED.extra_tokens_purchased").
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	return err
}
