package subscription

import (
	"context"
	"database/sql"
	"errors"

	"github.com/postwerk/postwerk/internal/models"
	"github.com/uptrace/bun"
)

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	// GetCurrent returns the newest subscription row for a user, or nil when
	// the user has none.
	GetCurrent(ctx context.Context, userID string) (*models.Subscription, error)
}

type SubscriptionRepository struct {
	db *bun.DB
}

func NewSubscriptionRepository(db *bun.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.SubscriptionDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.SubscriptionDB)(nil)).
		Index("idx_subscriptions_user_id").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *SubscriptionRepository) GetCurrent(ctx context.Context, userID string) (*models.Subscription, error) {
	subDB := new(models.SubscriptionDB)
	err := r.db.NewSelect().
		Model(subDB).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return subDB.ToSubscription(), nil
}
