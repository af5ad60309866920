package migrations

import (
	"context"

	"github.com/postwerk/postwerk/internal/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*models.UsageRecordDB)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateIndex().
			Model((*models.UsageRecordDB)(nil)).
			Index("idx_usage_records_user_id").
			Column("user_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().
			Model((*models.SubscriptionDB)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewCreateIndex().
			Model((*models.SubscriptionDB)(nil)).
			Index("idx_subscriptions_user_id").
			Column("user_id").
			IfNotExists().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().
			Model((*models.UsageRecordDB)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewDropTable().
			Model((*models.SubscriptionDB)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
