package models

import (
	"time"

	"github.com/uptrace/bun"
)

const SubscriptionStatusActive = "active"

// Subscription is the billing collaborator's view of a user. The quota ledger
// only ever reads it; the row is written by the (external) billing webhooks.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	PriceID   string    `json:"price_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

type SubscriptionDB struct {
	bun.BaseModel `bun:"table:subscriptions,alias:s"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	Status    string    `bun:"status,notnull" json:"status"`
	PriceID   string    `bun:"price_id" json:"price_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (s *SubscriptionDB) ToSubscription() *Subscription {
	return &Subscription{
		ID:        s.ID,
		UserID:    s.UserID,
		Status:    s.Status,
		PriceID:   s.PriceID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
