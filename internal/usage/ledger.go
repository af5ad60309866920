// Package usage implements the monthly usage-quota ledger. It answers whether
// a user may generate one more unit of a content type, records consumed
// units, and tracks purchased top-up tokens, all per (user, calendar month).
package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postwerk/postwerk/internal/logger"
	"github.com/postwerk/postwerk/internal/models"
	"github.com/postwerk/postwerk/internal/plan"
	"github.com/postwerk/postwerk/internal/subscription"
)

var (
	ErrInvalidUserID      = errors.New("userId is required")
	ErrInvalidContentType = errors.New("unknown content type")
	ErrInvalidTokenCount  = errors.New("tokenCount must be a positive integer")
)

const noSubscriptionReason = "Kein aktives Abonnement gefunden. Bitte wählen Sie einen Plan."

// UsageDecision is the answer to "may this user generate one more unit?".
type UsageDecision struct {
	CanGenerate     bool    `json:"canGenerate"`
	Reason          string  `json:"reason"`
	RemainingTokens int     `json:"remainingTokens"`
	TotalTokens     int     `json:"totalTokens"`
	PlanName        plan.ID `json:"planName,omitempty"`
}

// PurchaseResult reports the outcome of an extra-token purchase.
type PurchaseResult struct {
	Success     bool `json:"success"`
	TokensAdded int  `json:"tokensAdded"`
}

// SnapshotUsage holds the consumed counters of the current month bucket.
type SnapshotUsage struct {
	Posts       int `json:"posts"`
	Hashtags    int `json:"hashtags"`
	ImageIdeas  int `json:"imageIdeas"`
	Images      int `json:"images"`
	Videos      int `json:"videos"`
	ExtraTokens int `json:"extraTokens"`
}

// UsageSnapshot is the display-oriented aggregate over all content types.
type UsageSnapshot struct {
	Plan         plan.ID       `json:"plan"`
	CurrentUsage SnapshotUsage `json:"currentUsage"`
	Limits       plan.Limits   `json:"limits"`
	TotalLimits  plan.Limits   `json:"totalLimits"`
	Remaining    plan.Limits   `json:"remaining"`
}

// Ledger is the usage-quota accounting engine. It reads subscriptions to
// resolve the applicable plan at query time, so a mid-month plan change takes
// effect immediately.
type Ledger struct {
	store    Store
	subs     subscription.Repository
	resolver *plan.Resolver
	now      func() time.Time
}

type LedgerOption func(*Ledger)

// WithClock overrides the wall-clock used for month-bucket derivation.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(store Store, subs subscription.Repository, resolver *plan.Resolver, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store:    store,
		subs:     subs,
		resolver: resolver,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// resolvePlan returns the user's active plan, or ok=false when the user has
// no entitlement at all.
func (l *Ledger) resolvePlan(ctx context.Context, userID string) (plan.ID, bool, error) {
	sub, err := l.subs.GetCurrent(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil || !sub.IsActive() {
		return "", false, nil
	}
	return l.resolver.Resolve(sub.PriceID), true, nil
}

// CheckUsageLimit decides whether userID may generate one more unit of t
// right now. Read-only; absent records count as zero and are not created.
func (l *Ledger) CheckUsageLimit(ctx context.Context, userID string, t models.ContentType) (*UsageDecision, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if _, ok := models.ParseContentType(string(t)); !ok {
		return nil, ErrInvalidContentType
	}

	planID, ok, err := l.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &UsageDecision{
			CanGenerate:     false,
			Reason:          noSubscriptionReason,
			RemainingTokens: 0,
			TotalTokens:     0,
		}, nil
	}

	rec, err := l.store.Get(ctx, userID, MonthKey(l.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load usage record: %w", err)
	}
	if rec == nil {
		rec = &models.UsageRecord{}
	}

	limits := plan.Catalog[planID]
	current := rec.Generated(t)
	totalLimit := limits.For(t) + rec.ExtraTokensPurchased

	decision := &UsageDecision{
		CanGenerate:     current < totalLimit,
		RemainingTokens: max(0, totalLimit-current),
		TotalTokens:     totalLimit,
		PlanName:        planID,
	}
	if !decision.CanGenerate {
		decision.Reason = fmt.Sprintf(
			"Ihr %s-Kontingent für diesen Monat ist aufgebraucht. Sie können zusätzliche Tokens kaufen oder auf den nächsten Monat warten.",
			t.DisplayName(),
		)
	}
	return decision, nil
}

// IncrementUsage records one consumed unit of t in the current month bucket.
// It performs no limit check itself: callers must check, generate, then
// increment, exactly once per successful generation.
func (l *Ledger) IncrementUsage(ctx context.Context, userID string, t models.ContentType) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if _, ok := models.ParseContentType(string(t)); !ok {
		return ErrInvalidContentType
	}
	if err := l.store.IncrementGenerated(ctx, userID, MonthKey(l.now()), t); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// PurchaseExtraTokens adds top-up capacity to the current month bucket. The
// tokens form one shared pool added to every content type's limit.
func (l *Ledger) PurchaseExtraTokens(ctx context.Context, userID string, tokenCount int) (*PurchaseResult, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if tokenCount <= 0 {
		return nil, ErrInvalidTokenCount
	}
	month := MonthKey(l.now())
	if err := l.store.AddExtraTokens(ctx, userID, month, tokenCount); err != nil {
		return nil, fmt.Errorf("failed to add extra tokens: %w", err)
	}
	logger.Log.Info("extra tokens purchased", "userId", userID, "month", month, "tokenCount", tokenCount)
	return &PurchaseResult{Success: true, TokensAdded: tokenCount}, nil
}

// GetUserUsage returns the display aggregate for the current month, or nil
// when the user has no active subscription.
func (l *Ledger) GetUserUsage(ctx context.Context, userID string) (*UsageSnapshot, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	planID, ok, err := l.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rec, err := l.store.Get(ctx, userID, MonthKey(l.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load usage record: %w", err)
	}
	if rec == nil {
		rec = &models.UsageRecord{}
	}

	limits := plan.Catalog[planID]
	extra := rec.ExtraTokensPurchased

	return &UsageSnapshot{
		Plan: planID,
		CurrentUsage: SnapshotUsage{
			Posts:       rec.PostsGenerated,
			Hashtags:    rec.HashtagsGenerated,
			ImageIdeas:  rec.ImageIdeasGenerated,
			Images:      rec.ImagesGenerated,
			Videos:      rec.VideosGenerated,
			ExtraTokens: extra,
		},
		Limits: limits,
		TotalLimits: plan.Limits{
			Posts:      limits.Posts + extra,
			Hashtags:   limits.Hashtags + extra,
			ImageIdeas: limits.ImageIdeas + extra,
			Images:     limits.Images + extra,
			Videos:     limits.Videos + extra,
		},
		Remaining: plan.Limits{
			Posts:      max(0, limits.Posts+extra-rec.PostsGenerated),
			Hashtags:   max(0, limits.Hashtags+extra-rec.HashtagsGenerated),
			ImageIdeas: max(0, limits.ImageIdeas+extra-rec.ImageIdeasGenerated),
			Images:     max(0, limits.Images+extra-rec.ImagesGenerated),
			Videos:     max(0, limits.Videos+extra-rec.VideosGenerated),
		},
	}, nil
}
