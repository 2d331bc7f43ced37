package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lingobuddy/internal/domain"
)

// DefaultDailyLimit is the shared daily completion cap across all features.
const DefaultDailyLimit = 50

// QuotaDeniedMessage is the user-facing denial text. The client matches on
// it, so it must not change shape.
const QuotaDeniedMessage = "Daily limit of 50 conversations reached. Limit resets at midnight."

// UsageLedger is the external keyed counter store. The day key rotation at
// midnight is the implicit reset; counts never decrease.
//
// Note the asymmetry: the cap is global across features, so reads sum the
// whole day, while increments target a single feature's counter.
type UsageLedger interface {
	TotalForDay(ctx context.Context, userID string, day time.Time) (int, error)
	Increment(ctx context.Context, userID string, feature domain.Feature, day time.Time) error
}

// QuotaGate decides allow/deny against the daily ceiling, evaluated fresh
// on every request before the outbound model call.
type QuotaGate struct {
	ledger UsageLedger
	limit  int
	now    func() time.Time
}

func NewQuotaGate(ledger UsageLedger, limit int) (*QuotaGate, error) {
	if ledger == nil {
		return nil, errors.New("usecase: usage ledger must not be nil")
	}
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &QuotaGate{ledger: ledger, limit: limit, now: time.Now}, nil
}

// Check returns a QUOTA_DENIED error once today's total reaches the limit
// (inclusive). A ledger read failure degrades open: usage is treated as
// zero and the failure is logged, trading strict enforcement for
// availability.
func (g *QuotaGate) Check(ctx context.Context, userID string) *Error {
	total, err := g.ledger.TotalForDay(ctx, userID, g.now().UTC())
	if err != nil {
		slog.WarnContext(ctx, "usage read failed, allowing request", "userId", userID, "err", err)
		return nil
	}
	if total >= g.limit {
		return newError(ErrorQuotaDenied, "daily_limit_reached", nil)
	}
	return nil
}

// RecordUse bumps the per-feature counter after a successful completion.
// Best-effort: a failed increment under-counts but never fails the request.
func (g *QuotaGate) RecordUse(ctx context.Context, userID string, feature domain.Feature) {
	if err := g.ledger.Increment(ctx, userID, feature, g.now().UTC()); err != nil {
		slog.ErrorContext(ctx, "usage increment failed", "userId", userID, "feature", feature, "err", err)
	}
}
