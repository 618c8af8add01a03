package subscription

import (
	"context"
	"time"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, s *domain.Subscription) error
	GetActiveByUser(ctx context.Context, userID int64) (*domain.Subscription, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.SubscriptionStatus) (bool, error)
	IncrementSwapsUsed(ctx context.Context, id int64) error
	DecrementSwapsUsed(ctx context.Context, id int64) error
	GetPlan(ctx context.Context, id domain.PlanID) (*domain.SwapPlan, error)
	ListActivePlans(ctx context.Context) ([]domain.SwapPlan, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
