package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

type Service struct {
	subs SubscriptionRepository
}

func NewService(subs SubscriptionRepository) *Service {
	return &Service{subs: subs}
}

func (s *Service) ListPlans(ctx context.Context) ([]domain.SwapPlan, error) {
	return s.subs.ListActivePlans(ctx)
}

// Subscribe starts a one-month period on the chosen plan. A user holds
// at most one active subscription.
func (s *Service) Subscribe(ctx context.Context, userID int64, req SubscribeRequest) (*domain.Subscription, error) {
	plan, err := s.subs.GetPlan(ctx, domain.PlanID(req.PlanID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrValidation
	}

	if _, err := s.subs.GetActiveByUser(ctx, userID); err == nil {
		return nil, ErrAlreadyActive
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sub := &domain.Subscription{
		UserID:           userID,
		PlanID:           plan.ID,
		Status:           domain.SubscriptionActive,
		CurrentPeriodEnd: time.Now().AddDate(0, 1, 0),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) MySubscription(ctx context.Context, userID int64) (*domain.Subscription, error) {
	sub, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *Service) Cancel(ctx context.Context, userID int64) error {
	sub, err := s.MySubscription(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := s.subs.UpdateStatus(ctx, sub.ID, domain.SubscriptionActive, domain.SubscriptionCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	return nil
}

// ConsumeSwap debits one swap from the user's allowance. Users without
// a subscription pay per swap, so no subscription is not an error.
func (s *Service) ConsumeSwap(ctx context.Context, userID int64) error {
	sub, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if sub.Expired(time.Now()) {
		return nil
	}

	plan, err := s.subs.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	// SwapsPerMonth 0 means billed per use; only positive allowances
	// are enforced.
	if plan.SwapsPerMonth > 0 && sub.SwapsUsed >= plan.SwapsPerMonth {
		return ErrQuotaExceeded
	}
	return s.subs.IncrementSwapsUsed(ctx, sub.ID)
}

// RefundSwap credits one swap back after a debited exchange failed to
// happen. Mirrors ConsumeSwap: users without a subscription were never
// charged, so there is nothing to credit.
func (s *Service) RefundSwap(ctx context.Context, userID int64) error {
	sub, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.subs.DecrementSwapsUsed(ctx, sub.ID)
}

// ExpireOverdue lapses every subscription whose period ended before now.
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return s.subs.ExpireOverdue(ctx, now)
}
