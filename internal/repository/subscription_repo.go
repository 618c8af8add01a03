package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

type subscriptionModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	UserID           int64     `gorm:"column:user_id;index"`
	PlanID           string    `gorm:"column:plan_id"`
	Status           string    `gorm:"column:status"`
	SwapsUsed        int       `gorm:"column:swaps_used"`
	CurrentPeriodEnd time.Time `gorm:"column:current_period_end"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (subscriptionModel) TableName() string { return "subscriptions" }

func toDomainSubscription(m subscriptionModel) *domain.Subscription {
	return &domain.Subscription{
		ID:               m.ID,
		UserID:           m.UserID,
		PlanID:           domain.PlanID(m.PlanID),
		Status:           domain.SubscriptionStatus(m.Status),
		SwapsUsed:        m.SwapsUsed,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	m := subscriptionModel{
		UserID:           s.UserID,
		PlanID:           string(s.PlanID),
		Status:           string(s.Status),
		SwapsUsed:        s.SwapsUsed,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainSubscription(m)
	return nil
}

func (r *SubscriptionRepository) GetActiveByUser(ctx context.Context, userID int64) (*domain.Subscription, error) {
	var m subscriptionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.SubscriptionActive)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainSubscription(m), nil
}

// UpdateStatus moves a subscription between states. The WHERE guard on
// the expected current status makes concurrent transitions lose cleanly.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.SubscriptionStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SubscriptionRepository) IncrementSwapsUsed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"swaps_used": gorm.Expr("swaps_used + 1"),
			"updated_at": time.Now(),
		}).Error
}

// DecrementSwapsUsed credits one swap back, never below zero.
func (r *SubscriptionRepository) DecrementSwapsUsed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("id = ? AND swaps_used > 0", id).
		Updates(map[string]any{
			"swaps_used": gorm.Expr("swaps_used - 1"),
			"updated_at": time.Now(),
		}).Error
}

type swapPlanModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name"`
	SwapsPerMonth int       `gorm:"column:swaps_per_month"`
	PriceMonthly  float64   `gorm:"column:price_monthly"`
	IsActive      bool      `gorm:"column:is_active"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (swapPlanModel) TableName() string { return "swap_plans" }

func toDomainSwapPlan(m swapPlanModel) *domain.SwapPlan {
	return &domain.SwapPlan{
		ID:            domain.PlanID(m.ID),
		Name:          m.Name,
		SwapsPerMonth: m.SwapsPerMonth,
		PriceMonthly:  m.PriceMonthly,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *SubscriptionRepository) GetPlan(ctx context.Context, id domain.PlanID) (*domain.SwapPlan, error) {
	var m swapPlanModel
	err := r.db.WithContext(ctx).Where("id = ?", string(id)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainSwapPlan(m), nil
}

func (r *SubscriptionRepository) ListActivePlans(ctx context.Context) ([]domain.SwapPlan, error) {
	var ms []swapPlanModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_monthly").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.SwapPlan, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainSwapPlan(m))
	}
	return out, nil
}

// UpsertPlan writes a plan tier, used by the seeder.
func (r *SubscriptionRepository) UpsertPlan(ctx context.Context, p *domain.SwapPlan) error {
	m := swapPlanModel{
		ID:            string(p.ID),
		Name:          p.Name,
		SwapsPerMonth: p.SwapsPerMonth,
		PriceMonthly:  p.PriceMonthly,
		IsActive:      p.IsActive,
	}
	return r.db.WithContext(ctx).Save(&m).Error
}

// ExpireOverdue flips every active subscription whose period lapsed to
// expired and returns how many rows changed. Safe to run repeatedly.
func (r *SubscriptionRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("status = ? AND current_period_end < ?", string(domain.SubscriptionActive), now).
		Updates(map[string]any{
			"status":     string(domain.SubscriptionExpired),
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}
