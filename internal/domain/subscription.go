package domain

import "time"

type PlanID string

const (
	PlanPayPerSwap PlanID = "pay_per_swap"
	PlanCommuter   PlanID = "commuter"
	PlanUnlimited  PlanID = "unlimited"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// SwapPlan defines a monthly swap allowance tier for drivers.
type SwapPlan struct {
	ID            PlanID    `json:"id"`
	Name          string    `json:"name"`
	SwapsPerMonth int       `json:"swaps_per_month"` // -1 unlimited, 0 billed per swap
	PriceMonthly  float64   `json:"price_monthly"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type Subscription struct {
	ID               int64              `json:"id"`
	UserID           int64              `json:"user_id"`
	PlanID           PlanID             `json:"plan_id"`
	Status           SubscriptionStatus `json:"status"`
	SwapsUsed        int                `json:"swaps_used"`
	CurrentPeriodEnd time.Time          `json:"current_period_end"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Expired reports whether the subscription period has lapsed at ref time.
func (s *Subscription) Expired(ref time.Time) bool {
	return s.Status == SubscriptionActive && s.CurrentPeriodEnd.Before(ref)
}
