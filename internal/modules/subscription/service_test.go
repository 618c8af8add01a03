package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

// Mock repositories

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	args := m.Called(ctx, s)
	s.ID = 999 // simulate DB insert
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetActiveByUser(ctx context.Context, userID int64) (*domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.SubscriptionStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) IncrementSwapsUsed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) DecrementSwapsUsed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetPlan(ctx context.Context, id domain.PlanID) (*domain.SwapPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SwapPlan), args.Error(1)
}

func (m *MockSubscriptionRepository) ListActivePlans(ctx context.Context) ([]domain.SwapPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SwapPlan), args.Error(1)
}

func (m *MockSubscriptionRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_Subscribe_Success(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetPlan", mock.Anything, domain.PlanCommuter).
		Return(&domain.SwapPlan{ID: domain.PlanCommuter, SwapsPerMonth: 30, IsActive: true}, nil)
	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(nil, repository.ErrNotFound)
	subs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Subscription")).Return(nil)

	sub, err := svc.Subscribe(context.Background(), 42, SubscribeRequest{PlanID: string(domain.PlanCommuter)})
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
	assert.True(t, sub.CurrentPeriodEnd.After(time.Now().AddDate(0, 0, 27)))
}

func TestService_Subscribe_AlreadyActive(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetPlan", mock.Anything, domain.PlanCommuter).
		Return(&domain.SwapPlan{ID: domain.PlanCommuter, IsActive: true}, nil)
	subs.On("GetActiveByUser", mock.Anything, int64(42)).
		Return(&domain.Subscription{ID: 7, UserID: 42, Status: domain.SubscriptionActive}, nil)

	_, err := svc.Subscribe(context.Background(), 42, SubscribeRequest{PlanID: string(domain.PlanCommuter)})
	assert.ErrorIs(t, err, ErrAlreadyActive)
	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Subscribe_RetiredPlan(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetPlan", mock.Anything, domain.PlanID("legacy")).
		Return(&domain.SwapPlan{ID: "legacy", IsActive: false}, nil)

	_, err := svc.Subscribe(context.Background(), 42, SubscribeRequest{PlanID: "legacy"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_ConsumeSwap_NoSubscriptionIsFree(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(nil, repository.ErrNotFound)

	assert.NoError(t, svc.ConsumeSwap(context.Background(), 42))
	subs.AssertNotCalled(t, "IncrementSwapsUsed", mock.Anything, mock.Anything)
}

func TestService_ConsumeSwap_DebitsAllowance(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(&domain.Subscription{
		ID: 7, UserID: 42, PlanID: domain.PlanCommuter, Status: domain.SubscriptionActive,
		SwapsUsed: 29, CurrentPeriodEnd: time.Now().AddDate(0, 0, 10),
	}, nil)
	subs.On("GetPlan", mock.Anything, domain.PlanCommuter).
		Return(&domain.SwapPlan{ID: domain.PlanCommuter, SwapsPerMonth: 30, IsActive: true}, nil)
	subs.On("IncrementSwapsUsed", mock.Anything, int64(7)).Return(nil)

	assert.NoError(t, svc.ConsumeSwap(context.Background(), 42))
	subs.AssertExpectations(t)
}

func TestService_ConsumeSwap_QuotaExceeded(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(&domain.Subscription{
		ID: 7, UserID: 42, PlanID: domain.PlanCommuter, Status: domain.SubscriptionActive,
		SwapsUsed: 30, CurrentPeriodEnd: time.Now().AddDate(0, 0, 10),
	}, nil)
	subs.On("GetPlan", mock.Anything, domain.PlanCommuter).
		Return(&domain.SwapPlan{ID: domain.PlanCommuter, SwapsPerMonth: 30, IsActive: true}, nil)

	err := svc.ConsumeSwap(context.Background(), 42)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	subs.AssertNotCalled(t, "IncrementSwapsUsed", mock.Anything, mock.Anything)
}

func TestService_ConsumeSwap_PayPerUseNeverCapped(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(&domain.Subscription{
		ID: 7, UserID: 42, PlanID: domain.PlanPayPerSwap, Status: domain.SubscriptionActive,
		SwapsUsed: 500, CurrentPeriodEnd: time.Now().AddDate(0, 0, 10),
	}, nil)
	subs.On("GetPlan", mock.Anything, domain.PlanPayPerSwap).
		Return(&domain.SwapPlan{ID: domain.PlanPayPerSwap, SwapsPerMonth: 0, IsActive: true}, nil)
	subs.On("IncrementSwapsUsed", mock.Anything, int64(7)).Return(nil)

	assert.NoError(t, svc.ConsumeSwap(context.Background(), 42))
}

func TestService_ConsumeSwap_UnlimitedPlan(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(&domain.Subscription{
		ID: 7, UserID: 42, PlanID: domain.PlanUnlimited, Status: domain.SubscriptionActive,
		SwapsUsed: 500, CurrentPeriodEnd: time.Now().AddDate(0, 0, 10),
	}, nil)
	subs.On("GetPlan", mock.Anything, domain.PlanUnlimited).
		Return(&domain.SwapPlan{ID: domain.PlanUnlimited, SwapsPerMonth: -1, IsActive: true}, nil)
	subs.On("IncrementSwapsUsed", mock.Anything, int64(7)).Return(nil)

	assert.NoError(t, svc.ConsumeSwap(context.Background(), 42))
}

func TestService_RefundSwap_CreditsUnitBack(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(&domain.Subscription{
		ID: 7, UserID: 42, PlanID: domain.PlanCommuter, Status: domain.SubscriptionActive,
		SwapsUsed: 12, CurrentPeriodEnd: time.Now().AddDate(0, 0, 10),
	}, nil)
	subs.On("DecrementSwapsUsed", mock.Anything, int64(7)).Return(nil)

	require.NoError(t, svc.RefundSwap(context.Background(), 42))
	subs.AssertCalled(t, "DecrementSwapsUsed", mock.Anything, int64(7))
}

func TestService_RefundSwap_NoSubscriptionIsNoop(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(nil, repository.ErrNotFound)

	assert.NoError(t, svc.RefundSwap(context.Background(), 42))
	subs.AssertNotCalled(t, "DecrementSwapsUsed", mock.Anything, mock.Anything)
}

func TestService_Cancel_LostRace(t *testing.T) {
	subs := new(MockSubscriptionRepository)
	svc := NewService(subs)

	subs.On("GetActiveByUser", mock.Anything, int64(42)).Return(&domain.Subscription{
		ID: 7, UserID: 42, Status: domain.SubscriptionActive,
	}, nil)
	subs.On("UpdateStatus", mock.Anything, int64(7), domain.SubscriptionActive, domain.SubscriptionCancelled).
		Return(false, nil)

	assert.ErrorIs(t, svc.Cancel(context.Background(), 42), ErrInvalidState)
}
