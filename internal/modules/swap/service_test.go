package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/pkg/stationlock"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

// Mock repositories

type MockSwapRepository struct {
	mock.Mock
}

func (m *MockSwapRepository) ExecuteSwap(ctx context.Context, ex repository.SwapExecution) (*domain.BatterySwap, error) {
	args := m.Called(ctx, ex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatterySwap), args.Error(1)
}

func (m *MockSwapRepository) GetByID(ctx context.Context, id int64) (*domain.BatterySwap, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatterySwap), args.Error(1)
}

func (m *MockSwapRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.SwapStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockSwapRepository) SetPayment(ctx context.Context, id, paymentID int64) error {
	args := m.Called(ctx, id, paymentID)
	return args.Error(0)
}

func (m *MockSwapRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.BatterySwap, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.BatterySwap), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetReservation(ctx context.Context, bookingID int64) (*domain.BatteryBookingSlot, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatteryBookingSlot), args.Error(1)
}

type MockBatteryRepository struct {
	mock.Mock
}

func (m *MockBatteryRepository) GetByID(ctx context.Context, id int64) (*domain.Battery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battery), args.Error(1)
}

type MockSlotFinder struct {
	mock.Mock
}

func (m *MockSlotFinder) GetByBattery(ctx context.Context, batteryID int64) (*domain.StationBatterySlot, error) {
	args := m.Called(ctx, batteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationBatterySlot), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

type MockQuotaConsumer struct {
	mock.Mock
}

func (m *MockQuotaConsumer) ConsumeSwap(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockQuotaConsumer) RefundSwap(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestService(swaps *MockSwapRepository, bookings *MockBookingRepository, batteries *MockBatteryRepository, slots *MockSlotFinder, vehicles *MockVehicleRepository) *Service {
	return NewService(swaps, bookings, batteries, slots, vehicles, stationlock.New(), nil, nil)
}

func int64Ptr(v int64) *int64 { return &v }

func TestService_CreateSwapFromBooking_Success(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)
	mockBatteries := new(MockBatteryRepository)
	mockSlots := new(MockSlotFinder)
	mockVehicles := new(MockVehicleRepository)

	// Vehicle arrives carrying battery X (40), leaves with battery Y
	// (41), which confirmation reserved for this booking.
	booking := &domain.Booking{ID: 11, StationID: 1, UserID: 42, VehicleID: 5, BatteryTypeID: 2, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)
	mockBookings.On("GetReservation", mock.Anything, int64(11)).
		Return(&domain.BatteryBookingSlot{BookingID: 11, SlotID: 3, BatteryID: 41, Status: domain.BookingConfirmed}, nil)
	mockBatteries.On("GetByID", mock.Anything, int64(41)).Return(&domain.Battery{
		ID: 41, BatteryTypeID: 2, Status: domain.BatteryReserved, StationID: int64Ptr(1),
	}, nil)
	mockSlots.On("GetByBattery", mock.Anything, int64(41)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotOccupied}, nil)
	mockVehicles.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Vehicle{ID: 5, UserID: 42, BatteryTypeID: 2, BatteryID: int64Ptr(40)}, nil)

	expectedEx := repository.SwapExecution{
		BookingID:         11,
		UserID:            42,
		VehicleID:         5,
		StationID:         1,
		StaffID:           9,
		OldBatteryID:      int64Ptr(40),
		NewBatteryID:      41,
		NewSlotID:         3,
		ReservedBatteryID: int64Ptr(41),
	}
	mockSwaps.On("ExecuteSwap", mock.Anything, expectedEx).Return(&domain.BatterySwap{
		ID:          77,
		BookingID:   int64Ptr(11),
		StationID:   1,
		BatteryID:   int64Ptr(40),
		ToBatteryID: 41,
		Status:      domain.SwapPendingPayment,
	}, nil)

	service := newTestService(mockSwaps, mockBookings, mockBatteries, mockSlots, mockVehicles)

	sw, err := service.CreateSwapFromBooking(context.Background(), CreateSwapRequest{
		BookingID:    11,
		NewBatteryID: 41,
		StaffID:      9,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.SwapPendingPayment, sw.Status)
	assert.Equal(t, int64(41), sw.ToBatteryID)
	assert.Equal(t, int64Ptr(40), sw.BatteryID)
}

func TestService_CreateSwapFromBooking_QuotaExceeded(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)
	mockBatteries := new(MockBatteryRepository)
	mockSlots := new(MockSlotFinder)
	mockVehicles := new(MockVehicleRepository)
	mockQuota := new(MockQuotaConsumer)

	booking := &domain.Booking{ID: 11, StationID: 1, UserID: 42, VehicleID: 5, BatteryTypeID: 2, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)
	mockBookings.On("GetReservation", mock.Anything, int64(11)).Return(nil, repository.ErrNotFound)
	mockBatteries.On("GetByID", mock.Anything, int64(41)).Return(&domain.Battery{
		ID: 41, BatteryTypeID: 2, Status: domain.BatteryAvailable, StationID: int64Ptr(1),
	}, nil)
	mockSlots.On("GetByBattery", mock.Anything, int64(41)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotOccupied}, nil)
	mockVehicles.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Vehicle{ID: 5, UserID: 42, BatteryTypeID: 2, BatteryID: int64Ptr(40)}, nil)
	mockQuota.On("ConsumeSwap", mock.Anything, int64(42)).Return(ErrQuotaExceeded)

	service := NewService(mockSwaps, mockBookings, mockBatteries, mockSlots, mockVehicles,
		stationlock.New(), nil, mockQuota)

	_, err := service.CreateSwapFromBooking(context.Background(), CreateSwapRequest{
		BookingID:    11,
		NewBatteryID: 41,
		StaffID:      9,
	})

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	mockSwaps.AssertNotCalled(t, "ExecuteSwap", mock.Anything, mock.Anything)
}

func TestService_CreateSwapFromBooking_BookingNotConfirmed(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)

	booking := &domain.Booking{ID: 11, StationID: 1, Status: domain.BookingPending}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)

	service := newTestService(mockSwaps, mockBookings, new(MockBatteryRepository), new(MockSlotFinder), new(MockVehicleRepository))

	_, err := service.CreateSwapFromBooking(context.Background(), CreateSwapRequest{BookingID: 11, NewBatteryID: 41})

	assert.ErrorIs(t, err, ErrInvalidState)
	mockSwaps.AssertNotCalled(t, "ExecuteSwap", mock.Anything, mock.Anything)
}

func TestService_CreateSwapFromBooking_BatteryElsewhere(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)
	mockBatteries := new(MockBatteryRepository)

	booking := &domain.Booking{ID: 11, StationID: 1, BatteryTypeID: 2, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)
	mockBookings.On("GetReservation", mock.Anything, int64(11)).Return(nil, repository.ErrNotFound)
	mockBatteries.On("GetByID", mock.Anything, int64(41)).Return(&domain.Battery{
		ID: 41, BatteryTypeID: 2, Status: domain.BatteryAvailable, StationID: int64Ptr(2),
	}, nil)

	service := newTestService(mockSwaps, mockBookings, mockBatteries, new(MockSlotFinder), new(MockVehicleRepository))

	_, err := service.CreateSwapFromBooking(context.Background(), CreateSwapRequest{BookingID: 11, NewBatteryID: 41})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_CreateSwapFromBooking_BatteryHeldForAnotherBooking(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)
	mockBatteries := new(MockBatteryRepository)

	// Battery 41 is reserved, but by booking 12, not this one.
	booking := &domain.Booking{ID: 11, StationID: 1, BatteryTypeID: 2, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)
	mockBookings.On("GetReservation", mock.Anything, int64(11)).
		Return(&domain.BatteryBookingSlot{BookingID: 11, SlotID: 4, BatteryID: 44, Status: domain.BookingConfirmed}, nil)
	mockBatteries.On("GetByID", mock.Anything, int64(41)).Return(&domain.Battery{
		ID: 41, BatteryTypeID: 2, Status: domain.BatteryReserved, StationID: int64Ptr(1),
	}, nil)

	service := newTestService(mockSwaps, mockBookings, mockBatteries, new(MockSlotFinder), new(MockVehicleRepository))

	_, err := service.CreateSwapFromBooking(context.Background(), CreateSwapRequest{BookingID: 11, NewBatteryID: 41})

	assert.ErrorIs(t, err, ErrInvalidState)
	mockSwaps.AssertNotCalled(t, "ExecuteSwap", mock.Anything, mock.Anything)
}

func TestService_CreateSwapFromBooking_LostRace(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)
	mockBatteries := new(MockBatteryRepository)
	mockSlots := new(MockSlotFinder)
	mockVehicles := new(MockVehicleRepository)

	booking := &domain.Booking{ID: 11, StationID: 1, UserID: 42, VehicleID: 5, BatteryTypeID: 2, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)
	mockBookings.On("GetReservation", mock.Anything, int64(11)).Return(nil, repository.ErrNotFound)
	mockBatteries.On("GetByID", mock.Anything, int64(41)).Return(&domain.Battery{
		ID: 41, BatteryTypeID: 2, Status: domain.BatteryAvailable, StationID: int64Ptr(1),
	}, nil)
	mockSlots.On("GetByBattery", mock.Anything, int64(41)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotOccupied}, nil)
	mockVehicles.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Vehicle{ID: 5, UserID: 42, BatteryTypeID: 2}, nil)
	mockSwaps.On("ExecuteSwap", mock.Anything, mock.Anything).Return(nil, repository.ErrStateChanged)

	service := newTestService(mockSwaps, mockBookings, mockBatteries, mockSlots, mockVehicles)

	_, err := service.CreateSwapFromBooking(context.Background(), CreateSwapRequest{BookingID: 11, NewBatteryID: 41})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CreateSwapFromBooking_RefundsQuotaOnLostRace(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)
	mockBatteries := new(MockBatteryRepository)
	mockSlots := new(MockSlotFinder)
	mockVehicles := new(MockVehicleRepository)
	mockQuota := new(MockQuotaConsumer)

	booking := &domain.Booking{ID: 11, StationID: 1, UserID: 42, VehicleID: 5, BatteryTypeID: 2, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)
	mockBookings.On("GetReservation", mock.Anything, int64(11)).Return(nil, repository.ErrNotFound)
	mockBatteries.On("GetByID", mock.Anything, int64(41)).Return(&domain.Battery{
		ID: 41, BatteryTypeID: 2, Status: domain.BatteryAvailable, StationID: int64Ptr(1),
	}, nil)
	mockSlots.On("GetByBattery", mock.Anything, int64(41)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotOccupied}, nil)
	mockVehicles.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Vehicle{ID: 5, UserID: 42, BatteryTypeID: 2}, nil)
	mockQuota.On("ConsumeSwap", mock.Anything, int64(42)).Return(nil)
	mockQuota.On("RefundSwap", mock.Anything, int64(42)).Return(nil)
	mockSwaps.On("ExecuteSwap", mock.Anything, mock.Anything).Return(nil, repository.ErrStateChanged)

	service := NewService(mockSwaps, mockBookings, mockBatteries, mockSlots, mockVehicles,
		stationlock.New(), nil, mockQuota)

	_, err := service.CreateSwapFromBooking(context.Background(), CreateSwapRequest{BookingID: 11, NewBatteryID: 41})

	// The debited unit comes back when the exchange never happened.
	assert.ErrorIs(t, err, ErrConflict)
	mockQuota.AssertCalled(t, "RefundSwap", mock.Anything, int64(42))
}

func TestService_CreateSwapFromBooking_CancelledBeforeMutation(t *testing.T) {
	mockSwaps := new(MockSwapRepository)
	mockBookings := new(MockBookingRepository)
	mockBatteries := new(MockBatteryRepository)
	mockSlots := new(MockSlotFinder)
	mockVehicles := new(MockVehicleRepository)

	booking := &domain.Booking{ID: 11, StationID: 1, UserID: 42, VehicleID: 5, BatteryTypeID: 2, Status: domain.BookingConfirmed}
	mockBookings.On("GetByID", mock.Anything, int64(11)).Return(booking, nil)
	mockBookings.On("GetReservation", mock.Anything, int64(11)).Return(nil, repository.ErrNotFound)
	mockBatteries.On("GetByID", mock.Anything, int64(41)).Return(&domain.Battery{
		ID: 41, BatteryTypeID: 2, Status: domain.BatteryAvailable, StationID: int64Ptr(1),
	}, nil)
	mockSlots.On("GetByBattery", mock.Anything, int64(41)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotOccupied}, nil)
	mockVehicles.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Vehicle{ID: 5, UserID: 42, BatteryTypeID: 2}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := newTestService(mockSwaps, mockBookings, mockBatteries, mockSlots, mockVehicles)

	_, err := service.CreateSwapFromBooking(ctx, CreateSwapRequest{BookingID: 11, NewBatteryID: 41})

	assert.ErrorIs(t, err, context.Canceled)
	mockSwaps.AssertNotCalled(t, "ExecuteSwap", mock.Anything, mock.Anything)
}

func TestService_UpdateSwapStatus_Success(t *testing.T) {
	mockSwaps := new(MockSwapRepository)

	mockSwaps.On("GetByID", mock.Anything, int64(77)).
		Return(&domain.BatterySwap{ID: 77, StationID: 1, Status: domain.SwapPendingPayment}, nil)
	mockSwaps.On("UpdateStatus", mock.Anything, int64(77), domain.SwapPendingPayment, domain.SwapCompleted).
		Return(true, nil)

	service := newTestService(mockSwaps, new(MockBookingRepository), new(MockBatteryRepository), new(MockSlotFinder), new(MockVehicleRepository))

	sw, err := service.UpdateSwapStatus(context.Background(), 77, domain.SwapCompleted)

	assert.NoError(t, err)
	assert.Equal(t, domain.SwapCompleted, sw.Status)
}

func TestService_UpdateSwapStatus_TerminalIsFinal(t *testing.T) {
	mockSwaps := new(MockSwapRepository)

	mockSwaps.On("GetByID", mock.Anything, int64(77)).
		Return(&domain.BatterySwap{ID: 77, StationID: 1, Status: domain.SwapCompleted}, nil)

	service := newTestService(mockSwaps, new(MockBookingRepository), new(MockBatteryRepository), new(MockSlotFinder), new(MockVehicleRepository))

	_, err := service.UpdateSwapStatus(context.Background(), 77, domain.SwapRejected)

	assert.ErrorIs(t, err, ErrInvalidState)
	mockSwaps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateSwapStatus_LostRace(t *testing.T) {
	mockSwaps := new(MockSwapRepository)

	mockSwaps.On("GetByID", mock.Anything, int64(77)).
		Return(&domain.BatterySwap{ID: 77, StationID: 1, Status: domain.SwapPendingPayment}, nil)
	mockSwaps.On("UpdateStatus", mock.Anything, int64(77), domain.SwapPendingPayment, domain.SwapCompleted).
		Return(false, nil)

	service := newTestService(mockSwaps, new(MockBookingRepository), new(MockBatteryRepository), new(MockSlotFinder), new(MockVehicleRepository))

	_, err := service.UpdateSwapStatus(context.Background(), 77, domain.SwapCompleted)
	assert.ErrorIs(t, err, ErrConflict)
}
