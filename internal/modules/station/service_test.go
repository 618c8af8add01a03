package station

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

type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) CreateWithSlots(ctx context.Context, s *domain.Station) error {
	args := m.Called(ctx, s)
	if s != nil {
		s.ID = 1 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockStationRepository) GetByID(ctx context.Context, id int64) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Station), args.Error(1)
}

func (m *MockStationRepository) ListActive(ctx context.Context) ([]domain.Station, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Station), args.Error(1)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id int64) (*domain.StationBatterySlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StationBatterySlot), args.Error(1)
}

func (m *MockSlotRepository) GetByStation(ctx context.Context, stationID int64) ([]domain.StationBatterySlot, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StationBatterySlot), args.Error(1)
}

func (m *MockSlotRepository) Occupy(ctx context.Context, slotID, batteryID int64) (bool, error) {
	args := m.Called(ctx, slotID, batteryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) Release(ctx context.Context, slotID int64) (bool, error) {
	args := m.Called(ctx, slotID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotRepository) SetStatus(ctx context.Context, slotID int64, batteryID *int64, status domain.SlotStatus) error {
	args := m.Called(ctx, slotID, batteryID, status)
	return args.Error(0)
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

func (m *MockBatteryRepository) DockAtStation(ctx context.Context, batteryID, stationID int64) error {
	args := m.Called(ctx, batteryID, stationID)
	return args.Error(0)
}

func (m *MockBatteryRepository) ListDockedAtStation(ctx context.Context, stationID int64) ([]domain.Battery, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Battery), args.Error(1)
}

func (m *MockBatteryRepository) CountByTypeStatusAt(ctx context.Context, stationID int64) ([]repository.StationTypeCount, error) {
	args := m.Called(ctx, stationID)
	return args.Get(0).([]repository.StationTypeCount), args.Error(1)
}

func newTestService(stations *MockStationRepository, slots *MockSlotRepository, batteries *MockBatteryRepository) *Service {
	return NewService(stations, slots, batteries, stationlock.New(), nil)
}

func int64Ptr(v int64) *int64 { return &v }

func TestService_CreateStation_WritesStationAndGridTogether(t *testing.T) {
	mockStations := new(MockStationRepository)

	mockStations.On("CreateWithSlots", mock.Anything, mock.MatchedBy(func(s *domain.Station) bool {
		return s.Capacity == 4 && s.IsActive
	})).Return(nil)

	service := newTestService(mockStations, new(MockSlotRepository), new(MockBatteryRepository))

	st, err := service.CreateStation(context.Background(), CreateStationRequest{
		Name:     "District 1 Hub",
		Capacity: 4,
	})

	assert.NoError(t, err)
	assert.True(t, st.IsActive)
	mockStations.AssertNumberOfCalls(t, "CreateWithSlots", 1)
}

func TestService_OccupySlot_Conflict(t *testing.T) {
	mockStations := new(MockStationRepository)
	mockSlots := new(MockSlotRepository)
	mockBatteries := new(MockBatteryRepository)

	mockSlots.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotOccupied}, nil)
	mockBatteries.On("GetByID", mock.Anything, int64(40)).
		Return(&domain.Battery{ID: 40, Status: domain.BatteryAvailable}, nil)
	mockSlots.On("Occupy", mock.Anything, int64(3), int64(40)).Return(false, nil)

	service := newTestService(mockStations, mockSlots, mockBatteries)

	err := service.OccupySlot(context.Background(), 3, OccupySlotRequest{BatteryID: 40})

	assert.ErrorIs(t, err, ErrConflict)
	mockBatteries.AssertNotCalled(t, "DockAtStation", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_OccupySlot_BatteryOnVehicle(t *testing.T) {
	mockSlots := new(MockSlotRepository)
	mockBatteries := new(MockBatteryRepository)

	mockSlots.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotAvailable}, nil)
	mockBatteries.On("GetByID", mock.Anything, int64(40)).
		Return(&domain.Battery{ID: 40, Status: domain.BatteryInUse, VehicleID: int64Ptr(5)}, nil)

	service := newTestService(new(MockStationRepository), mockSlots, mockBatteries)

	err := service.OccupySlot(context.Background(), 3, OccupySlotRequest{BatteryID: 40})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_ReleaseSlot_NotOccupied(t *testing.T) {
	mockSlots := new(MockSlotRepository)

	mockSlots.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.StationBatterySlot{ID: 3, StationID: 1, Status: domain.SlotAvailable}, nil)
	mockSlots.On("Release", mock.Anything, int64(3)).Return(false, nil)

	service := newTestService(new(MockStationRepository), mockSlots, new(MockBatteryRepository))

	err := service.ReleaseSlot(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_ResetStationBatterySlot_RepairsDrift(t *testing.T) {
	mockStations := new(MockStationRepository)
	mockSlots := new(MockSlotRepository)
	mockBatteries := new(MockBatteryRepository)

	mockStations.On("GetByID", mock.Anything, int64(1)).Return(&domain.Station{ID: 1, IsActive: true}, nil)

	// Slot 1 references battery 40 which left on a vehicle; battery 41
	// is docked at the station but no slot knows it.
	mockSlots.On("GetByStation", mock.Anything, int64(1)).Return([]domain.StationBatterySlot{
		{ID: 1, StationID: 1, SlotNumber: 1, BatteryID: int64Ptr(40), Status: domain.SlotOccupied},
		{ID: 2, StationID: 1, SlotNumber: 2, Status: domain.SlotAvailable},
	}, nil)
	mockBatteries.On("ListDockedAtStation", mock.Anything, int64(1)).Return([]domain.Battery{
		{ID: 41, StationID: int64Ptr(1), Status: domain.BatteryCharging},
	}, nil)

	mockSlots.On("SetStatus", mock.Anything, int64(1), (*int64)(nil), domain.SlotAvailable).Return(nil)
	mockSlots.On("SetStatus", mock.Anything, int64(2), int64Ptr(41), domain.SlotOccupied).Return(nil)

	service := newTestService(mockStations, mockSlots, mockBatteries)

	res, err := service.ResetStationBatterySlot(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Cleared)
	assert.Equal(t, 1, res.Docked)
	mockSlots.AssertExpectations(t)
}

func TestService_ResetStationBatterySlot_Idempotent(t *testing.T) {
	mockStations := new(MockStationRepository)
	mockSlots := new(MockSlotRepository)
	mockBatteries := new(MockBatteryRepository)

	mockStations.On("GetByID", mock.Anything, int64(1)).Return(&domain.Station{ID: 1, IsActive: true}, nil)

	// Already consistent: occupied slots hold exactly the docked
	// batteries, the rest are free.
	mockSlots.On("GetByStation", mock.Anything, int64(1)).Return([]domain.StationBatterySlot{
		{ID: 1, StationID: 1, SlotNumber: 1, BatteryID: int64Ptr(40), Status: domain.SlotOccupied},
		{ID: 2, StationID: 1, SlotNumber: 2, Status: domain.SlotAvailable},
		{ID: 3, StationID: 1, SlotNumber: 3, Status: domain.SlotMaintenance},
	}, nil)
	mockBatteries.On("ListDockedAtStation", mock.Anything, int64(1)).Return([]domain.Battery{
		{ID: 40, StationID: int64Ptr(1), Status: domain.BatteryAvailable},
	}, nil)

	service := newTestService(mockStations, mockSlots, mockBatteries)

	for i := 0; i < 2; i++ {
		res, err := service.ResetStationBatterySlot(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 0, res.Cleared)
		assert.Equal(t, 0, res.Docked)
	}
	mockSlots.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Summary(t *testing.T) {
	mockStations := new(MockStationRepository)
	mockSlots := new(MockSlotRepository)
	mockBatteries := new(MockBatteryRepository)

	mockStations.On("GetByID", mock.Anything, int64(1)).Return(&domain.Station{ID: 1, IsActive: true}, nil)
	mockSlots.On("GetByStation", mock.Anything, int64(1)).Return([]domain.StationBatterySlot{
		{ID: 1, Status: domain.SlotOccupied},
		{ID: 2, Status: domain.SlotAvailable},
		{ID: 3, Status: domain.SlotAvailable},
	}, nil)
	mockBatteries.On("CountByTypeStatusAt", mock.Anything, int64(1)).Return([]repository.StationTypeCount{
		{StationID: 1, BatteryTypeID: 2, Status: string(domain.BatteryAvailable), Count: 1},
	}, nil)

	service := newTestService(mockStations, mockSlots, mockBatteries)

	sum, err := service.Summary(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, 3, sum.TotalSlots)
	assert.Equal(t, 2, sum.FreeSlots)
	assert.Len(t, sum.Inventory, 1)
}
