package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

// Mock repositories

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	u.ID = 999 // simulate DB insert
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	v.ID = 555 // simulate DB insert
	return args.Error(0)
}

func (m *MockVehicleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

type MockBatteryTypeRepository struct {
	mock.Mock
}

func (m *MockBatteryTypeRepository) GetByID(ctx context.Context, id int64) (*domain.BatteryType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatteryType), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func TestService_Register_Success(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	svc := NewService(users, nil, nil, tokens)

	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	tokens.On("GenerateToken", int64(999), "driver").Return("tok", nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    " Ana@Example.com ",
		Password: "hunter2hunter2",
		Name:     "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleDriver, resp.User.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(resp.User.PasswordHash), []byte("hunter2hunter2")))
}

func TestService_Register_EmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, nil, nil, new(MockTokenIssuer))

	users.On("GetByEmail", mock.Anything, "ana@example.com").
		Return(&domain.User{ID: 1, Email: "ana@example.com"}, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, nil, nil, new(MockTokenIssuer))

	hash, err := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", mock.Anything, "ana@example.com").
		Return(&domain.User{ID: 1, Email: "ana@example.com", PasswordHash: string(hash)}, nil)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, nil, nil, new(MockTokenIssuer))

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RegisterVehicle_UnknownBatteryType(t *testing.T) {
	types := new(MockBatteryTypeRepository)
	vehicles := new(MockVehicleRepository)
	svc := NewService(nil, vehicles, types, nil)

	types.On("GetByID", mock.Anything, int64(7)).Return(nil, repository.ErrNotFound)

	_, err := svc.RegisterVehicle(context.Background(), 42, RegisterVehicleRequest{
		PlateNumber:   "59-x1 123",
		BatteryTypeID: 7,
	})
	assert.ErrorIs(t, err, ErrValidation)
	vehicles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_RegisterVehicle_NormalizesPlate(t *testing.T) {
	types := new(MockBatteryTypeRepository)
	vehicles := new(MockVehicleRepository)
	svc := NewService(nil, vehicles, types, nil)

	types.On("GetByID", mock.Anything, int64(1)).Return(&domain.BatteryType{ID: 1}, nil)
	vehicles.On("Create", mock.Anything, mock.AnythingOfType("*domain.Vehicle")).Return(nil)

	v, err := svc.RegisterVehicle(context.Background(), 42, RegisterVehicleRequest{
		PlateNumber:   " 59-x1 123 ",
		Model:         "Klara S",
		BatteryTypeID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "59-X1 123", v.PlateNumber)
	assert.Equal(t, int64(42), v.UserID)
}
