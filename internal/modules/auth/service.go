package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/repository"
)

type Service struct {
	users        UserRepository
	vehicles     VehicleRepository
	batteryTypes BatteryTypeRepository
	tokens       TokenIssuer
}

func NewService(users UserRepository, vehicles VehicleRepository, batteryTypes BatteryTypeRepository, tokens TokenIssuer) *Service {
	return &Service{
		users:        users,
		vehicles:     vehicles,
		batteryTypes: batteryTypes,
		tokens:       tokens,
	}
}

// Register creates a driver account. Staff and admin accounts are
// provisioned through the seeder, not the public API.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleDriver,
		Name:         req.Name,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: u}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: u}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) RegisterVehicle(ctx context.Context, userID int64, req RegisterVehicleRequest) (*domain.Vehicle, error) {
	if _, err := s.batteryTypes.GetByID(ctx, req.BatteryTypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}

	v := &domain.Vehicle{
		UserID:        userID,
		PlateNumber:   strings.ToUpper(strings.TrimSpace(req.PlateNumber)),
		Model:         req.Model,
		BatteryTypeID: req.BatteryTypeID,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) MyVehicles(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	return s.vehicles.ListByUser(ctx, userID)
}
