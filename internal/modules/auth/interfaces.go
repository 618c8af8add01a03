package auth

import (
	"context"

	"github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error)
}

type BatteryTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BatteryType, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
