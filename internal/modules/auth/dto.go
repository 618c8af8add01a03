package auth

import "github.com/PhatDylan/Battery-Swap-Station-Management-BE-sub001/internal/domain"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type RegisterVehicleRequest struct {
	PlateNumber   string `json:"plate_number" binding:"required"`
	Model         string `json:"model"`
	BatteryTypeID int64  `json:"battery_type_id" binding:"required"`
}
