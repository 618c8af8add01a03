package domain

import "time"

type UserRole string

const (
	RoleDriver UserRole = "driver"
	RoleStaff  UserRole = "staff"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Vehicle struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id" validate:"required"`
	PlateNumber   string    `json:"plate_number" validate:"required"`
	Model         string    `json:"model,omitempty"`
	BatteryTypeID int64     `json:"battery_type_id" validate:"required"`
	BatteryID     *int64    `json:"battery_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
