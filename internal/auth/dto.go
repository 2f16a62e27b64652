package auth

import (
	"github.com/parkline-app/parkline-backend/internal/users"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// RegisterRequest is the self-service signup payload.
type RegisterRequest struct {
	Name     string     `json:"name" validate:"required,min=2,max=120"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8,max=128"`
	Role     enums.Role `json:"role,omitempty"`
}

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the minted token plus the safe account view.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
