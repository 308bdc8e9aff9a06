package dto

import (
	"time"

	"pharmacy-clinic/internal/domain/entity"
)

type LoginRequest struct {
	DNI      string `json:"dni" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResponse is the session handed to the client: tokens, the sanitized account and what the role may do.
type LoginResponse struct {
	TokenResponse
	User         *UserResponse        `json:"user"`
	Capabilities *entity.Capabilities `json:"capabilities"`
}
