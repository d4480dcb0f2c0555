package dto

import (
	"time"

	"github.com/spec-kit/feedback-desk/internal/domain"
)

// LoginRequest payload for admin login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message   string           `json:"message"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      domain.AdminUser `json:"user"`
}

// CurrentUserResponse describes the caller of GET /admin/auth.
type CurrentUserResponse struct {
	User domain.AdminUser `json:"user"`
}
