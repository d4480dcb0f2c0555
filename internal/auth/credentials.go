package auth

import (
	"context"
	"crypto/subtle"

	"github.com/spec-kit/feedback-desk/internal/config"
	"github.com/spec-kit/feedback-desk/internal/domain"
)

// CredentialStore checks an email/password pair against the admin identity.
type CredentialStore interface {
	Authenticate(ctx context.Context, email, password string) (*domain.AdminUser, bool)
}

// StaticCredentials is a single configured administrator. When PasswordHash
// is set it takes precedence over the plain Password.
type StaticCredentials struct {
	Email        string
	Password     string
	PasswordHash string
}

// NewStaticCredentials reads the admin identity from configuration.
func NewStaticCredentials(cfg config.AuthConfig) *StaticCredentials {
	return &StaticCredentials{
		Email:        cfg.AdminEmail,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}
}

// Authenticate requires an exact email match and a matching password.
func (s *StaticCredentials) Authenticate(_ context.Context, email, password string) (*domain.AdminUser, bool) {
	if s.Email == "" || email != s.Email {
		return nil, false
	}
	if s.PasswordHash != "" {
		if ComparePassword(s.PasswordHash, password) != nil {
			return nil, false
		}
	} else if s.Password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) != 1 {
		return nil, false
	}
	return &domain.AdminUser{Email: s.Email, Role: domain.RoleAdmin}, true
}
