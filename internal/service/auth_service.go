package service

import (
	"context"
	"time"

	"github.com/spec-kit/feedback-desk/internal/auth"
	"github.com/spec-kit/feedback-desk/internal/domain"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

// AuthService exchanges admin credentials for bearer tokens.
type AuthService struct {
	credentials auth.CredentialStore
	tokenMgr    *auth.TokenManager
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.AdminUser
}

// NewAuthService builds the service.
func NewAuthService(credentials auth.CredentialStore, tokenMgr *auth.TokenManager) *AuthService {
	return &AuthService{credentials: credentials, tokenMgr: tokenMgr}
}

// Login checks the credentials and issues an admin token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password are required", nil)
	}

	user, ok := s.credentials.Authenticate(ctx, email, password)
	if !ok {
		return nil, apperrors.NewUnauthorized("Invalid email or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Email, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: *user}, nil
}

// CurrentUser describes the identity carried by verified claims.
func (s *AuthService) CurrentUser(claims *auth.Claims) domain.AdminUser {
	return domain.AdminUser{Email: claims.Email, Role: claims.Role}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
