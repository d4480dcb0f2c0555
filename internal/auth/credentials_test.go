package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/feedback-desk/internal/config"
	"github.com/spec-kit/feedback-desk/internal/domain"
)

func TestStaticCredentials_PlainPassword(t *testing.T) {
	creds := NewStaticCredentials(config.AuthConfig{AdminEmail: "admin@macwrite.ai", AdminPassword: "admin123"})
	ctx := context.Background()

	user, ok := creds.Authenticate(ctx, "admin@macwrite.ai", "admin123")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, ok = creds.Authenticate(ctx, "admin@macwrite.ai", "admin1234")
	assert.False(t, ok)
	_, ok = creds.Authenticate(ctx, "Admin@macwrite.ai", "admin123")
	assert.False(t, ok)
}

func TestStaticCredentials_HashTakesPrecedence(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	creds := &StaticCredentials{Email: "ops@example.com", Password: "ignored", PasswordHash: hash}
	ctx := context.Background()

	_, ok := creds.Authenticate(ctx, "ops@example.com", "correct horse")
	assert.True(t, ok)
	_, ok = creds.Authenticate(ctx, "ops@example.com", "ignored")
	assert.False(t, ok)
}

func TestStaticCredentials_EmptyPasswordNeverMatches(t *testing.T) {
	creds := &StaticCredentials{Email: "ops@example.com"}
	_, ok := creds.Authenticate(context.Background(), "ops@example.com", "")
	assert.False(t, ok)
}
