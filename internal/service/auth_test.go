package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"elearning_platform/internal/config"
	"elearning_platform/internal/domain"
	"elearning_platform/internal/repository/inmem"
	apperrors "elearning_platform/pkg/errors"
)

func newAuthFixture(t *testing.T) (AuthService, *domain.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: string(hash),
		FirstName:    "Alice",
		LastName:     "Liddell",
		Role:         domain.RoleStudent,
		IsActive:     true,
	}

	users := inmem.NewUserRepository(user)
	cfg := config.JWTConfig{AccessSecret: "test-secret", AccessTTL: time.Hour}
	return NewAuthService(users, cfg, noopLogger{}), user
}

func TestLoginSucceedsAndStripsPasswordHash(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestLoginTrimsUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "  alice  ", "s3cret")
	require.NoError(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "mallory", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, user := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	got, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
