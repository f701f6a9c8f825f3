package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/service"
	"github.com/tastebook/backend/internal/testhelpers"
)

const testSecret = "test-secret"

func TestRegisterIssuesResolvableToken(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	token, err := svc.Register(context.Background(), "cook@example.com", "password123", "Test Cook")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.Equal(t, "Test Cook", user.FullName)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.Register(context.Background(), "cook@example.com", "password123", "First")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "cook@example.com", "otherpass456", "Second")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestLoginBadCredentialsSameClass(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.Register(context.Background(), "cook@example.com", "password123", "")
	require.NoError(t, err)

	// Wrong password for an existing email
	_, err = svc.Login(context.Background(), "cook@example.com", "wrongpass")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	// Nonexistent email fails with the same class
	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestLoginSucceeds(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.Register(context.Background(), "cook@example.com", "password123", "")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginInactiveUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.Register(context.Background(), "cook@example.com", "password123", "")
	require.NoError(t, err)

	err = db.Model(&models.User{}).Where("email = ?", "cook@example.com").
		Update("is_active", false).Error
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "cook@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestCurrentUserMalformedToken(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.CurrentUser(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestCurrentUserExpiredToken(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	token, err := svc.Register(context.Background(), "cook@example.com", "password123", "")
	require.NoError(t, err)
	user, err := svc.CurrentUser(context.Background(), token)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), signed)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestCurrentUserUnknownSubject(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	ghost := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := ghost.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), signed)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestCurrentUserDeactivated(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, testSecret)

	token, err := svc.Register(context.Background(), "cook@example.com", "password123", "")
	require.NoError(t, err)

	err = db.Model(&models.User{}).Where("email = ?", "cook@example.com").
		Update("is_active", false).Error
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
