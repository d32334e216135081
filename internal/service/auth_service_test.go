package service

import (
	"testing"
	"time"

	"github.com/jk08y/PyAIApp/internal/config"
	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(userRepo, cfg), userRepo
}

func TestRegisterHashesPassword(t *testing.T) {
	auth, userRepo := newAuthService(t)

	user := &model.User{
		DisplayName: "Alice",
		Email:       "alice@example.com",
		Password:    "s3cret-password",
	}
	require.NoError(t, auth.Register(user))

	stored, err := userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleFree, stored.Role)
	assert.NotEqual(t, "s3cret-password", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-password")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(t)

	first := &model.User{DisplayName: "Alice", Email: "alice@example.com", Password: "s3cret-password"}
	require.NoError(t, auth.Register(first))

	second := &model.User{DisplayName: "Other", Email: "alice@example.com", Password: "another-password"}
	assert.ErrorIs(t, auth.Register(second), util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	auth, _ := newAuthService(t)

	user := &model.User{DisplayName: "Alice", Email: "alice@example.com", Password: "s3cret-password"}
	require.NoError(t, auth.Register(user))

	token, loggedIn, err := auth.Login("alice@example.com", "s3cret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.Email, loggedIn.Email)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, loggedIn.ID, claims.UserID)
	assert.Equal(t, model.RoleFree, claims.Role)

	_, _, err = auth.Login("alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody@example.com", "s3cret-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	auth, userRepo := newAuthService(t)

	user := &model.User{DisplayName: "Alice", Email: "alice@example.com", Password: "s3cret-password"}
	require.NoError(t, auth.Register(user))

	stored, err := userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	stored.Disabled = true
	require.NoError(t, userRepo.Update(stored))

	_, _, err = auth.Login("alice@example.com", "s3cret-password")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
