package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdto "github.com/heritagebakes/bakebook/internal/auth/dto"
	"github.com/heritagebakes/bakebook/internal/auth/repository"
	"github.com/heritagebakes/bakebook/pkg/config"
)

func newTestUsecase(t *testing.T) AuthUsecase {
	t.Helper()

	repo, err := repository.NewFileUserRepository(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
	return NewAuthUsecase(repo, cfg)
}

func register(t *testing.T, uc AuthUsecase) *authdto.TokenResponse {
	t.Helper()

	resp, err := uc.Register(&authdto.RegisterRequest{
		Email:    "marta@example.com",
		Password: "secret123",
		Name:     "Marta",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterReturnsTokensAndUser(t *testing.T) {
	uc := newTestUsecase(t)

	resp := register(t, uc)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "marta@example.com", resp.User.Email)
	assert.NotEqual(t, "secret123", resp.User.Password)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	uc := newTestUsecase(t)
	register(t, uc)

	_, err := uc.Register(&authdto.RegisterRequest{
		Email:    "marta@example.com",
		Password: "another",
		Name:     "Other",
	})
	require.Error(t, err)
	assert.Equal(t, "email already registered", err.Error())
}

func TestLogin(t *testing.T) {
	uc := newTestUsecase(t)
	register(t, uc)

	resp, err := uc.Login(&authdto.LoginRequest{Email: "marta@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = uc.Login(&authdto.LoginRequest{Email: "marta@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())

	_, err = uc.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())
}

func TestValidateToken(t *testing.T) {
	uc := newTestUsecase(t)
	resp := register(t, uc)

	user, err := uc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	_, err = uc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	uc := newTestUsecase(t)
	resp := register(t, uc)

	refreshed, err := uc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	_, err = uc.RefreshToken("garbage")
	require.Error(t, err)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	uc := newTestUsecase(t)
	resp := register(t, uc)

	require.NoError(t, uc.Logout(resp.RefreshToken))

	_, err := uc.RefreshToken(resp.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "refresh token expired", err.Error())
}
