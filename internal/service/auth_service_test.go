package service

import (
	"context"
	"testing"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/config"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) (*AuthService, *UserService) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "fossil-energy-tracker"
	cfg.JWT.AccessTokenExpire = 2 * time.Hour
	cfg.JWT.RefreshTokenExpire = 168 * time.Hour

	userRepo := repository.NewUserRepository(db)
	authSvc := NewAuthService(userRepo, nil, cfg)
	userSvc := NewUserService(userRepo, NewActivityService(repository.NewActivityLogRepository(db)))
	return authSvc, userSvc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	authSvc, userSvc := setupAuthTest(t)
	ctx := context.Background()

	_, err := userSvc.Create(ctx, CreateUserRequest{
		Email:    "ana@plant.com",
		FullName: "Ana Inspector",
		Password: "super-secret-1",
		Role:     "inspector",
	})
	require.NoError(t, err)

	user, pair, err := authSvc.Login(ctx, "ana@plant.com", "super-secret-1")
	require.NoError(t, err)
	require.Equal(t, "ana@plant.com", user.Email)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	token, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "inspector", claims["role"])
	require.Equal(t, user.ID, claims["uid"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	authSvc, userSvc := setupAuthTest(t)
	ctx := context.Background()

	_, err := userSvc.Create(ctx, CreateUserRequest{
		Email:    "ana@plant.com",
		FullName: "Ana Inspector",
		Password: "super-secret-1",
		Role:     "inspector",
	})
	require.NoError(t, err)

	_, _, err = authSvc.Login(ctx, "ana@plant.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authSvc.Login(ctx, "nobody@plant.com", "super-secret-1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	authSvc, userSvc := setupAuthTest(t)
	ctx := context.Background()

	_, err := userSvc.Create(ctx, CreateUserRequest{
		Email:    "ana@plant.com",
		FullName: "Ana Inspector",
		Password: "super-secret-1",
		Role:     "inspector",
	})
	require.NoError(t, err)

	_, pair, err := authSvc.Login(ctx, "ana@plant.com", "super-secret-1")
	require.NoError(t, err)

	fresh, err := authSvc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.AccessToken)

	// An access token is not a refresh token.
	_, err = authSvc.RefreshToken(ctx, pair.AccessToken)
	require.Error(t, err)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	_, userSvc := setupAuthTest(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Email:    "ana@plant.com",
		FullName: "Ana Inspector",
		Password: "super-secret-1",
		Role:     "inspector",
	}
	_, err := userSvc.Create(ctx, req)
	require.NoError(t, err)

	_, err = userSvc.Create(ctx, req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	_, userSvc := setupAuthTest(t)

	_, err := userSvc.Create(context.Background(), CreateUserRequest{
		Email:    "ana@plant.com",
		FullName: "Ana",
		Password: "super-secret-1",
		Role:     "superuser",
	})
	require.ErrorIs(t, err, ErrValidation)
}
