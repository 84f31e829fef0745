package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"basurahub/internal/config"
	"basurahub/internal/http-api/models"
	"basurahub/internal/http-api/repository"
	"basurahub/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, tokenString string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, tokenRepo *MockRefreshTokenRepository) AuthService {
	cfg := &config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(userRepo, tokenRepo, cfg, logger)
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(userRepo, new(MockRefreshTokenRepository))

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "juan@example.com",
		Password: "password123",
		FullName: "Juan dela Cruz",
	})

	assert.NoError(t, err)
	assert.Equal(t, "juan@example.com", user.Email)
	// self-registration always yields a resident, whatever the caller wants
	assert.Equal(t, models.RoleResident, user.Role)
	assert.NotEqual(t, "password123", user.Password)
	userRepo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(userRepo, new(MockRefreshTokenRepository))

	userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "juan@example.com",
		Password: "password123",
		FullName: "Juan dela Cruz",
	})

	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestAuthService(new(MockUserRepository), new(MockRefreshTokenRepository))

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "juan@example.com",
		Password: "short",
		FullName: "Juan dela Cruz",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newTestAuthService(userRepo, tokenRepo)

	hashed, _ := auth.HashPassword("password123")
	user := &models.User{
		ID:       "user-1",
		Email:    "juan@example.com",
		Password: hashed,
		Role:     models.RoleResident,
	}

	userRepo.On("FindByEmail", mock.Anything, "juan@example.com").Return(user, nil)
	tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)
	userRepo.On("TouchLastLogin", mock.Anything, "user-1").Return(nil)

	accessToken, refreshToken, loggedIn, err := svc.Login(context.Background(), "juan@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "user-1", loggedIn.ID)

	claims, err := svc.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleResident, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(userRepo, new(MockRefreshTokenRepository))

	hashed, _ := auth.HashPassword("password123")
	userRepo.On("FindByEmail", mock.Anything, "juan@example.com").
		Return(&models.User{ID: "user-1", Password: hashed}, nil)

	_, _, _, err := svc.Login(context.Background(), "juan@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(userRepo, new(MockRefreshTokenRepository))

	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestAuthService(new(MockUserRepository), new(MockRefreshTokenRepository))

	_, err := svc.ValidateToken("not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken_Revoked(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newTestAuthService(userRepo, tokenRepo)

	tokenRepo.On("FindByToken", mock.Anything, "revoked-token").Return(&models.RefreshToken{
		ID:        "rt-1",
		UserID:    "user-1",
		Token:     "revoked-token",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}, nil)

	_, err := svc.RefreshAccessToken(context.Background(), "revoked-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken_Expired(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newTestAuthService(userRepo, tokenRepo)

	tokenRepo.On("FindByToken", mock.Anything, "stale-token").Return(&models.RefreshToken{
		ID:        "rt-1",
		UserID:    "user-1",
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}, nil)
	tokenRepo.On("Delete", mock.Anything, "rt-1").Return(nil)

	_, err := svc.RefreshAccessToken(context.Background(), "stale-token")

	assert.ErrorIs(t, err, ErrExpiredToken)
	tokenRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_Valid(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newTestAuthService(userRepo, tokenRepo)

	tokenRepo.On("FindByToken", mock.Anything, "good-token").Return(&models.RefreshToken{
		ID:        "rt-1",
		UserID:    "user-1",
		Token:     "good-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	userRepo.On("FindByID", mock.Anything, "user-1").
		Return(&models.User{ID: "user-1", Role: models.RoleCollector}, nil)

	accessToken, err := svc.RefreshAccessToken(context.Background(), "good-token")

	assert.NoError(t, err)
	claims, err := svc.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCollector, claims.Role)
}
