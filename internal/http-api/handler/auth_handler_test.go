package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"basurahub/internal/http-api/dto"
	"basurahub/internal/http-api/models"
	"basurahub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*models.User), args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/register", handler.Register)

	user := &models.User{
		ID:       "user-123",
		Email:    "juan@example.com",
		FullName: "Juan dela Cruz",
		Role:     models.RoleResident,
	}
	mockAuthService.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
		return in.Email == "juan@example.com" && in.FullName == "Juan dela Cruz"
	})).Return(user, nil)

	w := postJSON(router, "/register", dto.RegisterRequest{
		Email:    "juan@example.com",
		Password: "password123",
		FullName: "Juan dela Cruz",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "user-123", response.UserID)
	assert.Equal(t, models.RoleResident, response.Role)

	mockAuthService.AssertExpectations(t)
}

func TestRegister_EmailInUse(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/register", handler.Register)

	mockAuthService.On("Register", mock.Anything, mock.Anything).
		Return(nil, service.ErrEmailInUse)

	w := postJSON(router, "/register", dto.RegisterRequest{
		Email:    "juan@example.com",
		Password: "password123",
		FullName: "Juan dela Cruz",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "account creation failed", response["error"])
}

func TestRegister_InvalidJSON(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/register", handler.Register)

	req, _ := http.NewRequest("POST", "/register", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/login", handler.Login)

	user := &models.User{
		ID:       "user-123",
		Email:    "juan@example.com",
		FullName: "Juan dela Cruz",
		Role:     models.RoleResident,
	}
	mockAuthService.On("Login", mock.Anything, "juan@example.com", "password123").
		Return("access-token", "refresh-token", user, nil)

	w := postJSON(router, "/login", dto.LoginRequest{
		Email:    "juan@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "access-token", response.AccessToken)
	assert.Equal(t, "refresh-token", response.RefreshToken)
	assert.Equal(t, "user-123", response.User.UserID)
	assert.EqualValues(t, 900, response.ExpiresIn)

	mockAuthService.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/login", handler.Login)

	mockAuthService.On("Login", mock.Anything, "juan@example.com", "wrongpassword").
		Return("", "", nil, service.ErrInvalidCredentials)

	w := postJSON(router, "/login", dto.LoginRequest{
		Email:    "juan@example.com",
		Password: "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/refresh", handler.RefreshToken)

	mockAuthService.On("RefreshAccessToken", mock.Anything, "old-refresh-token").
		Return("new-access-token", nil)

	w := postJSON(router, "/refresh", dto.RefreshTokenRequest{RefreshToken: "old-refresh-token"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.RefreshResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "new-access-token", response.AccessToken)
	assert.EqualValues(t, 900, response.ExpiresIn)
}

func TestRefreshToken_Invalid(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/refresh", handler.RefreshToken)

	mockAuthService.On("RefreshAccessToken", mock.Anything, "bad-token").
		Return("", service.ErrInvalidToken)

	w := postJSON(router, "/refresh", dto.RefreshTokenRequest{RefreshToken: "bad-token"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.POST("/logout", handler.Logout)

	mockAuthService.On("RevokeToken", mock.Anything, "unknown-token").Return(assert.AnError)

	w := postJSON(router, "/logout", dto.RefreshTokenRequest{RefreshToken: "unknown-token"})

	// revoke failures never leak through logout
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, 15*time.Minute)
	router := setupRouter()
	router.GET("/me", func(c *gin.Context) {
		c.Set("user_id", "user-123")
	}, handler.Me)

	mockAuthService.On("GetUser", mock.Anything, "user-123").
		Return(&models.User{ID: "user-123", Email: "juan@example.com"}, nil)

	req, _ := http.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.UserResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "juan@example.com", response.Email)
}
