package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/handler"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string, displayName *string) (*models.User, error) {
	args := m.Called(ctx, username, password, email, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(2) == nil {
		return "", "", nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*models.User), args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(refreshToken string) (string, string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) RevokeToken(refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*models.User, *models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*models.Profile), args.Error(2)
}

func (m *MockAuthService) AccessTokenTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func setupAuthRouter(mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAuthHandler(mockService)
	h.RegisterRoutes(r.Group("/api/auth"))
	return r
}

// expires_in tracks the configured token lifetime, not a fixed number.
func TestAuthHandler_Login_ExpiresInFromTTL(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	user := &models.User{ID: "user-1", Username: "alice"}
	mockService.On("Login", mock.Anything, "alice", "secret-pass").
		Return("access-token", "refresh-token", user, nil)
	mockService.On("AccessTokenTTL").Return(30 * time.Minute)

	payload, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "secret-pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.AuthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "access-token", body.AccessToken)
	assert.Equal(t, int64(1800), body.ExpiresIn)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Refresh_ExpiresInFromTTL(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("RefreshAccessToken", "old-refresh").
		Return("new-access", "new-refresh", nil)
	mockService.On("AccessTokenTTL").Return(15 * time.Minute)

	payload, _ := json.Marshal(dto.RefreshTokenRequest{RefreshToken: "old-refresh"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.RefreshResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "new-access", body.AccessToken)
	assert.Equal(t, "new-refresh", body.RefreshToken)
	assert.Equal(t, int64(900), body.ExpiresIn)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockService := new(MockAuthService)
	router := setupAuthRouter(mockService)

	mockService.On("Login", mock.Anything, "alice", "wrong").
		Return("", "", nil, service.ErrInvalidCredentials)

	payload, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}
