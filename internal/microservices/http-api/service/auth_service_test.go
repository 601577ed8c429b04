package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"novelhub/internal/config"
	"novelhub/internal/microservices/http-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockProfileRepository mocks the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, profileRepo *MockProfileRepository, tokenRepo *MockRefreshTokenRepository) AuthService {
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	return NewAuthService(userRepo, profileRepo, tokenRepo, cfg)
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	mockUserRepo.On("FindByUsername", "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockProfileRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.Username == "testuser"
	})).Return(nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com", nil)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@example.com", user.Email)
	mockUserRepo.AssertExpectations(t)
	mockProfileRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	existingUser := &models.User{Username: "testuser"}
	mockUserRepo.On("FindByUsername", "testuser").Return(existingUser, nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com", nil)

	assert.Error(t, err)
	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	existingUser := &models.User{Email: "test@example.com"}
	mockUserRepo.On("FindByUsername", "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existingUser, nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com", nil)

	assert.Error(t, err)
	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     "user",
	}

	mockUserRepo.On("FindByUsername", "testuser").Return(user, nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, returnedUser, err := authService.Login(context.Background(), "testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, user.Username, returnedUser.Username)
	mockUserRepo.AssertExpectations(t)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Password: string(hashedPassword),
	}

	mockUserRepo.On("FindByUsername", "testuser").Return(user, nil)

	accessToken, refreshToken, returnedUser, err := authService.Login(context.Background(), "testuser", "wrongpassword")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)
	assert.Nil(t, returnedUser)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	mockUserRepo.On("FindByUsername", "nonexistent").Return(nil, gorm.ErrRecordNotFound)

	accessToken, refreshToken, user, err := authService.Login(context.Background(), "nonexistent", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestValidateToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	claims := &Claims{
		UserID:   "user-id",
		Username: "testuser",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "user-id",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("test-secret"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.NoError(t, err)
	assert.NotNil(t, validatedClaims)
	assert.Equal(t, "testuser", validatedClaims.Username)
	assert.Equal(t, "user-id", validatedClaims.UserID)
}

func TestValidateToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	claims := &Claims{
		UserID:   "user-id",
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			Subject:   "user-id",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("test-secret"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrExpiredToken, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	validatedClaims, err := authService.ValidateToken("invalid.token.here")

	assert.Error(t, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	claims := &Claims{
		UserID:   "user-id",
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			Subject:   "user-id",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("another-secret"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, validatedClaims)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	refreshToken := &models.RefreshToken{
		ID:        "token-id",
		UserID:    "user-id",
		Token:     "refresh-token",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		Revoked:   false,
	}
	user := &models.User{
		ID:       "user-id",
		Username: "testuser",
		Role:     "user",
	}

	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(refreshToken, nil)
	mockUserRepo.On("FindByID", "user-id").Return(user, nil)
	mockRefreshTokenRepo.On("Revoke", "token-id").Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	newAccessToken, newRefreshToken, err := authService.RefreshAccessToken("refresh-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, newAccessToken)
	assert.NotEmpty(t, newRefreshToken)
	mockRefreshTokenRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_TokenExpired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	refreshToken := &models.RefreshToken{
		ID:        "token-id",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	mockRefreshTokenRepo.On("FindByToken", "expired-token").Return(refreshToken, nil)
	mockRefreshTokenRepo.On("Delete", "token-id").Return(nil)

	newAccessToken, newRefreshToken, err := authService.RefreshAccessToken("expired-token")

	assert.Error(t, err)
	assert.Equal(t, ErrExpiredToken, err)
	assert.Empty(t, newAccessToken)
	assert.Empty(t, newRefreshToken)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_TokenRevoked(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	refreshToken := &models.RefreshToken{
		ID:        "token-id",
		Token:     "revoked-token",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		Revoked:   true,
	}

	mockRefreshTokenRepo.On("FindByToken", "revoked-token").Return(refreshToken, nil)

	newAccessToken, newRefreshToken, err := authService.RefreshAccessToken("revoked-token")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Empty(t, newAccessToken)
	assert.Empty(t, newRefreshToken)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRevokeToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	refreshToken := &models.RefreshToken{
		ID:    "token-id",
		Token: "refresh-token",
	}

	mockRefreshTokenRepo.On("FindByToken", "refresh-token").Return(refreshToken, nil)
	mockRefreshTokenRepo.On("Revoke", "token-id").Return(nil)

	err := authService.RevokeToken("refresh-token")

	assert.NoError(t, err)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestRevokeToken_NotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	mockRefreshTokenRepo.On("FindByToken", "invalid-token").Return(nil, errors.New("not found"))

	err := authService.RevokeToken("invalid-token")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestMe_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := newTestAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo)

	user := &models.User{ID: "user-id", Username: "testuser", Role: "user"}
	profile := &models.Profile{ID: "user-id", Username: "testuser"}

	mockUserRepo.On("FindByID", "user-id").Return(user, nil)
	mockProfileRepo.On("FindByID", mock.Anything, "user-id").Return(profile, nil)

	gotUser, gotProfile, err := authService.Me(context.Background(), "user-id")

	assert.NoError(t, err)
	assert.Equal(t, user, gotUser)
	assert.Equal(t, profile, gotProfile)
	mockUserRepo.AssertExpectations(t)
	mockProfileRepo.AssertExpectations(t)
}
