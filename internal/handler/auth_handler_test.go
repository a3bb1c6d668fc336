package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"marithon/internal/domain"
	"marithon/internal/handler"
	"marithon/internal/middleware"
	"marithon/internal/service"
	"marithon/mocks"
)

func TestAuthHandler_Signup_Success(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	input := service.SignupInput{Email: "master@example.com", Password: "secret1"}
	mockAuth.On("Signup", mock.Anything, input).
		Return(&domain.User{ID: uuid.New(), Email: input.Email, Username: "master"}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/auth/signup", jsonBody(t, input), nil)
	h.Signup(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	assert.NotContains(t, w.Body.String(), "password")
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Signup_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict},
		{"weak password", domain.ErrWeakPassword, http.StatusBadRequest},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			h := handler.NewAuthHandler(mockAuth)
			mockAuth.On("Signup", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newContext(t, http.MethodPost, "/api/v1/auth/signup",
				jsonBody(t, map[string]string{"email": "a@b.co", "password": "x"}), nil)
			h.Signup(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.MockAuthService))

	c, w := newContext(t, http.MethodPost, "/api/v1/auth/signup", jsonBody(t, map[string]string{"email": "a@b.co"}), nil)
	h.Signup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)

	tokenPair := &service.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
	mockAuth.On("Login", mock.Anything, service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	}).Return(tokenPair, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/auth/login",
		jsonBody(t, map[string]string{"email": "user@test.com", "password": "password123"}), nil)
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access-token")
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)
	mockAuth.On("Login", mock.Anything, mock.AnythingOfType("service.LoginInput")).
		Return(nil, domain.ErrInvalidCredentials)

	c, w := newContext(t, http.MethodPost, "/api/v1/auth/login",
		jsonBody(t, map[string]string{"email": "user@test.com", "password": "wrong"}), nil)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)
	mockAuth.On("RefreshToken", mock.Anything, "old-refresh").
		Return(&service.TokenPair{AccessToken: "new-access"}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/auth/refresh",
		jsonBody(t, map[string]string{"refresh_token": "old-refresh"}), nil)
	h.RefreshToken(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")
}

func TestAuthHandler_Logout(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)
	claims := &service.Claims{UserID: uuid.New()}
	mockAuth.On("Logout", mock.Anything, claims).Return(nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/auth/logout", nil, &claims.UserID)
	c.Set(middleware.ContextKeyClaims, claims)
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_Logout_NoClaims(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.MockAuthService))

	c, w := newContext(t, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	h.Logout(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockAuth)
	userID := uuid.New()
	mockAuth.On("Me", mock.Anything, userID).Return(&domain.User{ID: userID, Email: "me@example.com"}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/auth/me", nil, &userID)
	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")
}
