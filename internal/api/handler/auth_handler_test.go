package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"critichub/internal/api/apperr"
	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest, requester *models.User) error {
	args := m.Called(ctx, req, requester)
	return args.Error(0)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	args := m.Called(ctx, username, confirmationCode)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignup_EchoesPayload(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("Signup", mock.Anything, mock.AnythingOfType("dto.SignupRequest"), (*models.User)(nil)).Return(nil)

	w := postJSON(router, "/auth/signup", dto.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SignupRequest
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "alice", response.Username)
	assert.Equal(t, "alice@example.com", response.Email)
	mockAuthService.AssertExpectations(t)
}

func TestSignup_MissingEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	w := postJSON(router, "/auth/signup", gin.H{"username": "alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_ValidationErrorListsFields(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("Signup", mock.Anything, mock.Anything, (*models.User)(nil)).
		Return(apperr.Validation("username", `username "me" is reserved`))

	w := postJSON(router, "/auth/signup", dto.SignupRequest{
		Username: "me",
		Email:    "me@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Fields map[string][]string `json:"fields"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Fields, "username")
}

func TestToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("IssueToken", mock.Anything, "alice", "code123").Return("signed-jwt", nil)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Username:         "alice",
		ConfirmationCode: "code123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed-jwt", response.Token)
}

func TestToken_UnknownUser(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("IssueToken", mock.Anything, "ghost", "code").Return("", apperr.ErrNotFound)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "code",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_Mismatch(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("IssueToken", mock.Anything, "alice", "wrong").Return("", apperr.ErrConfirmationMismatch)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Username:         "alice",
		ConfirmationCode: "wrong",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
