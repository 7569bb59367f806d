package middleware

import (
	"context"
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

type stubAuthService struct {
	mock.Mock
}

func (m *stubAuthService) Signup(ctx context.Context, req dto.SignupRequest, requester *models.User) error {
	args := m.Called(ctx, req, requester)
	return args.Error(0)
}

func (m *stubAuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	args := m.Called(ctx, username, confirmationCode)
	return args.String(0), args.Error(1)
}

func (m *stubAuthService) ValidateToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

type stubUserRepo struct {
	mock.Mock
}

func (m *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *stubUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *stubUserRepo) DeleteByUsername(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func authRouter(auth *stubAuthService, repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalAuthenticate(auth, repo))
	r.GET("/whoami", func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"username": user.Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": nil})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuthenticate_NoHeaderIsAnonymous(t *testing.T) {
	r := authRouter(new(stubAuthService), new(stubUserRepo))
	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestOptionalAuthenticate_ValidToken(t *testing.T) {
	auth := new(stubAuthService)
	repo := new(stubUserRepo)
	r := authRouter(auth, repo)

	auth.On("ValidateToken", "good-token").Return(&service.TokenClaims{UserID: "u1"}, nil)
	repo.On("FindByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Username: "alice"}, nil)

	w := get(r, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestOptionalAuthenticate_InvalidTokenAborts(t *testing.T) {
	auth := new(stubAuthService)
	r := authRouter(auth, new(stubUserRepo))

	auth.On("ValidateToken", "bad-token").Return(nil, service.ErrInvalidToken)

	w := get(r, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthenticate_DeletedUserAborts(t *testing.T) {
	auth := new(stubAuthService)
	repo := new(stubUserRepo)
	r := authRouter(auth, repo)

	auth.On("ValidateToken", "stale-token").Return(&service.TokenClaims{UserID: "gone"}, nil)
	repo.On("FindByID", mock.Anything, "gone").Return(nil, apperr.ErrNotFound)

	w := get(r, "Bearer stale-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthenticate_MalformedHeaderIsAnonymous(t *testing.T) {
	r := authRouter(new(stubAuthService), new(stubUserRepo))
	w := get(r, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}
