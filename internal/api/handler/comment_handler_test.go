package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"critichub/internal/api/dto"
	"critichub/internal/api/models"
)

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]dto.CommentResponse, int64, error) {
	args := m.Called(ctx, titleID, reviewID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]dto.CommentResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	args := m.Called(ctx, titleID, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, titleID, reviewID int64, author *models.User, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	args := m.Called(ctx, titleID, reviewID, author, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, titleID, reviewID, commentID int64, requester *models.User, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	args := m.Called(ctx, titleID, reviewID, commentID, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, titleID, reviewID, commentID int64, requester *models.User) error {
	args := m.Called(ctx, titleID, reviewID, commentID, requester)
	return args.Error(0)
}

// commentRouter mounts the comment routes the way main.go does, off the
// titles group rather than the reviews group, so the handler's own policy
// is the only one in effect.
func commentRouter(svc *MockCommentService, requester *models.User) *gin.Engine {
	router := setupRouter()
	if requester != nil {
		router.Use(func(c *gin.Context) {
			c.Set("currentUser", requester)
		})
	}
	group := router.Group("/titles/:title_id/reviews/:review_id/comments")
	NewCommentHandler(svc).RegisterRoutes(group)
	return router
}

func TestCommentList_AnonymousAllowed(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, nil)

	comments := []dto.CommentResponse{
		{ID: 1, Text: "agreed", Author: "alice", PubDate: time.Now()},
		{ID: 2, Text: "disagree", Author: "bob", PubDate: time.Now()},
	}
	svc.On("List", mock.Anything, int64(7), int64(3), 20, 0).Return(comments, int64(2), nil)

	req, _ := http.NewRequest("GET", "/titles/7/reviews/3/comments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page dto.Page[dto.CommentResponse]
	json.Unmarshal(w.Body.Bytes(), &page)
	assert.Equal(t, int64(2), page.Count)
	assert.Len(t, page.Results, 2)
}

func TestCommentCreate_AnonymousRejected(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, nil)

	w := postJSON(router, "/titles/7/reviews/3/comments", dto.CreateCommentDTO{Text: "hi"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentCreate_Authenticated(t *testing.T) {
	svc := new(MockCommentService)
	author := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}
	router := commentRouter(svc, author)

	created := &dto.CommentResponse{ID: 9, Text: "well said", Author: "alice"}
	svc.On("Create", mock.Anything, int64(7), int64(3), author, dto.CreateCommentDTO{Text: "well said"}).
		Return(created, nil)

	w := postJSON(router, "/titles/7/reviews/3/comments", dto.CreateCommentDTO{Text: "well said"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.CommentResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(9), response.ID)
	assert.Equal(t, "alice", response.Author)
}

func TestCommentGet_BadPathID(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, nil)

	req, _ := http.NewRequest("GET", "/titles/7/reviews/abc/comments/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentDelete_Owner(t *testing.T) {
	svc := new(MockCommentService)
	owner := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}
	router := commentRouter(svc, owner)

	svc.On("Delete", mock.Anything, int64(7), int64(3), int64(1), owner).Return(nil)

	req, _ := http.NewRequest("DELETE", "/titles/7/reviews/3/comments/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
