package permission

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"critichub/internal/api/apperr"
	"critichub/internal/api/models"
)

var (
	anon      *models.User
	plainUser = &models.User{ID: "u1", Role: models.RoleUser}
	moderator = &models.User{ID: "m1", Role: models.RoleModerator}
	admin     = &models.User{ID: "a1", Role: models.RoleAdmin}
	superuser = &models.User{ID: "s1", Role: models.RoleUser, IsSuperuser: true}
	staff     = &models.User{ID: "st1", Role: models.RoleUser, IsStaff: true}
)

func TestReadOnlyOrAdmin(t *testing.T) {
	tests := []struct {
		name      string
		requester *models.User
		method    string
		want      error
	}{
		{"anonymous read", anon, http.MethodGet, nil},
		{"user read", plainUser, http.MethodGet, nil},
		{"anonymous write", anon, http.MethodPost, apperr.ErrUnauthenticated},
		{"user write", plainUser, http.MethodPost, apperr.ErrForbidden},
		{"moderator write", moderator, http.MethodDelete, apperr.ErrForbidden},
		{"admin write", admin, http.MethodPost, nil},
		{"admin delete", admin, http.MethodDelete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ReadOnlyOrAdmin(tt.requester, tt.method), tt.want)
		})
	}
}

func TestReadOnlyOrSuperuserAdmin(t *testing.T) {
	tests := []struct {
		name      string
		requester *models.User
		method    string
		want      error
	}{
		{"anonymous read", anon, http.MethodGet, nil},
		{"anonymous write", anon, http.MethodPost, apperr.ErrUnauthenticated},
		{"user write", plainUser, http.MethodPatch, apperr.ErrForbidden},
		{"moderator write", moderator, http.MethodPatch, apperr.ErrForbidden},
		{"admin write", admin, http.MethodPatch, nil},
		{"superuser write", superuser, http.MethodDelete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ReadOnlyOrSuperuserAdmin(tt.requester, tt.method), tt.want)
		})
	}
}

func TestProfileAccess(t *testing.T) {
	tests := []struct {
		name      string
		requester *models.User
		method    string
		want      error
	}{
		{"get own profile", plainUser, http.MethodGet, nil},
		{"patch own profile", plainUser, http.MethodPatch, nil},
		{"delete not allowed", plainUser, http.MethodDelete, apperr.ErrMethodNotAllowed},
		{"put not allowed", admin, http.MethodPut, apperr.ErrMethodNotAllowed},
		{"anonymous delete still 405", anon, http.MethodDelete, apperr.ErrMethodNotAllowed},
		{"anonymous get", anon, http.MethodGet, apperr.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ProfileAccess(tt.requester, tt.method), tt.want)
		})
	}
}

func TestAuthenticatedOrReadOnly(t *testing.T) {
	assert.NoError(t, AuthenticatedOrReadOnly(anon, http.MethodGet))
	assert.ErrorIs(t, AuthenticatedOrReadOnly(anon, http.MethodPost), apperr.ErrUnauthenticated)
	assert.NoError(t, AuthenticatedOrReadOnly(plainUser, http.MethodPost))
	assert.NoError(t, AuthenticatedOrReadOnly(moderator, http.MethodDelete))
}

func TestCanModifyAuthored(t *testing.T) {
	assert.False(t, CanModifyAuthored(nil, "u1"))
	assert.True(t, CanModifyAuthored(plainUser, "u1"), "authors edit their own")
	assert.False(t, CanModifyAuthored(plainUser, "someone-else"))
	assert.True(t, CanModifyAuthored(moderator, "someone-else"))
	assert.True(t, CanModifyAuthored(admin, "someone-else"))
	assert.True(t, CanModifyAuthored(staff, "someone-else"))
}
