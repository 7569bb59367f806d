// Package permission implements the authorization predicates as plain
// composable functions over (requester, method) instead of per-view types.
// A nil requester means the request is anonymous.
package permission

import (
	"net/http"

	"critichub/internal/api/apperr"
	"critichub/internal/api/models"
)

// Policy decides whether a requester may perform a request with the given
// method. A nil error allows the request.
type Policy func(requester *models.User, method string) error

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// ReadOnlyOrAdmin: safe methods always pass; mutations require an
// authenticated admin. Guards categories, genres and titles.
func ReadOnlyOrAdmin(requester *models.User, method string) error {
	if safeMethod(method) {
		return nil
	}
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	if !requester.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}

// ReadOnlyOrSuperuserAdmin: safe methods pass; mutations require the
// superuser flag or the admin role. Guards user administration.
func ReadOnlyOrSuperuserAdmin(requester *models.User, method string) error {
	if safeMethod(method) {
		return nil
	}
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	if !requester.IsSuperuser && !requester.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}

// ProfileAccess guards the "me" alias route: only read and partial update
// are meaningful there, every other method is a 405. Authentication is
// always required since the route is relative to the requester.
func ProfileAccess(requester *models.User, method string) error {
	if method != http.MethodGet && method != http.MethodPatch {
		return apperr.ErrMethodNotAllowed
	}
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	return nil
}

// AuthenticatedOrReadOnly: safe methods pass for anyone, mutations only
// need authentication. Default for review and comment list/create routes;
// object-level ownership is checked separately via CanModifyAuthored.
func AuthenticatedOrReadOnly(requester *models.User, method string) error {
	if safeMethod(method) {
		return nil
	}
	if requester == nil {
		return apperr.ErrUnauthenticated
	}
	return nil
}

// CanModifyAuthored reports whether the requester may update or delete an
// object owned by authorID: the author themselves, moderators, admins and
// staff all qualify.
func CanModifyAuthored(requester *models.User, authorID string) bool {
	if requester == nil {
		return false
	}
	return requester.ID == authorID ||
		requester.IsAdmin() ||
		requester.IsModerator() ||
		requester.IsStaff
}
