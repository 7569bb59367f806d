package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"critichub/internal/api/apperr"
	"critichub/internal/api/permission"
)

// Require gates a route group behind a permission policy. Object-level
// (ownership) checks stay in the services; this covers request-level
// decisions only.
func Require(policy permission.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := policy(CurrentUser(c), c.Request.Method)
		if err == nil {
			c.Next()
			return
		}

		switch {
		case errors.Is(err, apperr.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case errors.Is(err, apperr.ErrMethodNotAllowed):
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		}
		c.Abort()
	}
}
