package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"critichub/internal/api/dto"
	"critichub/internal/api/middleware"
	"critichub/internal/api/permission"
	"critichub/internal/api/service"
)

type UserHandler struct {
	userService service.UserService
	authService service.AuthService
}

func NewUserHandler(userService service.UserService, authService service.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// "me" aliases the requester's own record; only read and partial
	// update make sense there, everything else is a 405. Registered as a
	// static route so it wins over :username.
	rg.Any("/me", middleware.Require(permission.ProfileAccess), h.Me)

	admin := rg.Group("", middleware.Require(permission.ReadOnlyOrSuperuserAdmin))
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.GET("/:username", h.Get)
		admin.PATCH("/:username", h.Update)
		admin.DELETE("/:username", h.Delete)
	}
}

// Me serves GET and PATCH on the profile alias; the policy middleware has
// already rejected every other method.
func (h *UserHandler) Me(c *gin.Context) {
	requester := middleware.CurrentUser(c)

	switch c.Request.Method {
	case http.MethodGet:
		user, err := h.userService.Get(c.Request.Context(), requester.Username)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	case http.MethodPatch:
		var req dto.UserUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// The field write policy drops role changes for non-elevated
		// requesters, so a plain user cannot self-escalate here.
		user, err := h.userService.Update(c.Request.Context(), requester.Username, req, requester)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// List returns users paginated by limit/offset.
// GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	users, total, err := h.userService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(total, users))
}

// Create provisions a user without email delivery (the requester is an
// admin, so signup skips the confirmation mail).
// POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requester := middleware.CurrentUser(c)
	if err := h.authService.Signup(c.Request.Context(), req, requester); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("username"), req, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
