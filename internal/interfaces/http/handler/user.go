package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/sopas/backend/internal/application/identity"
)

// UserHandler exposes the authenticated user's own account
type UserHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService *identityapp.AuthService) *UserHandler {
	return &UserHandler{auth: authService}
}

// RegisterRoutes registers user routes on the API group
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/users")
	group.GET("", h.List)
	group.GET("/me", h.Me)
	group.PUT("/me", h.UpdateMe)
}

// Me returns the account behind the access token
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	u, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toUserResponse(u))
}

// UpdateMe patches the authenticated user's own profile
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input identityapp.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	u, err := h.auth.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toUserResponse(u))
}

// List returns every account
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	h.Success(c, out)
}
