package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/sopas/backend/internal/application/identity"
	"github.com/sopas/backend/internal/infrastructure/auth"
)

// AuthHandler handles registration, verification and login endpoints
type AuthHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterRoutes registers auth routes on the API group. These routes
// are exempt from JWT authentication.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	group.POST("/register", h.Register)
	group.POST("/verify-otp", h.VerifyOTP)
	group.POST("/resend-otp", h.ResendOTP)
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)
	group.POST("/reset-password-request", h.RequestPasswordReset)
	group.POST("/reset-password", h.ResetPassword)
}

// VerifyOTPRequest carries the email and one-time password
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// ResendOTPRequest asks for a fresh verification code
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequestRequest asks for a reset code by email
type ResetPasswordRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest carries the reset code and the new password
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse carries the user and the issued token pair
type LoginResponse struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// Register creates an account and sends a verification code to its email
func (h *AuthHandler) Register(c *gin.Context) {
	var input identityapp.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toUserResponse(created))
}

// VerifyOTP confirms the emailed one-time password
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"verified": true})
}

// ResendOTP sends the active verification code again
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.ResendOTP(c.Request.Context(), req.Email); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"sent": true})
}

// RequestPasswordReset emails a password reset code
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req ResetPasswordRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"sent": true})
}

// ResetPassword replaces the password after checking the reset code
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"reset": true})
}

// Login authenticates and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		User:   toUserResponse(result.User),
		Tokens: result.Tokens,
	})
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}

	h.Success(c, pair)
}
