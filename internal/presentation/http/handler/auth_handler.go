package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-console/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
// @Summary Login
// @Description Sign in against the POS backend and open a console session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user":         output.User,
		"role":         output.User.ConsoleRole(),
		"access_token": output.Token,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	})
}

// Session verifies the session against the backend
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.authService.Verify(c.Request.Context(), GetCredentials(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session is valid", gin.H{"user": user, "role": user.ConsoleRole()})
}

// Me returns the signed-in user without calling the backend
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetUser(c)
	if user == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	response.OK(c, "User retrieved successfully", gin.H{"user": user, "role": user.ConsoleRole()})
}

// Logout closes the console session
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), GetSessionID(c), GetCredentials(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logout successful", nil)
}
