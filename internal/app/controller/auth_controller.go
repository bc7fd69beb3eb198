package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/service"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles admin login
// POST /api/admin/login
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid admin login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	admin, tokens, err := ctrl.authService.AdminLogin(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, log, err, "admin login")
		return
	}

	respondMutation(c, http.StatusOK, "Login successful", gin.H{
		"admin":  admin,
		"tokens": tokens,
	})
}

// MemberLogin handles member login
// POST /api/member/login
func (ctrl *AuthController) MemberLogin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid member login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	member, tokens, err := ctrl.authService.MemberLogin(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, log, err, "member login")
		return
	}

	respondMutation(c, http.StatusOK, "Login successful", gin.H{
		"member": member,
		"tokens": tokens,
	})
}

// Logout revokes the bearer token
// POST /api/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, expiresAt, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, expiresAt); err != nil {
		log.Error("Failed to revoke token", err)
		apperrors.InternalError(c, "Failed to log out")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Logged out", map[string]interface{}{
		"user_id": userID,
	})
	respondMutation(c, http.StatusOK, "Logged out", nil)
}
