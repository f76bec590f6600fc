// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/config"
	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	cookieName  string
	secure      bool
}

func NewAuthHandler(authService *services.AuthService, cfg config.AdminConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieName:  cfg.CookieName,
		secure:      cfg.SecureCookie,
	}
}

// POST /admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logrus.WithFields(logrus.Fields{
				"username": req.Username,
				"ip":       c.ClientIP(),
			}).Warn("Failed admin login")
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			return
		}
		logrus.WithError(err).Error("Admin login failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, authResponse.AccessToken, authResponse.ExpiresIn, "/", "", h.secure, true)

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"username":   authResponse.Username,
		"token":      authResponse.AccessToken,
		"token_type": authResponse.TokenType,
		"expires_at": authResponse.ExpiresAt,
		"expires_in": authResponse.ExpiresIn,
	})
}

// POST /admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLogoutSuccess),
	})
}

// GET /admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	username, ok := utils.GetAdminFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"username": username,
	})
}
