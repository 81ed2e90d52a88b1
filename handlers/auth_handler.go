package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supabase-community/supabase-go"

	apperrors "github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/logger"
)

// AuthHandler proxies credential exchange to the identity provider. All
// other routes only validate the tokens issued here.
type AuthHandler struct {
	supabase *supabase.Client
}

func NewAuthHandler(supabaseClient *supabase.Client) *AuthHandler {
	return &AuthHandler{supabase: supabaseClient}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.supabase.Auth.SignInWithEmailPassword(req.Email, req.Password)
	if err != nil {
		log.Infow("Login failed", "email", logger.MaskEmail(req.Email), "error", err)
		_ = c.Error(apperrors.AuthenticationFailed("Invalid email or password"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"token_type":    "bearer",
	})
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req refreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.supabase.Auth.RefreshToken(req.RefreshToken)
	if err != nil {
		log.Warnw("Failed to refresh token", "error", err)
		_ = c.Error(apperrors.Unauthorized("refresh_failed", "Failed to refresh token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"token_type":    "bearer",
	})
}
