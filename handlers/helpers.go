// Package handlers holds the HTTP layer: request binding, identity
// extraction, and translation of model results into JSON responses.
package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/middleware"
	"github.com/planejatrip/planejatrip-backend/types"
)

// currentUser reads the authenticated identity the auth middleware stored
// on the context.
func currentUser(c *gin.Context) (types.User, bool) {
	userID := c.GetString(middleware.UserIDKey)
	email := c.GetString(middleware.UserEmailKey)
	if userID == "" || email == "" {
		_ = c.Error(apperrors.Unauthorized("missing_auth", "No authenticated user"))
		c.Abort()
		return types.User{}, false
	}
	return types.User{
		ID:    userID,
		Email: email,
		Name:  c.GetString(middleware.UserNameKey),
	}, true
}

// bindJSON binds the request body and reports a validation error on
// failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}

// mutationResponse wraps a trip mutation outcome. RemovedSelf tells the
// client the update took them off the participant list.
type mutationResponse struct {
	Trip        *types.Trip `json:"trip"`
	RemovedSelf bool        `json:"removedSelf"`
}
