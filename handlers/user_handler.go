package handlers

import (
	goerrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/internal/store"
	"github.com/planejatrip/planejatrip-backend/types"
)

// UserHandler exposes the profile directory.
type UserHandler struct {
	users store.UserStore
}

func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetCurrentUserHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := h.users.GetUserByID(c.Request.Context(), user.ID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			_ = c.Error(apperrors.NotFound("User", user.ID))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateCurrentUserHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.UserUpdate
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.users.UpdateName(c.Request.Context(), user.ID, strings.TrimSpace(req.Name))
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			_ = c.Error(apperrors.NotFound("User", user.ID))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CheckEmailHandler probes whether an email belongs to a registered
// account, so clients can validate before sending an invitation.
func (h *UserHandler) CheckEmailHandler(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		_ = c.Error(apperrors.ValidationFailed("email_required", "Query parameter email is required"))
		return
	}

	_, err := h.users.GetUserByEmail(c.Request.Context(), email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"exists": true})
	case goerrors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"exists": false})
	default:
		_ = c.Error(apperrors.NewDatabaseError(err))
	}
}
