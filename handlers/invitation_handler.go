package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planejatrip/planejatrip-backend/models"
	"github.com/planejatrip/planejatrip-backend/types"
)

// InvitationHandler exposes the invitation lifecycle.
type InvitationHandler struct {
	inviteModel *models.InviteModel
}

func NewInvitationHandler(inviteModel *models.InviteModel) *InvitationHandler {
	return &InvitationHandler{inviteModel: inviteModel}
}

type createInviteRequest struct {
	GuestEmail string           `json:"guestEmail" binding:"required,email"`
	Permission types.Permission `json:"permission" binding:"required"`
}

func (h *InvitationHandler) CreateInvitationHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createInviteRequest
	if !bindJSON(c, &req) {
		return
	}

	invite, trip, err := h.inviteModel.CreateInvite(c.Request.Context(), user, c.Param("id"), req.GuestEmail, req.Permission)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invite": invite, "trip": trip})
}

func (h *InvitationHandler) ListInvitationsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	invites, err := h.inviteModel.ListUserInvites(c.Request.Context(), user.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, invites)
}

func (h *InvitationHandler) AcceptInvitationHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	trip, err := h.inviteModel.AcceptInvite(c.Request.Context(), user, c.Param("inviteId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *InvitationHandler) DeclineInvitationHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	invite, err := h.inviteModel.DeclineInvite(c.Request.Context(), user.Email, c.Param("inviteId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, invite)
}

func (h *InvitationHandler) ResendInvitationHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	invite, err := h.inviteModel.ResendInvite(c.Request.Context(), user.Email, c.Param("inviteId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, invite)
}

func (h *InvitationHandler) DismissRejectionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.inviteModel.DismissRejection(c.Request.Context(), user.Email, c.Param("inviteId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation dismissed"})
}
