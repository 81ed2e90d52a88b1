package models

import (
	"context"
	goerrors "errors"
	"strings"

	"github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/internal/store"
	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/planejatrip/planejatrip-backend/types"
)

// InviteModel drives the invitation lifecycle. Invitations exist only in
// PENDING and REJECTED states: acceptance deletes the record and leaves
// the participant entry on the trip as the durable trace.
type InviteModel struct {
	invites store.InviteStore
	trips   store.TripStore
	users   store.UserStore
	email   types.EmailService
}

func NewInviteModel(invites store.InviteStore, trips store.TripStore, users store.UserStore, email types.EmailService) *InviteModel {
	return &InviteModel{invites: invites, trips: trips, users: users, email: email}
}

// ListUserInvites assembles the inbox for a user: invitations still
// pending for them as guest, plus rejections of invitations they sent as
// host, which await an explicit resend or dismissal.
func (im *InviteModel) ListUserInvites(ctx context.Context, userEmail string) ([]*types.Invite, error) {
	pending, err := im.invites.ListByGuestEmail(ctx, userEmail, []types.InviteStatus{types.InviteStatusPending})
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	sent, err := im.invites.ListByHostEmail(ctx, userEmail)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	inbox := pending
	for _, invite := range sent {
		if invite.Status == types.InviteStatusRejected {
			inbox = append(inbox, invite)
		}
	}
	return inbox, nil
}

// CreateInvite invites a registered user to a trip. The guest is added to
// the participant list immediately, in the same transaction that records
// the invitation, so the trip view reflects the pending membership at
// once. Email delivery is best effort and never fails the invitation.
func (im *InviteModel) CreateInvite(ctx context.Context, host types.User, tripID string, guestEmail string, permission types.Permission) (*types.Invite, *types.Trip, error) {
	guestEmail = strings.ToLower(strings.TrimSpace(guestEmail))
	if guestEmail == "" {
		return nil, nil, errors.ValidationFailed("guest_email_required", "Guest email is required")
	}
	if !permission.IsValid() {
		return nil, nil, errors.ValidationFailed("invalid_permission", "Permission must be EDIT or VIEW_ONLY")
	}

	trip, err := im.trips.GetTrip(ctx, tripID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, nil, errors.TripNotFound(tripID)
		}
		return nil, nil, errors.NewDatabaseError(err)
	}
	if !trip.CanEdit(host.Email) {
		return nil, nil, errors.TripAccessDenied(host.Email, tripID)
	}

	guest, err := im.users.GetUserByEmail(ctx, guestEmail)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, nil, errors.NoAccountFound(guestEmail)
		}
		return nil, nil, errors.NewDatabaseError(err)
	}
	if trip.HasParticipant(guest.Email) {
		return nil, nil, errors.AlreadyParticipant(guest.Email)
	}

	invite := types.Invite{
		TripID:     trip.ID,
		TripName:   trip.Name,
		HostName:   host.Name,
		HostEmail:  host.Email,
		GuestEmail: guest.Email,
		Permission: permission,
		Status:     types.InviteStatusPending,
	}

	updatedDoc := *trip
	updatedDoc.Participants = append(append([]types.Participant(nil), trip.Participants...), types.Participant{
		Name:       guest.Name,
		Email:      guest.Email,
		Permission: permission,
	})

	created, updatedTrip, err := im.invites.CreateInvite(ctx, &invite, updatedDoc)
	if err != nil {
		switch {
		case goerrors.Is(err, store.ErrDuplicate):
			return nil, nil, errors.DuplicateInvite(guest.Email)
		case goerrors.Is(err, store.ErrVersionConflict):
			return nil, nil, errors.VersionConflict(tripID)
		default:
			return nil, nil, errors.NewDatabaseError(err)
		}
	}

	im.sendInviteEmail(ctx, created)
	return created, updatedTrip, nil
}

// AcceptInvite finalizes an invitation for the guest: any participant
// entry missing from the trip is restored at the invited permission, and
// the invitation record is deleted in the same transaction. A rejected
// invitation can still be accepted, which lets the guest reverse an
// earlier decline.
func (im *InviteModel) AcceptInvite(ctx context.Context, guest types.User, inviteID string) (*types.Trip, error) {
	invite, err := im.getOwnInvite(ctx, inviteID, guest.Email, false)
	if err != nil {
		return nil, err
	}

	trip, err := im.trips.GetTrip(ctx, invite.TripID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.TripNotFound(invite.TripID)
		}
		return nil, errors.NewDatabaseError(err)
	}

	updatedDoc := *trip
	if !trip.HasParticipant(guest.Email) {
		updatedDoc.Participants = append(append([]types.Participant(nil), trip.Participants...), types.Participant{
			Name:       guest.Name,
			Email:      guest.Email,
			Permission: invite.Permission,
		})
	}

	updatedTrip, err := im.invites.AcceptInvite(ctx, inviteID, updatedDoc)
	if err != nil {
		switch {
		case goerrors.Is(err, store.ErrNotFound):
			return nil, errors.NotFound("Invite", inviteID)
		case goerrors.Is(err, store.ErrVersionConflict):
			return nil, errors.VersionConflict(invite.TripID)
		default:
			return nil, errors.NewDatabaseError(err)
		}
	}
	return updatedTrip, nil
}

// DeclineInvite marks a pending invitation rejected. The record survives
// so the host sees the rejection and can resend or dismiss it.
func (im *InviteModel) DeclineInvite(ctx context.Context, guestEmail string, inviteID string) (*types.Invite, error) {
	invite, err := im.getOwnInvite(ctx, inviteID, guestEmail, false)
	if err != nil {
		return nil, err
	}
	if invite.Status != types.InviteStatusPending {
		return nil, errors.NewConflictError("invite_not_pending", "Only pending invitations can be declined", inviteID)
	}
	if err := im.invites.SetStatus(ctx, inviteID, types.InviteStatusRejected); err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Invite", inviteID)
		}
		return nil, errors.NewDatabaseError(err)
	}
	invite.Status = types.InviteStatusRejected
	return invite, nil
}

// ResendInvite reactivates a rejected invitation: the host flips it back
// to PENDING under the same record, and the guest gets a fresh email.
func (im *InviteModel) ResendInvite(ctx context.Context, hostEmail string, inviteID string) (*types.Invite, error) {
	invite, err := im.getOwnInvite(ctx, inviteID, hostEmail, true)
	if err != nil {
		return nil, err
	}
	if invite.Status != types.InviteStatusRejected {
		return nil, errors.NewConflictError("invite_not_rejected", "Only rejected invitations can be resent", inviteID)
	}
	if err := im.invites.SetStatus(ctx, inviteID, types.InviteStatusPending); err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Invite", inviteID)
		}
		return nil, errors.NewDatabaseError(err)
	}
	invite.Status = types.InviteStatusPending
	im.sendInviteEmail(ctx, invite)
	return invite, nil
}

// DismissRejection deletes a rejected invitation from the host's inbox.
// The guest keeps their optimistic participant entry; removing them is a
// separate, explicit participant operation.
func (im *InviteModel) DismissRejection(ctx context.Context, hostEmail string, inviteID string) error {
	invite, err := im.getOwnInvite(ctx, inviteID, hostEmail, true)
	if err != nil {
		return err
	}
	if invite.Status != types.InviteStatusRejected {
		return errors.NewConflictError("invite_not_rejected", "Only rejected invitations can be dismissed", inviteID)
	}
	if err := im.invites.DeleteInvite(ctx, inviteID); err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.NotFound("Invite", inviteID)
		}
		return errors.NewDatabaseError(err)
	}
	return nil
}

// getOwnInvite loads an invitation and checks the caller is on the right
// side of it. A mismatch is reported as not found so the endpoint does
// not leak other users' invitations.
func (im *InviteModel) getOwnInvite(ctx context.Context, inviteID string, userEmail string, asHost bool) (*types.Invite, error) {
	invite, err := im.invites.GetInvite(ctx, inviteID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Invite", inviteID)
		}
		return nil, errors.NewDatabaseError(err)
	}
	if asHost && invite.HostEmail != userEmail {
		return nil, errors.NotFound("Invite", inviteID)
	}
	if !asHost && invite.GuestEmail != userEmail {
		return nil, errors.NotFound("Invite", inviteID)
	}
	return invite, nil
}

func (im *InviteModel) sendInviteEmail(ctx context.Context, invite *types.Invite) {
	if im.email == nil {
		return
	}
	err := im.email.SendInviteEmail(ctx, types.EmailData{
		To:      invite.GuestEmail,
		Subject: "Convite para a viagem " + invite.TripName,
		TemplateData: map[string]interface{}{
			"TripName":   invite.TripName,
			"HostName":   invite.HostName,
			"GuestEmail": invite.GuestEmail,
			"Permission": string(invite.Permission),
		},
	})
	if err != nil {
		logger.GetLogger().Warnw("Failed to send invitation email",
			"inviteId", invite.ID,
			"guestEmail", logger.MaskEmail(invite.GuestEmail),
			"error", err)
	}
}
