// Package store defines the persistence interfaces consumed by the model
// layer, and the sentinel errors implementations report through.
package store

import (
	"context"

	"github.com/planejatrip/planejatrip-backend/types"
)

// TripStore persists trip documents. Trips are stored whole: every mutation
// is a full-document replacement guarded by the document's version token.
// Implementations also maintain the denormalized participant rows used for
// trip listing, derived from the document's participant list.
type TripStore interface {
	// CreateTrip stores a new trip owned by ownerID and returns it with its
	// assigned ID and initial version.
	CreateTrip(ctx context.Context, trip types.Trip, ownerID string) (*types.Trip, error)

	// GetTrip loads a trip document by ID. Returns ErrNotFound if absent.
	GetTrip(ctx context.Context, id string) (*types.Trip, error)

	// ListUserTrips returns trips the user owns plus trips the user
	// participates in, unioned without duplicates.
	ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error)

	// ReplaceTrip swaps the stored document for trip if and only if the
	// stored version equals trip.Version; returns ErrVersionConflict
	// otherwise. On success the returned trip carries the incremented
	// version.
	ReplaceTrip(ctx context.Context, trip types.Trip) (*types.Trip, error)

	// DeleteTrip removes the trip and its participant rows.
	DeleteTrip(ctx context.Context, id string) error
}

// InviteStore persists invites. Creation and acceptance are combined with
// the trip-document update in a single transaction so the invite record and
// the participant-list change commit or fail together.
type InviteStore interface {
	// CreateInvite inserts the invite and applies the trip replacement (the
	// optimistic participant add) atomically. Returns ErrDuplicate when a
	// non-deleted invite for (TripID, GuestEmail) already exists.
	CreateInvite(ctx context.Context, invite *types.Invite, trip types.Trip) (*types.Invite, *types.Trip, error)

	// AcceptInvite deletes the invite and applies the trip replacement that
	// carries the guest's participant entry, atomically.
	AcceptInvite(ctx context.Context, inviteID string, trip types.Trip) (*types.Trip, error)

	// GetInvite loads an invite by ID. Returns ErrNotFound if absent.
	GetInvite(ctx context.Context, id string) (*types.Invite, error)

	// ListByGuestEmail returns invites addressed to the email, filtered to
	// the given statuses (all statuses when none are given).
	ListByGuestEmail(ctx context.Context, email string, statuses []types.InviteStatus) ([]*types.Invite, error)

	// ListByHostEmail returns invites sent by the email.
	ListByHostEmail(ctx context.Context, email string) ([]*types.Invite, error)

	// SetStatus updates the invite status (decline, resend).
	SetStatus(ctx context.Context, id string, status types.InviteStatus) error

	// DeleteInvite removes the invite record (dismissal of a rejection).
	DeleteInvite(ctx context.Context, id string) error
}

// UserStore reads the profile directory.
type UserStore interface {
	// GetUserByID loads a profile by its ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*types.User, error)

	// GetUserByEmail resolves an email to a registered profile. Returns
	// ErrNotFound when no account exists for the email.
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)

	// UpdateName changes the profile display name and returns the updated
	// profile.
	UpdateName(ctx context.Context, id string, name string) (*types.User, error)
}
