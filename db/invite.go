package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/planejatrip/planejatrip-backend/internal/store"
	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/planejatrip/planejatrip-backend/types"
)

// InviteDB implements store.InviteStore.
type InviteDB struct {
	client *DatabaseClient
}

func NewInviteDB(client *DatabaseClient) *InviteDB {
	return &InviteDB{client: client}
}

func (idb *InviteDB) pool() PGXPool {
	return idb.client.GetPool()
}

const inviteColumns = `id, trip_id, trip_name, host_name, host_email, guest_email, permission, status, created_at, updated_at`

// CreateInvite inserts the invite row and applies the trip replacement that
// carries the optimistic participant add, in one transaction. A partial
// state (invite without participant, or the reverse) cannot be observed.
func (idb *InviteDB) CreateInvite(ctx context.Context, invite *types.Invite, trip types.Trip) (*types.Invite, *types.Trip, error) {
	log := logger.GetLogger()

	var (
		createdInvite *types.Invite
		updatedTrip   *types.Trip
	)
	err := WithTx(ctx, idb.pool(), func(tx pgx.Tx) error {
		stored := *invite
		err := tx.QueryRow(ctx, `
			INSERT INTO invites (trip_id, trip_name, host_name, host_email, guest_email, permission, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			invite.TripID,
			invite.TripName,
			invite.HostName,
			invite.HostEmail,
			invite.GuestEmail,
			string(invite.Permission),
			string(invite.Status),
		).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrDuplicate
			}
			log.Errorw("Failed to create invite", "error", err,
				"tripID", invite.TripID,
				"guestEmail", logger.MaskEmail(invite.GuestEmail))
			return err
		}

		replaced, err := replaceTripTx(ctx, tx, trip)
		if err != nil {
			return err
		}

		createdInvite = &stored
		updatedTrip = replaced
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return createdInvite, updatedTrip, nil
}

// AcceptInvite deletes the invite and commits the trip document that carries
// the guest's participant entry, atomically. Deleting an already-deleted
// invite reports ErrNotFound, which makes retries after a failed first
// attempt detectable to the caller.
func (idb *InviteDB) AcceptInvite(ctx context.Context, inviteID string, trip types.Trip) (*types.Trip, error) {
	var updated *types.Trip
	err := WithTx(ctx, idb.pool(), func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM invites WHERE id = $1`, inviteID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}

		replaced, err := replaceTripTx(ctx, tx, trip)
		if err != nil {
			return err
		}
		updated = replaced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (idb *InviteDB) GetInvite(ctx context.Context, id string) (*types.Invite, error) {
	return scanInvite(idb.pool().QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = $1`, id))
}

func (idb *InviteDB) ListByGuestEmail(ctx context.Context, email string, statuses []types.InviteStatus) ([]*types.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE guest_email = $1`
	args := []any{email}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			placeholders[i] = fmt.Sprintf("$%d", i+2)
			args = append(args, string(s))
		}
		query += ` AND status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at`

	return idb.queryInvites(ctx, query, args...)
}

func (idb *InviteDB) ListByHostEmail(ctx context.Context, email string) ([]*types.Invite, error) {
	return idb.queryInvites(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE host_email = $1 ORDER BY created_at`, email)
}

func (idb *InviteDB) SetStatus(ctx context.Context, id string, status types.InviteStatus) error {
	tag, err := idb.pool().Exec(ctx, `
		UPDATE invites SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (idb *InviteDB) DeleteInvite(ctx context.Context, id string) error {
	tag, err := idb.pool().Exec(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (idb *InviteDB) queryInvites(ctx context.Context, query string, args ...any) ([]*types.Invite, error) {
	rows, err := idb.pool().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*types.Invite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

func scanInvite(row pgx.Row) (*types.Invite, error) {
	var (
		invite     types.Invite
		permission string
		status     string
	)
	err := row.Scan(
		&invite.ID,
		&invite.TripID,
		&invite.TripName,
		&invite.HostName,
		&invite.HostEmail,
		&invite.GuestEmail,
		&permission,
		&status,
		&invite.CreatedAt,
		&invite.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	invite.Permission = types.Permission(permission)
	invite.Status = types.InviteStatus(status)
	return &invite, nil
}
