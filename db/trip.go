package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/planejatrip/planejatrip-backend/internal/store"
	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/planejatrip/planejatrip-backend/types"
)

// TripDB implements store.TripStore.
type TripDB struct {
	client *DatabaseClient
}

func NewTripDB(client *DatabaseClient) *TripDB {
	return &TripDB{client: client}
}

func (tdb *TripDB) pool() PGXPool {
	return tdb.client.GetPool()
}

func (tdb *TripDB) CreateTrip(ctx context.Context, trip types.Trip, ownerID string) (*types.Trip, error) {
	log := logger.GetLogger()

	trip.Version = 1
	doc, err := json.Marshal(trip)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trip document: %w", err)
	}

	var created *types.Trip
	err = WithTx(ctx, tdb.pool(), func(tx pgx.Tx) error {
		var tripID string
		if err := tx.QueryRow(ctx, `
			INSERT INTO trips (owner_id, version, data)
			VALUES ($1, 1, $2)
			RETURNING id`,
			ownerID, doc,
		).Scan(&tripID); err != nil {
			log.Errorw("Failed to create trip", "error", err)
			return err
		}

		trip.ID = tripID
		if err := syncParticipantRows(ctx, tx, tripID, trip.Participants); err != nil {
			log.Errorw("Failed to store trip participants", "error", err, "tripID", tripID)
			return err
		}

		created = &trip
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (tdb *TripDB) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	return scanTripRow(tdb.pool().QueryRow(ctx, `
		SELECT id, version, data FROM trips WHERE id = $1`, id))
}

func (tdb *TripDB) ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error) {
	rows, err := tdb.pool().Query(ctx, `
		SELECT t.id, t.version, t.data
		FROM trips t
		WHERE t.owner_id = $1
		   OR EXISTS (
			SELECT 1 FROM trip_participants tp
			WHERE tp.trip_id = t.id AND tp.user_id = $1
		   )
		ORDER BY t.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*types.Trip
	for rows.Next() {
		trip, err := scanTripRow(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (tdb *TripDB) ReplaceTrip(ctx context.Context, trip types.Trip) (*types.Trip, error) {
	var replaced *types.Trip
	err := WithTx(ctx, tdb.pool(), func(tx pgx.Tx) error {
		updated, err := replaceTripTx(ctx, tx, trip)
		if err != nil {
			return err
		}
		replaced = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}

func (tdb *TripDB) DeleteTrip(ctx context.Context, id string) error {
	tag, err := tdb.pool().Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// replaceTripTx swaps the stored document under the version compare-and-swap
// and resynchronizes the participant rows from the document's participant
// list. Shared with the invite store so invite creation and acceptance
// commit the document change in the same transaction as the invite row.
func replaceTripTx(ctx context.Context, tx pgx.Tx, trip types.Trip) (*types.Trip, error) {
	newVersion := trip.Version + 1
	trip.Version = newVersion
	doc, err := json.Marshal(trip)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trip document: %w", err)
	}

	var storedVersion int64
	err = tx.QueryRow(ctx, `
		UPDATE trips
		SET data = $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3
		RETURNING version`,
		doc, trip.ID, newVersion-1,
	).Scan(&storedVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing trip from a lost compare-and-swap.
			var exists bool
			if probeErr := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, trip.ID,
			).Scan(&exists); probeErr != nil {
				return nil, probeErr
			}
			if !exists {
				return nil, store.ErrNotFound
			}
			return nil, store.ErrVersionConflict
		}
		return nil, err
	}
	trip.Version = storedVersion

	if err := syncParticipantRows(ctx, tx, trip.ID, trip.Participants); err != nil {
		return nil, err
	}
	return &trip, nil
}

// syncParticipantRows reconciles trip_participants with the document's
// participant list: rows for emails no longer on the list are removed,
// remaining entries are upserted with their current permission. Participants
// whose email has no profile are skipped; they cannot exist, since invites
// require a registered account.
func syncParticipantRows(ctx context.Context, tx pgx.Tx, tripID string, participants []types.Participant) error {
	emails := make([]string, len(participants))
	permissions := make([]string, len(participants))
	for i, p := range participants {
		emails[i] = p.Email
		permissions[i] = string(p.Permission)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM trip_participants tp
		USING profiles p
		WHERE tp.trip_id = $1
		  AND tp.user_id = p.id
		  AND p.email <> ALL($2::text[])`,
		tripID, emails); err != nil {
		return err
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO trip_participants (trip_id, user_id, permission)
		SELECT $1, p.id, x.permission
		FROM unnest($2::text[], $3::text[]) AS x(email, permission)
		JOIN profiles p ON p.email = x.email
		ON CONFLICT (trip_id, user_id)
		DO UPDATE SET permission = EXCLUDED.permission`,
		tripID, emails, permissions)
	return err
}

func scanTripRow(row pgx.Row) (*types.Trip, error) {
	var (
		id      string
		version int64
		doc     []byte
	)
	if err := row.Scan(&id, &version, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	var trip types.Trip
	if err := json.Unmarshal(doc, &trip); err != nil {
		return nil, fmt.Errorf("failed to decode trip document %s: %w", id, err)
	}
	// The row columns are authoritative for identity and version.
	trip.ID = id
	trip.Version = version
	return &trip, nil
}
