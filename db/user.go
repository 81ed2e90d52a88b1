package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/planejatrip/planejatrip-backend/internal/store"
	"github.com/planejatrip/planejatrip-backend/types"
)

// UserDB implements store.UserStore over the profiles table. Profiles are
// created by the identity provider's signup trigger; this side only reads
// them and edits display names.
type UserDB struct {
	client *DatabaseClient
}

func NewUserDB(client *DatabaseClient) *UserDB {
	return &UserDB{client: client}
}

func (udb *UserDB) pool() PGXPool {
	return udb.client.GetPool()
}

func (udb *UserDB) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	return scanUser(udb.pool().QueryRow(ctx,
		`SELECT id, name, email FROM profiles WHERE id = $1`, id))
}

func (udb *UserDB) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return scanUser(udb.pool().QueryRow(ctx,
		`SELECT id, name, email FROM profiles WHERE email = $1`, email))
}

func (udb *UserDB) UpdateName(ctx context.Context, id string, name string) (*types.User, error) {
	return scanUser(udb.pool().QueryRow(ctx, `
		UPDATE profiles SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, name, email`, name, id))
}

func scanUser(row pgx.Row) (*types.User, error) {
	var user types.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
