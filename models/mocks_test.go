package models

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/planejatrip/planejatrip-backend/types"
)

type MockTripStore struct {
	mock.Mock
}

func (m *MockTripStore) CreateTrip(ctx context.Context, trip types.Trip, ownerID string) (*types.Trip, error) {
	args := m.Called(ctx, trip, ownerID)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTripStore) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTripStore) ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.([]*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTripStore) ReplaceTrip(ctx context.Context, trip types.Trip) (*types.Trip, error) {
	args := m.Called(ctx, trip)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTripStore) DeleteTrip(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInviteStore struct {
	mock.Mock
}

func (m *MockInviteStore) CreateInvite(ctx context.Context, invite *types.Invite, trip types.Trip) (*types.Invite, *types.Trip, error) {
	args := m.Called(ctx, invite, trip)
	var inv *types.Invite
	var t *types.Trip
	if v := args.Get(0); v != nil {
		inv = v.(*types.Invite)
	}
	if v := args.Get(1); v != nil {
		t = v.(*types.Trip)
	}
	return inv, t, args.Error(2)
}

func (m *MockInviteStore) AcceptInvite(ctx context.Context, inviteID string, trip types.Trip) (*types.Trip, error) {
	args := m.Called(ctx, inviteID, trip)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInviteStore) GetInvite(ctx context.Context, id string) (*types.Invite, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*types.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInviteStore) ListByGuestEmail(ctx context.Context, email string, statuses []types.InviteStatus) ([]*types.Invite, error) {
	args := m.Called(ctx, email, statuses)
	if t := args.Get(0); t != nil {
		return t.([]*types.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInviteStore) ListByHostEmail(ctx context.Context, email string) ([]*types.Invite, error) {
	args := m.Called(ctx, email)
	if t := args.Get(0); t != nil {
		return t.([]*types.Invite), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInviteStore) SetStatus(ctx context.Context, id string, status types.InviteStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInviteStore) DeleteInvite(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*types.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*types.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) UpdateName(ctx context.Context, id string, name string) (*types.User, error) {
	args := m.Called(ctx, id, name)
	if u := args.Get(0); u != nil {
		return u.(*types.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInviteEmail(ctx context.Context, data types.EmailData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
