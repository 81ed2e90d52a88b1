package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/internal/store"
	"github.com/planejatrip/planejatrip-backend/types"
)

func inviteFixture() *types.Invite {
	return &types.Invite{
		ID:         "inv-1",
		TripID:     "trip-1",
		TripName:   "Lisboa",
		HostName:   "Ana",
		HostEmail:  "ana@example.com",
		GuestEmail: "dora@example.com",
		Permission: types.PermissionViewOnly,
		Status:     types.InviteStatusPending,
	}
}

func newInviteModelForTest() (*InviteModel, *MockInviteStore, *MockTripStore, *MockUserStore, *MockEmailService) {
	invites := new(MockInviteStore)
	trips := new(MockTripStore)
	users := new(MockUserStore)
	email := new(MockEmailService)
	return NewInviteModel(invites, trips, users, email), invites, trips, users, email
}

func TestCreateInviteAddsOptimisticParticipant(t *testing.T) {
	model, invites, trips, users, email := newInviteModelForTest()
	trip := testTrip()
	host := types.User{ID: "user-1", Name: "Ana", Email: "ana@example.com"}

	trips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)
	users.On("GetUserByEmail", mock.Anything, "dora@example.com").
		Return(&types.User{ID: "user-4", Name: "Dora", Email: "dora@example.com"}, nil)
	email.On("SendInviteEmail", mock.Anything, mock.AnythingOfType("types.EmailData")).Return(nil)

	call := invites.On("CreateInvite", mock.Anything, mock.AnythingOfType("*types.Invite"), mock.AnythingOfType("types.Trip"))
	call.Run(func(args mock.Arguments) {
		invite := args.Get(1).(*types.Invite)
		assert.Empty(t, invite.ID, "identity is assigned by the store, never by the caller")
		stored := *invite
		stored.ID = "inv-9"
		updated := args.Get(2).(types.Trip)
		updated.Version++
		call.ReturnArguments = mock.Arguments{&stored, &updated, nil}
	})

	invite, updatedTrip, err := model.CreateInvite(context.Background(), host, "trip-1", "Dora@Example.com ", types.PermissionViewOnly)
	require.NoError(t, err)

	assert.Equal(t, "inv-9", invite.ID)
	assert.Equal(t, types.InviteStatusPending, invite.Status)
	assert.Equal(t, "dora@example.com", invite.GuestEmail, "guest email is normalized")
	assert.Equal(t, "Lisboa", invite.TripName)
	assert.Equal(t, "Ana", invite.HostName)

	require.True(t, updatedTrip.HasParticipant("dora@example.com"),
		"the guest joins the participant list at invitation time, before accepting")
	p := updatedTrip.FindParticipant("dora@example.com")
	assert.Equal(t, types.PermissionViewOnly, p.Permission)

	email.AssertNumberOfCalls(t, "SendInviteEmail", 1)
}

func TestCreateInviteEmailFailureDoesNotFailInvite(t *testing.T) {
	model, invites, trips, users, email := newInviteModelForTest()
	trip := testTrip()
	host := types.User{ID: "user-1", Name: "Ana", Email: "ana@example.com"}

	trips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)
	users.On("GetUserByEmail", mock.Anything, "dora@example.com").
		Return(&types.User{ID: "user-4", Name: "Dora", Email: "dora@example.com"}, nil)
	email.On("SendInviteEmail", mock.Anything, mock.Anything).Return(assert.AnError)

	call := invites.On("CreateInvite", mock.Anything, mock.Anything, mock.Anything)
	call.Run(func(args mock.Arguments) {
		updated := args.Get(2).(types.Trip)
		call.ReturnArguments = mock.Arguments{args.Get(1).(*types.Invite), &updated, nil}
	})

	_, _, err := model.CreateInvite(context.Background(), host, "trip-1", "dora@example.com", types.PermissionEdit)
	assert.NoError(t, err, "delivery is best effort")
}

func TestCreateInviteNoAccount(t *testing.T) {
	model, invites, trips, users, _ := newInviteModelForTest()
	trip := testTrip()
	host := types.User{ID: "user-1", Name: "Ana", Email: "ana@example.com"}

	trips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)
	users.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, store.ErrNotFound)

	_, _, err := model.CreateInvite(context.Background(), host, "trip-1", "ghost@example.com", types.PermissionEdit)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "no_account_found", appErr.Code)
	invites.AssertNotCalled(t, "CreateInvite", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateInviteAlreadyParticipant(t *testing.T) {
	model, invites, trips, users, _ := newInviteModelForTest()
	trip := testTrip()
	host := types.User{ID: "user-1", Name: "Ana", Email: "ana@example.com"}

	trips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)
	users.On("GetUserByEmail", mock.Anything, "bruno@example.com").
		Return(&types.User{ID: "user-2", Name: "Bruno", Email: "bruno@example.com"}, nil)

	_, _, err := model.CreateInvite(context.Background(), host, "trip-1", "bruno@example.com", types.PermissionEdit)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "already_participates", appErr.Code)
	invites.AssertNotCalled(t, "CreateInvite", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateInviteDuplicate(t *testing.T) {
	model, invites, trips, users, _ := newInviteModelForTest()
	trip := testTrip()
	host := types.User{ID: "user-1", Name: "Ana", Email: "ana@example.com"}

	trips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)
	users.On("GetUserByEmail", mock.Anything, "dora@example.com").
		Return(&types.User{ID: "user-4", Name: "Dora", Email: "dora@example.com"}, nil)
	invites.On("CreateInvite", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, store.ErrDuplicate)

	_, _, err := model.CreateInvite(context.Background(), host, "trip-1", "dora@example.com", types.PermissionEdit)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "already_invited", appErr.Code)
}

func TestCreateInviteRequiresEditPermission(t *testing.T) {
	model, invites, trips, _, _ := newInviteModelForTest()
	trip := testTrip()
	viewer := types.User{ID: "user-3", Name: "Carla", Email: "carla@example.com"}

	trips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)

	_, _, err := model.CreateInvite(context.Background(), viewer, "trip-1", "dora@example.com", types.PermissionEdit)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.TripAccessError, appErr.Type)
	invites.AssertNotCalled(t, "CreateInvite", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptInvite(t *testing.T) {
	model, invites, trips, _, _ := newInviteModelForTest()
	trip := testTrip()
	// Simulate removal between invite and acceptance: the guest is not on
	// the participant list anymore.
	guest := types.User{ID: "user-4", Name: "Dora", Email: "dora@example.com"}

	invites.On("GetInvite", mock.Anything, "inv-1").Return(inviteFixture(), nil)
	trips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)

	call := invites.On("AcceptInvite", mock.Anything, "inv-1", mock.AnythingOfType("types.Trip"))
	call.Run(func(args mock.Arguments) {
		updated := args.Get(2).(types.Trip)
		updated.Version++
		call.ReturnArguments = mock.Arguments{&updated, nil}
	})

	updatedTrip, err := model.AcceptInvite(context.Background(), guest, "inv-1")
	require.NoError(t, err)

	p := updatedTrip.FindParticipant("dora@example.com")
	require.NotNil(t, p, "acceptance restores the participant entry when missing")
	assert.Equal(t, types.PermissionViewOnly, p.Permission, "at the invited permission")
}

func TestAcceptInviteAfterDecline(t *testing.T) {
	model, invites, trips, _, _ := newInviteModelForTest()
	guest := types.User{ID: "user-4", Name: "Dora", Email: "dora@example.com"}

	rejected := inviteFixture()
	rejected.Status = types.InviteStatusRejected
	invites.On("GetInvite", mock.Anything, "inv-1").Return(rejected, nil)
	trips.On("GetTrip", mock.Anything, "trip-1").Return(testTrip(), nil)

	call := invites.On("AcceptInvite", mock.Anything, "inv-1", mock.AnythingOfType("types.Trip"))
	call.Run(func(args mock.Arguments) {
		updated := args.Get(2).(types.Trip)
		updated.Version++
		call.ReturnArguments = mock.Arguments{&updated, nil}
	})

	updatedTrip, err := model.AcceptInvite(context.Background(), guest, "inv-1")
	require.NoError(t, err, "a decline can be reversed by accepting the invitation")
	assert.True(t, updatedTrip.HasParticipant("dora@example.com"))
}

func TestAcceptInviteWrongGuest(t *testing.T) {
	model, invites, _, _, _ := newInviteModelForTest()
	invites.On("GetInvite", mock.Anything, "inv-1").Return(inviteFixture(), nil)

	_, err := model.AcceptInvite(context.Background(),
		types.User{ID: "user-9", Name: "Eva", Email: "eva@example.com"}, "inv-1")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type,
		"other users' invitations look like they do not exist")
}

func TestDeclineThenResendKeepsSameRecord(t *testing.T) {
	model, invites, _, _, email := newInviteModelForTest()

	pending := inviteFixture()
	invites.On("GetInvite", mock.Anything, "inv-1").Return(pending, nil).Once()
	invites.On("SetStatus", mock.Anything, "inv-1", types.InviteStatusRejected).Return(nil).Once()

	declined, err := model.DeclineInvite(context.Background(), "dora@example.com", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, types.InviteStatusRejected, declined.Status)

	rejected := inviteFixture()
	rejected.Status = types.InviteStatusRejected
	invites.On("GetInvite", mock.Anything, "inv-1").Return(rejected, nil).Once()
	invites.On("SetStatus", mock.Anything, "inv-1", types.InviteStatusPending).Return(nil).Once()
	email.On("SendInviteEmail", mock.Anything, mock.Anything).Return(nil)

	resent, err := model.ResendInvite(context.Background(), "ana@example.com", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", resent.ID, "resending reuses the record instead of creating a new one")
	assert.Equal(t, types.InviteStatusPending, resent.Status)
	email.AssertNumberOfCalls(t, "SendInviteEmail", 1)
}

func TestResendRequiresRejectedStatus(t *testing.T) {
	model, invites, _, _, _ := newInviteModelForTest()
	invites.On("GetInvite", mock.Anything, "inv-1").Return(inviteFixture(), nil)

	_, err := model.ResendInvite(context.Background(), "ana@example.com", "inv-1")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "invite_not_rejected", appErr.Code)
}

func TestDismissRejection(t *testing.T) {
	model, invites, _, _, _ := newInviteModelForTest()

	rejected := inviteFixture()
	rejected.Status = types.InviteStatusRejected
	invites.On("GetInvite", mock.Anything, "inv-1").Return(rejected, nil)
	invites.On("DeleteInvite", mock.Anything, "inv-1").Return(nil)

	require.NoError(t, model.DismissRejection(context.Background(), "ana@example.com", "inv-1"))
	invites.AssertCalled(t, "DeleteInvite", mock.Anything, "inv-1")
}

func TestDismissRequiresRejectedStatus(t *testing.T) {
	model, invites, _, _, _ := newInviteModelForTest()
	invites.On("GetInvite", mock.Anything, "inv-1").Return(inviteFixture(), nil)

	err := model.DismissRejection(context.Background(), "ana@example.com", "inv-1")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "invite_not_rejected", appErr.Code)
	invites.AssertNotCalled(t, "DeleteInvite", mock.Anything, mock.Anything)
}

func TestInboxUnionsGuestPendingAndHostRejected(t *testing.T) {
	model, invites, _, _, _ := newInviteModelForTest()

	guestPending := inviteFixture()
	guestPending.ID = "inv-a"
	guestPending.GuestEmail = "ana@example.com"
	guestPending.HostEmail = "zoe@example.com"

	hostRejected := inviteFixture()
	hostRejected.ID = "inv-b"
	hostRejected.Status = types.InviteStatusRejected

	hostPending := inviteFixture()
	hostPending.ID = "inv-c"

	invites.On("ListByGuestEmail", mock.Anything, "ana@example.com",
		[]types.InviteStatus{types.InviteStatusPending}).
		Return([]*types.Invite{guestPending}, nil)
	invites.On("ListByHostEmail", mock.Anything, "ana@example.com").
		Return([]*types.Invite{hostRejected, hostPending}, nil)

	inbox, err := model.ListUserInvites(context.Background(), "ana@example.com")
	require.NoError(t, err)

	ids := make([]string, len(inbox))
	for i, inv := range inbox {
		ids[i] = inv.ID
	}
	assert.Equal(t, []string{"inv-a", "inv-b"}, ids,
		"pending invites the host sent do not clutter the host's inbox")
}
