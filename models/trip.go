// Package models holds the domain logic: the trip mutation orchestrator and
// the invite lifecycle. Every mutation loads the current snapshot, gates on
// the permission predicate, applies the change, re-validates the document
// invariants, and persists a full replacement under the version check.
package models

import (
	"context"
	goerrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/internal/store"
	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/planejatrip/planejatrip-backend/types"
)

// TripModel is the mutation orchestrator for trip documents.
type TripModel struct {
	trips store.TripStore
}

func NewTripModel(trips store.TripStore) *TripModel {
	return &TripModel{trips: trips}
}

// CreateTripParams carries the fields the owner supplies at creation.
type CreateTripParams struct {
	Name        string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      decimal.Decimal
	Currency    types.Currency
}

// MutationResult is the outcome of a trip mutation. ActorRemoved signals
// that the update took the acting user off the participant list, so the
// client must fall back to the trip-list view instead of continuing to
// operate on a trip it no longer has access to.
type MutationResult struct {
	Trip         *types.Trip
	ActorRemoved bool
}

// CreateTrip builds a fresh trip document for the owner: the contiguous day
// plan, the default categories and preferences, and the owner as the sole
// participant with EDIT permission.
func (tm *TripModel) CreateTrip(ctx context.Context, owner types.User, params CreateTripParams) (*types.Trip, error) {
	if strings.TrimSpace(params.Destination) == "" {
		return nil, errors.ValidationFailed("destination_required", "Destination is required")
	}
	if params.StartDate.IsZero() || params.EndDate.IsZero() {
		return nil, errors.ValidationFailed("dates_required", "Start and end dates are required")
	}
	if params.StartDate.After(params.EndDate) {
		return nil, errors.ValidationFailed("invalid_date_range", "Start date cannot be after end date")
	}
	if params.Budget.IsNegative() {
		return nil, errors.ValidationFailed("invalid_budget", "Budget cannot be negative")
	}
	if !params.Currency.IsValid() {
		return nil, errors.ValidationFailed("invalid_currency", "Currency must be BRL, USD or EUR")
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = strings.TrimSpace(params.Destination)
	}

	trip := types.Trip{
		Name:        name,
		Destination: params.Destination,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Budget:      params.Budget,
		Currency:    params.Currency,
		Days:        types.BuildDays(params.StartDate, params.EndDate),
		Participants: []types.Participant{
			{Name: owner.Name, Email: owner.Email, Permission: types.PermissionEdit},
		},
		Categories:  types.DefaultCategories(),
		OwnerEmail:  owner.Email,
		IsCompleted: false,
		Preferences: types.DefaultPreferences(),
	}

	created, err := tm.trips.CreateTrip(ctx, trip, owner.ID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return created, nil
}

func (tm *TripModel) GetTrip(ctx context.Context, id string) (*types.Trip, error) {
	trip, err := tm.trips.GetTrip(ctx, id)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.TripNotFound(id)
		}
		return nil, errors.NewDatabaseError(err)
	}
	return trip, nil
}

func (tm *TripModel) ListUserTrips(ctx context.Context, userID string) ([]*types.Trip, error) {
	trips, err := tm.trips.ListUserTrips(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return trips, nil
}

// UpdateTrip applies a whole-document replacement submitted by the client.
// Identity, ownership and completion state are taken from the stored
// document, never from the submission.
func (tm *TripModel) UpdateTrip(ctx context.Context, actorEmail string, tripID string, submitted types.Trip) (*MutationResult, error) {
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		trip.Name = submitted.Name
		trip.Destination = submitted.Destination
		trip.StartDate = submitted.StartDate
		trip.EndDate = submitted.EndDate
		trip.Budget = submitted.Budget
		trip.Currency = submitted.Currency
		trip.Days = submitted.Days
		trip.Participants = submitted.Participants
		trip.Categories = submitted.Categories
		trip.Preferences = submitted.Preferences
		return nil
	})
}

// ConcludeTrip marks the trip completed. One-directional: there is no
// operation that makes a concluded trip editable again.
func (tm *TripModel) ConcludeTrip(ctx context.Context, actorEmail string, tripID string) (*MutationResult, error) {
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		trip.IsCompleted = true
		return nil
	})
}

// DeleteTrip removes the trip entirely. Owner only.
func (tm *TripModel) DeleteTrip(ctx context.Context, actorEmail string, tripID string) error {
	trip, err := tm.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if !trip.IsOwner(actorEmail) {
		return errors.Forbidden("owner_only", "Only the trip owner can delete the trip")
	}
	if err := tm.trips.DeleteTrip(ctx, tripID); err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.TripNotFound(tripID)
		}
		return errors.NewDatabaseError(err)
	}
	return nil
}

// SaveActivity adds an activity to a day, or edits an unconfirmed one in
// place. New activities start unconfirmed with no real cost; confirmed
// activities are immutable and can only be deleted.
func (tm *TripModel) SaveActivity(ctx context.Context, actorEmail string, tripID string, dayNumber int, activity types.Activity) (*MutationResult, error) {
	if strings.TrimSpace(activity.Name) == "" {
		return nil, errors.ValidationFailed("activity_name_required", "Activity name is required")
	}
	if activity.EstimatedCost.IsNegative() {
		return nil, errors.ValidationFailed("invalid_estimated_cost", "Estimated cost cannot be negative")
	}

	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		if dayNumber < 1 || dayNumber > len(trip.Days) {
			return errors.ValidationFailed("invalid_day", "Day number is out of range")
		}
		day := &trip.Days[dayNumber-1]

		if activity.ID == "" {
			activity.ID = uuid.NewString()
			activity.IsConfirmed = false
			activity.RealCost = nil
			day.Activities = append(day.Activities, activity)
			return nil
		}

		for i := range day.Activities {
			if day.Activities[i].ID != activity.ID {
				continue
			}
			if day.Activities[i].IsConfirmed {
				return errors.NewConflictError("activity_confirmed",
					"Confirmed activities cannot be edited", activity.ID)
			}
			day.Activities[i].Name = activity.Name
			day.Activities[i].Category = activity.Category
			day.Activities[i].EstimatedCost = activity.EstimatedCost
			day.Activities[i].Participants = activity.Participants
			return nil
		}
		return errors.NotFound("Activity", activity.ID)
	})
}

// DeleteActivity removes an activity by ID. Deletion is allowed for
// confirmed activities; it is the only way to take a confirmed cost out of
// the totals.
func (tm *TripModel) DeleteActivity(ctx context.Context, actorEmail string, tripID string, activityID string) (*MutationResult, error) {
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		_, dayIndex := trip.FindActivity(activityID)
		if dayIndex < 0 {
			return errors.NotFound("Activity", activityID)
		}
		day := &trip.Days[dayIndex]
		filtered := day.Activities[:0]
		for _, act := range day.Activities {
			if act.ID != activityID {
				filtered = append(filtered, act)
			}
		}
		day.Activities = filtered
		return nil
	})
}

// ConfirmActivity is the single irreversible confirmation: it fixes the
// real cost and the participant subset used for cost splitting. The
// activity is located by ID across all days and the search stops at the
// first match.
func (tm *TripModel) ConfirmActivity(ctx context.Context, actorEmail string, tripID string, activityID string, realCost decimal.Decimal, participants []string) (*MutationResult, error) {
	if realCost.IsNegative() {
		return nil, errors.ValidationFailed("invalid_real_cost", "Real cost cannot be negative")
	}

	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		activity, dayIndex := trip.FindActivity(activityID)
		if dayIndex < 0 {
			return errors.NotFound("Activity", activityID)
		}
		if activity.IsConfirmed {
			return errors.NewConflictError("activity_confirmed",
				"Activity is already confirmed", activityID)
		}
		for _, name := range participants {
			if !hasParticipantName(trip, name) {
				return errors.ValidationFailed("unknown_participant",
					"Activity participants must be trip participants: "+name)
			}
		}

		cost := realCost
		activity.IsConfirmed = true
		activity.RealCost = &cost
		activity.Participants = participants
		return nil
	})
}

// UpdateBudget changes the trip budget.
func (tm *TripModel) UpdateBudget(ctx context.Context, actorEmail string, tripID string, budget decimal.Decimal) (*MutationResult, error) {
	if budget.IsNegative() {
		return nil, errors.ValidationFailed("invalid_budget", "Budget cannot be negative")
	}
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		trip.Budget = budget
		return nil
	})
}

// UpdateCurrency changes the trip currency. Amounts are not converted.
func (tm *TripModel) UpdateCurrency(ctx context.Context, actorEmail string, tripID string, currency types.Currency) (*MutationResult, error) {
	if !currency.IsValid() {
		return nil, errors.ValidationFailed("invalid_currency", "Currency must be BRL, USD or EUR")
	}
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		trip.Currency = currency
		return nil
	})
}

// AddCategory appends a category with a fresh ID.
func (tm *TripModel) AddCategory(ctx context.Context, actorEmail string, tripID string, name string) (*MutationResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ValidationFailed("category_name_required", "Category name is required")
	}
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		trip.Categories = append(trip.Categories, types.Category{
			ID:   uuid.NewString(),
			Name: name,
		})
		return nil
	})
}

// RemoveCategory drops a category. Activities referencing it keep the
// orphaned category label; there is no cascade.
func (tm *TripModel) RemoveCategory(ctx context.Context, actorEmail string, tripID string, categoryID string) (*MutationResult, error) {
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		filtered := trip.Categories[:0]
		found := false
		for _, cat := range trip.Categories {
			if cat.ID == categoryID {
				found = true
				continue
			}
			filtered = append(filtered, cat)
		}
		if !found {
			return errors.NotFound("Category", categoryID)
		}
		trip.Categories = filtered
		return nil
	})
}

// UpdatePreferences replaces the suggestion preferences.
func (tm *TripModel) UpdatePreferences(ctx context.Context, actorEmail string, tripID string, prefs types.TripPreferences) (*MutationResult, error) {
	switch prefs.BudgetStyle {
	case types.BudgetStyleEconomico, types.BudgetStyleConfortavel, types.BudgetStyleLuxo:
	default:
		return nil, errors.ValidationFailed("invalid_budget_style", "Unknown budget style: "+prefs.BudgetStyle)
	}
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		trip.Preferences = prefs
		return nil
	})
}

// SetParticipantPermission changes a participant's permission level. The
// owner can never be demoted below EDIT.
func (tm *TripModel) SetParticipantPermission(ctx context.Context, actorEmail string, tripID string, participantEmail string, permission types.Permission) (*MutationResult, error) {
	if !permission.IsValid() {
		return nil, errors.ValidationFailed("invalid_permission", "Permission must be EDIT or VIEW_ONLY")
	}
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		if trip.IsOwner(participantEmail) && permission != types.PermissionEdit {
			return errors.Forbidden("owner_demotion", "The trip owner cannot be demoted")
		}
		participant := trip.FindParticipant(participantEmail)
		if participant == nil {
			return errors.NotFound("Participant", logger.MaskEmail(participantEmail))
		}
		participant.Permission = permission
		return nil
	})
}

// RemoveParticipant takes a participant off the trip. The owner can never
// be removed. When the acting user removes themselves, the result reports
// ActorRemoved so the client leaves the trip view.
func (tm *TripModel) RemoveParticipant(ctx context.Context, actorEmail string, tripID string, participantEmail string) (*MutationResult, error) {
	return tm.mutate(ctx, actorEmail, tripID, func(trip *types.Trip) error {
		if trip.IsOwner(participantEmail) {
			return errors.Forbidden("owner_removal", "The trip owner cannot be removed")
		}
		if !trip.HasParticipant(participantEmail) {
			return errors.NotFound("Participant", logger.MaskEmail(participantEmail))
		}
		filtered := trip.Participants[:0]
		for _, p := range trip.Participants {
			if p.Email != participantEmail {
				filtered = append(filtered, p)
			}
		}
		trip.Participants = filtered
		return nil
	})
}

// mutate is the shared read-modify-write path: load the snapshot, gate on
// the permission predicate, apply fn, validate the document invariants,
// and persist under the version compare-and-swap.
func (tm *TripModel) mutate(ctx context.Context, actorEmail string, tripID string, fn func(*types.Trip) error) (*MutationResult, error) {
	trip, err := tm.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.CanEdit(actorEmail) {
		return nil, errors.TripAccessDenied(actorEmail, tripID)
	}

	if err := fn(trip); err != nil {
		return nil, err
	}
	if err := validateTripDocument(trip); err != nil {
		return nil, err
	}

	updated, err := tm.trips.ReplaceTrip(ctx, *trip)
	if err != nil {
		switch {
		case goerrors.Is(err, store.ErrVersionConflict):
			return nil, errors.VersionConflict(tripID)
		case goerrors.Is(err, store.ErrNotFound):
			return nil, errors.TripNotFound(tripID)
		default:
			return nil, errors.NewDatabaseError(err)
		}
	}

	return &MutationResult{
		Trip:         updated,
		ActorRemoved: !updated.HasParticipant(actorEmail),
	}, nil
}

// validateTripDocument enforces the invariants no replacement may break,
// whatever entry point produced it.
func validateTripDocument(trip *types.Trip) error {
	owner := trip.FindParticipant(trip.OwnerEmail)
	if owner == nil {
		return errors.Forbidden("owner_removal", "The trip owner cannot be removed")
	}
	if owner.Permission != types.PermissionEdit {
		return errors.Forbidden("owner_demotion", "The trip owner cannot be demoted")
	}
	if trip.Budget.IsNegative() {
		return errors.ValidationFailed("invalid_budget", "Budget cannot be negative")
	}
	if !trip.Currency.IsValid() {
		return errors.ValidationFailed("invalid_currency", "Currency must be BRL, USD or EUR")
	}

	seen := make(map[string]bool, len(trip.Participants))
	for _, p := range trip.Participants {
		if p.Email == "" {
			return errors.ValidationFailed("participant_email_required", "Participants must have an email")
		}
		if seen[p.Email] {
			return errors.ValidationFailed("duplicate_participant", logger.MaskEmail(p.Email))
		}
		seen[p.Email] = true
		if !p.Permission.IsValid() {
			return errors.ValidationFailed("invalid_permission", "Permission must be EDIT or VIEW_ONLY")
		}
	}

	return validateDayCoverage(trip)
}

// validateDayCoverage checks that the day list covers every date between
// the start and end dates, in order, with day numbers ascending from 1.
func validateDayCoverage(trip *types.Trip) error {
	start := dateOnly(trip.StartDate)
	end := dateOnly(trip.EndDate)
	if end.Before(start) {
		return errors.ValidationFailed("invalid_date_range", "End date cannot be before the start date")
	}

	span := int(end.Sub(start).Hours()/24) + 1
	if len(trip.Days) != span {
		return errors.ValidationFailed("invalid_days", "Days must cover every date from the start date to the end date")
	}
	for i := range trip.Days {
		if trip.Days[i].DayNumber != i+1 {
			return errors.ValidationFailed("invalid_days", "Day numbers must ascend from 1 without gaps")
		}
		if !dateOnly(trip.Days[i].Date).Equal(start.AddDate(0, 0, i)) {
			return errors.ValidationFailed("invalid_days", "Each day must carry its date within the trip range")
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func hasParticipantName(trip *types.Trip, name string) bool {
	for _, p := range trip.Participants {
		if p.Name == name {
			return true
		}
	}
	return false
}
