package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Permission is the capability level a participant holds on a trip.
type Permission string

const (
	PermissionEdit     Permission = "EDIT"
	PermissionViewOnly Permission = "VIEW_ONLY"
)

// IsValid checks if the permission is a known level.
func (p Permission) IsValid() bool {
	switch p {
	case PermissionEdit, PermissionViewOnly:
		return true
	default:
		return false
	}
}

func (p Permission) String() string {
	return string(p)
}

// Currency is the trip's accounting currency.
type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// IsValid checks if the currency is supported.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyBRL, CurrencyUSD, CurrencyEUR:
		return true
	default:
		return false
	}
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyBRL:
		return "R$"
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	default:
		return string(c)
	}
}

// Participant is a traveler on a trip, embedded in the trip document.
// Participants are unique by email within a trip.
type Participant struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
}

// Category labels activities for cost grouping. Owned by the trip; removing
// a category does not cascade to activities that reference it.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BudgetStyle values accepted in trip preferences.
const (
	BudgetStyleEconomico   = "economico"
	BudgetStyleConfortavel = "confortavel"
	BudgetStyleLuxo        = "luxo"
)

// TripPreferences feed the suggestion generator.
type TripPreferences struct {
	Likes       []string `json:"likes"`
	Dislikes    []string `json:"dislikes"`
	BudgetStyle string   `json:"budgetStyle"`
}

// Activity is a planned item on a day. It starts unconfirmed with no real
// cost; a single irreversible confirmation fixes RealCost and the
// Participants subset used for cost splitting.
type Activity struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	EstimatedCost decimal.Decimal  `json:"estimatedCost"`
	RealCost      *decimal.Decimal `json:"realCost,omitempty"`
	IsConfirmed   bool             `json:"isConfirmed"`
	// Participants holds trip participant names (not emails); cost splitting
	// keys on these names.
	Participants []string `json:"participants"`
}

// Day is one calendar day of the trip plan.
type Day struct {
	Date       time.Time  `json:"date"`
	DayNumber  int        `json:"dayNumber"`
	Activities []Activity `json:"activities"`
}

// Trip is the shared trip document. Mutations replace the whole document;
// Version is the optimistic concurrency token checked at the persistence
// boundary.
type Trip struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Destination  string          `json:"destination"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	Budget       decimal.Decimal `json:"budget"`
	Currency     Currency        `json:"currency"`
	Days         []Day           `json:"days"`
	Participants []Participant   `json:"participants"`
	Categories   []Category      `json:"categories"`
	OwnerEmail   string          `json:"ownerEmail"`
	IsCompleted  bool            `json:"isCompleted"`
	Preferences  TripPreferences `json:"preferences"`
	Version      int64           `json:"version"`
}

// FindParticipant returns the participant entry for the email, or nil.
func (t *Trip) FindParticipant(email string) *Participant {
	for i := range t.Participants {
		if t.Participants[i].Email == email {
			return &t.Participants[i]
		}
	}
	return nil
}

// HasParticipant reports whether the email is on the participant list.
func (t *Trip) HasParticipant(email string) bool {
	return t.FindParticipant(email) != nil
}

// IsOwner reports whether the email is the trip owner's.
func (t *Trip) IsOwner(email string) bool {
	return t.OwnerEmail == email
}

// CanEdit is the permission predicate every mutation gates on: the user must
// hold EDIT permission and the trip must not be concluded. A concluded trip
// is read-only for everyone, including the owner.
func (t *Trip) CanEdit(email string) bool {
	if t.IsCompleted {
		return false
	}
	p := t.FindParticipant(email)
	return p != nil && p.Permission == PermissionEdit
}

// FindActivity locates an activity by ID across all days and returns it with
// the index of the day that holds it. Activity IDs are unique within a trip,
// so the search stops at the first match.
func (t *Trip) FindActivity(activityID string) (*Activity, int) {
	for di := range t.Days {
		for ai := range t.Days[di].Activities {
			if t.Days[di].Activities[ai].ID == activityID {
				return &t.Days[di].Activities[ai], di
			}
		}
	}
	return nil, -1
}

// BuildDays generates the contiguous day sequence covering [start, end]
// inclusive, one entry per calendar day, day numbers ascending from 1.
// Dates are normalized to midnight UTC.
func BuildDays(start, end time.Time) []Day {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var days []Day
	number := 1
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:       d,
			DayNumber:  number,
			Activities: []Activity{},
		})
		number++
	}
	return days
}

// DefaultCategories returns the category set every new trip starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Hospedagem"},
		{ID: "2", Name: "Alimentação"},
		{ID: "3", Name: "Lazer"},
		{ID: "4", Name: "Transporte"},
		{ID: "5", Name: "Emergência"},
	}
}

// DefaultPreferences returns the preferences a new trip starts with.
func DefaultPreferences() TripPreferences {
	return TripPreferences{
		Likes:       []string{},
		Dislikes:    []string{},
		BudgetStyle: BudgetStyleConfortavel,
	}
}
