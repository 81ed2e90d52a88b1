// Package finance derives spending figures from a trip document. All
// amounts are decimal; fractional splits never go through float64.
//
// Only confirmed activities contribute to spend totals. Cost splitting keys
// on participant names: an activity's real cost is divided equally among
// the names fixed on it at confirmation, not the trip's full roster.
package finance

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/planejatrip/planejatrip-backend/types"
)

// SortOrder selects the ordering of the individual spending listing.
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortNameAsc   SortOrder = "name_asc"
	SortSpentAsc  SortOrder = "spent_asc"
	SortSpentDesc SortOrder = "spent_desc"
)

// IsValid checks if the sort order is a known one.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortDefault, SortNameAsc, SortSpentAsc, SortSpentDesc:
		return true
	default:
		return false
	}
}

// CategoryTotal is one slice of the spending-by-category breakdown.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// ParticipantSpend is one traveler's attributed spending.
type ParticipantSpend struct {
	Name  string          `json:"name"`
	Spent decimal.Decimal `json:"spent"`
}

// Summary is the headline financial view of a trip.
type Summary struct {
	Currency       types.Currency  `json:"currency"`
	Budget         decimal.Decimal `json:"budget"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	Remaining      decimal.Decimal `json:"remaining"`
	CostPerPerson  decimal.Decimal `json:"costPerPerson"`
	SuggestedDaily decimal.Decimal `json:"suggestedDailyBudget"`
}

// ConfirmedActivities flattens the trip's days into the confirmed activity
// list the rest of the engine works from.
func ConfirmedActivities(trip *types.Trip) []types.Activity {
	var confirmed []types.Activity
	for _, day := range trip.Days {
		for _, act := range day.Activities {
			if act.IsConfirmed {
				confirmed = append(confirmed, act)
			}
		}
	}
	return confirmed
}

// realCost treats a missing real cost as zero. The confirmation invariant
// makes that impossible for confirmed activities, but the engine stays
// defensive about documents written by older clients.
func realCost(act types.Activity) decimal.Decimal {
	if act.RealCost == nil {
		return decimal.Zero
	}
	return *act.RealCost
}

// splitCount never reports fewer than one participant, so a confirmed
// activity with an empty participant list attributes its whole cost rather
// than dividing by zero.
func splitCount(act types.Activity) decimal.Decimal {
	if len(act.Participants) == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(len(act.Participants)))
}

func includesName(act types.Activity, name string) bool {
	for _, p := range act.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// TotalSpent sums the real cost of every confirmed activity.
func TotalSpent(trip *types.Trip) decimal.Decimal {
	total := decimal.Zero
	for _, act := range ConfirmedActivities(trip) {
		total = total.Add(realCost(act))
	}
	return total
}

// SpendByCategory groups confirmed spending by category, sorted descending
// by value. With a traveler selected, only activities that include the
// traveler count, and each contributes its equal-split share instead of its
// full cost. The result is empty when nothing matches, which callers render
// as "no chart".
func SpendByCategory(trip *types.Trip, traveler string) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, act := range ConfirmedActivities(trip) {
		if traveler != "" && !includesName(act, traveler) {
			continue
		}
		cost := realCost(act)
		if traveler != "" {
			cost = cost.Div(splitCount(act))
		}
		if _, seen := totals[act.Category]; !seen {
			order = append(order, act.Category)
		}
		totals[act.Category] = totals[act.Category].Add(cost)
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		result = append(result, CategoryTotal{Name: name, Value: totals[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value.GreaterThan(result[j].Value)
	})
	return result
}

// IndividualSpending attributes spending per trip participant: for every
// confirmed activity that names the participant, the participant accrues
// realCost divided by the activity's own participant count. A participant
// on three three-way splits accrues three one-third shares.
func IndividualSpending(trip *types.Trip, order SortOrder) []ParticipantSpend {
	confirmed := ConfirmedActivities(trip)
	spending := make([]ParticipantSpend, 0, len(trip.Participants))
	for _, participant := range trip.Participants {
		total := decimal.Zero
		for _, act := range confirmed {
			if includesName(act, participant.Name) {
				total = total.Add(realCost(act).Div(splitCount(act)))
			}
		}
		spending = append(spending, ParticipantSpend{Name: participant.Name, Spent: total})
	}

	switch order {
	case SortNameAsc:
		sort.SliceStable(spending, func(i, j int) bool {
			return strings.Compare(spending[i].Name, spending[j].Name) < 0
		})
	case SortSpentAsc:
		sort.SliceStable(spending, func(i, j int) bool {
			return spending[i].Spent.LessThan(spending[j].Spent)
		})
	case SortSpentDesc:
		sort.SliceStable(spending, func(i, j int) bool {
			return spending[i].Spent.GreaterThan(spending[j].Spent)
		})
	}
	// SortDefault keeps the participant-list insertion order.
	return spending
}

// CostPerPerson is the equal-mode share: total confirmed spend divided
// evenly across the trip's full roster, ignoring per-activity participation.
func CostPerPerson(trip *types.Trip) decimal.Decimal {
	count := int64(len(trip.Participants))
	if count == 0 {
		count = 1
	}
	return TotalSpent(trip).Div(decimal.NewFromInt(count))
}

// SuggestedDailyBudget spreads the budget across the trip's days and
// participants.
func SuggestedDailyBudget(trip *types.Trip) decimal.Decimal {
	days := int64(len(trip.Days))
	if days == 0 {
		days = 1
	}
	participants := int64(len(trip.Participants))
	if participants == 0 {
		participants = 1
	}
	return trip.Budget.
		Div(decimal.NewFromInt(days)).
		Div(decimal.NewFromInt(participants))
}

// Summarize computes the headline figures. Remaining is signed: a negative
// value means the trip is over budget, and it is returned as such.
func Summarize(trip *types.Trip) Summary {
	total := TotalSpent(trip)
	return Summary{
		Currency:       trip.Currency,
		Budget:         trip.Budget,
		TotalSpent:     total,
		Remaining:      trip.Budget.Sub(total),
		CostPerPerson:  CostPerPerson(trip),
		SuggestedDaily: SuggestedDailyBudget(trip),
	}
}

// DayEstimate is one day's planned spend, summed over every activity on
// the day regardless of confirmation.
type DayEstimate struct {
	DayNumber int             `json:"dayNumber"`
	Estimated decimal.Decimal `json:"estimated"`
}

// EstimatedByDay sums the estimated cost of each day's activities, in day
// order. Confirmed activities still contribute their estimate here: this
// is the planning view, not the spend ledger.
func EstimatedByDay(trip *types.Trip) []DayEstimate {
	estimates := make([]DayEstimate, 0, len(trip.Days))
	for _, day := range trip.Days {
		total := decimal.Zero
		for _, act := range day.Activities {
			total = total.Add(act.EstimatedCost)
		}
		estimates = append(estimates, DayEstimate{DayNumber: day.DayNumber, Estimated: total})
	}
	return estimates
}

// FilteredExpenses lists confirmed activities, optionally narrowed to those
// that include the traveler, newest day first for display.
func FilteredExpenses(trip *types.Trip, traveler string) []types.Activity {
	var expenses []types.Activity
	for i := len(trip.Days) - 1; i >= 0; i-- {
		for _, act := range trip.Days[i].Activities {
			if !act.IsConfirmed {
				continue
			}
			if traveler != "" && !includesName(act, traveler) {
				continue
			}
			expenses = append(expenses, act)
		}
	}
	return expenses
}
