package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planejatrip/planejatrip-backend/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func financeTrip() *types.Trip {
	return &types.Trip{
		ID:         "trip-1",
		Budget:     dec("1000"),
		Currency:   types.CurrencyBRL,
		OwnerEmail: "ana@example.com",
		Participants: []types.Participant{
			{Name: "Ana", Email: "ana@example.com", Permission: types.PermissionEdit},
			{Name: "Bruno", Email: "bruno@example.com", Permission: types.PermissionEdit},
		},
		Days: []types.Day{
			{
				DayNumber: 1,
				Activities: []types.Activity{
					{
						ID: "a1", Name: "Hotel", Category: "Hospedagem",
						IsConfirmed: true, RealCost: decPtr("120"),
						Participants: []string{"Ana", "Bruno"},
					},
					{
						ID: "a2", Name: "Passeio", Category: "Lazer",
						EstimatedCost: dec("300"),
					},
				},
			},
			{
				DayNumber: 2,
				Activities: []types.Activity{
					{
						ID: "a3", Name: "Jantar", Category: "Alimentação",
						IsConfirmed: true, RealCost: decPtr("80"),
						Participants: []string{"Ana", "Bruno"},
					},
				},
			},
		},
	}
}

func TestTotalSpentIgnoresUnconfirmed(t *testing.T) {
	trip := financeTrip()
	assert.True(t, TotalSpent(trip).Equal(dec("200")),
		"only confirmed real costs count, estimates never do")
}

func TestSummarize(t *testing.T) {
	trip := financeTrip()
	summary := Summarize(trip)

	assert.Equal(t, types.CurrencyBRL, summary.Currency)
	assert.True(t, summary.Budget.Equal(dec("1000")))
	assert.True(t, summary.TotalSpent.Equal(dec("200")))
	assert.True(t, summary.Remaining.Equal(dec("800")))
	assert.True(t, summary.CostPerPerson.Equal(dec("100")))
	// 1000 budget / 2 days / 2 participants
	assert.True(t, summary.SuggestedDaily.Equal(dec("250")))
}

func TestSummarizeOverBudgetStaysNegative(t *testing.T) {
	trip := financeTrip()
	trip.Budget = dec("150")

	summary := Summarize(trip)
	assert.True(t, summary.Remaining.Equal(dec("-50")),
		"remaining is signed, never clamped at zero")
}

func TestIndividualSpendingEqualShares(t *testing.T) {
	trip := financeTrip()

	spending := IndividualSpending(trip, SortDefault)
	assert.Len(t, spending, 2)
	assert.Equal(t, "Ana", spending[0].Name)
	assert.True(t, spending[0].Spent.Equal(dec("100")))
	assert.True(t, spending[1].Spent.Equal(dec("100")))
}

func TestIndividualSpendingSplitsByActivityParticipants(t *testing.T) {
	trip := financeTrip()
	// 90 split three ways among Ana, Bruno, Carla
	trip.Participants = append(trip.Participants,
		types.Participant{Name: "Carla", Email: "carla@example.com", Permission: types.PermissionViewOnly})
	trip.Days[0].Activities = append(trip.Days[0].Activities, types.Activity{
		ID: "a4", Name: "Tour", Category: "Lazer",
		IsConfirmed: true, RealCost: decPtr("90"),
		Participants: []string{"Ana", "Bruno", "Carla"},
	})
	// Solo expense for Ana
	trip.Days[1].Activities = append(trip.Days[1].Activities, types.Activity{
		ID: "a5", Name: "Compras", Category: "Lazer",
		IsConfirmed: true, RealCost: decPtr("50"),
		Participants: []string{"Ana"},
	})

	spending := IndividualSpending(trip, SortDefault)
	byName := map[string]decimal.Decimal{}
	for _, s := range spending {
		byName[s.Name] = s.Spent
	}

	assert.True(t, byName["Ana"].Equal(dec("180")), "100 + 30 + 50, got %s", byName["Ana"])
	assert.True(t, byName["Bruno"].Equal(dec("130")))
	assert.True(t, byName["Carla"].Equal(dec("30")),
		"a participant only accrues shares of activities that name them")
}

func TestIndividualSpendingSortOrders(t *testing.T) {
	trip := financeTrip()
	trip.Days[1].Activities = append(trip.Days[1].Activities, types.Activity{
		ID: "a5", Name: "Compras", Category: "Lazer",
		IsConfirmed: true, RealCost: decPtr("50"),
		Participants: []string{"Bruno"},
	})
	// Default order: Ana 100, Bruno 150

	names := func(spending []ParticipantSpend) []string {
		out := make([]string, len(spending))
		for i, s := range spending {
			out[i] = s.Name
		}
		return out
	}

	assert.Equal(t, []string{"Ana", "Bruno"}, names(IndividualSpending(trip, SortDefault)))
	assert.Equal(t, []string{"Ana", "Bruno"}, names(IndividualSpending(trip, SortNameAsc)))
	assert.Equal(t, []string{"Ana", "Bruno"}, names(IndividualSpending(trip, SortSpentAsc)))
	assert.Equal(t, []string{"Bruno", "Ana"}, names(IndividualSpending(trip, SortSpentDesc)))
}

func TestIndividualSpendingZeroForInactive(t *testing.T) {
	trip := financeTrip()
	trip.Participants = append(trip.Participants,
		types.Participant{Name: "Diego", Email: "diego@example.com", Permission: types.PermissionViewOnly})

	spending := IndividualSpending(trip, SortDefault)
	assert.Len(t, spending, 3)
	assert.True(t, spending[2].Spent.IsZero(),
		"every roster participant appears, even with no attributed spending")
}

func TestSpendByCategorySortedDescending(t *testing.T) {
	trip := financeTrip()

	totals := SpendByCategory(trip, "")
	assert.Len(t, totals, 2)
	assert.Equal(t, "Hospedagem", totals[0].Name)
	assert.True(t, totals[0].Value.Equal(dec("120")))
	assert.Equal(t, "Alimentação", totals[1].Name)
	assert.True(t, totals[1].Value.Equal(dec("80")))
}

func TestSpendByCategoryTravelerFilter(t *testing.T) {
	trip := financeTrip()
	trip.Days[0].Activities = append(trip.Days[0].Activities, types.Activity{
		ID: "a4", Name: "Spa", Category: "Lazer",
		IsConfirmed: true, RealCost: decPtr("60"),
		Participants: []string{"Bruno"},
	})

	totals := SpendByCategory(trip, "Ana")
	byName := map[string]decimal.Decimal{}
	for _, ct := range totals {
		byName[ct.Name] = ct.Value
	}

	// Ana's shares: 120/2 and 80/2; the Bruno-only activity is excluded.
	assert.Len(t, totals, 2)
	assert.True(t, byName["Hospedagem"].Equal(dec("60")))
	assert.True(t, byName["Alimentação"].Equal(dec("40")))
}

func TestSpendByCategoryEmptyWhenNothingConfirmed(t *testing.T) {
	trip := financeTrip()
	for di := range trip.Days {
		for ai := range trip.Days[di].Activities {
			trip.Days[di].Activities[ai].IsConfirmed = false
		}
	}

	assert.Empty(t, SpendByCategory(trip, ""))
	assert.True(t, TotalSpent(trip).IsZero())
}

func TestCostPerPersonEmptyRoster(t *testing.T) {
	trip := financeTrip()
	trip.Participants = nil

	assert.True(t, CostPerPerson(trip).Equal(dec("200")),
		"an empty roster divides by one, not zero")
}

func TestSuggestedDailyBudgetNoDays(t *testing.T) {
	trip := financeTrip()
	trip.Days = nil

	assert.True(t, SuggestedDailyBudget(trip).Equal(dec("500")))
}

func TestConfirmedActivityWithoutParticipantsAttributesWholeCost(t *testing.T) {
	trip := financeTrip()
	trip.Days[0].Activities = []types.Activity{{
		ID: "a1", Name: "Taxi", Category: "Transporte",
		IsConfirmed: true, RealCost: decPtr("45"),
	}}
	trip.Days[1].Activities = nil

	totals := SpendByCategory(trip, "")
	assert.Len(t, totals, 1)
	assert.True(t, totals[0].Value.Equal(dec("45")))

	spending := IndividualSpending(trip, SortDefault)
	for _, s := range spending {
		assert.True(t, s.Spent.IsZero(), "no one is named, so no one accrues the cost")
	}
}

func TestEstimatedByDay(t *testing.T) {
	trip := financeTrip()
	trip.Days[0].Activities[0].EstimatedCost = dec("100")
	// Day 1: 100 + 300 planned; day 2 has no estimates set.

	estimates := EstimatedByDay(trip)
	require.Len(t, estimates, 2)
	assert.Equal(t, 1, estimates[0].DayNumber)
	assert.True(t, estimates[0].Estimated.Equal(dec("400")))
	assert.True(t, estimates[1].Estimated.IsZero())
}

func TestFilteredExpenses(t *testing.T) {
	trip := financeTrip()

	all := FilteredExpenses(trip, "")
	assert.Len(t, all, 2)
	assert.Equal(t, "a3", all[0].ID, "newest day first")
	assert.Equal(t, "a1", all[1].ID)

	trip.Days[0].Activities[0].Participants = []string{"Bruno"}
	onlyAna := FilteredExpenses(trip, "Ana")
	assert.Len(t, onlyAna, 1)
	assert.Equal(t, "a3", onlyAna[0].ID)
}
