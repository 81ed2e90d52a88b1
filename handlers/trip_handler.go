package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/models"
	"github.com/planejatrip/planejatrip-backend/models/finance"
	"github.com/planejatrip/planejatrip-backend/services"
	"github.com/planejatrip/planejatrip-backend/types"
)

// TripHandler exposes the trip document and its fine-grained mutations.
type TripHandler struct {
	tripModel   *models.TripModel
	suggestions *services.SuggestionService
}

func NewTripHandler(tripModel *models.TripModel, suggestions *services.SuggestionService) *TripHandler {
	return &TripHandler{tripModel: tripModel, suggestions: suggestions}
}

type createTripRequest struct {
	Name        string          `json:"name"`
	Destination string          `json:"destination" binding:"required"`
	StartDate   time.Time       `json:"startDate" binding:"required"`
	EndDate     time.Time       `json:"endDate" binding:"required"`
	Budget      decimal.Decimal `json:"budget"`
	Currency    types.Currency  `json:"currency" binding:"required"`
}

func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := h.tripModel.CreateTrip(c.Request.Context(), user, models.CreateTripParams{
		Name:        req.Name,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		Currency:    req.Currency,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (h *TripHandler) ListUserTripsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	trips, err := h.tripModel.ListUserTrips(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (h *TripHandler) GetTripHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	trip, err := h.tripModel.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !trip.HasParticipant(user.Email) {
		_ = c.Error(apperrors.TripAccessDenied(user.Email, trip.ID))
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) UpdateTripHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var submitted types.Trip
	if !bindJSON(c, &submitted) {
		return
	}

	result, err := h.tripModel.UpdateTrip(c.Request.Context(), user.Email, c.Param("id"), submitted)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mutationResponse{Trip: result.Trip, RemovedSelf: result.ActorRemoved})
}

func (h *TripHandler) DeleteTripHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.tripModel.DeleteTrip(c.Request.Context(), user.Email, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted successfully"})
}

func (h *TripHandler) ConcludeTripHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.tripModel.ConcludeTrip(c.Request.Context(), user.Email, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

type saveActivityRequest struct {
	DayNumber int            `json:"dayNumber" binding:"required"`
	Activity  types.Activity `json:"activity" binding:"required"`
}

func (h *TripHandler) SaveActivityHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req saveActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tripModel.SaveActivity(c.Request.Context(), user.Email, c.Param("id"), req.DayNumber, req.Activity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

func (h *TripHandler) DeleteActivityHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.tripModel.DeleteActivity(c.Request.Context(), user.Email, c.Param("id"), c.Param("activityId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

type confirmActivityRequest struct {
	RealCost     decimal.Decimal `json:"realCost"`
	Participants []string        `json:"participants"`
}

func (h *TripHandler) ConfirmActivityHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req confirmActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tripModel.ConfirmActivity(c.Request.Context(), user.Email, c.Param("id"),
		c.Param("activityId"), req.RealCost, req.Participants)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

type updateBudgetRequest struct {
	Budget decimal.Decimal `json:"budget"`
}

func (h *TripHandler) UpdateBudgetHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req updateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.tripModel.UpdateBudget(c.Request.Context(), user.Email, c.Param("id"), req.Budget)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

type updateCurrencyRequest struct {
	Currency types.Currency `json:"currency" binding:"required"`
}

func (h *TripHandler) UpdateCurrencyHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req updateCurrencyRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.tripModel.UpdateCurrency(c.Request.Context(), user.Email, c.Param("id"), req.Currency)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

type addCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *TripHandler) AddCategoryHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req addCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.tripModel.AddCategory(c.Request.Context(), user.Email, c.Param("id"), req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

func (h *TripHandler) RemoveCategoryHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.tripModel.RemoveCategory(c.Request.Context(), user.Email, c.Param("id"), c.Param("categoryId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

func (h *TripHandler) UpdatePreferencesHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var prefs types.TripPreferences
	if !bindJSON(c, &prefs) {
		return
	}
	result, err := h.tripModel.UpdatePreferences(c.Request.Context(), user.Email, c.Param("id"), prefs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result.Trip)
}

type updatePermissionRequest struct {
	Permission types.Permission `json:"permission" binding:"required"`
}

func (h *TripHandler) UpdateParticipantPermissionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req updatePermissionRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.tripModel.SetParticipantPermission(c.Request.Context(), user.Email, c.Param("id"),
		c.Param("email"), req.Permission)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mutationResponse{Trip: result.Trip, RemovedSelf: result.ActorRemoved})
}

func (h *TripHandler) RemoveParticipantHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.tripModel.RemoveParticipant(c.Request.Context(), user.Email, c.Param("id"), c.Param("email"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mutationResponse{Trip: result.Trip, RemovedSelf: result.ActorRemoved})
}

// loadTripForViewer loads the trip and checks the caller participates.
// Finance views are read-only, so VIEW_ONLY participants and completed
// trips are fine.
func (h *TripHandler) loadTripForViewer(c *gin.Context) (*types.Trip, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	trip, err := h.tripModel.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	if !trip.HasParticipant(user.Email) {
		_ = c.Error(apperrors.TripAccessDenied(user.Email, trip.ID))
		return nil, false
	}
	return trip, true
}

func (h *TripHandler) FinanceSummaryHandler(c *gin.Context) {
	trip, ok := h.loadTripForViewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, finance.Summarize(trip))
}

func (h *TripHandler) FinanceCategoriesHandler(c *gin.Context) {
	trip, ok := h.loadTripForViewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, finance.SpendByCategory(trip, c.Query("traveler")))
}

func (h *TripHandler) FinanceIndividualHandler(c *gin.Context) {
	trip, ok := h.loadTripForViewer(c)
	if !ok {
		return
	}
	order := finance.SortOrder(c.DefaultQuery("sort", string(finance.SortDefault)))
	if !order.IsValid() {
		_ = c.Error(apperrors.ValidationFailed("invalid_sort_order",
			"Sort must be one of default, name_asc, spent_asc, spent_desc"))
		return
	}
	c.JSON(http.StatusOK, finance.IndividualSpending(trip, order))
}

func (h *TripHandler) FinanceDailyEstimatesHandler(c *gin.Context) {
	trip, ok := h.loadTripForViewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, finance.EstimatedByDay(trip))
}

func (h *TripHandler) FinanceExpensesHandler(c *gin.Context) {
	trip, ok := h.loadTripForViewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, finance.FilteredExpenses(trip, c.Query("traveler")))
}

func (h *TripHandler) SuggestItineraryHandler(c *gin.Context) {
	trip, ok := h.loadTripForViewer(c)
	if !ok {
		return
	}
	if h.suggestions == nil {
		_ = c.Error(apperrors.InternalServerError("Suggestion service is not configured"))
		return
	}
	text, err := h.suggestions.SuggestItinerary(c.Request.Context(), trip)
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.ServerError, "Failed to generate itinerary suggestion"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": text})
}
