// Package router wires the HTTP surface: global middleware, public auth
// and health routes, and the authenticated v1 API.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/planejatrip/planejatrip-backend/config"
	"github.com/planejatrip/planejatrip-backend/handlers"
	"github.com/planejatrip/planejatrip-backend/middleware"
)

// Dependencies holds everything route setup needs.
type Dependencies struct {
	Config            *config.Config
	RedisClient       *redis.Client
	TripHandler       *handlers.TripHandler
	InvitationHandler *handlers.InvitationHandler
	UserHandler       *handlers.UserHandler
	AuthHandler       *handlers.AuthHandler
	HealthHandler     *handlers.HealthHandler
}

// SetupRouter configures and returns the gin engine with all routes.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.GET("/health", deps.HealthHandler.ReadinessCheck)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		if deps.RedisClient != nil {
			window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
			if window <= 0 {
				window = time.Minute
			}
			authGroup.Use(middleware.AuthRateLimiter(deps.RedisClient,
				deps.Config.RateLimit.AuthRequestsPerMinute, window))
		}
		authGroup.POST("/login", deps.AuthHandler.LoginHandler)
		authGroup.POST("/refresh", deps.AuthHandler.RefreshTokenHandler)

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(&deps.Config.Supabase))
		{
			userRoutes := authed.Group("/users")
			{
				userRoutes.GET("/me", deps.UserHandler.GetCurrentUserHandler)
				userRoutes.PATCH("/me", deps.UserHandler.UpdateCurrentUserHandler)
				userRoutes.GET("/exists", deps.UserHandler.CheckEmailHandler)
			}

			invitationRoutes := authed.Group("/invitations")
			{
				invitationRoutes.GET("", deps.InvitationHandler.ListInvitationsHandler)
				invitationRoutes.POST("/:inviteId/accept", deps.InvitationHandler.AcceptInvitationHandler)
				invitationRoutes.POST("/:inviteId/decline", deps.InvitationHandler.DeclineInvitationHandler)
				invitationRoutes.POST("/:inviteId/resend", deps.InvitationHandler.ResendInvitationHandler)
				invitationRoutes.DELETE("/:inviteId", deps.InvitationHandler.DismissRejectionHandler)
			}

			tripRoutes := authed.Group("/trips")
			{
				tripRoutes.POST("", deps.TripHandler.CreateTripHandler)
				tripRoutes.GET("", deps.TripHandler.ListUserTripsHandler)
				tripRoutes.GET("/:id", deps.TripHandler.GetTripHandler)
				tripRoutes.PUT("/:id", deps.TripHandler.UpdateTripHandler)
				tripRoutes.DELETE("/:id", deps.TripHandler.DeleteTripHandler)
				tripRoutes.POST("/:id/conclude", deps.TripHandler.ConcludeTripHandler)

				tripRoutes.POST("/:id/activities", deps.TripHandler.SaveActivityHandler)
				tripRoutes.DELETE("/:id/activities/:activityId", deps.TripHandler.DeleteActivityHandler)
				tripRoutes.POST("/:id/activities/:activityId/confirm", deps.TripHandler.ConfirmActivityHandler)

				tripRoutes.PATCH("/:id/budget", deps.TripHandler.UpdateBudgetHandler)
				tripRoutes.PATCH("/:id/currency", deps.TripHandler.UpdateCurrencyHandler)
				tripRoutes.POST("/:id/categories", deps.TripHandler.AddCategoryHandler)
				tripRoutes.DELETE("/:id/categories/:categoryId", deps.TripHandler.RemoveCategoryHandler)
				tripRoutes.PATCH("/:id/preferences", deps.TripHandler.UpdatePreferencesHandler)

				tripRoutes.PUT("/:id/participants/:email/permission", deps.TripHandler.UpdateParticipantPermissionHandler)
				tripRoutes.DELETE("/:id/participants/:email", deps.TripHandler.RemoveParticipantHandler)

				tripRoutes.POST("/:id/invitations", deps.InvitationHandler.CreateInvitationHandler)

				tripRoutes.GET("/:id/finance/summary", deps.TripHandler.FinanceSummaryHandler)
				tripRoutes.GET("/:id/finance/categories", deps.TripHandler.FinanceCategoriesHandler)
				tripRoutes.GET("/:id/finance/individual", deps.TripHandler.FinanceIndividualHandler)
				tripRoutes.GET("/:id/finance/expenses", deps.TripHandler.FinanceExpensesHandler)
				tripRoutes.GET("/:id/finance/daily-estimates", deps.TripHandler.FinanceDailyEstimatesHandler)

				tripRoutes.GET("/:id/suggestion", deps.TripHandler.SuggestItineraryHandler)
			}
		}
	}

	return r
}
