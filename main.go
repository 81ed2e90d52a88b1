package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"

	"github.com/planejatrip/planejatrip-backend/config"
	"github.com/planejatrip/planejatrip-backend/db"
	"github.com/planejatrip/planejatrip-backend/handlers"
	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/planejatrip/planejatrip-backend/models"
	"github.com/planejatrip/planejatrip-backend/router"
	"github.com/planejatrip/planejatrip-backend/services"
)

const version = "1.0.0"

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := db.ConnectPool(ctx, cfg.Database.ConnString(), cfg.Database.MaxOpenConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Server.Environment == config.EnvProduction {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		_ = redisClient.Close()
	}()

	supabaseClient, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, &supabase.ClientOptions{})
	if err != nil {
		log.Fatalf("Failed to create identity client: %v", err)
	}

	dbClient := db.NewDatabaseClient(pool)
	tripDB := db.NewTripDB(dbClient)
	inviteDB := db.NewInviteDB(dbClient)
	userDB := db.NewUserDB(dbClient)

	emailService := services.NewEmailService(&cfg.Email)
	suggestionService := services.NewSuggestionService(&cfg.Suggestion)

	tripModel := models.NewTripModel(tripDB)
	inviteModel := models.NewInviteModel(inviteDB, tripDB, userDB, emailService)

	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		RedisClient:       redisClient,
		TripHandler:       handlers.NewTripHandler(tripModel, suggestionService),
		InvitationHandler: handlers.NewInvitationHandler(inviteModel),
		UserHandler:       handlers.NewUserHandler(userDB),
		AuthHandler:       handlers.NewAuthHandler(supabaseClient),
		HealthHandler:     handlers.NewHealthHandler(pool, redisClient, version),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
}
