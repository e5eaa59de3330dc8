package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/cache"
	"intellibiz-backend/config"
	"intellibiz-backend/controllers"
	"intellibiz-backend/models"
	"intellibiz-backend/repository"
	"intellibiz-backend/routes"
	"intellibiz-backend/services"
	"intellibiz-backend/utils"
)

const (
	oauthTimeout    = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.InitLogger("intellibiz-backend", cfg.Environment)
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}

	var listings cache.ListingCache = cache.Nop{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure Redis")
		}
		listings = cache.NewRedisListingCache(client, cfg.CacheTTL)
		log.Info().Msg("Listing cache enabled")
	}

	var notifier services.Notifier = services.NopNotifier{}
	var sender services.SMSSender
	if cfg.TwilioEnabled() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		notifier = services.NewSMSNotifier(store.Users, sender)
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiryHours)
	svc := services.New(services.Deps{
		Store:    store,
		Tokens:   tokens,
		Cache:    listings,
		Notifier: notifier,
		OAuth:    oauthVerifiers(cfg),
	})

	if err := svc.Auth.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	var reminders *services.ReminderService
	if sender != nil {
		reminders = services.NewReminderService(store, sender, nil)
		if err := reminders.StartScheduler(cfg.ReminderCron); err != nil {
			log.Fatal().Err(err).Msg("Failed to start reminder scheduler")
		}
	} else {
		log.Info().Msg("Twilio not configured; reminders and notifications disabled")
	}

	r := routes.SetupRouter(cfg, controllers.NewHandler(svc), tokens, store.Users)
	printRoutes(r)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Server shutting down")

	if reminders != nil {
		reminders.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
}

// oauthVerifiers registers only the providers whose app credentials are set.
func oauthVerifiers(cfg *config.Config) map[string]services.OAuthVerifier {
	verifiers := map[string]services.OAuthVerifier{}
	if cfg.GoogleEnabled() {
		verifiers[models.ProviderGoogle] = services.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleTokenInfoURL, cfg.GoogleUserInfoURL, oauthTimeout)
	}
	if cfg.FacebookEnabled() {
		verifiers[models.ProviderFacebook] = services.NewFacebookVerifier(cfg.FacebookAppID, cfg.FacebookAppSecret, cfg.FacebookGraphURL, oauthTimeout)
	}
	return verifiers
}

func openStore(cfg *config.Config) (*repository.Store, error) {
	if cfg.DBDriver == "memory" {
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return repository.NewMemoryStore(), nil
	}
	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return repository.NewGormStore(db), nil
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Debug().Str("method", route.Method).Str("path", route.Path).Msg("route")
	}
}
