package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"sharebnb/internal/auth"
	"sharebnb/internal/cache"
	"sharebnb/internal/config"
	"sharebnb/internal/db"
	"sharebnb/internal/handler"
	"sharebnb/internal/logging"
	"sharebnb/internal/middleware"
	"sharebnb/internal/model"
	"sharebnb/internal/repository"
	"sharebnb/internal/router"
	"sharebnb/internal/service"
	"sharebnb/internal/storage"
)

// @title ShareBnB API
// @version 1.0
// @description Listing, booking and messaging marketplace API with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	gormDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		logger.Warn(ctx, "RESET_DB set, dropping all tables")
		if err := gormDB.Migrator().DropTable(&model.Message{}, &model.Booking{}, &model.Listing{}, &model.Account{}); err != nil {
			logger.Warn(ctx, "drop tables", "error", err)
		}
	}

	if err := gormDB.AutoMigrate(
		&model.Account{},
		&model.Listing{},
		&model.Booking{},
		&model.Message{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, logger)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn(ctx, "redis unavailable, listing cache disabled", "addr", cfg.RedisAddr, "error", err)
	}

	photos, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("photo storage: %v", err)
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(gormDB)
	listingRepo := repository.NewListingRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)

	// Initialize auth components
	hashPool := auth.NewHashPool(auth.NewHasher(cfg.BcryptCost), cfg.HashWorkers)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize services
	credentials := service.NewCredentialStore(accountRepo, hashPool)
	authService := service.NewAuthService(credentials, jwtService)
	accountService := service.NewAccountService(accountRepo, bookingRepo)
	listingService := service.NewListingService(listingRepo, bookingRepo, messageRepo, photos, cacheClient, logger)
	messageService := service.NewMessageService(messageRepo, credentials)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, logger, middleware.Authenticate(jwtService, credentials, logger), router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Listings: handler.NewListingHandler(listingService),
		Messages: handler.NewMessageHandler(messageService),
		Users:    handler.NewUserHandler(accountService),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info(ctx, "server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		logger.Error(ctx, "shutdown", "error", err)
	}
}
