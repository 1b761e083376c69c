package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	agentapp "github.com/sopas/backend/internal/application/agent"
	catalogapp "github.com/sopas/backend/internal/application/catalog"
	identityapp "github.com/sopas/backend/internal/application/identity"
	"github.com/sopas/backend/internal/application/importer"
	partyapp "github.com/sopas/backend/internal/application/party"
	storeapp "github.com/sopas/backend/internal/application/store"
	tradeapp "github.com/sopas/backend/internal/application/trade"
	"github.com/sopas/backend/internal/domain/identity"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/infrastructure/auth"
	"github.com/sopas/backend/internal/infrastructure/config"
	"github.com/sopas/backend/internal/infrastructure/logger"
	"github.com/sopas/backend/internal/infrastructure/mail"
	"github.com/sopas/backend/internal/infrastructure/otp"
	"github.com/sopas/backend/internal/infrastructure/persistence"
	"github.com/sopas/backend/internal/infrastructure/telemetry"
	"github.com/sopas/backend/internal/interfaces/http/handler"
	"github.com/sopas/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting SOPAS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracer, err := telemetry.NewTracerProvider(context.Background(), cfg.App.Name, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Telemetry.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	var otpStore identity.OTPStore
	if redisStore, err := otp.NewRedisOTPStore(cfg.Redis); err != nil {
		// The in-memory store keeps single-instance deployments working
		// when Redis is unreachable. Codes do not survive a restart.
		log.Warn("Redis unavailable, falling back to in-memory OTP store", zap.Error(err))
		otpStore = otp.NewInMemoryOTPStore()
	} else {
		otpStore = redisStore
		log.Info("Redis OTP store connected")
	}

	// Repositories
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	agentRepo := persistence.NewGormAgentRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionOrderRepository(db.DB)
	importRecordRepo := persistence.NewGormImportRecordRepository(db.DB)

	alloc := numbering.NewAllocator(persistence.NewGormSequenceStore(db.DB))
	txm := persistence.NewGormTxManager(db.DB)
	jwtService := auth.NewJWTService(cfg.JWT)
	mailSender := mail.NewLogSender(log, cfg.Mail)

	// Application services
	partyService := partyapp.NewService(partyRepo, alloc, txm, log)
	agentService := agentapp.NewService(agentRepo, alloc, txm, log)
	storeService := storeapp.NewService(storeRepo, alloc, txm, log)
	orderService := tradeapp.NewService(orderRepo, alloc, txm, log)
	productService := catalogapp.NewService(productRepo, alloc, txm, log)
	authService := identityapp.NewAuthService(userRepo, subscriptionRepo, otpStore, alloc, txm, jwtService, mailSender, log)
	subscriptionService := identityapp.NewSubscriptionService(subscriptionRepo)

	partyImporter := importer.NewPartyImporter(partyRepo, alloc, txm, importRecordRepo, log)
	agentImporter := importer.NewAgentImporter(agentRepo, alloc, txm, importRecordRepo, log)
	storeImporter := importer.NewStoreImporter(storeRepo, alloc, txm, importRecordRepo, log)
	importHistory := importer.NewHistoryService(importRecordRepo)

	engine := router.New(router.Options{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
	},
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(authService),
		handler.NewSubscriptionHandler(subscriptionService),
		handler.NewPartyHandler(partyService),
		handler.NewAgentHandler(agentService),
		handler.NewStoreHandler(storeService),
		handler.NewOrderHandler(orderService),
		handler.NewProductHandler(productService),
		handler.NewImportHandler(partyImporter, agentImporter, storeImporter, importHistory, cfg.Upload),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
