package cmd

import (
	"context"
	"fmt"
	"time"

	"townbank/application"
	"townbank/auth"
	"townbank/config"
	"townbank/database"
	"townbank/infrastructure"
	"townbank/infrastructure/observability"
	"townbank/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Run initializes the service and serves HTTP until ctx is cancelled
func Run(ctx context.Context, migrate bool) error {
	cfg := config.Get()
	log.WithField("environment", cfg.Environment).Info("Starting townbank...")

	if migrate {
		if err := database.MigrateUp(cfg.GetDatabaseURL()); err != nil {
			return err
		}
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()

	publisher, closePublisher, err := infrastructure.NewEventPublisher(ctx, cfg.NATSServers)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer closePublisher()

	infrastructure.RegisterMetricsHandlers(publisher, metrics)
	if cfg.AuditChannelID != "" {
		sink, err := infrastructure.NewDiscordAuditSink(cfg.DiscordToken, cfg.AuditChannelID)
		if err != nil {
			return err
		}
		sink.Register(publisher)
		log.WithField("channel", cfg.AuditChannelID).Info("Discord audit sink enabled")
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)
	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewService(cfg.JWTSecret, cfg.JWTTTL)

	cycleHandler := application.NewCycleHandler(uowFactory)
	handlers := server.Handlers{
		Accounts:  application.NewAccountHandler(uowFactory, hasher, tokens),
		Credits:   application.NewCreditHandler(uowFactory),
		Transfers: application.NewTransferHandler(uowFactory),
		Wagers:    application.NewWagerHandler(uowFactory, nil),
		Cycle:     cycleHandler,
		Roles:     application.NewRoleHandler(uowFactory, hasher),
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis is unreachable, rate limited routes will fail until it recovers")
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(handlers, server.Options{
		Tokens:            tokens,
		Redis:             redisClient,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		Metrics:           metrics,
		Ready:             func() error { return db.Pool.Ping(ctx) },
	})

	if cfg.CycleEndDayCron != "" || cfg.CycleEndNightCron != "" {
		scheduler, err := application.NewCycleScheduler(cycleHandler, cfg.CycleTimezone)
		if err != nil {
			return err
		}
		if _, err := scheduler.Schedule(ctx, cfg.CycleEndDayCron, cfg.CycleEndNightCron); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := server.New(cfg.HTTPAddr, router)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down townbank...")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown did not complete")
	}
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Failed to flush metrics")
	}

	log.Info("Shutdown completed")
	return nil
}
