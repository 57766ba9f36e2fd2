package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/carenest/marketplace/internal/api/http"
	"github.com/carenest/marketplace/internal/api/http/handlers"
	"github.com/carenest/marketplace/internal/auth"
	"github.com/carenest/marketplace/internal/config"
	"github.com/carenest/marketplace/internal/events"
	"github.com/carenest/marketplace/internal/observability"
	"github.com/carenest/marketplace/internal/persistence"
	"github.com/carenest/marketplace/internal/repository"
	"github.com/carenest/marketplace/internal/repository/memory"
	"github.com/carenest/marketplace/internal/service"
	"github.com/carenest/marketplace/internal/worker"
)

type repositories struct {
	accounts      repository.AccountRepository
	categories    repository.CategoryRepository
	bookings      repository.BookingRepository
	history       repository.BookingHistoryRepository
	reviews       repository.ReviewRepository
	cards         repository.CardRepository
	banks         repository.BankAccountRepository
	phoneSessions repository.PhoneSessionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, redis)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger, metrics)

	notificationService := service.NewNotificationService(dispatcher, nil, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	sessionService := service.NewPhoneSessionService(cfg.Auth, service.PhoneSessionDependencies{
		SessionRepo: repos.phoneSessions,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		PhoneSessions: sessionService,
		AccountRepo:   repos.accounts,
		CategoryRepo:  repos.categories,
		Tokens:        tokens,
		Logger:        logger,
	})
	bookingService := service.NewBookingService(cfg.Pricing, service.BookingDependencies{
		BookingRepo:  repos.bookings,
		HistoryRepo:  repos.history,
		AccountRepo:  repos.accounts,
		CategoryRepo: repos.categories,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		ReviewRepo:  repos.reviews,
		AccountRepo: repos.accounts,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	accountService := service.NewAccountService(repos.accounts)
	paymentService := service.NewPaymentService(repos.cards, repos.banks)
	catalogService := service.NewCatalogService(repos.categories)

	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	app := httptransport.NewServer(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		Routes: httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
			Auth:           handlers.NewAuthHandler(sessionService, authService, cfg.Auth.ExposeOTP),
			Accounts:       handlers.NewAccountHandler(accountService, paymentService),
			Bookings:       handlers.NewBookingHandler(bookingService, reviewService),
			Catalog:        handlers.NewCatalogHandler(catalogService),
			AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.accounts),
		},
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

// buildRepositories selects Postgres and Redis backed repositories when those
// stores are configured and falls back to one shared in-memory store otherwise.
func buildRepositories(pg *persistence.Postgres, redis *persistence.Redis) repositories {
	store := memory.NewStore()
	repos := repositories{
		accounts:      store.Accounts(),
		categories:    store.Categories(),
		bookings:      store.Bookings(),
		history:       store.BookingHistory(),
		reviews:       store.Reviews(),
		cards:         store.Cards(),
		banks:         store.BankAccounts(),
		phoneSessions: store.PhoneSessions(),
	}
	if pg.Enabled() {
		pool := pg.PoolHandle()
		repos.accounts = repository.NewAccountRepository(pool)
		repos.categories = repository.NewCategoryRepository(pool)
		repos.bookings = repository.NewBookingRepository(pool)
		repos.history = repository.NewBookingHistoryRepository(pool)
		repos.reviews = repository.NewReviewRepository(pool)
		repos.cards = repository.NewCardRepository(pool)
		repos.banks = repository.NewBankAccountRepository(pool)
	}
	if redis.Enabled() {
		repos.phoneSessions = repository.NewPhoneSessionRepository(redis.Client)
	}
	return repos
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
