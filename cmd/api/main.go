package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/billboardhub/billboard-market/internal/api/http"
	"github.com/billboardhub/billboard-market/internal/api/http/handlers"
	"github.com/billboardhub/billboard-market/internal/api/validation"
	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/config"
	"github.com/billboardhub/billboard-market/internal/events"
	"github.com/billboardhub/billboard-market/internal/observability"
	"github.com/billboardhub/billboard-market/internal/persistence"
	"github.com/billboardhub/billboard-market/internal/repository"
	"github.com/billboardhub/billboard-market/internal/repository/memory"
	"github.com/billboardhub/billboard-market/internal/security"
	"github.com/billboardhub/billboard-market/internal/service"
	"github.com/billboardhub/billboard-market/internal/storage"
	"github.com/billboardhub/billboard-market/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	admins    repository.AdminRepository
	users     repository.UserRepository
	locations repository.LocationRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	quotes    repository.QuoteRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	hasher := auth.NewPasswordHasher(cfg.Auth)
	repos := buildRepositories(pg, hasher)

	// a nil *redis.Client inside the interface would not read as disabled
	var counters goredis.Cmdable
	if redis != nil {
		counters = redis.Client
	}

	images := buildImageStore(ctx, cfg.Storage, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	adminSessions := auth.NewAdminSessions(tokens, repos.admins)
	userSessions := auth.NewUserSessions(tokens, repos.users)

	deps := service.AuthDependencies{
		Hasher:   hasher,
		Guard:    security.NewLockout(counters, cfg.Auth, logger),
		Recorder: metrics,
		Logger:   logger,
	}

	dispatcher := events.NewInMemoryDispatcher(logger, metrics)
	notifications := service.NewNotificationService(logger, cfg.Notification)
	notifier := worker.NewNotificationWorker(notifications, logger, 0)
	notifier.Subscribe(dispatcher)
	notifier.Start()

	adminService := service.NewAdminService(repos.admins, adminSessions, deps)
	userService := service.NewUserService(repos.users, userSessions, images, deps)
	locationService := service.NewLocationService(repos.locations, logger)
	productService := service.NewProductService(repos.products, locationService, images, logger)
	orderService := service.NewOrderService(repos.orders, repos.quotes, repos.products, repos.users, dispatcher, logger)

	app := httptransport.NewApp(cfg.App, logger)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:      logger,
		Metrics:     metrics,
		Timeout:     cfg.App.RequestTimeout(),
		RateLimiter: security.NewRateLimiter(rateLimitClient(cfg.RateLimit, counters), cfg.RateLimit, logger),
	})

	validate := validation.New()
	var pgPing, redisPing handlers.Pinger
	if pg.Enabled() {
		pgPing = pg
	}
	if redis != nil {
		redisPing = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pgPing, redisPing),
		Users:     handlers.NewUsersHandler(userService, validate),
		Admins:    handlers.NewAdminsHandler(adminService, validate),
		Locations: handlers.NewLocationsHandler(locationService, validate),
		Products:  handlers.NewProductsHandler(productService, validate),
		Orders:    handlers.NewOrdersHandler(orderService, validate),
		AdminGate: auth.NewGate(adminSessions, metrics, logger),
		UserGate:  auth.NewGate(userSessions, metrics, logger),
		AnyGate:   auth.NewAnyGate(metrics, logger, adminSessions, userSessions),
		Metrics:   metrics.Handler(),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := notifier.Stop(stopCtx); err != nil {
		logger.Warn("notification worker shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres, hasher auth.PasswordHasher) repositories {
	if !pg.Enabled() {
		return repositories{
			admins:    memory.NewAdminRepository(hasher),
			users:     memory.NewUserRepository(hasher),
			locations: memory.NewLocationRepository(),
			products:  memory.NewProductRepository(),
			orders:    memory.NewOrderRepository(),
			quotes:    memory.NewQuoteRepository(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		admins:    repository.NewAdminRepository(pool, hasher),
		users:     repository.NewUserRepository(pool, hasher),
		locations: repository.NewLocationRepository(pool),
		products:  repository.NewProductRepository(pool),
		orders:    repository.NewOrderRepository(pool),
		quotes:    repository.NewQuoteRepository(pool),
	}
}

// buildImageStore returns nil when no bucket is configured, which turns
// uploads off.
func buildImageStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) service.ImageStore {
	if !cfg.Enabled() {
		logger.Warn("S3_BUCKET not set; image uploads disabled")
		return nil
	}
	store, err := storage.NewS3ImageStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("image storage unavailable; uploads disabled", zap.Error(err))
		return nil
	}
	return store
}

func rateLimitClient(cfg config.RateLimitConfig, client goredis.Cmdable) goredis.Cmdable {
	if !cfg.Enabled {
		return nil
	}
	return client
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
