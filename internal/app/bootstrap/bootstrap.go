package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	authorization "vendorhub/contexts/identity-access/authorization-service"
	authcache "vendorhub/contexts/identity-access/authorization-service/adapters/cache"
	authmemory "vendorhub/contexts/identity-access/authorization-service/adapters/memory"
	authpostgres "vendorhub/contexts/identity-access/authorization-service/adapters/postgres"
	authworkers "vendorhub/contexts/identity-access/authorization-service/application/workers"
	authports "vendorhub/contexts/identity-access/authorization-service/ports"
	dealservice "vendorhub/contexts/vendor-marketplace/deal-service"
	"vendorhub/contexts/vendor-marketplace/deal-service/adapters/catalog"
	dealpostgres "vendorhub/contexts/vendor-marketplace/deal-service/adapters/postgres"
	dealworkers "vendorhub/contexts/vendor-marketplace/deal-service/application/workers"
	"vendorhub/internal/platform/cache"
	"vendorhub/internal/platform/config"
	"vendorhub/internal/platform/db"
	"vendorhub/internal/platform/httpserver"
	"vendorhub/internal/platform/messaging"
	"vendorhub/internal/platform/metrics"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	idempotencyTTL      = 7 * 24 * time.Hour
	dealClosedTopic     = "vendor.deal_closed"
	roleChangedTopic    = authports.RoleChangedEventType
	roleChangedGroup    = "authz-role-cache-cg"
	shutdownGracePeriod = 10 * time.Second
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *redis.Client
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	redis        *redis.Client
	bus          *messaging.Kafka
	vendorRelay  dealworkers.OutboxRelay
	roleRelay    authworkers.OutboxRelay
	roleConsumer authworkers.RoleChangedConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewLogger builds the process JSON logger and installs it as the slog default.
func NewLogger(cfg config.Config, process string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(handler).With("service", cfg.ServiceName, "process", process)
	slog.SetDefault(logger)
	return logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "api")
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	processMetrics, err := metrics.New()
	if err != nil {
		return nil, err
	}

	roleCache, redisClient, err := buildRoleCache(cfg)
	if err != nil {
		return nil, err
	}

	app := &APIApp{redis: redisClient, logger: logger}
	var (
		vendors     dealservice.Module
		authzModule authorization.Module
	)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory stores",
			"event", "bootstrap_memory_mode",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		vendors = dealservice.NewInMemoryModule(logger)
		store := authmemory.NewStore()
		authzModule = authorization.NewModule(authorization.Dependencies{
			Repository:     store,
			Idempotency:    store,
			RoleCache:      roleCache,
			Clock:          store,
			IDGenerator:    store,
			IdempotencyTTL: idempotencyTTL,
			CacheTTL:       cfg.RoleCacheTTL,
			Logger:         logger,
		})
	} else {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			app.closeRedis()
			return nil, err
		}
		app.postgres = pg

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		dealRepo := dealpostgres.NewRepository(pg.DB, logger)
		authRepo := authpostgres.NewRepository(pg.DB, logger)
		if err := dealRepo.Migrate(ctx); err != nil {
			_ = app.Close()
			return nil, err
		}
		if err := authRepo.Migrate(ctx); err != nil {
			_ = app.Close()
			return nil, err
		}

		vendors = dealservice.NewModule(dealservice.Dependencies{
			Vendors:     dealRepo,
			Catalog:     catalog.MustDefault(),
			Clock:       dealpostgres.SystemClock{},
			IDGenerator: dealpostgres.UUIDGenerator{},
			Logger:      logger,
		})
		authzModule = authorization.NewModule(authorization.Dependencies{
			Repository:     authRepo,
			Idempotency:    authRepo,
			RoleCache:      roleCache,
			Clock:          authpostgres.SystemClock{},
			IDGenerator:    authpostgres.UUIDGenerator{},
			IdempotencyTTL: idempotencyTTL,
			CacheTTL:       cfg.RoleCacheTTL,
			Logger:         logger,
		})
	}

	if len(cfg.BootstrapAdmins) > 0 {
		granted, err := authzModule.Bootstrap.Execute(context.Background(), cfg.BootstrapAdmins)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		logger.Info("bootstrap admins applied",
			"event", "bootstrap_admins_applied",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"configured", len(cfg.BootstrapAdmins),
			"granted", granted,
		)
	}

	app.server = httpserver.New(vendors, authzModule, processMetrics, cfg.JWTSecret, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg, "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	processMetrics, err := metrics.New()
	if err != nil {
		return nil, err
	}

	roleCache, redisClient, err := buildRoleCache(cfg)
	if err != nil {
		return nil, err
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	publisher := metrics.CountingPublisher{Next: kafka, Metrics: processMetrics}

	dealRepo := dealpostgres.NewRepository(pg.DB, logger)
	authRepo := authpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		redis:    redisClient,
		bus:      kafka,
		vendorRelay: dealworkers.OutboxRelay{
			Outbox:    dealRepo,
			Publisher: publisher,
			Clock:     dealpostgres.SystemClock{},
			Topic:     dealClosedTopic,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		roleRelay: authworkers.OutboxRelay{
			Outbox:    authRepo,
			Publisher: publisher,
			Clock:     authpostgres.SystemClock{},
			Topic:     roleChangedTopic,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		roleConsumer: authworkers.RoleChangedConsumer{
			Dedup:     authRepo,
			RoleCache: roleCache,
			Clock:     authpostgres.SystemClock{},
			DedupTTL:  idempotencyTTL,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	a.closeRedis()
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (a *APIApp) closeRedis() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// Run subscribes the role cache consumer, then polls both outbox relays until
// ctx is cancelled. A failed relay cycle is logged and retried next tick.
func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.bus.Subscribe(ctx, roleChangedTopic, roleChangedGroup, w.roleConsumer.Handle); err != nil {
		return err
	}

	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return pollLoop(groupCtx, interval, w.logger, "vendor_outbox", w.vendorRelay.RunOnce)
	})
	group.Go(func() error {
		return pollLoop(groupCtx, interval, w.logger, "authz_outbox", w.roleRelay.RunOnce)
	})
	return group.Wait()
}

func (w *WorkerApp) Close() error {
	if w.redis != nil {
		_ = w.redis.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func pollLoop(
	ctx context.Context,
	interval time.Duration,
	logger *slog.Logger,
	name string,
	runOnce func(context.Context) (int, error),
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := runOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("worker cycle failed",
				"event", "bootstrap_worker_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"loop", name,
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func buildRoleCache(cfg config.Config) (authports.RoleCache, *redis.Client, error) {
	if cfg.CacheDriver != config.CacheDriverRedis {
		return authcache.NewMemory(cfg.RoleCacheTTL), nil, nil
	}
	client, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return authcache.NewRedis(client), client, nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
