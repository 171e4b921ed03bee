package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/classdash/classdash/config"
	"github.com/classdash/classdash/internal/adapters/oneroster"
	redisadapter "github.com/classdash/classdash/internal/adapters/redis"
	"github.com/classdash/classdash/internal/data"
	"github.com/classdash/classdash/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth   *service.AuthService
	Roster *service.RosterService
	Ingest *service.IngestService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the service container from infrastructure dependencies.
// The ingest service is only built when the feed is configured; the snapshot
// cache is only built when Redis is available and caching is enabled.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	rosterRepo := data.NewRosterRepo(deps.DB)
	runRepo := data.NewIngestRunRepo(deps.DB)

	var cache service.SnapshotCache
	if deps.RedisClient != nil && cfg.Cache.Enabled {
		cache = redisadapter.NewPayloadCacheWithTTL(deps.RedisClient, cfg.Cache.SnapshotTTL)
	}

	container := ServiceContainer{
		Auth: BuildAuthService(AuthConfig{
			Auth:        cfg.Auth,
			RedisClient: deps.RedisClient,
			Logger:      logger,
		}),
		Roster: service.NewRosterService(service.RosterServiceOptions{
			Store:  rosterRepo,
			Cache:  cache,
			Logger: logger,
		}),
	}

	feed, err := oneroster.NewClient(oneroster.Config{
		BaseURL:  cfg.OneRoster.BaseURL,
		Token:    cfg.OneRoster.Token,
		TenantID: cfg.OneRoster.TenantID,
		PageSize: cfg.OneRoster.PageSize,
		Extraction: oneroster.Extraction{
			UsersCollection:       cfg.OneRoster.UsersCollection,
			ClassesCollection:     cfg.OneRoster.ClassesCollection,
			EnrollmentsCollection: cfg.OneRoster.EnrollmentsCollection,
			UserRole:              cfg.OneRoster.UserRoleExpr,
			UserEmail:             cfg.OneRoster.UserEmailExpr,
		},
	})
	if err != nil {
		logger.Warn("roster feed not configured; ingest disabled", "error", err)
		return container
	}

	container.Ingest = service.NewIngestService(service.IngestServiceOptions{
		Feed:     feed,
		Store:    rosterRepo,
		Runs:     runRepo,
		Cache:    cache,
		Interval: cfg.OneRoster.Interval,
		Logger:   logger,
	})

	return container
}

// ServiceOrchestrationConfig groups dependencies for running services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	errCh := make(chan error, len(enabled)+1)

	var httpServer *http.Server
	if enabled[config.ServiceModeHTTP] {
		httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
	}

	ingestDone := make(chan struct{})
	if enabled[config.ServiceModeIngest] {
		if cfg.Services.Ingest == nil {
			return errors.New("ingest service enabled but not configured; set ONEROSTER_BASE_URL and ONEROSTER_TENANT_ID")
		}
		go func() {
			defer close(ingestDone)
			if runErr := cfg.Services.Ingest.Run(serviceCtx); runErr != nil && !errors.Is(runErr, context.Canceled) {
				errCh <- fmt.Errorf("ingest worker: %w", runErr)
			}
		}()
	} else {
		close(ingestDone)
	}

	return waitForShutdown(shutdownDeps{
		ctx:        serviceCtx,
		cancel:     cancel,
		errCh:      errCh,
		httpServer: httpServer,
		httpCfg:    cfg.Config.HTTP,
		ingestDone: ingestDone,
		logger:     logger,
	})
}

// shutdownDeps contains dependencies for graceful shutdown.
type shutdownDeps struct {
	ctx        context.Context
	cancel     context.CancelFunc
	errCh      <-chan error
	httpServer *http.Server
	httpCfg    config.HTTPConfig
	ingestDone <-chan struct{}
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(deps shutdownDeps) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		deps.logger.Info("shutting down services...")
		deps.cancel()
		return gracefulStop(deps)
	case err := <-deps.errCh:
		deps.logger.Error("service error", "error", err)
		deps.cancel()
		if stopErr := gracefulStop(deps); stopErr != nil {
			deps.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(deps shutdownDeps) error {
	if deps.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  deps.httpServer,
			Timeout: deps.httpCfg.ShutdownTimeout,
			Logger:  deps.logger,
		}); err != nil {
			return err
		}
	}

	<-deps.ingestDone
	deps.logger.Info("services stopped")
	return nil
}
