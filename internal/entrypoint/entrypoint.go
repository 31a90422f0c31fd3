package entrypoint

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
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/mrlokans/library-catalog/internal/audit"
	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	auditrepo "github.com/mrlokans/library-catalog/internal/database/audit"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/genres"
	"github.com/mrlokans/library-catalog/internal/database/users"
	http_controllers "github.com/mrlokans/library-catalog/internal/http"
	"github.com/mrlokans/library-catalog/internal/logging"
	"github.com/mrlokans/library-catalog/internal/scheduler"
	"github.com/mrlokans/library-catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewLogger builds the root logger from the logging settings.
func NewLogger(cfg *config.Config) hclog.Logger {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// OpenDatabase connects to the configured store and brings the schema up
// to date.
func OpenDatabase(cfg *config.Config, logger hclog.Logger) (*database.Database, error) {
	db, err := database.NewDatabase(database.Options{
		Driver:   string(cfg.Database.Driver),
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Serve runs the server until SIGINT or SIGTERM, then drains it.
func Serve(router *gin.Engine, cfg *config.Config, logger hclog.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String(), "timeout", timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	// Background work is stopped after in-flight requests have drained
	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info("server exiting")
	return nil
}

// Run wires every component and serves the catalog API.
func Run(cfg *config.Config, version string) error {
	logger := NewLogger(cfg)
	logger.Info("starting library catalog", "version", version, "env", cfg.App.Env)

	if err := cfg.Validate(); err != nil {
		return err
	}
	generated, err := cfg.EnsureSecrets()
	if err != nil {
		return err
	}
	if generated {
		logger.Warn("generated signing secrets, sessions will not survive a restart (set JWT_SECRET and CSRF_SECRET to persist)")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := OpenDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), logger)

	// Audit cleanup runs on the task queue when it is enabled, inline otherwise
	var enqueuer scheduler.CleanupEnqueuer
	var taskClient *tasks.Client
	var taskCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasks.DatabasePath(cfg.Database.Path), tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, logger)
		if err != nil {
			return fmt.Errorf("initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error("closing task client", "error", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService, logger))

		var taskCtx context.Context
		taskCtx, taskCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		enqueuer = taskClient
	} else {
		enqueuer = tasks.NewInlineCleanup(auditService, logger)
	}

	cleanup := scheduler.NewAuditCleanupScheduler(enqueuer, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, logger)
	if err := cleanup.Start(context.Background()); err != nil {
		return fmt.Errorf("start audit cleanup scheduler: %w", err)
	}

	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(users.NewRepository(db.DB), tokens, cfg.Auth.BcryptCost)
	limiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})
	authHandlers := auth.NewHandlers(authService, auth.HandlersConfig{
		Cookie:  auth.CookieOptions{Secure: cfg.IsProduction()},
		Limiter: limiter,
		Auditor: auditService,
		Logger:  logger,
	})
	logger.Info("catalog auth mode", "mode", cfg.Auth.Mode)
	if cfg.App.ReadOnly {
		logger.Warn("catalog is read-only, writes will be rejected")
	}

	var ipLimiter *http_controllers.IPRateLimiter
	if cfg.RateLimit.RPS > 0 {
		ipLimiter = http_controllers.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}

	var csrfSecret []byte
	if cfg.CSRF.Enabled {
		csrfSecret = []byte(cfg.CSRF.Secret)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Authors:        authors.NewRepository(db.DB),
		Books:          books.NewRepository(db.DB),
		Genres:         genres.NewRepository(db.DB),
		AuthHandlers:   authHandlers,
		Guard:          auth.NewGuard(tokens),
		AuthMode:       cfg.Auth.Mode,
		ReadOnly:       cfg.App.ReadOnly,
		Auditor:        auditService,
		AuditReader:    auditService,
		Database:       db,
		Metrics:        http_controllers.NewMetrics(),
		Version:        version,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
		CSRFSecret:     csrfSecret,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		IPLimiter:      ipLimiter,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         logger,
	})

	onShutdown := func(ctx context.Context) {
		cleanup.Stop()
		if taskClient != nil && taskCancel != nil {
			taskClient.Stop(ctx)
			taskCancel()
		}
		limiter.Stop()
		if ipLimiter != nil {
			ipLimiter.Stop()
		}
		auditService.Wait()
	}

	return Serve(router, cfg, logger, onShutdown)
}

// Migrate applies the schema and exits.
func Migrate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := NewLogger(cfg)
	db, err := OpenDatabase(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("schema is up to date", "driver", db.Driver)
	return db.Close()
}

// PruneAudit deletes audit events older than retentionDays and reports how
// many were removed.
func PruneAudit(ctx context.Context, cfg *config.Config, retentionDays int) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if retentionDays <= 0 {
		retentionDays = cfg.Audit.RetentionDays
	}

	logger := NewLogger(cfg)
	db, err := OpenDatabase(cfg, logger)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	service := audit.NewService(auditrepo.NewRepository(db.DB), logger)
	task := tasks.CleanupAuditEventsTask{RetentionDays: retentionDays}
	return service.DeleteOldEvents(ctx, task.Retention())
}
