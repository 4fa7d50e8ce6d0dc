package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/bookapi"
	"github.com/mrlokans/booktable/internal/config"
	"github.com/mrlokans/booktable/internal/database"
	"github.com/mrlokans/booktable/internal/database/books"
	"github.com/mrlokans/booktable/internal/entities"
	http_controllers "github.com/mrlokans/booktable/internal/http"
	"github.com/mrlokans/booktable/internal/scheduler"
	"github.com/mrlokans/booktable/internal/session"
	"github.com/mrlokans/booktable/internal/store"
	"github.com/mrlokans/booktable/internal/table"
)

// workspaceCleanupSchedule is how often idle table workspaces are dropped.
const workspaceCleanupSchedule = "@every 10m"

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs router on addr until SIGINT or SIGTERM, then shuts down within timeout.
func Serve(router *gin.Engine, addr string, timeout time.Duration, onShutdown ShutdownFunc) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	slog.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server exiting")
	return nil
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
}

// Run starts the book table web UI against the configured book store.
func Run(cfg *config.Config, version string) error {
	slog.Info("starting book table", "version", version, "remote", cfg.Remote.BaseURL)

	client := bookapi.NewClient(cfg.Remote.BaseURL, bookapi.WithTimeout(cfg.Remote.Timeout))
	workspaces := table.NewWorkspaces(client, table.WithPageSize(cfg.UI.PageSize))

	sqlDB, err := session.OpenDB(cfg.Session.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("error closing session database", "error", err)
		}
	}()

	sessionManager, err := session.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	var csrfSecret []byte
	if cfg.Session.Secret != "" {
		csrfSecret = session.ParseSecret(cfg.Session.Secret)
	} else {
		csrfSecret, err = session.GenerateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate CSRF secret: %w", err)
		}
		slog.Info("generated session secret (set SESSION_SECRET to persist)")
	}

	health := http_controllers.NewHealthController(version, map[string]http_controllers.HealthCheck{
		"book_store": client.Ping,
		"sessions": sqlDB.PingContext,
	})

	jobs := scheduler.New(time.Minute)
	if err := jobs.Add(workspaceCleanupSchedule, &scheduler.WorkspaceCleanupJob{
		Workspaces: workspaces,
		Idle:       sessionManager.Lifetime,
	}); err != nil {
		return err
	}
	jobs.Start(context.Background())

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Workspaces:     workspaces,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		ExportBaseName: cfg.UI.ExportBaseName,
		Health:         health,
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	return Serve(router, addr, shutdownTimeout(cfg), func(ctx context.Context) {
		jobs.Stop()
	})
}

// RunStore starts the bundled sqlite book store.
func RunStore(cfg *config.Config, version string) error {
	slog.Info("starting book store", "version", version, "database", cfg.Store.DatabasePath)

	db, err := database.NewDatabase(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	repo := books.NewRepository(db.DB)
	seed := func() []entities.Book { return books.SeedData(cfg.Store.SeedCount) }

	ctx := context.Background()
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}
	if count == 0 {
		if err := repo.Reset(ctx, seed()); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		slog.Info("seeded empty database", "books", cfg.Store.SeedCount)
	}

	jobs := scheduler.New(time.Minute)
	if cfg.Store.ResetSchedule != "" {
		if err := jobs.Add(cfg.Store.ResetSchedule, &scheduler.StoreResetJob{Store: repo, Seed: seed}); err != nil {
			return err
		}
		jobs.Start(ctx)
	} else {
		slog.Info("periodic store reset disabled")
	}

	health := http_controllers.NewHealthController(version, map[string]http_controllers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	if cfg.Store.ReadOnly {
		slog.Info("book store is read-only, writes will be rejected")
	}
	router := store.NewRouter(store.RouterConfig{
		Repository: repo,
		Health:     health,
		ReadOnly:   cfg.Store.ReadOnly,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Store.Host, cfg.Store.Port)
	return Serve(router, addr, shutdownTimeout(cfg), func(ctx context.Context) {
		jobs.Stop()
	})
}
