// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/auth"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/config"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/database"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/handler"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/logger"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/repository"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service/ports"
	"go.uber.org/zap"
)

// stores is the persistence backend selected by configuration.
type stores struct {
	events   ports.EventRepo
	tx       ports.Transactor
	bookings ports.BookingRepo
	users    ports.UserRepo
	close    func()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ticketdesk: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Load configuration and logger ─────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// ── 2. Open storage ──────────────────────────────────────────────────
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	// ── 3. Wire up layers ────────────────────────────────────────────────
	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL, log)
	eventSvc := service.NewEventService(st.events, st.tx, log)
	svc := handler.Services{
		Auth:     service.NewAuthService(st.users, tokens, log),
		Events:   eventSvc,
		Bookings: service.NewBookingService(st.bookings, eventSvc, st.tx, log),
		Users:    service.NewUserService(st.users, log),
	}

	if cfg.Admin.Enabled() {
		if _, err := svc.Auth.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// ── 4. Build the router ──────────────────────────────────────────────
	r := handler.NewRouter(svc, tokens, log, cfg.Server.CORSOrigin)

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Block until SIGINT, SIGTERM or a listener failure.
	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &stores{
			events:   mem.Events(),
			tx:       mem.Events(),
			bookings: mem.Bookings(),
			users:    mem.Users(),
			close:    func() {},
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.Info("connected to postgres",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	events := repository.NewEventRepository(pool)
	return &stores{
		events:   events,
		tx:       events,
		bookings: repository.NewBookingRepository(pool),
		users:    repository.NewUserRepository(pool),
		close:    pool.Close,
	}, nil
}
