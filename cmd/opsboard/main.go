package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	advisoradapter "github.com/pkarag/opsboard/internal/adapter/driven/advisor"
	"github.com/pkarag/opsboard/internal/adapter/driven/seed"
	sqliteadapter "github.com/pkarag/opsboard/internal/adapter/driven/sqlite"
	httphandler "github.com/pkarag/opsboard/internal/adapter/driving/http"
	"github.com/pkarag/opsboard/internal/application"
	"github.com/pkarag/opsboard/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"data_dir", cfg.DataDir,
		"session_ttl", cfg.SessionTTL,
		"assistant_enabled", cfg.HasOpenAIKey(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations, then reconcile a tickets table left by the old release.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	if err := sqliteadapter.ReconcileLegacyTickets(ctx, db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	userStore := sqliteadapter.NewUserRepo(db)
	ticketStore := sqliteadapter.NewTicketRepo(db)
	incidentStore := sqliteadapter.NewIncidentRepo(db)
	datasetStore := sqliteadapter.NewDatasetRepo(db)

	advisorClient := advisoradapter.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if !advisorClient.Configured() {
		slog.Info("no OpenAI API key configured, assistant endpoint disabled")
	}

	loader := seed.NewLoader(userStore, ticketStore, incidentStore, datasetStore, cfg.DataDir, slog.Default())

	// 6. Seed legacy users once, when the users table is empty.
	if n, err := loader.ImportUsers(ctx); err != nil {
		return err
	} else if n > 0 {
		slog.Info("seeded legacy users", "count", n)
	}

	// 7. Wire services.
	authSvc := application.NewAuthService(userStore, cfg.JWTSecret, cfg.SessionTTL)
	insightsSvc := application.NewInsightsService(ticketStore, incidentStore, datasetStore)
	advisorSvc := application.NewAdvisorService(ticketStore, advisorClient)

	// 8. Create HTTP handler and server.
	apiHandler := httphandler.NewHandler(authSvc, ticketStore, incidentStore, datasetStore, insightsSvc, advisorSvc, loader, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("opsboard started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain the HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
