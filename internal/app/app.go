package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/lawhelp/lawhelp/internal/http"
	"github.com/lawhelp/lawhelp/internal/notify"
	"github.com/lawhelp/lawhelp/internal/observability/metrics"
	"github.com/lawhelp/lawhelp/internal/service"
	"github.com/lawhelp/lawhelp/internal/store"
	"github.com/lawhelp/lawhelp/internal/store/drivers/sqlite"
	"github.com/lawhelp/lawhelp/pkg/cryptox"
	"github.com/lawhelp/lawhelp/pkg/jwtx"
	"github.com/lawhelp/lawhelp/pkg/slogx"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the LawHelp backend with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.EdDSASigner

	// Services
	tokenService        *service.TokenService
	verificationService *service.VerificationService
	identityService     *service.IdentityService
	twoFactorService    *service.TwoFactorService
	chatService         *service.ChatService
	lawyerService       *service.LawyerService
	housekeepingService *service.HousekeepingService

	metrics *metrics.Recorder

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "lawhelp",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitSessionKey(app.cfg.SessionKeyFile, app.logger)
	if err != nil {
		return nil, err
	}
	app.signer = signer

	app.metrics = metrics.New(prometheus.DefaultRegisterer)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("lawhelp starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down lawhelp...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("lawhelp stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer: app.signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}

	// codes only reach the log in development; everywhere else delivery
	// metadata is logged without the code value
	var notifier notify.Notifier = notify.DropNotifier{}
	if app.cfg.Env == "dev" {
		notifier = notify.LogNotifier{}
	}

	app.verificationService = &service.VerificationService{
		Store:    app.db,
		Notifier: notifier,
		Metrics:  app.metrics,
	}

	app.identityService = &service.IdentityService{
		Store:   app.db,
		Tokens:  app.tokenService,
		Codes:   app.verificationService,
		Policy:  service.DefaultPasswordPolicy(),
		Metrics: app.metrics,
	}

	app.twoFactorService = &service.TwoFactorService{
		Store:   app.db,
		TOTP:    &service.TOTPEngine{Issuer: "LawHelp"},
		Tokens:  app.tokenService,
		Codes:   app.verificationService,
		Metrics: app.metrics,
	}

	app.chatService = &service.ChatService{Store: app.db}
	app.lawyerService = &service.LawyerService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifierEdDSA(app.signer.PublicKey(), app.cfg.Issuer)

	router := httpapi.NewRouter(
		verifier,
		BuildVersion,
		app.db,
		app.logger,
		app.metrics,
	)

	// Wire services to router
	router.IdentityService = app.identityService
	router.TwoFactorService = app.twoFactorService
	router.ChatService = app.chatService
	router.LawyerService = app.lawyerService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
