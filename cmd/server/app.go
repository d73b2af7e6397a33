package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskbooking/taskbooking-api/internal/config"
	"github.com/taskbooking/taskbooking-api/internal/platform/postgres"
	"github.com/taskbooking/taskbooking-api/internal/relay"
	"github.com/taskbooking/taskbooking-api/internal/service"
	"github.com/taskbooking/taskbooking-api/internal/service/auth"
	"github.com/taskbooking/taskbooking-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	taskStore    store.TaskStore
	messageStore store.MessageStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	taskService   service.TaskService
	chatService   service.ChatService
	expertService service.ExpertService

	hub     *relay.Hub
	stopHub context.CancelFunc
	hubDone chan struct{}
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application wiring: configuration, logger and database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.messageStore = postgres.NewPostgresMessageStore(db, logger)

	// The hub runs for the life of the process; cleanup cancels its
	// context and waits for it to drain.
	app.hub = relay.NewHub(cfg.Relay, logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	app.stopHub = stopHub
	app.hubDone = make(chan struct{})
	go func() {
		defer close(app.hubDone)
		app.hub.Run(hubCtx)
	}()
	logger.Info("Notification relay started",
		"queue_size", cfg.Relay.QueueSize,
		"send_buffer_size", cfg.Relay.SendBufferSize)

	app.taskService = service.NewTaskService(app.taskStore, app.userStore, app.hub, logger)
	app.chatService = service.NewChatService(app.messageStore, app.taskStore, app.hub, logger)
	app.expertService = service.NewExpertService(app.userStore, app.taskStore, app.hub, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.stopHub != nil {
		app.stopHub()
		<-app.hubDone
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
