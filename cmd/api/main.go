// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teamlattice/lattice/internal/audit"
	"github.com/teamlattice/lattice/internal/auth"
	"github.com/teamlattice/lattice/internal/config"
	"github.com/teamlattice/lattice/internal/email"
	"github.com/teamlattice/lattice/internal/event"
	"github.com/teamlattice/lattice/internal/handler"
	"github.com/teamlattice/lattice/internal/kafka"
	kafkahandlers "github.com/teamlattice/lattice/internal/kafka/handlers"
	"github.com/teamlattice/lattice/internal/middleware"
	"github.com/teamlattice/lattice/internal/model"
	"github.com/teamlattice/lattice/internal/reactor"
	"github.com/teamlattice/lattice/internal/repository"
	"github.com/teamlattice/lattice/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(log)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	roleRepo := repository.NewManagerRoleRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize audit logger
	auditor := audit.NewSlogLogger(log)

	// Register the upgrade reactor against the account-created event
	// source. This is the one wiring step that replaces ad-hoc global
	// state: every new account, locally provisioned or mirrored from the
	// platform stream, flows through the bus and past the reactor.
	bus := event.NewBus()
	upgradeReactor := reactor.NewUpgradeReactor(roleRepo, auditor)
	upgradeReactor.Register(bus)

	// Initialize services
	accountService := service.NewAccountService(accountRepo, passwordHasher, tokenManager, bus)
	resolver := service.NewIdentityResolver(accountRepo)

	// Invite emails are optional; without a Sendgrid key the service
	// runs with invites disabled.
	var notifier service.InviteNotifier
	if cfg.Sendgrid.APIKey != "" {
		emailService, err := email.NewEmailService(cfg, email.ProviderSendgrid)
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
		notifier = emailService
	}

	roleService := service.NewManagerRoleService(roleRepo, resolver, notifier, auditor)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService)
	managerHandler := handler.NewManagerHandler(roleService)
	userManagerHandler := handler.NewUserManagerHandler(roleService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Post("/auth/login", accountHandler.Login)
		})

		// Protected routes: every relationship operation requires an
		// authenticated staff caller.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenManager))
			r.Use(middleware.RequireStaff)

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", accountHandler.CreateAccount)
				r.Get("/", accountHandler.ListAccounts)
				r.Get("/{id}", accountHandler.GetAccount)
			})

			r.Route("/managers", func(r chi.Router) {
				r.Get("/", managerHandler.ListManagers)
				r.Route("/{identifier}/reports", func(r chi.Router) {
					r.Get("/", managerHandler.ListReports)
					r.Post("/", managerHandler.AddReports)
					r.Delete("/", managerHandler.RemoveReports)
				})
			})

			r.Route("/users/{identifier}/managers", func(r chi.Router) {
				r.Get("/", userManagerHandler.ListManagers)
				r.Post("/", userManagerHandler.AddManager)
				r.Delete("/", userManagerHandler.RemoveManagers)
			})
		})
	})

	// Consume account-created notifications from the platform stream when
	// brokers are configured.
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err := kafka.NewConfluentKafkaConsumer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("initializing kafka consumer: %w", err)
		}
		defer consumer.Close()

		consumerLogic := kafkahandlers.NewAccountCreatedConsumerLogic(accountService)
		go func() {
			err := consumer.Consume(
				consumerCtx,
				[]string{cfg.Kafka.AccountCreatedTopic},
				cfg.Kafka.ConsumerGroup,
				consumerLogic.HandleAccountCreated,
			)
			if err != nil {
				log.Error("kafka consumer stopped", "error", err)
			}
		}()
	}

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("shutdown started", "signal", sig)
		cancelConsumer()

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Unique-constraint collisions must surface as
		// gorm.ErrDuplicatedKey for get-or-create resolution.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.AutoMigrate(&model.Account{}, &model.ManagerRole{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error("panic recovered",
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("{\"detail\":\"Internal server error\"}"))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
