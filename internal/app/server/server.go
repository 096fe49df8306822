package server

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"empsync/internal/domain/attendance"
	"empsync/internal/domain/auth"
	"empsync/internal/domain/employee"
	"empsync/internal/domain/notifications"
	"empsync/internal/domain/performance"
	"empsync/internal/domain/verification"
	"empsync/internal/platform/config"
	"empsync/internal/platform/db"
	"empsync/internal/platform/email"
	"empsync/internal/platform/jobs"
	"empsync/internal/platform/metrics"
	attendancehandler "empsync/internal/transport/http/handlers/attendance"
	authhandler "empsync/internal/transport/http/handlers/auth"
	employeehandler "empsync/internal/transport/http/handlers/employee"
	performancehandler "empsync/internal/transport/http/handlers/performance"
	"empsync/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	stop    context.CancelFunc
}

type Option func(*options)

type options struct {
	mailer notifications.Mailer
}

// WithMailer replaces the mailer chosen from EMAIL_PROVIDER.
func WithMailer(m notifications.Mailer) Option {
	return func(o *options) {
		o.mailer = m
	}
}

// New connects to the database, prepares the schema and builds the router.
// Background jobs start immediately and stop on Close.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.mailer == nil {
		o.mailer = email.New(cfg)
	}
	decimal.MarshalJSONWithoutQuotes = true

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()
	notifier := notifications.NewNotifier(o.mailer, cfg.EmailFrom, cfg.AppBaseURL, cfg.TokenTTLHours)
	tokens := verification.NewManager(verification.NewStore(pool), notifier, cfg.TokenTTL())
	accounts := auth.NewService(auth.NewStore(pool), auth.Options{
		JWTSecret:            cfg.JWTSecret,
		JWTTTL:               cfg.JWTTTL,
		VerificationRequired: cfg.VerificationRequired,
	}, tokens, notifier).WithLoginObserver(collector.Login)

	jobCtx, stop := context.WithCancel(context.Background())
	jobService := jobs.New(jobs.NewPgRunStore(pool), tokens, cfg.TokenCleanupInterval).WithObserver(collector.JobRun)
	jobService.Start(jobCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	guard, admin := middleware.Passthrough, middleware.Passthrough
	if cfg.RequireAuth {
		guard = middleware.RequireAuth
		admin = middleware.RequireRole(auth.RoleAdmin)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authhandler.NewHandler(accounts, tokens).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(guard)
			employeehandler.NewHandler(employee.NewService(employee.NewStore(pool)), admin).RegisterRoutes(r)
			attendancehandler.NewHandler(attendance.NewService(attendance.NewStore(pool))).RegisterRoutes(r)
			performancehandler.NewHandler(performance.NewService(performance.NewStore(pool)), admin).RegisterRoutes(r)
		})
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Jobs:    jobService,
		Metrics: collector,
		stop:    stop,
	}, nil
}

func (a *App) Close() {
	if a.stop != nil {
		a.stop()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is empty; using an insecure development secret")
		cfg.JWTSecret = "dev-insecure-secret"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("empsync server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "err", err)
		}
	}
}
