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
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/domain/attendance"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/core"
	"workforce/internal/domain/payroll"
	"workforce/internal/domain/performance"
	"workforce/internal/platform/cache"
	"workforce/internal/platform/config"
	"workforce/internal/platform/crypto"
	"workforce/internal/platform/db"
	"workforce/internal/platform/metrics"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/api"
	attendancehandler "workforce/internal/transport/http/handlers/attendance"
	authhandler "workforce/internal/transport/http/handlers/auth"
	corehandler "workforce/internal/transport/http/handlers/core"
	payrollhandler "workforce/internal/transport/http/handlers/payroll"
	performancehandler "workforce/internal/transport/http/handlers/performance"
	"workforce/internal/transport/http/middleware"
)

// App owns the pool and the optional Redis client for its whole lifetime.
type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Metrics *metrics.Collector
	Router  http.Handler
}

// NewLogger returns a JSON logger in production and a text logger otherwise.
func NewLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, DB: pool, Metrics: metrics.New()}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Redis = redisClient

	box, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, err
	}

	router, err := app.routes(box)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Router = router
	return app, nil
}

func (a *App) routes(box *crypto.Box) (http.Handler, error) {
	cfg := a.Config
	debug := cfg.IsDevelopment()

	var denylist auth.Denylist = auth.NewMemoryDenylist(cfg.TokenTTL)
	if a.Redis != nil {
		denylist = auth.NewRedisDenylist(a.Redis, cfg.TokenTTL)
	}

	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	authService := auth.NewService(auth.NewStore(a.DB), hasher, tokens, denylist, box)
	coreService := core.NewService(core.NewStore(a.DB), hasher, authService)
	attendanceService := attendance.NewService(attendance.NewStore(a.DB))
	payrollService := payroll.NewService(payroll.NewStore(a.DB))
	performanceService := performance.NewService(performance.NewStore(a.DB))

	loginLimit, err := middleware.RateLimit(cfg.LoginRateLimit)
	if err != nil {
		return nil, fmt.Errorf("login rate limit: %w", err)
	}

	router := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		router.Use(chimw.RealIP)
	}
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), requestctx.GetRequestID(r.Context()))
		})
	}

	authHandler := authhandler.NewHandler(authService, coreService, cfg.AllowSelfSignup, debug)
	coreHandler := corehandler.NewHandler(coreService, debug)
	attendanceHandler := attendancehandler.NewHandler(attendanceService, coreService, debug)
	payrollHandler := payrollhandler.NewHandler(payrollService, coreService, debug)
	performanceHandler := performancehandler.NewHandler(performanceService, coreService, debug)

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimit)
			authHandler.RegisterPublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService, debug))
			authHandler.RegisterRoutes(r)
			coreHandler.RegisterRoutes(r)
			attendanceHandler.RegisterRoutes(r)
			payrollHandler.RegisterRoutes(r)
			performanceHandler.RegisterRoutes(r)
		})
	})

	return router, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Warn("redis close failed", "err", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until SIGINT or SIGTERM and then drains in-flight requests.
func Run() error {
	cfg := config.Load()
	slog.SetDefault(NewLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("workforce server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
