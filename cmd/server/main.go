package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/batchpricer/internal/auth"
	"github.com/mmynk/batchpricer/internal/config"
	"github.com/mmynk/batchpricer/internal/ids"
	"github.com/mmynk/batchpricer/internal/middleware"
	"github.com/mmynk/batchpricer/internal/sellingunit"
	"github.com/mmynk/batchpricer/internal/service"
	"github.com/mmynk/batchpricer/internal/storage/sqlite"
	"github.com/mmynk/batchpricer/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	gen, err := ids.New(cfg.IDStrategy, cfg.SnowflakeNode)
	if err != nil {
		slog.Error("Failed to create ID generator", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath, sqlite.WithIDGenerator(gen))
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath, "id_strategy", cfg.IDStrategy)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := newRouter(cfg, store, gen, reg)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Connect server starting",
		"address", cfg.Addr,
		"auth", cfg.AuthEnabled(),
		"default_markup", cfg.DefaultMarkup.Name,
	)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// newRouter wires the services, interceptors and operational endpoints.
func newRouter(cfg *config.Config, store *sqlite.SQLiteStore, gen ids.Generator, reg *prometheus.Registry) http.Handler {
	metrics := middleware.NewMetrics(reg)
	engine := sellingunit.NewEngine(store, gen, sellingunit.WithRecorder(metrics))
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// Order matters: logging runs inside auth so it sees the operator id.
	interceptors := []connect.Interceptor{metrics.Interceptor()}
	if cfg.AuthEnabled() {
		interceptors = append(interceptors, middleware.RequireAuth(jwtManager))
	} else {
		slog.Warn("JWT_SECRET not set, recipe procedures are unauthenticated")
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor())
	protected := connect.WithInterceptors(interceptors...)
	open := connect.WithInterceptors(metrics.Interceptor(), middleware.LoggingInterceptor())

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware)

	service.NewRecipeService(store, cfg.DefaultMarkup).Register(r, protected)
	service.NewSellingUnitService(store, engine, cfg.DefaultMarkup).Register(r, protected)
	if cfg.AuthEnabled() {
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, slog.Default()).Register(r, open)
	}

	// RPCs are logged by LoggingInterceptor.
	r.Group(func(r chi.Router) {
		r.Use(loggingMiddleware)
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if err := store.Ping(); err != nil {
				slog.Error("Health check failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte("ok"))
		})
	})

	return r
}

// loggingMiddleware logs requests to the operational endpoints.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
