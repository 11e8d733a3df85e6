package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	capturehandler "github.com/FACorreiaa/echo-capture/internal/domain/capture/handler"
	"github.com/FACorreiaa/echo-capture/pkg/interceptors"
	"github.com/FACorreiaa/echo-capture/pkg/observability"
)

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	jwtSecret := []byte(deps.Config.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		deps.Logger.Warn("JWT secret is empty; commit and transaction routes will reject requests")
	}

	publicPaths := []string{
		capturehandler.ParsePath,
		capturehandler.SuggestPath,
		capturehandler.BatchPath,
		"/health",
		"/health/details",
		"/ready",
		"/metrics",
	}

	tracer := otel.GetTracerProvider().Tracer("echo/api")

	var rateLimiter interceptors.Middleware
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		rateLimiter = interceptors.NewRateLimitMiddleware(limiter)
	}

	deps.CaptureHandler.Register(mux)
	deps.Logger.Info("registered capture routes")

	// Register health and metrics routes
	registerUtilityRoutes(mux, deps)

	handler := interceptors.Chain(
		observability.NewMetricsMiddleware()(mux),
		interceptors.NewRequestIDMiddleware("X-Request-ID"),
		interceptors.NewTracingMiddleware(tracer),
		rateLimiter,
		interceptors.NewLoggingMiddleware(deps.Logger),
		interceptors.NewRecoveryMiddleware(deps.Logger),
		interceptors.NewAuthMiddleware(jwtSecret, publicPaths...),
		secureHeaders,
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           7200, // Cache preflights for 2 hours
	})

	return corsHandler.Handler(handler)
}

func secureHeaders(next http.Handler) http.Handler {
	const maxBodyBytes int64 = 1 << 20 // 1 MiB

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}

		next.ServeHTTP(w, r)
	})
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		if err := deps.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, writeErr := w.Write([]byte("store unhealthy")); writeErr != nil {
				deps.Logger.Error("failed to write health response", slog.Any("error", writeErr))
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			deps.Logger.Error("failed to write health response", slog.Any("error", err))
		}
	})
	deps.Logger.Info("registered health check", "path", "/health")

	// Extended health with details on dependencies
	mux.HandleFunc("GET /health/details", func(w http.ResponseWriter, _ *http.Request) {
		type status struct {
			Status string `json:"status"`
			Detail string `json:"detail,omitempty"`
		}
		result := map[string]status{
			"store":   {Status: "ok", Detail: deps.Config.Capture.Store},
			"catalog": {Status: "ok"},
			"auth":    {Status: "ok"},
			"ready":   {Status: "ok"},
		}

		if err := deps.Health(); err != nil {
			result["store"] = status{Status: "fail", Detail: err.Error()}
			result["ready"] = status{Status: "fail", Detail: "store unavailable"}
		}
		if deps.Catalog == nil || len(deps.Catalog.Categories) == 0 {
			result["catalog"] = status{Status: "warn", Detail: "no categories configured"}
		}
		if deps.Config.Auth.JWTSecret == "" {
			result["auth"] = status{Status: "warn", Detail: "JWT_SECRET missing"}
		}

		code := http.StatusOK
		if result["ready"].Status == "fail" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			deps.Logger.Error("failed to encode health details", slog.Any("error", err))
		}
	})
	deps.Logger.Info("registered health details", "path", "/health/details")

	// Ready once the store answers and the catalog has categories to resolve against
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, _ *http.Request) {
		if err := deps.Health(); err != nil || deps.Catalog == nil || len(deps.Catalog.Categories) == 0 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		if _, err := w.Write([]byte("ready")); err != nil {
			deps.Logger.Error("failed to write readiness response", slog.Any("error", err))
		}
	})
	deps.Logger.Info("registered readiness check", "path", "/ready")

	// Metrics endpoint (Prometheus)
	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
