package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/freelancehub/api/docs"
	"github.com/freelancehub/api/internal/api/handler"
	"github.com/freelancehub/api/internal/api/middleware"
	"github.com/freelancehub/api/internal/core/aggregate"
	"github.com/freelancehub/api/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Clients  ports.ClientService
	Projects ports.ProjectService
	// Health names each backing dependency checked by /health/ready.
	Health  map[string]handler.Pinger
	Revenue aggregate.RevenuePolicy
	Logger  zerolog.Logger

	CORSOrigins []string
	// AuthRateLimit is requests per second per client IP on /login and
	// /register. Zero disables the limiter.
	AuthRateLimit float64
	AuthBurst     int

	// Registry receives the HTTP metrics; nil uses the Prometheus default
	// registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(d.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	promConfig := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	handlerConfig := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promConfig.Registerer = d.Registry
		handlerConfig.Gatherer = d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	clientHandler := handler.NewClientHandler(d.Clients)
	projectHandler := handler.NewProjectHandler(d.Projects)
	summaryHandler := handler.NewSummaryHandler(d.Clients, d.Revenue)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Public routes ---
	var limit []echo.MiddlewareFunc
	if d.AuthRateLimit > 0 {
		limit = append(limit, authRateLimiter(d.AuthRateLimit, d.AuthBurst))
	}
	e.POST("/register", authHandler.Register, limit...)
	e.POST("/login", authHandler.Login, limit...)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerConfig))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Protected routes ---
	// Attached per route so unknown paths stay 404.
	auth := middleware.Auth(d.Auth)
	e.GET("/clients", clientHandler.List, auth)
	e.POST("/clients", clientHandler.Create, auth)
	e.DELETE("/clients/:id", clientHandler.Delete, auth)
	e.POST("/projects", projectHandler.Create, auth)
	e.PATCH("/projects/:id/status", projectHandler.ToggleStatus, auth)
	e.DELETE("/projects/:id", projectHandler.Delete, auth)
	e.GET("/summary", summaryHandler.Get, auth)

	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	if burst <= 0 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
