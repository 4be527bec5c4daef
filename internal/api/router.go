package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mindcare/wellbeing-api/docs"
	"github.com/mindcare/wellbeing-api/internal/api/handler"
	"github.com/mindcare/wellbeing-api/internal/api/metrics"
	"github.com/mindcare/wellbeing-api/internal/api/middleware"
	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/http/handlers"
)

// Services are the use cases the HTTP layer exposes.
type Services struct {
	Auth      ports.AuthService
	Journals  ports.JournalService
	Questions ports.QuestionService
	Tests     ports.TestService
	Assistant ports.AssistantService
	Summaries ports.SummaryService
}

// Options configures the router. Zero values fall back to the default
// Prometheus registry and a disabled logger.
type Options struct {
	JWTSecret   string
	CORSOrigins []string
	Log         zerolog.Logger
	Checks      map[string]handlers.Check

	// Registerer and Gatherer back the HTTP metrics middleware and /metrics.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svcs Services, opts Options) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	if len(opts.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     opts.CORSOrigins,
			AllowCredentials: true,
		}))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metrics.Namespace,
		Subsystem:  "http",
		Registerer: opts.Registerer,
	}))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svcs.Auth)
	authMiddleware := middleware.Auth(opts.JWTSecret)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/token", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Journal ---
	journalHandler := handler.NewJournalHandler(svcs.Journals)
	journal := e.Group("/journal", authMiddleware)
	journal.POST("", journalHandler.Create)
	journal.GET("", journalHandler.List)
	journal.DELETE("/:id", journalHandler.Delete)

	// --- Questions and tests ---
	testHandler := handler.NewTestHandler(svcs.Questions, svcs.Tests)
	therapistOnly := middleware.RBAC(domain.RoleTherapist)
	workerOnly := middleware.RBAC(domain.RoleWorker)

	test := e.Group("/test", authMiddleware)
	test.POST("/add-question", testHandler.AddQuestion, therapistOnly)
	test.GET("/questions", testHandler.Questions)
	test.DELETE("/question/:id", testHandler.DeleteQuestion, therapistOnly)
	test.POST("/submit", testHandler.Submit, workerOnly)
	test.GET("/results", testHandler.Results, workerOnly)
	e.GET("/test-results", testHandler.Results, authMiddleware, workerOnly)

	// --- AI ---
	aiHandler := handler.NewAIHandler(svcs.Assistant, svcs.Summaries)
	ai := e.Group("/ai", authMiddleware)
	ai.POST("/ask", aiHandler.Ask)
	ai.GET("/summary", aiHandler.LatestSummary)
	ai.POST("/summary", aiHandler.GenerateSummary)

	return e
}

// requestLogger writes one zerolog line per request. Errors are handed to
// the HTTP error handler first so the logged status is the one the client saw.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
