package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Deps struct {
	Accounts handlers.AccountService
	// Ping probes the storage backend for /readyz. Nil means always ready.
	Ping func(ctx context.Context) error
	// ShuttingDown flips readiness off while the server drains.
	ShuttingDown func() bool

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	Env            string
	ServiceName    string
	AllowedOrigins []string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	if deps.Env != "dev" && deps.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.ServiceName == "" {
		deps.ServiceName = "userhub"
	}
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 1 << 20
	}

	r := gin.New()

	// middleware
	r.Use(otelgin.Middleware(deps.ServiceName))
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.AllowedOrigins))

	// health
	h := handlers.NewHealthHandler(deps.Ping, deps.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	accounts := handlers.NewAccountsHandler(deps.Accounts, deps.RequestTimeout)

	api := r.Group("/api/users")
	api.Use(middlewares.MaxBodyBytes(deps.MaxBodyBytes))
	api.Use(middlewares.RequireJSON())
	{
		api.GET("", accounts.ListAccounts)
		api.POST("", accounts.CreateAccount)
		api.GET("/:id", accounts.GetAccountByID)
		api.PUT("/:id", accounts.UpdateAccount)
		api.PATCH("/:id", accounts.UpdateAccount)
		api.DELETE("/:id", accounts.DeleteAccount)
	}

	return r
}
