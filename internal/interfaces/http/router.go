// Package http wires the gin router and server exposing the engine's API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/internal/interfaces/http/handlers"
	"github.com/debnit/MsmeBazaar-sub003/internal/interfaces/http/middleware"
)

// RouterOptions carries the dependencies of the HTTP surface.  Metrics and
// MetricsHandler may be nil; the corresponding middleware and endpoint are
// then skipped.
type RouterOptions struct {
	Mode           string // gin mode: debug | release | test
	Version        string
	Logger         logging.Logger
	Matcher        handlers.Matcher
	Valuator       handlers.Valuator
	Database       handlers.Pinger
	Cache          handlers.Pinger
	ML             handlers.HealthObserver
	Metrics        middleware.HTTPMetrics
	MetricsHandler http.Handler
}

// NewRouter builds the gin engine with the full middleware chain and all
// engine routes.
func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	health := handlers.NewHealthHandler(opts.Version, opts.Database, opts.Cache, opts.ML)
	r.GET("/healthz", health.Check)
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	api := r.Group("/api/v1")
	{
		match := handlers.NewMatchHandler(opts.Matcher)
		api.POST("/matches/listing/:id", match.ForListing)
		api.POST("/matches/buyer/:id", match.ForBuyer)

		val := handlers.NewValuationHandler(opts.Valuator)
		api.POST("/valuations", val.Valuate)
	}

	return r
}
