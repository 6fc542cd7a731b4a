package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Pinger is a dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthObserver exposes a boolean health flag without a round trip, used
// for the ML service whose flag tracks the most recent prediction call.
type HealthObserver interface {
	Healthy() bool
}

// HealthHandler aggregates dependency health for GET /healthz.  Any nil
// dependency is simply omitted from the report.
type HealthHandler struct {
	version  string
	database Pinger
	cache    Pinger
	ml       HealthObserver
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(version string, database, cache Pinger, ml HealthObserver) *HealthHandler {
	return &HealthHandler{version: version, database: database, cache: cache, ml: ml}
}

// Check handles GET /healthz.  A degraded ML service does not fail the
// check; the engine keeps serving on its heuristic path.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	now := time.Now().UTC()
	report := common.HealthReport{Version: h.version}

	if h.database != nil {
		report.Components = append(report.Components, pingComponent(ctx, "postgres", h.database, now))
	}
	if h.cache != nil {
		report.Components = append(report.Components, pingComponent(ctx, "redis", h.cache, now))
	}
	if h.ml != nil {
		ml := common.ComponentHealth{Name: "ml_service", Status: common.HealthStatusHealthy, CheckedAt: now}
		if !h.ml.Healthy() {
			ml.Status = common.HealthStatusDegraded
			ml.Detail = "last prediction call failed; valuations use the heuristic path"
		}
		report.Components = append(report.Components, ml)
	}

	report.Status = report.Overall()
	status := http.StatusOK
	if report.Status == common.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func pingComponent(ctx context.Context, name string, p Pinger, now time.Time) common.ComponentHealth {
	ch := common.ComponentHealth{Name: name, Status: common.HealthStatusHealthy, CheckedAt: now}
	if err := p.Ping(ctx); err != nil {
		ch.Status = common.HealthStatusUnhealthy
		ch.Detail = err.Error()
	}
	return ch
}
