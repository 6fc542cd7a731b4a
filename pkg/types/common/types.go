// Package common holds cross-cutting value types shared by the public API
// surface and internal layers.
package common

import (
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// NewID returns a freshly generated random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Metadata is an open-ended key-value bag.
type Metadata map[string]interface{}

// Money is a monetary amount in whole currency units (INR).  Arithmetic on
// valuations happens in float64 and is rounded to Money only at API
// boundaries.
type Money float64

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// APIResponse is the generic wrapper for all API responses.
type APIResponse[T any] struct {
	Success   bool         `json:"success"`
	Data      T            `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id"`
	Timestamp time.Time    `json:"timestamp"`
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth reports the health of a single dependency.
type ComponentHealth struct {
	Name      string       `json:"name"`
	Status    HealthStatus `json:"status"`
	Detail    string       `json:"detail,omitempty"`
	CheckedAt time.Time    `json:"checked_at"`
}

// HealthReport aggregates component health for the /healthz endpoint.
type HealthReport struct {
	Status     HealthStatus      `json:"status"`
	Components []ComponentHealth `json:"components"`
	Version    string            `json:"version"`
}

// Overall returns the worst status among the components: any unhealthy
// component makes the report unhealthy, any degraded one makes it degraded.
func (r *HealthReport) Overall() HealthStatus {
	status := HealthStatusHealthy
	for _, c := range r.Components {
		switch c.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}
