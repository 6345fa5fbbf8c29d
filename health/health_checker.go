// Package health provides health checking functionality for the MedSafe API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.DrugStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.DrugStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store: store,
	}
}

// HealthCheck returns HTTP-specific health data
// Used by /health HTTP endpoint
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	registry := h.store.GetRegistry()
	loadedAt := h.store.GetLoadedAt()
	startTime := h.store.GetServerStartTime()
	services := h.store.GetServiceStatus()

	// The registry is compiled into the binary, so an empty one means the
	// process never finished startup. Collaborator outages only degrade:
	// every workflow has a deterministic fallback.
	degraded := false
	for _, available := range services {
		if !available {
			degraded = true
			break
		}
	}

	switch {
	case registry.LexiconSize() == 0 || registry.InteractionCount() == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case degraded:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	uptime := time.Duration(0)
	if !startTime.IsZero() {
		uptime = time.Since(startTime)
	}

	data = map[string]any{
		"loaded_at":    loadedAt.Format(time.RFC3339),
		"known_drugs":  registry.LexiconSize(),
		"interactions": registry.InteractionCount(),
		"uptime_hours": math.Round(uptime.Hours()*10) / 10,
		"services":     services,
	}

	return status, data, httpStatus
}
