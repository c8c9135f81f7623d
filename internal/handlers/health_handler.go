package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Varun5711/campusapi/internal/healthcheck"
	"github.com/Varun5711/campusapi/internal/logger"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	checks map[string]healthcheck.Check
	log    *logger.Logger
}

func NewHealthHandler(checks map[string]healthcheck.Check, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	var failing []string
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("Health check %s failing: %v", name, err)
			failing = append(failing, name)
		}
	}

	if len(failing) > 0 {
		sort.Strings(failing)
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unavailable",
			"failing": failing,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
