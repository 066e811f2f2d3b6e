package handlers

import (
	"net/http"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/common"
)

// HealthHandler reports that the portal is serving and for how long.
type HealthHandler struct {
	logger  *common.Logger
	started time.Time
}

func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger, started: time.Now()}
}

// ServeHTTP handles GET /api/health. Liveness only; the brokerage has its
// own check at /api/brokerage/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
