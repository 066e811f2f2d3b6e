package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
)

const brokerageProbeTimeout = 3 * time.Second

type brokerageHealth struct {
	Status  string `json:"status"`
	Breaker string `json:"breaker"`
	URL     string `json:"url"`
}

// BrokerageHealthHandler reports whether "Fetch from IndMoney" can work.
type BrokerageHealthHandler struct {
	logger *common.Logger
	prober interfaces.BrokerageProber
}

// NewBrokerageHealthHandler creates a new brokerage health handler.
func NewBrokerageHealthHandler(logger *common.Logger, prober interfaces.BrokerageProber) *BrokerageHealthHandler {
	return &BrokerageHealthHandler{logger: logger, prober: prober}
}

// ServeHTTP handles GET /api/brokerage/health.
func (h *BrokerageHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	resp := brokerageHealth{Status: "ok", Breaker: h.prober.BreakerState(), URL: h.prober.URL()}

	if resp.Breaker == "open" {
		resp.Status = "down"
		WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), brokerageProbeTimeout)
	defer cancel()

	if err := h.prober.Probe(ctx); err != nil {
		h.logger.Debug().Str("url", resp.URL).Err(err).Msg("brokerage probe failed")
		resp.Status = "down"
		WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
