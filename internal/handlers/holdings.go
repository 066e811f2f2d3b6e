package handlers

import (
	"net/http"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/analysis"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/models"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
)

// HoldingsHandler serves the current holdings and their analysis prompts.
type HoldingsHandler struct {
	logger *common.Logger
	book   *portfolio.Book
}

// NewHoldingsHandler creates a new holdings handler.
func NewHoldingsHandler(logger *common.Logger, book *portfolio.Book) *HoldingsHandler {
	return &HoldingsHandler{logger: logger, book: book}
}

type holdingsResponse struct {
	Source   string           `json:"source"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
	LoadedAt time.Time        `json:"loaded_at"`
	Holdings []models.Holding `json:"holdings"`
}

// HandleList handles GET /api/holdings.
func (h *HoldingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	snap := h.book.Snapshot()
	holdings := snap.Holdings
	if holdings == nil {
		holdings = []models.Holding{}
	}
	WriteJSON(w, http.StatusOK, holdingsResponse{
		Source:   snap.Source,
		Loading:  snap.Loading,
		Error:    snap.Error,
		LoadedAt: snap.LoadedAt,
		Holdings: holdings,
	})
}

// HandlePrompt handles GET /api/holdings/{ticker}/prompt.
func (h *HoldingsHandler) HandlePrompt(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ticker := r.PathValue("ticker")
	holding, ok := h.book.Find(ticker)
	if !ok {
		WriteError(w, http.StatusNotFound, "holding not found: "+ticker)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"ticker": holding.Ticker,
		"prompt": analysis.PromptFor(holding),
	})
}
