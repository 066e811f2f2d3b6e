package handlers

import (
	"net/http"

	"github.com/bobmcallan/stock-analyser/internal/analysis"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
)

// AnalysisHandler renders the per-holding analysis page.
type AnalysisHandler struct {
	logger   *common.Logger
	pages    *PageHandler
	book     *portfolio.Book
	service  *analysis.Service
	observer func(analyzer, result string)
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(logger *common.Logger, pages *PageHandler, book *portfolio.Book, service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{
		logger:  logger,
		pages:   pages,
		book:    book,
		service: service,
	}
}

// SetObserver registers fn to be told the result ("generated", "cached" or
// "error") of every analysis.
func (h *AnalysisHandler) SetObserver(fn func(analyzer, result string)) {
	h.observer = fn
}

// ServeHTTP handles GET /us-portfolio/analysis/{ticker}. ?refresh=1 drops
// the cached report first.
func (h *AnalysisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := r.PathValue("ticker")
	holding, ok := h.book.Find(ticker)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}

	if r.URL.Query().Get("refresh") != "" {
		h.service.Invalidate(ticker)
	}

	data := pageData(r, "us-portfolio", "Analysis: "+holding.Ticker)
	data["Holding"] = holding

	report, err := h.service.Analyze(r.Context(), holding)
	if err != nil {
		h.observe("error")
		data["Error"] = analysis.MsgAnalysisFailed
		h.pages.Render(w, http.StatusBadGateway, "analysis.html", data)
		return
	}
	if report.Cached {
		h.observe("cached")
	} else {
		h.observe("generated")
	}

	data["Report"] = report
	h.pages.Render(w, http.StatusOK, "analysis.html", data)
}

func (h *AnalysisHandler) observe(result string) {
	if h.observer != nil {
		h.observer(h.service.AnalyzerName(), result)
	}
}
