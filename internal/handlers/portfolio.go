package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
	"github.com/bobmcallan/stock-analyser/internal/tableview"
)

// PortfolioHandler serves the US portfolio page and its acquisition forms.
type PortfolioHandler struct {
	logger  *common.Logger
	pages   *PageHandler
	book    *portfolio.Book
	store   *annotations.Store
	notes   *annotations.Debouncer
	table   *tableview.State
	fetcher interfaces.HoldingsFetcher
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(logger *common.Logger, pages *PageHandler, book *portfolio.Book, store *annotations.Store, notes *annotations.Debouncer, table *tableview.State, fetcher interfaces.HoldingsFetcher) *PortfolioHandler {
	return &PortfolioHandler{
		logger:  logger,
		pages:   pages,
		book:    book,
		store:   store,
		notes:   notes,
		table:   table,
		fetcher: fetcher,
	}
}

// ServeHTTP renders GET /us-portfolio.
func (h *PortfolioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	// Pending notes are written first so the page shows what was typed.
	if h.notes != nil {
		if err := h.notes.Flush(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("failed to flush notes before render")
		}
	}

	snap := h.book.Snapshot()
	table := tableview.BuildTable(snap.Holdings, h.store.Snapshot(), h.table.View())

	data := pageData(r, "us-portfolio", "US Portfolio")
	data["Snapshot"] = snap
	data["Table"] = table
	data["PrevPage"] = table.PageIndex - 1
	data["NextPage"] = table.PageIndex + 1

	h.pages.Render(w, http.StatusOK, "us-portfolio.html", data)
}

// HandleUpload handles POST /us-portfolio/upload with a multipart "file".
// Submitting without a file leaves the portfolio unchanged.
func (h *PortfolioHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.finish(w, r, nil)
			return
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
			return
		}
		h.logger.Warn().Err(err).Msg("malformed upload form")
		WriteError(w, http.StatusBadRequest, portfolio.MsgInvalidFormat)
		return
	}
	defer file.Close()

	h.logger.Info().Str("filename", header.Filename).Int64("size", header.Size).Msg("portfolio upload received")

	h.finish(w, r, h.book.Load(r.Context(), portfolio.UploadSource{Filename: header.Filename, Reader: file}))
}

// HandleSample handles POST /us-portfolio/sample.
func (h *PortfolioHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	h.finish(w, r, h.book.Load(r.Context(), portfolio.SampleSource{}))
}

// HandleFetch handles POST /us-portfolio/fetch.
func (h *PortfolioHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	h.finish(w, r, h.book.Load(r.Context(), portfolio.RemoteSource{Fetcher: h.fetcher}))
}

// HandleDismiss handles POST /us-portfolio/dismiss, clearing the inline error.
func (h *PortfolioHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	h.book.ClearError()
	h.finish(w, r, nil)
}

// finish answers an acquisition. Browsers are redirected back to the page,
// which shows any error recorded on the book. JSON clients get the outcome.
func (h *PortfolioHandler) finish(w http.ResponseWriter, r *http.Request, err error) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/us-portfolio", http.StatusSeeOther)
		return
	}
	if err != nil {
		WriteError(w, acquisitionStatus(err), portfolio.UserMessage(err))
		return
	}
	snap := h.book.Snapshot()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"source":   snap.Source,
		"holdings": len(snap.Holdings),
	})
}

func acquisitionStatus(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrInvalidFormat), errors.Is(err, portfolio.ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrNoHoldings):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
