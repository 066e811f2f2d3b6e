package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
	"github.com/bobmcallan/stock-analyser/internal/tableview"
)

// TableHandler serves the table layout API. Every successful change
// answers with the re-built table.
type TableHandler struct {
	logger   *common.Logger
	state    *tableview.State
	book     *portfolio.Book
	store    *annotations.Store
	onChange func(operation string)
}

// NewTableHandler creates a new table handler.
func NewTableHandler(logger *common.Logger, state *tableview.State, book *portfolio.Book, store *annotations.Store) *TableHandler {
	return &TableHandler{
		logger: logger,
		state:  state,
		book:   book,
		store:  store,
	}
}

// SetChangeObserver registers fn to be called after every successful change.
func (h *TableHandler) SetChangeObserver(fn func(operation string)) {
	h.onChange = fn
}

func (h *TableHandler) respond(w http.ResponseWriter, operation string) {
	if operation != "" && h.onChange != nil {
		h.onChange(operation)
	}
	WriteJSON(w, http.StatusOK, tableview.BuildTable(h.book.Holdings(), h.store.Snapshot(), h.state.View()))
}

// HandleGet handles GET /api/table.
func (h *TableHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	h.respond(w, "")
}

// HandleVisibility handles POST /api/table/visibility/{column}.
func (h *TableHandler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, err := h.state.ToggleVisibility(r.Context(), r.PathValue("column")); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, "visibility")
}

type orderRequest struct {
	Order []string `json:"order"`
}

// HandleOrder handles PUT /api/table/order.
func (h *TableHandler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	var req orderRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.state.SetOrder(r.Context(), req.Order); err != nil {
		if errors.Is(err, tableview.ErrUnknownColumn) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeError(w, err)
		return
	}
	h.respond(w, "order")
}

type sizingRequest struct {
	Width int `json:"width"`
}

// HandleSizing handles PUT /api/table/sizing/{column}.
func (h *TableHandler) HandleSizing(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	var req sizingRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.state.Resize(r.Context(), r.PathValue("column"), req.Width); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, "sizing")
}

// HandleSort handles POST /api/table/sort/{column}.
func (h *TableHandler) HandleSort(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, err := h.state.ToggleSort(r.PathValue("column")); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, "sort")
}

type pageRequest struct {
	PageIndex *int `json:"page_index"`
}

// HandlePage handles PUT /api/table/page.
func (h *TableHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	var req pageRequest
	if err := DecodeJSON(r, &req); err != nil || req.PageIndex == nil {
		WriteError(w, http.StatusBadRequest, "page_index is required")
		return
	}
	if err := h.state.SetPageIndex(*req.PageIndex); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, "page")
}

type pageSizeRequest struct {
	PageSize int `json:"page_size"`
}

// HandlePageSize handles PUT /api/table/page-size.
func (h *TableHandler) HandlePageSize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	var req pageSizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.state.SetPageSize(req.PageSize); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, "page_size")
}

func (h *TableHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tableview.ErrUnknownColumn):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tableview.ErrNotSortable),
		errors.Is(err, tableview.ErrInvalidPageSize),
		errors.Is(err, tableview.ErrInvalidPageIndex),
		errors.Is(err, tableview.ErrInvalidWidth):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("failed to update table settings")
		WriteError(w, http.StatusInternalServerError, "Failed to save table settings")
	}
}
