package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

// SaveObserver is told about every annotation write ("rating" or "notes").
type SaveObserver func(kind string, err error)

// AnnotationsHandler serves the ratings and notes API.
type AnnotationsHandler struct {
	logger    *common.Logger
	store     *annotations.Store
	debouncer *annotations.Debouncer
	observer  SaveObserver
}

// NewAnnotationsHandler creates a new annotations handler. Notes are written
// through debouncer.
func NewAnnotationsHandler(logger *common.Logger, store *annotations.Store, debouncer *annotations.Debouncer) *AnnotationsHandler {
	return &AnnotationsHandler{
		logger:    logger,
		store:     store,
		debouncer: debouncer,
	}
}

// SetSaveObserver registers fn to be called after every write.
func (h *AnnotationsHandler) SetSaveObserver(fn SaveObserver) {
	h.observer = fn
}

func (h *AnnotationsHandler) observe(kind string, err error) {
	if h.observer != nil {
		h.observer(kind, err)
	}
}

// HandleList handles GET /api/annotations.
func (h *AnnotationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if err := h.debouncer.Flush(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("failed to flush notes before listing")
	}
	WriteJSON(w, http.StatusOK, h.store.Snapshot())
}

type ratingRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ratingResponse struct {
	Ticker     string            `json:"ticker"`
	Field      string            `json:"field"`
	Value      string            `json:"value"`
	Class      string            `json:"class"`
	Annotation models.Annotation `json:"annotation"`
}

// HandleRating handles PUT /api/annotations/{ticker}/rating. An empty value
// clears the rating.
func (h *AnnotationsHandler) HandleRating(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ticker := r.PathValue("ticker")
	var req ratingRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	field := models.RatingField(req.Field)
	value := models.Rating(req.Value)
	a, err := h.store.SetRating(r.Context(), ticker, field, value)
	h.observe("rating", err)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, ratingResponse{
		Ticker:     ticker,
		Field:      req.Field,
		Value:      req.Value,
		Class:      value.CSSClass(),
		Annotation: a,
	})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// HandleNotes handles PUT /api/annotations/{ticker}/notes. The write is
// queued and the handler answers 202 before it lands.
func (h *AnnotationsHandler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ticker := r.PathValue("ticker")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, annotations.ErrEmptyTicker.Error())
		return
	}
	var req notesRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.debouncer.Submit(ticker, req.Notes)
	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status": "pending",
		"ticker": ticker,
	})
}

func (h *AnnotationsHandler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, annotations.ErrUnknownRatingField),
		errors.Is(err, annotations.ErrInvalidRating),
		errors.Is(err, annotations.ErrEmptyTicker):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("failed to save annotation")
		WriteError(w, http.StatusInternalServerError, "Failed to save annotation")
	}
}
