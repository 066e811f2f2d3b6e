// Package annotations keeps per-ticker ratings and notes in durable storage.
package annotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

// StorageKey is the key holding the whole annotation map as one JSON object.
const StorageKey = "stockRatings"

var (
	ErrUnknownRatingField = errors.New("unknown rating field")
	ErrInvalidRating      = errors.New("invalid rating")
	ErrEmptyTicker        = errors.New("ticker is required")
)

// Store owns the ticker -> annotation map. Every mutation rewrites the
// full map to storage before returning.
type Store struct {
	mu      sync.RWMutex
	kv      interfaces.KeyValueStorage
	logger  *common.Logger
	entries models.Annotations
}

// NewStore creates a store and loads the persisted map.
func NewStore(ctx context.Context, kv interfaces.KeyValueStorage, logger *common.Logger) *Store {
	s := &Store{
		kv:      kv,
		logger:  logger,
		entries: models.Annotations{},
	}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory map with the persisted one. A corrupt
// record is deleted and an empty map is used; Load never fails.
func (s *Store) Load(ctx context.Context) models.Annotations {
	loaded := s.read(ctx)

	s.mu.Lock()
	s.entries = loaded
	s.mu.Unlock()

	return loaded.Clone()
}

func (s *Store) read(ctx context.Context) models.Annotations {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("failed to read annotations, starting empty")
		}
		return models.Annotations{}
	}

	var entries models.Annotations
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn().Err(err).Str("key", StorageKey).Msg("discarding corrupt annotations")
		if delErr := s.kv.Delete(ctx, StorageKey); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", StorageKey).Msg("failed to clear corrupt annotations")
		}
		return models.Annotations{}
	}
	if entries == nil {
		entries = models.Annotations{}
	}
	return entries
}

// SetRating sets one rating source for ticker. An empty value clears it.
func (s *Store) SetRating(ctx context.Context, ticker string, field models.RatingField, value models.Rating) (models.Annotation, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return models.Annotation{}, ErrEmptyTicker
	}
	if !field.Valid() {
		return models.Annotation{}, fmt.Errorf("%w: %q", ErrUnknownRatingField, field)
	}
	if value != "" && !value.Valid() {
		return models.Annotation{}, fmt.Errorf("%w: %q", ErrInvalidRating, value)
	}

	return s.update(ctx, ticker, func(a models.Annotation) models.Annotation {
		return a.WithRating(field, value)
	})
}

// SetNotes replaces the notes for ticker. Callers are expected to
// coalesce keystrokes; see Debouncer.
func (s *Store) SetNotes(ctx context.Context, ticker, text string) (models.Annotation, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return models.Annotation{}, ErrEmptyTicker
	}
	return s.update(ctx, ticker, func(a models.Annotation) models.Annotation {
		a.Notes = &text
		return a
	})
}

// update merges one field into the entry and persists the whole map while
// holding the lock so writes reach storage in mutation order. The change
// only becomes visible once storage accepts it.
func (s *Store) update(ctx context.Context, ticker string, merge func(models.Annotation) models.Annotation) (models.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := merge(s.entries[ticker])
	next := make(models.Annotations, len(s.entries)+1)
	for k, v := range s.entries {
		next[k] = v
	}
	next[ticker] = updated

	data, err := json.Marshal(next)
	if err != nil {
		return models.Annotation{}, fmt.Errorf("failed to encode annotations: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return models.Annotation{}, fmt.Errorf("failed to persist annotations: %w", err)
	}
	s.entries = next

	s.logger.Debug().Str("ticker", ticker).Int("entries", len(s.entries)).Msg("annotations saved")
	return cloneAnnotation(updated), nil
}

// Get returns the annotation for ticker and whether one exists.
func (s *Store) Get(ticker string) (models.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.entries[ticker]
	return cloneAnnotation(a), ok
}

// Snapshot returns a copy of the full map.
func (s *Store) Snapshot() models.Annotations {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Clone()
}

func cloneAnnotation(a models.Annotation) models.Annotation {
	if a.Notes != nil {
		n := *a.Notes
		a.Notes = &n
	}
	return a
}

// NotesWriter adapts the store for use behind a Debouncer.
func (s *Store) NotesWriter() NotesWriter {
	return NotesWriterFunc(func(ctx context.Context, ticker, text string) error {
		_, err := s.SetNotes(ctx, ticker, text)
		return err
	})
}
