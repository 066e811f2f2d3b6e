package tableview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

// SettingsKey stores the combined visibility/order/sizing record.
const SettingsKey = "portfolioTableSettings"

// DefaultPageSize is the page size a new session starts with.
const DefaultPageSize = 50

// PageSizes are the selectable page sizes.
var PageSizes = []int{5, 10, 25, 50}

var (
	ErrUnknownColumn    = errors.New("unknown column")
	ErrNotSortable      = errors.New("column is not sortable")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidPageIndex = errors.New("invalid page index")
	ErrInvalidWidth     = errors.New("invalid column width")
)

// View is a consistent copy of the table state used for rendering.
type View struct {
	Settings   models.TableSettings
	Sort       models.SortSpec
	Pagination models.Pagination
}

// State is the table layout for one session. Visibility, order and sizing
// are persisted on every change; sort and pagination live only as long as
// the State.
type State struct {
	mu         sync.Mutex
	kv         interfaces.KeyValueStorage
	logger     *common.Logger
	settings   models.TableSettings
	sort       models.SortSpec
	pagination models.Pagination
}

// NewState loads persisted settings and starts unsorted on page 0.
func NewState(ctx context.Context, kv interfaces.KeyValueStorage, logger *common.Logger) *State {
	s := &State{
		kv:         kv,
		logger:     logger,
		pagination: models.Pagination{PageIndex: 0, PageSize: DefaultPageSize},
	}
	s.settings = s.loadSettings(ctx)
	return s
}

// loadSettings never fails: a missing or corrupt record yields defaults,
// and a corrupt record is removed.
func (s *State) loadSettings(ctx context.Context) models.TableSettings {
	raw, err := s.kv.Get(ctx, SettingsKey)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("failed to read table settings, using defaults")
		}
		return models.DefaultTableSettings()
	}

	var loaded models.TableSettings
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn().Err(err).Str("key", SettingsKey).Msg("discarding corrupt table settings")
		if delErr := s.kv.Delete(ctx, SettingsKey); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", SettingsKey).Msg("failed to clear corrupt table settings")
		}
		return models.DefaultTableSettings()
	}

	settings := models.DefaultTableSettings()
	if loaded.Visibility != nil {
		settings.Visibility = loaded.Visibility
	}
	if loaded.Order != nil {
		settings.Order = loaded.Order
	}
	if loaded.Sizing != nil {
		settings.Sizing = loaded.Sizing
	}
	return settings
}

// commit writes next and adopts it once storage accepts it. Callers hold
// s.mu; on error the current settings are unchanged.
func (s *State) commit(ctx context.Context, next models.TableSettings) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode table settings: %w", err)
	}
	if err := s.kv.Set(ctx, SettingsKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist table settings: %w", err)
	}
	s.settings = next
	return nil
}

// View returns a copy of the current state.
func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Settings:   s.settings.Clone(),
		Sort:       append(models.SortSpec(nil), s.sort...),
		Pagination: s.pagination,
	}
}

// ToggleVisibility flips a column between shown and hidden and returns
// the new visibility.
func (s *State) ToggleVisibility(ctx context.Context, id string) (bool, error) {
	if _, ok := LookupColumn(id); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Clone()
	visible := !next.IsVisible(id)
	next.Visibility[id] = visible
	if err := s.commit(ctx, next); err != nil {
		return !visible, err
	}
	return visible, nil
}

// SetOrder stores a column order. Ids must be known and not repeated;
// columns left out keep their declaration order after the listed ones.
func (s *State) SetOrder(ctx context.Context, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := LookupColumn(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s listed twice", ErrUnknownColumn, id)
		}
		seen[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Clone()
	next.Order = append([]string{}, ids...)
	return s.commit(ctx, next)
}

// Resize sets a column width in pixels, clamped to MinColumnWidth.
func (s *State) Resize(ctx context.Context, id string, px int) (int, error) {
	if _, ok := LookupColumn(id); !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}
	if px <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, px)
	}
	if px < MinColumnWidth {
		px = MinColumnWidth
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Clone()
	next.Sizing[id] = px
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return px, nil
}

// ToggleSort cycles a column through ascending, descending and unsorted.
// Selecting a different column starts it ascending and drops the old key.
func (s *State) ToggleSort(id string) (models.SortSpec, error) {
	c, ok := LookupColumn(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}
	if !c.Sortable {
		return nil, fmt.Errorf("%w: %s", ErrNotSortable, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sort = nextSort(s.sort, id)
	return append(models.SortSpec(nil), s.sort...), nil
}

func nextSort(current models.SortSpec, id string) models.SortSpec {
	if len(current) == 0 || current[0].ID != id {
		return models.SortSpec{{ID: id, Desc: false}}
	}
	if !current[0].Desc {
		return models.SortSpec{{ID: id, Desc: true}}
	}
	return nil
}

// SetPageIndex selects a page. Indexes past the last page are accepted
// and render as an empty page.
func (s *State) SetPageIndex(i int) error {
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageIndex, i)
	}
	s.mu.Lock()
	s.pagination.PageIndex = i
	s.mu.Unlock()
	return nil
}

// SetPageSize changes the page size and returns to the first page.
func (s *State) SetPageSize(n int) error {
	if !ValidPageSize(n) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	s.mu.Lock()
	s.pagination = models.Pagination{PageIndex: 0, PageSize: n}
	s.mu.Unlock()
	return nil
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, v := range PageSizes {
		if v == n {
			return true
		}
	}
	return false
}
