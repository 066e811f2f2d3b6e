package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

// Snapshot is a consistent view of the Book for rendering.
type Snapshot struct {
	Holdings []models.Holding
	Loading  bool
	Error    string
	Source   string
	LoadedAt time.Time
}

// LoadObserver is told the outcome of every load.
type LoadObserver func(source string, count int, err error)

// Book owns the current holdings list. Loads are not serialised: when two
// overlap, whichever resolves last wins. Each load is numbered and the
// number is logged so overlapping loads can be traced.
type Book struct {
	mu        sync.RWMutex
	logger    *common.Logger
	holdings  []models.Holding
	inFlight  int
	lastError string
	source    string
	loadedAt  time.Time
	nextSeq   int64
	applied   int64
	observer  LoadObserver
}

// NewBook creates a Book holding the sample portfolio.
func NewBook(logger *common.Logger) *Book {
	return &Book{
		logger:   logger,
		holdings: Sample(),
		source:   SampleSource{}.Name(),
		loadedAt: time.Now(),
	}
}

// SetObserver registers fn to be called after every load.
func (b *Book) SetObserver(fn LoadObserver) {
	b.mu.Lock()
	b.observer = fn
	b.mu.Unlock()
}

// Load runs src and, on success, replaces the holdings wholesale. On
// failure the previous holdings are kept and the user-facing message is
// recorded for the next render.
func (b *Book) Load(ctx context.Context, src interfaces.HoldingsSource) error {
	b.mu.Lock()
	b.nextSeq++
	seq := b.nextSeq
	b.inFlight++
	b.lastError = ""
	b.mu.Unlock()

	b.logger.Debug().Int64("seq", seq).Str("source", src.Name()).Msg("portfolio load started")

	holdings, err := src.Holdings(ctx)

	b.mu.Lock()
	b.inFlight--
	observer := b.observer
	if err != nil {
		b.lastError = UserMessage(err)
		b.mu.Unlock()

		b.logger.Warn().Int64("seq", seq).Str("source", src.Name()).Err(err).Msg("portfolio load failed")
		if observer != nil {
			observer(src.Name(), 0, err)
		}
		return err
	}

	if seq < b.applied {
		b.logger.Warn().
			Int64("seq", seq).
			Int64("superseded_seq", b.applied).
			Msg("older portfolio load resolved after a newer one")
	}
	b.holdings = holdings
	b.source = src.Name()
	b.loadedAt = time.Now()
	b.applied = seq
	b.mu.Unlock()

	b.logger.Info().Int64("seq", seq).Str("source", src.Name()).Int("holdings", len(holdings)).Msg("portfolio loaded")
	if observer != nil {
		observer(src.Name(), len(holdings), nil)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (b *Book) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Holdings: models.CloneHoldings(b.holdings),
		Loading:  b.inFlight > 0,
		Error:    b.lastError,
		Source:   b.source,
		LoadedAt: b.loadedAt,
	}
}

// Holdings returns a copy of the current holdings.
func (b *Book) Holdings() []models.Holding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return models.CloneHoldings(b.holdings)
}

// Find returns the holding with the given ticker.
func (b *Book) Find(ticker string) (models.Holding, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.holdings {
		if h.Ticker == ticker {
			return models.CloneHoldings([]models.Holding{h})[0], true
		}
	}
	return models.Holding{}, false
}

// ClearError drops the recorded load error.
func (b *Book) ClearError() {
	b.mu.Lock()
	b.lastError = ""
	b.mu.Unlock()
}
