package annotations

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/common"
)

// DefaultNotesDelay is the idle window before a notes edit is written.
const DefaultNotesDelay = 500 * time.Millisecond

// NotesWriter commits a notes value for a ticker.
type NotesWriter interface {
	SetNotes(ctx context.Context, ticker, text string) error
}

// NotesWriterFunc adapts a function to NotesWriter.
type NotesWriterFunc func(ctx context.Context, ticker, text string) error

func (f NotesWriterFunc) SetNotes(ctx context.Context, ticker, text string) error {
	return f(ctx, ticker, text)
}

type pendingNote struct {
	timer *time.Timer
	text  string
}

// Debouncer coalesces rapid notes edits per ticker. Each Submit cancels the
// ticker's pending timer and arms a new one; only the last text is written.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	writer  NotesWriter
	logger  *common.Logger
	pending map[string]*pendingNote
}

// NewDebouncer creates a debouncer. A non-positive delay uses DefaultNotesDelay.
func NewDebouncer(writer NotesWriter, delay time.Duration, logger *common.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultNotesDelay
	}
	return &Debouncer{
		delay:   delay,
		writer:  writer,
		logger:  logger,
		pending: make(map[string]*pendingNote),
	}
}

// Submit records text as the latest notes for ticker and restarts its timer.
func (d *Debouncer) Submit(ticker, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[ticker]; ok {
		p.timer.Stop()
	}

	p := &pendingNote{text: text}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(ticker, p) })
	d.pending[ticker] = p
}

// fire writes p if it is still the ticker's latest pending note.
func (d *Debouncer) fire(ticker string, p *pendingNote) {
	d.mu.Lock()
	if d.pending[ticker] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, ticker)
	d.mu.Unlock()

	if err := d.writer.SetNotes(context.Background(), ticker, p.text); err != nil {
		d.logger.Error().Err(err).Str("ticker", ticker).Msg("failed to save notes")
	}
}

// Pending returns the unsaved notes text for ticker, if any.
func (d *Debouncer) Pending(ticker string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[ticker]
	if !ok {
		return "", false
	}
	return p.text, true
}

// Cancel drops the pending note for ticker without writing it. It
// reports whether one was pending.
func (d *Debouncer) Cancel(ticker string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[ticker]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, ticker)
	return true
}

// Flush writes every pending note immediately and cancels their timers.
// The first write error is returned after all writes are attempted.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	batch := make(map[string]string, len(d.pending))
	for ticker, p := range d.pending {
		p.timer.Stop()
		batch[ticker] = p.text
	}
	d.pending = make(map[string]*pendingNote)
	d.mu.Unlock()

	var firstErr error
	for ticker, text := range batch {
		if err := d.writer.SetNotes(ctx, ticker, text); err != nil {
			d.logger.Error().Err(err).Str("ticker", ticker).Msg("failed to flush notes")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if len(batch) > 0 {
		d.logger.Debug().Int("count", len(batch)).Msg("flushed pending notes")
	}
	return firstErr
}
