package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/analysis"
	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/models"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
	"github.com/bobmcallan/stock-analyser/internal/storage/memory"
	"github.com/bobmcallan/stock-analyser/internal/tableview"
)

type stubFetcher struct {
	holdings []models.Holding
	err      error
}

func (f *stubFetcher) FetchHoldings(context.Context) ([]models.Holding, error) {
	return f.holdings, f.err
}

// fixture wires the handlers over in-memory state.
type fixture struct {
	kv        *memory.KVStorage
	book      *portfolio.Book
	store     *annotations.Store
	debouncer *annotations.Debouncer
	state     *tableview.State
	fetcher   *stubFetcher
	pages     *PageHandler
	portfolio *PortfolioHandler
	notes     *AnnotationsHandler
	table     *TableHandler
	holdings  *HoldingsHandler
	analysis  *AnalysisHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := common.NewSilentLogger()

	f := &fixture{
		kv:      memory.NewKVStorage(),
		book:    portfolio.NewBook(logger),
		fetcher: &stubFetcher{},
	}
	f.store = annotations.NewStore(ctx, f.kv, logger)
	f.debouncer = annotations.NewDebouncer(f.store.NotesWriter(), time.Hour, logger)
	f.state = tableview.NewState(ctx, f.kv, logger)
	f.pages = NewPageHandler(logger)
	f.portfolio = NewPortfolioHandler(logger, f.pages, f.book, f.store, f.debouncer, f.state, f.fetcher)
	f.notes = NewAnnotationsHandler(logger, f.store, f.debouncer)
	f.table = NewTableHandler(logger, f.state, f.book, f.store)
	f.holdings = NewHoldingsHandler(logger, f.book)
	service := analysis.NewService(&analysis.PlaceholderAnalyzer{}, time.Hour, 10, logger)
	f.analysis = NewAnalysisHandler(logger, f.pages, f.book, service)
	return f
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
