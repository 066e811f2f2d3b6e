package tableview

import (
	"testing"

	"github.com/bobmcallan/stock-analyser/internal/models"
)

func sampleRows() []models.Holding {
	return []models.Holding{
		{Ticker: "MSFT", Name: "Microsoft", LivePrice: 410},
		{Ticker: "aapl", Name: "Apple", LivePrice: 190},
		{Ticker: "NVDA", Name: "Nvidia", LivePrice: 410},
		{Ticker: "AMZN", Name: "Amazon", LivePrice: 180},
	}
}

func tickers(rows []models.Holding) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Ticker
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortRows(t *testing.T) {
	tests := []struct {
		name string
		spec models.SortSpec
		want []string
	}{
		{"no sort keeps input order", nil, []string{"MSFT", "aapl", "NVDA", "AMZN"}},
		{"ticker ascending ignores case", models.SortSpec{{ID: "ticker"}}, []string{"aapl", "AMZN", "MSFT", "NVDA"}},
		{"price descending is stable", models.SortSpec{{ID: "live_price", Desc: true}}, []string{"MSFT", "NVDA", "aapl", "AMZN"}},
		{"secondary key breaks ties", models.SortSpec{{ID: "live_price", Desc: true}, {ID: "name", Desc: true}}, []string{"NVDA", "MSFT", "aapl", "AMZN"}},
		{"unsortable key ignored", models.SortSpec{{ID: "notes"}}, []string{"MSFT", "aapl", "NVDA", "AMZN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tickers(SortRows(sampleRows(), tt.spec))
			if !equalStrings(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSortRows_DoesNotModifyInput(t *testing.T) {
	rows := sampleRows()
	SortRows(rows, models.SortSpec{{ID: "ticker"}})

	if !equalStrings(tickers(rows), []string{"MSFT", "aapl", "NVDA", "AMZN"}) {
		t.Errorf("input reordered: %v", tickers(rows))
	}
}

func TestPaginate(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4, 5, 6}

	tests := []struct {
		name string
		p    models.Pagination
		want int
	}{
		{"first page", models.Pagination{PageIndex: 0, PageSize: 5}, 5},
		{"last partial page", models.Pagination{PageIndex: 1, PageSize: 5}, 2},
		{"past the end", models.Pagination{PageIndex: 9, PageSize: 5}, 0},
		{"negative index", models.Pagination{PageIndex: -1, PageSize: 5}, 0},
		{"huge index", models.Pagination{PageIndex: 1 << 62, PageSize: 50}, 0},
		{"zero size uses default", models.Pagination{PageIndex: 0}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Paginate(rows, tt.p); len(got) != tt.want {
				t.Errorf("expected %d rows, got %d", tt.want, len(got))
			}
		})
	}

	if got := Paginate(rows, models.Pagination{PageIndex: 1, PageSize: 5}); got[0] != 5 {
		t.Errorf("second page should start at 5, got %d", got[0])
	}
}

func TestPageCount(t *testing.T) {
	if PageCount(0, 10) != 0 || PageCount(10, 10) != 1 || PageCount(11, 10) != 2 {
		t.Error("unexpected page counts")
	}
}

func TestEffectiveWidths(t *testing.T) {
	widths := EffectiveWidths(Columns(), map[string]int{"name": 260, "ticker": 4, "unknown": 99})

	if widths["name"] != 260 {
		t.Errorf("expected override 260, got %d", widths["name"])
	}
	if widths["ticker"] != MinColumnWidth {
		t.Errorf("expected clamped width, got %d", widths["ticker"])
	}
	if widths["sector"] != 150 {
		t.Errorf("expected default 150, got %d", widths["sector"])
	}
	if _, ok := widths["unknown"]; ok {
		t.Error("unknown ids should not appear")
	}
}

func TestOrderedVisibleColumns(t *testing.T) {
	settings := models.TableSettings{
		Visibility: map[string]bool{"logo": false, "sector": true},
		Order:      []string{"name", "ticker", "missing", "name"},
	}

	cols := OrderedVisibleColumns(Columns(), settings)

	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	if ids[0] != "name" || ids[1] != "ticker" || ids[2] != "sector" {
		t.Errorf("unexpected order: %v", ids)
	}
	for _, id := range ids {
		if id == "logo" {
			t.Error("hidden column returned")
		}
	}
	if len(ids) != len(Columns())-1 {
		t.Errorf("expected %d columns, got %d", len(Columns())-1, len(ids))
	}
}

func TestColumns_DeclarationOrder(t *testing.T) {
	want := []string{
		"logo", "ticker", "name", "sector", "quantity", "avg_price", "live_price",
		"invested_amount", "current_value", "total_profit_loss", "gemini_rating",
		"perplexity_rating", "alpha_spread_rating", "notes", "copy",
	}
	cols := Columns()
	got := make([]string, len(cols))
	for i, c := range cols {
		got[i] = c.ID
	}
	if !equalStrings(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
