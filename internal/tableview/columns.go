// Package tableview holds the portfolio table layout: column definitions,
// the persisted visibility/order/sizing settings, session sort and
// pagination, and the pure functions that turn holdings into a page of rows.
package tableview

import (
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

// CellKind tells the template how to render a cell.
type CellKind string

const (
	KindImage    CellKind = "image"
	KindText     CellKind = "text"
	KindNumber   CellKind = "number"
	KindCurrency CellKind = "currency"
	KindPnL      CellKind = "pnl"
	KindRating   CellKind = "rating"
	KindNotes    CellKind = "notes"
	KindCopy     CellKind = "copy"
)

// MinColumnWidth is the narrowest a column can be resized to.
const MinColumnWidth = 20

// Column is one fixed column definition.
type Column struct {
	ID       string
	Header   string
	Size     int
	Sortable bool
	Kind     CellKind

	// sortValue returns a float64 or string used by SortRows.
	sortValue func(h models.Holding) interface{}
	// ratingField is set for rating columns.
	ratingField models.RatingField
}

// Label is the column's name in the visibility menu.
func (c Column) Label() string {
	if c.Header != "" {
		return c.Header
	}
	if c.ID == "logo" {
		return "Logo"
	}
	return c.ID
}

// RatingField returns the rating source edited by a rating column.
func (c Column) RatingField() models.RatingField {
	return c.ratingField
}

func str(f func(models.Holding) string) func(models.Holding) interface{} {
	return func(h models.Holding) interface{} { return f(h) }
}

func num(f func(models.Holding) float64) func(models.Holding) interface{} {
	return func(h models.Holding) interface{} { return f(h) }
}

var columns = []Column{
	{ID: "logo", Header: "", Size: 50, Kind: KindImage},
	{ID: "ticker", Header: "Ticker", Size: 100, Sortable: true, Kind: KindText,
		sortValue: str(func(h models.Holding) string { return h.Ticker })},
	{ID: "name", Header: "Company", Size: 200, Sortable: true, Kind: KindText,
		sortValue: str(func(h models.Holding) string { return h.Name })},
	{ID: "sector", Header: "Sector", Size: 150, Sortable: true, Kind: KindText,
		sortValue: str(func(h models.Holding) string { return h.Sector })},
	{ID: "quantity", Header: "Quantity", Size: 100, Sortable: true, Kind: KindNumber,
		sortValue: num(func(h models.Holding) float64 { return h.Quantity })},
	{ID: "avg_price", Header: "Avg. Price", Size: 120, Sortable: true, Kind: KindCurrency,
		sortValue: num(func(h models.Holding) float64 { return h.AvgPrice })},
	{ID: "live_price", Header: "Live Price", Size: 120, Sortable: true, Kind: KindCurrency,
		sortValue: num(func(h models.Holding) float64 { return h.LivePrice })},
	{ID: "invested_amount", Header: "Invested", Size: 120, Sortable: true, Kind: KindCurrency,
		sortValue: num(func(h models.Holding) float64 { return h.InvestedAmount })},
	{ID: "current_value", Header: "Current Value", Size: 140, Sortable: true, Kind: KindCurrency,
		sortValue: num(func(h models.Holding) float64 { return h.CurrentValue })},
	{ID: "total_profit_loss", Header: "P&L", Size: 150, Sortable: true, Kind: KindPnL,
		sortValue: num(func(h models.Holding) float64 { return h.TotalProfitLoss })},
	{ID: string(models.GeminiRating), Header: "Gemini Rating", Size: 140, Kind: KindRating,
		ratingField: models.GeminiRating},
	{ID: string(models.PerplexityRating), Header: "Perplexity Rating", Size: 140, Kind: KindRating,
		ratingField: models.PerplexityRating},
	{ID: string(models.AlphaSpreadRating), Header: "Alpha Spread Rating", Size: 160, Kind: KindRating,
		ratingField: models.AlphaSpreadRating},
	{ID: "notes", Header: "Notes", Size: 200, Kind: KindNotes},
	{ID: "copy", Header: "Copy", Size: 80, Kind: KindCopy},
}

// Columns returns the column definitions in declaration order.
func Columns() []Column {
	return append([]Column(nil), columns...)
}

// LookupColumn finds a column by id.
func LookupColumn(id string) (Column, bool) {
	for _, c := range columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// cellText formats the display value of a data column.
func cellText(c Column, h models.Holding) (text, class string) {
	switch c.ID {
	case "logo":
		return h.Logo, ""
	case "ticker":
		return h.Ticker, ""
	case "name":
		return h.Name, ""
	case "sector":
		return h.Sector, ""
	case "quantity":
		return common.FormatQuantity(h.Quantity), ""
	case "avg_price":
		return common.FormatMoney(h.AvgPrice), ""
	case "live_price":
		return common.FormatMoney(h.LivePrice), ""
	case "invested_amount":
		return common.FormatMoney(h.InvestedAmount), ""
	case "current_value":
		return common.FormatMoney(h.CurrentValue), ""
	case "total_profit_loss":
		text, positive := common.FormatProfitLoss(h.TotalProfitLoss, h.TotalPercentChange)
		if positive {
			return text, "positive"
		}
		return text, "negative"
	}
	return "", ""
}
