package tableview

import (
	"encoding/json"

	"github.com/bobmcallan/stock-analyser/internal/models"
)

// HeaderCell is one visible column header. SortDir is "asc", "desc" or
// "" when the column is not part of the sort.
type HeaderCell struct {
	ID       string `json:"id"`
	Header   string `json:"header"`
	Width    int    `json:"width"`
	Sortable bool   `json:"sortable"`
	SortDir  string `json:"sort_dir,omitempty"`
}

// ColumnToggle is one entry in the column visibility menu.
type ColumnToggle struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// Cell is one rendered value. Only the fields relevant to Kind are set.
type Cell struct {
	ColumnID    string             `json:"column_id"`
	Kind        CellKind           `json:"kind"`
	Text        string             `json:"text,omitempty"`
	Class       string             `json:"class,omitempty"`
	RatingField models.RatingField `json:"rating_field,omitempty"`
	Rating      models.Rating      `json:"rating,omitempty"`
}

// Row is one holding on the current page. Key changes whenever the row's
// annotation changes so clients can skip re-rendering unchanged rows.
type Row struct {
	Key    string `json:"key"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Cells  []Cell `json:"cells"`
}

// Table is the render model for the portfolio table.
type Table struct {
	Headers   []HeaderCell   `json:"headers"`
	Toggles   []ColumnToggle `json:"toggles"`
	Rows      []Row          `json:"rows"`
	TotalRows int            `json:"total_rows"`
	PageIndex int            `json:"page_index"`
	PageSize  int            `json:"page_size"`
	PageCount int            `json:"page_count"`
	PageSizes []int          `json:"page_sizes"`
	FirstRow  int            `json:"first_row"`
	LastRow   int            `json:"last_row"`
	HasPrev   bool           `json:"has_prev"`
	HasNext   bool           `json:"has_next"`
}

// BuildTable sorts and paginates holdings under view and formats the
// visible cells. annotations supplies rating and notes values.
func BuildTable(holdings []models.Holding, annotations models.Annotations, view View) Table {
	all := Columns()
	visible := OrderedVisibleColumns(all, view.Settings)
	widths := EffectiveWidths(all, view.Settings.Sizing)

	sortDir := make(map[string]string, len(view.Sort))
	for _, k := range view.Sort {
		if k.Desc {
			sortDir[k.ID] = "desc"
		} else {
			sortDir[k.ID] = "asc"
		}
	}

	t := Table{
		TotalRows: len(holdings),
		PageIndex: view.Pagination.PageIndex,
		PageSize:  view.Pagination.PageSize,
		PageSizes: append([]int(nil), PageSizes...),
	}
	if t.PageSize <= 0 {
		t.PageSize = DefaultPageSize
	}
	t.PageCount = PageCount(t.TotalRows, t.PageSize)

	for _, c := range visible {
		t.Headers = append(t.Headers, HeaderCell{
			ID:       c.ID,
			Header:   c.Header,
			Width:    widths[c.ID],
			Sortable: c.Sortable,
			SortDir:  sortDir[c.ID],
		})
	}
	for _, c := range OrderedColumns(all, view.Settings) {
		t.Toggles = append(t.Toggles, ColumnToggle{
			ID:      c.ID,
			Label:   c.Label(),
			Visible: view.Settings.IsVisible(c.ID),
		})
	}

	page := Paginate(SortRows(holdings, view.Sort), models.Pagination{PageIndex: t.PageIndex, PageSize: t.PageSize})
	for _, h := range page {
		t.Rows = append(t.Rows, buildRow(h, annotations[h.Ticker], visible))
	}

	if len(page) > 0 {
		t.FirstRow = t.PageIndex*t.PageSize + 1
		t.LastRow = t.FirstRow + len(page) - 1
	}
	t.HasPrev = t.PageIndex > 0
	t.HasNext = t.PageIndex < t.PageCount-1
	return t
}

func buildRow(h models.Holding, a models.Annotation, visible []Column) Row {
	row := Row{
		Key:    RowKey(h.Ticker, a),
		Ticker: h.Ticker,
		Name:   h.Name,
		Cells:  make([]Cell, 0, len(visible)),
	}
	for _, c := range visible {
		cell := Cell{ColumnID: c.ID, Kind: c.Kind}
		switch c.Kind {
		case KindRating:
			cell.RatingField = c.ratingField
			cell.Rating = a.Rating(c.ratingField)
			cell.Class = cell.Rating.CSSClass()
		case KindNotes:
			cell.Text = a.NotesText()
		case KindCopy:
		default:
			cell.Text, cell.Class = cellText(c, h)
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

// RowKey identifies a row together with the annotation it was rendered from.
func RowKey(ticker string, a models.Annotation) string {
	data, err := json.Marshal(a)
	if err != nil {
		return ticker
	}
	return ticker + "-" + string(data)
}
