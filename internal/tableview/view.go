package tableview

import (
	"sort"
	"strings"

	"github.com/bobmcallan/stock-analyser/internal/models"
)

// SortRows returns a sorted copy of rows. Keys are applied in order;
// unknown or unsortable column ids are skipped. The sort is stable and
// rows is not modified.
func SortRows(rows []models.Holding, spec models.SortSpec) []models.Holding {
	out := append([]models.Holding(nil), rows...)

	type key struct {
		col  Column
		desc bool
	}
	var keys []key
	for _, s := range spec {
		c, ok := LookupColumn(s.ID)
		if !ok || !c.Sortable {
			continue
		}
		keys = append(keys, key{col: c, desc: s.Desc})
	}
	if len(keys) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareValues(k.col.sortValue(out[i]), k.col.sortValue(out[j]))
			if cmp == 0 {
				continue
			}
			if k.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return out
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	}
	return 0
}

// Paginate returns the rows on the selected page. A page past the end is
// empty; a non-positive page size uses DefaultPageSize.
func Paginate[T any](rows []T, p models.Pagination) []T {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if p.PageIndex < 0 || p.PageIndex >= PageCount(len(rows), size) {
		return []T{}
	}
	start := p.PageIndex * size
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageCount returns the number of pages needed for total rows.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// EffectiveWidths returns each column's width in pixels: the override when
// present (never below MinColumnWidth), else the column's default size.
func EffectiveWidths(cols []Column, sizing map[string]int) map[string]int {
	out := make(map[string]int, len(cols))
	for _, c := range cols {
		w := c.Size
		if override, ok := sizing[c.ID]; ok {
			w = override
		}
		if w < MinColumnWidth {
			w = MinColumnWidth
		}
		out[c.ID] = w
	}
	return out
}

// OrderedColumns applies settings.Order to cols: listed ids first in the
// listed order, then every remaining column in declaration order.
func OrderedColumns(cols []Column, settings models.TableSettings) []Column {
	byID := make(map[string]Column, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}

	out := make([]Column, 0, len(cols))
	placed := make(map[string]bool, len(cols))
	for _, id := range settings.Order {
		c, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		out = append(out, c)
		placed[id] = true
	}
	for _, c := range cols {
		if !placed[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// OrderedVisibleColumns is OrderedColumns without the hidden columns.
func OrderedVisibleColumns(cols []Column, settings models.TableSettings) []Column {
	ordered := OrderedColumns(cols, settings)
	out := ordered[:0]
	for _, c := range ordered {
		if settings.IsVisible(c.ID) {
			out = append(out, c)
		}
	}
	return out
}
