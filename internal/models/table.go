package models

// TableSettings is the persisted part of the portfolio table layout.
type TableSettings struct {
	Visibility map[string]bool `json:"visibility"`
	Order      []string        `json:"order"`
	Sizing     map[string]int  `json:"sizing"`
}

// DefaultTableSettings returns every column shown, declaration order, default widths.
func DefaultTableSettings() TableSettings {
	return TableSettings{
		Visibility: map[string]bool{},
		Order:      []string{},
		Sizing:     map[string]int{},
	}
}

// Clone returns a deep copy of s.
func (s TableSettings) Clone() TableSettings {
	out := TableSettings{
		Visibility: make(map[string]bool, len(s.Visibility)),
		Order:      append([]string{}, s.Order...),
		Sizing:     make(map[string]int, len(s.Sizing)),
	}
	for k, v := range s.Visibility {
		out.Visibility[k] = v
	}
	for k, v := range s.Sizing {
		out.Sizing[k] = v
	}
	return out
}

// IsVisible reports whether column id is shown. Columns default to shown.
func (s TableSettings) IsVisible(id string) bool {
	v, ok := s.Visibility[id]
	return !ok || v
}

// SortKey sorts by one column.
type SortKey struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// SortSpec is an ordered list of sort keys; the first key is primary.
type SortSpec []SortKey

// Pagination selects one page of rows.
type Pagination struct {
	PageIndex int `json:"page_index"`
	PageSize  int `json:"page_size"`
}
