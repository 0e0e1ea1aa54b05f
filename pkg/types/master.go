package types

import "slices"

// MasterData is the single snapshot of listing state every view is derived
// from. Transforms return a new instance instead of mutating a shared one.
type MasterData struct {
	MaxItems       int             `json:"maxItems"`
	TotalPages     int             `json:"totalPages"`
	ResultsHeading TagState        `json:"resultsHeading"`
	Items          []Item          `json:"items"`
	Pagination     PaginationState `json:"pagination"`
}

func (m *MasterData) Clone() *MasterData {
	ret := *m
	ret.Items = slices.Clone(m.Items)
	ret.ResultsHeading = m.ResultsHeading.Clone()
	ret.Pagination = m.Pagination.Clone()
	return &ret
}

func (m *MasterData) CountActive() int {
	count := 0
	for i := range m.Items {
		if m.Items[i].IsActive {
			count++
		}
	}
	return count
}

// ActiveItems returns the active items on page in sequence order.
func (m *MasterData) ActiveItems(page int) []Item {
	ret := make([]Item, 0, m.MaxItems)
	for _, item := range m.Items {
		if item.IsOnPage(page) {
			ret = append(ret, item)
		}
	}
	return ret
}
