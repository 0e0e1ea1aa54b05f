package types

// Markup is precompiled html for one listing row.
type Markup string

type Item struct {
	IsActive bool `json:"isActive"`
	// Page is the 1-based page the item renders on, 0 while inactive.
	Page int `json:"page"`
	// Index is the item's position in the source listing.
	Index    int         `json:"index"`
	Marker   Marker      `json:"marker,omitempty"`
	Markup   Markup      `json:"markup"`
	Data     PromoRecord `json:"data"`
	Distance *float64    `json:"distance,omitempty"`
}

func (i *Item) IsOnPage(page int) bool {
	return i.IsActive && i.Page == page
}
