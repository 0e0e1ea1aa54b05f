package types

import "fmt"

type RawImagePromos struct {
	Items Sequence[PromoRecord] `json:"items"`
}

// RawListing is the listing object the server embeds in the page.
type RawListing struct {
	MaxItems       int             `json:"maxItems,omitempty"`
	ResultsHeading TagState        `json:"resultsHeading"`
	ImagePromos    *RawImagePromos `json:"imagePromos"`
	Pagination     PaginationState `json:"pagination"`
	// Filters lists the selectable filter options, used to label submitted values.
	Filters Sequence[Tag] `json:"filters,omitempty"`
}

func (l *RawListing) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: no listing", ErrMalformedListing)
	}
	if l.ImagePromos == nil {
		return fmt.Errorf("%w: missing imagePromos", ErrMalformedListing)
	}
	for i, promo := range l.ImagePromos.Items {
		if promo.Title.Text == "" {
			return fmt.Errorf("%w: item %d has no title", ErrMalformedListing, i)
		}
	}
	return nil
}

// Label looks up the display label of a filter option, falling back to the value.
func (l *RawListing) Label(tagType, value string) string {
	for _, f := range l.Filters {
		if f.Type == tagType && f.Value == value && f.Label != "" {
			return f.Label
		}
	}
	return value
}
