package events

import (
	"github.com/matst80/location-listing/pkg/types"
)

type Name string

const (
	// consumed
	FilterFormSubmitted Name = "filter-form-submitted"
	ActiveTagCleared    Name = "active-tag-cleared"
	PaginationRequested Name = "pagination-requested"
	MapReady            Name = "map-ready"
	RowClicked          Name = "listing-row-clicked"
	RowFocused          Name = "listing-row-focused"
	RowLeft             Name = "listing-row-left"

	// emitted
	ResultsHeadingUpdated Name = "results-heading-data-updated"
	MarkersUpdated        Name = "markers-updated"
	PaginationUpdated     Name = "pagination-data-updated"
	FilterUIUpdated       Name = "filter-ui-data-updated"
	MapRecenter           Name = "map-recenter"
	MarkerBounce          Name = "marker-bounce"
)

type Event struct {
	Name Name `json:"name"`
	// Widget identifies the listing instance the event belongs to.
	Widget  string `json:"widget,omitempty"`
	Payload any    `json:"payload"`
}

type Emitter interface {
	Emit(event Event)
}

type EmitterFunc func(event Event)

func (f EmitterFunc) Emit(event Event) {
	f(event)
}

type MarkersPayload struct {
	Markers []types.Marker `json:"markers"`
	Place   *types.Place   `json:"place,omitempty"`
}

// RowPayload points at a row on the current page.
type RowPayload struct {
	Index int `json:"index"`
}

type FilterUIPayload struct {
	ClearedTag types.Tag `json:"clearedTag"`
}
