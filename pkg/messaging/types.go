package messaging

import (
	"encoding/json"

	"github.com/matst80/location-listing/pkg/events"
)

type ChangeTopic string

const (
	// ListingEvents carries the events emitted by listing widgets.
	ListingEvents ChangeTopic = "listing_events"
	// ListingCommands carries widget events to apply to a listing.
	ListingCommands ChangeTopic = "listing_commands"
)

// Message is the wire form of a widget event on both topics.
type Message struct {
	Widget  string          `json:"widget"`
	Name    events.Name     `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
