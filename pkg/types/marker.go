package types

// Marker is a map pin owned by the map component. The listing only reads its
// position.
type Marker interface {
	GetPosition() Location
}

// MapMarker is the wire form of a marker delivered with the map-ready event.
type MapMarker struct {
	Id       string   `json:"id,omitempty"`
	Title    string   `json:"title,omitempty"`
	Position Location `json:"position"`
}

func (m *MapMarker) GetPosition() Location {
	return m.Position
}

func AsMarkers(markers []MapMarker) []Marker {
	ret := make([]Marker, len(markers))
	for i := range markers {
		ret[i] = &markers[i]
	}
	return ret
}
