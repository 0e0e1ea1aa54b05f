package types

import "slices"

const (
	TagTypeTag      = "tag"
	TagTypeLocation = "location"
	// TagTypeClearAll on a cleared tag removes every active filter.
	TagTypeClearAll = "clearAll"
)

type Tag struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Label string `json:"label"`
}

func (t Tag) Matches(other Tag) bool {
	return t.Type == other.Type && t.Value == other.Value
}

// TagState is the data behind the results heading: the active filters and
// the "showing x - y of z" counters.
type TagState struct {
	Tags         Sequence[Tag] `json:"tags"`
	NumResults   string        `json:"numResults"`
	TotalResults int           `json:"totalResults"`
}

func (s TagState) Clone() TagState {
	s.Tags = slices.Clone(s.Tags)
	return s
}
