package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/events"
	"github.com/matst80/location-listing/pkg/types"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadPayload   = errors.New("bad event payload")
)

type MapReadyPayload struct {
	Markers types.Sequence[types.MapMarker] `json:"markers"`
}

type FilterFormPayload struct {
	Tags  types.Sequence[types.Tag] `json:"tags"`
	Place *types.Place              `json:"place,omitempty"`
}

type PaginationPayload struct {
	Target types.PageTarget `json:"target"`
}

// Dispatch decodes a consumed widget event and calls the matching handler.
func Dispatch(ctx context.Context, c *Coordinator, name events.Name, payload []byte) error {
	decode := func(v any) error {
		if err := jsoncompat.Unmarshal(payload, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadPayload, name, err)
		}
		return nil
	}
	switch name {
	case events.MapReady:
		var p MapReadyPayload
		if err := decode(&p); err != nil {
			return err
		}
		return c.OnMapReady(types.AsMarkers(p.Markers))
	case events.FilterFormSubmitted:
		var p FilterFormPayload
		if err := decode(&p); err != nil {
			return err
		}
		return c.OnFilterSubmitted(ctx, FilterForm{Tags: c.labelTags(p.Tags), Place: p.Place})
	case events.ActiveTagCleared:
		var tag types.Tag
		if err := decode(&tag); err != nil {
			return err
		}
		return c.OnTagCleared(ctx, tag)
	case events.PaginationRequested:
		var p PaginationPayload
		if err := decode(&p); err != nil {
			return err
		}
		return c.OnPaginationRequested(p.Target)
	case events.RowClicked:
		var p events.RowPayload
		if err := decode(&p); err != nil {
			return err
		}
		return c.OnRowSelected(p.Index)
	case events.RowFocused:
		var p events.RowPayload
		if err := decode(&p); err != nil {
			return err
		}
		_, err := c.OnRowFocused(p.Index)
		return err
	case events.RowLeft:
		c.OnRowLeft()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownEvent, name)
}

// labelTags fills in missing labels from the filter options of the listing.
func (c *Coordinator) labelTags(tags []types.Tag) []types.Tag {
	ret := make([]types.Tag, len(tags))
	for i, t := range tags {
		if t.Label == "" {
			t.Label = c.raw.Label(t.Type, t.Value)
		}
		ret[i] = t
	}
	return ret
}
