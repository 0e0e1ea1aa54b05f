package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/matst80/location-listing/pkg/events"
	"github.com/matst80/location-listing/pkg/geocode"
	"github.com/matst80/location-listing/pkg/listing"
	"github.com/matst80/location-listing/pkg/master"
	"github.com/matst80/location-listing/pkg/render"
	"github.com/matst80/location-listing/pkg/types"
)

var (
	// ErrNotReady is returned for events that arrive before the map is ready.
	ErrNotReady = errors.New("listing has no markers yet")
	// ErrSuperseded is returned when a newer event replaced the result of a
	// pending geocode.
	ErrSuperseded = errors.New("superseded by a newer event")
)

const DefaultGeocodeTimeout = 5 * time.Second

type Options struct {
	WidgetID string
	Geocoder geocode.Service
	Renderer *render.Renderer
	// Emitter receives every broadcast while the coordinator holds its lock,
	// so it must not call back into the coordinator.
	Emitter        events.Emitter
	Compiler       master.MarkupCompiler
	GeocodeTimeout time.Duration
	VisiblePages   int
}

// FilterForm is a submitted filter form. Place is set when the location was
// picked from the address autocomplete and needs no geocoding.
type FilterForm struct {
	Tags  []types.Tag  `json:"tags"`
	Place *types.Place `json:"place,omitempty"`
}

// View is what the widget currently shows.
type View struct {
	Widget     string                `json:"widget"`
	Heading    types.TagState        `json:"resultsHeading"`
	Pagination types.PaginationState `json:"pagination"`
	TotalPages int                   `json:"totalPages"`
	Page       render.Page           `json:"page"`
	Markers    []types.Marker        `json:"markers"`
	Place      *types.Place          `json:"place,omitempty"`
	ActiveRow  int                   `json:"activeRow"`
	FocusedRow int                   `json:"focusedRow"`
}

// Coordinator owns the master data of one listing widget and turns widget
// events into new master data, rendered rows and broadcasts.
type Coordinator struct {
	mu      sync.Mutex
	opts    Options
	raw     *types.RawListing
	data    *types.MasterData
	page    render.Page
	markers []types.Marker
	place   *types.Place

	// places already resolved, by location filter value
	resolved map[string]types.Place

	seq    uint64
	cancel context.CancelFunc

	activeRow  int
	focusedRow int
}

func New(raw *types.RawListing, opts Options) (*Coordinator, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer(nil)
	}
	if opts.Emitter == nil {
		opts.Emitter = events.EmitterFunc(func(events.Event) {})
	}
	if opts.GeocodeTimeout <= 0 {
		opts.GeocodeTimeout = DefaultGeocodeTimeout
	}
	if opts.VisiblePages <= 0 {
		opts.VisiblePages = listing.DefaultVisiblePages
	}
	return &Coordinator{
		opts:       opts,
		raw:        raw,
		resolved:   make(map[string]types.Place),
		activeRow:  -1,
		focusedRow: -1,
	}, nil
}

func (c *Coordinator) ID() string {
	return c.opts.WidgetID
}

func (c *Coordinator) Raw() *types.RawListing {
	return c.raw
}

// Data returns the current master data, nil before the map is ready.
func (c *Coordinator) Data() *types.MasterData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

func (c *Coordinator) View() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		return View{}, ErrNotReady
	}
	return View{
		Widget:     c.opts.WidgetID,
		Heading:    c.data.ResultsHeading,
		Pagination: c.data.Pagination,
		TotalPages: c.data.TotalPages,
		Page:       c.page,
		Markers:    c.markers,
		Place:      c.place,
		ActiveRow:  c.activeRow,
		FocusedRow: c.focusedRow,
	}, nil
}

// begin takes a new sequence token and cancels any pending geocode. Must be
// called with the lock held.
func (c *Coordinator) begin(event events.Name) uint64 {
	handledEvents.WithLabelValues(string(event)).Inc()
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.seq
}

func (c *Coordinator) emit(name events.Name, payload any) {
	c.opts.Emitter.Emit(events.Event{Name: name, Widget: c.opts.WidgetID, Payload: payload})
}

// OnMapReady builds the master data from the markers created by the map and
// renders the current page.
func (c *Coordinator) OnMapReady(markers []types.Marker) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(events.MapReady)

	data, err := master.Build(c.raw, markers, c.opts.Compiler)
	if err != nil {
		return err
	}
	page := listing.ClampPage(data.Pagination.CurrentPage, data.TotalPages)
	rendered, err := c.opts.Renderer.RenderPage(data, page)
	if err != nil {
		return fmt.Errorf("render page %d: %w", page, err)
	}
	c.data = data
	c.page = rendered
	c.markers = listing.ActiveMarkers(data, page)
	c.place = nil
	c.activeRow, c.focusedRow = -1, -1
	log.Printf("listing %s ready with %d items on %d pages", c.opts.WidgetID, len(data.Items), data.TotalPages)
	return nil
}

func (c *Coordinator) OnFilterSubmitted(ctx context.Context, form FilterForm) error {
	return c.transform(ctx, events.FilterFormSubmitted, listing.Submitted(form.Tags...), form.Place)
}

// OnTagCleared removes a tag from the active filters, or all of them for a
// clearAll tag, and tells the filter form which tag was cleared.
func (c *Coordinator) OnTagCleared(ctx context.Context, tag types.Tag) error {
	return c.transform(ctx, events.ActiveTagCleared, listing.Cleared(tag), nil)
}

func (c *Coordinator) transform(ctx context.Context, event events.Name, change listing.FilterChange, picked *types.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.begin(event)
	if c.data == nil {
		return ErrNotReady
	}

	filtered := listing.FilterByTags(c.data, change)
	sorted := listing.DefaultOrder(filtered)
	var place *types.Place

	tags := filtered.ResultsHeading.Tags
	if listing.HasFilter(tags, types.TagTypeLocation) {
		address := listing.GetFilterValues(tags, types.TagTypeLocation)[0]
		resolved, err := c.resolve(ctx, seq, address, picked)
		switch {
		case errors.Is(err, ErrSuperseded):
			supersededRequests.Inc()
			return err
		case err != nil:
			geocodeFallbacks.Inc()
			log.Printf("listing %s: geocode failed for %q, keeping alphabetical order: %v", c.opts.WidgetID, address, err)
		default:
			place = &resolved
			sorted = listing.SortAroundPlace(resolved, filtered)
		}
	}

	sorted.ResultsHeading = listing.TransformResultsHeading(sorted, 1)
	sorted.Pagination = listing.TransformPaginationDataWindow(sorted, 1, c.opts.VisiblePages)
	if err := c.commit(sorted, 1, place); err != nil {
		return err
	}
	c.broadcast()
	if change.Kind == listing.ChangeCleared {
		c.emit(events.FilterUIUpdated, events.FilterUIPayload{ClearedTag: change.Cleared})
	}
	return nil
}

// resolve finds the place of a location filter. The lock is released while
// the geocoder runs; a newer event in the meantime makes the result stale.
// Must be called with the lock held.
func (c *Coordinator) resolve(ctx context.Context, seq uint64, address string, picked *types.Place) (types.Place, error) {
	if picked.HasLocation() {
		c.resolved[address] = *picked
		return *picked, nil
	}
	if place, ok := c.resolved[address]; ok {
		return place, nil
	}
	if c.opts.Geocoder == nil {
		return types.Place{}, &geocode.Error{Address: address, Err: geocode.ErrUnavailable}
	}

	gctx, cancel := context.WithTimeout(ctx, c.opts.GeocodeTimeout)
	c.cancel = cancel
	c.mu.Unlock()
	place, err := c.opts.Geocoder.Resolve(gctx, address)
	c.mu.Lock()
	cancel()
	if c.seq != seq {
		return types.Place{}, ErrSuperseded
	}
	c.cancel = nil
	if err != nil {
		return types.Place{}, err
	}
	c.resolved[address] = place
	return place, nil
}

// OnPaginationRequested shows another page of the current result. Filters and
// order are left as they are.
func (c *Coordinator) OnPaginationRequested(target types.PageTarget) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(events.PaginationRequested)
	if c.data == nil {
		return ErrNotReady
	}

	next, err := listing.ResolvePageTarget(target, c.data.Pagination.CurrentPage)
	if err != nil {
		return err
	}
	page := listing.ClampPage(next, c.data.TotalPages)
	data := c.data.Clone()
	data.Pagination = listing.TransformPaginationDataWindow(data, page, c.opts.VisiblePages)
	data.ResultsHeading = listing.TransformResultsHeading(data, page)
	if err := c.commit(data, page, c.place); err != nil {
		return err
	}
	c.broadcast()
	return nil
}

func (c *Coordinator) commit(data *types.MasterData, page int, place *types.Place) error {
	rendered, err := c.opts.Renderer.RenderPage(data, page)
	if err != nil {
		return fmt.Errorf("render page %d: %w", page, err)
	}
	c.data = data
	c.page = rendered
	c.markers = listing.ActiveMarkers(data, page)
	c.place = place
	c.activeRow, c.focusedRow = -1, -1
	return nil
}

func (c *Coordinator) broadcast() {
	c.emit(events.ResultsHeadingUpdated, c.data.ResultsHeading)
	c.emit(events.MarkersUpdated, events.MarkersPayload{Markers: c.markers, Place: c.place})
	c.emit(events.PaginationUpdated, c.data.Pagination)
}
