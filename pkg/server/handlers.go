package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/matst80/location-listing/pkg/coordinator"
	"github.com/matst80/location-listing/pkg/events"
	"github.com/matst80/location-listing/pkg/master"
	"github.com/matst80/location-listing/pkg/types"
)

const maxBodySize = 4 << 20

func readBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return bytes.TrimSpace(b), nil
}

// CreateListing starts a widget from the posted listing, or from the default
// listing and markers when the body is empty.
func (ws *WebServer) CreateListing(w http.ResponseWriter, r *http.Request) (any, error) {
	body, err := readBody(r)
	if err != nil {
		return nil, statusFor(err)
	}
	raw := ws.Listing
	if len(body) > 0 {
		if raw, err = master.Decode(body); err != nil {
			return nil, statusFor(err)
		}
	} else if raw == nil {
		return nil, statusFor(fmt.Errorf("%w: no listing posted", ErrBadRequest))
	}
	c, err := ws.Registry.Create(raw)
	if err != nil {
		return nil, statusFor(err)
	}
	if len(body) == 0 && ws.Markers != nil {
		if err := c.OnMapReady(ws.Markers); err != nil {
			ws.Registry.Delete(c.ID())
			ws.forget(c.ID())
			return nil, statusFor(err)
		}
	}
	widgetsCreated.Inc()
	return ws.respond(c)
}

func (ws *WebServer) GetListing(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := ws.widget(r)
	if err != nil {
		return nil, err
	}
	return ws.respond(c)
}

func (ws *WebServer) DeleteListing(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := ws.widget(r)
	if err != nil {
		return nil, err
	}
	ws.Registry.Delete(c.ID())
	ws.forget(c.ID())
	return map[string]string{"deleted": c.ID()}, nil
}

// MapReady takes the markers as an array or as {"markers": [...]}.
func (ws *WebServer) MapReady(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := ws.widget(r)
	if err != nil {
		return nil, err
	}
	body, err := readBody(r)
	if err != nil {
		return nil, statusFor(err)
	}
	if bytes.HasPrefix(body, []byte("[")) {
		markers, err := master.DecodeMarkers(body)
		if err != nil {
			return nil, statusFor(fmt.Errorf("%w: %v", ErrBadRequest, err))
		}
		err = c.OnMapReady(markers)
	} else {
		err = coordinator.Dispatch(r.Context(), c, events.MapReady, body)
	}
	if err != nil {
		return nil, statusFor(err)
	}
	return ws.respond(c)
}

// dispatchJson applies a json body as the payload of event.
func (ws *WebServer) dispatchJson(r *http.Request, c *coordinator.Coordinator, event events.Name) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	return coordinator.Dispatch(r.Context(), c, event, body)
}

func (ws *WebServer) Filter(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := ws.widget(r)
	if err != nil {
		return nil, err
	}
	if isJson(r) {
		err = ws.dispatchJson(r, c, events.FilterFormSubmitted)
	} else {
		var form coordinator.FilterForm
		if form, err = ws.filterForm(r, c.Raw()); err == nil {
			err = c.OnFilterSubmitted(r.Context(), form)
		}
	}
	if err != nil {
		return nil, statusFor(err)
	}
	return ws.respond(c)
}

func (ws *WebServer) ClearTag(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := ws.widget(r)
	if err != nil {
		return nil, err
	}
	if isJson(r) {
		err = ws.dispatchJson(r, c, events.ActiveTagCleared)
	} else {
		var tag types.Tag
		if tag, err = ws.clearedTag(r); err == nil {
			err = c.OnTagCleared(r.Context(), tag)
		}
	}
	if err != nil {
		return nil, statusFor(err)
	}
	return ws.respond(c)
}

func (ws *WebServer) Paginate(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := ws.widget(r)
	if err != nil {
		return nil, err
	}
	if err := c.OnPaginationRequested(types.PageTarget(r.PathValue("target"))); err != nil {
		return nil, statusFor(err)
	}
	return ws.respond(c)
}

// Event applies any consumed widget event, with the event payload as body.
func (ws *WebServer) Event(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := ws.widget(r)
	if err != nil {
		return nil, err
	}
	if err := ws.dispatchJson(r, c, events.Name(r.PathValue("name"))); err != nil {
		return nil, statusFor(err)
	}
	return ws.respond(c)
}

// ListingHtml returns the rows of the current page.
func (ws *WebServer) ListingHtml(w http.ResponseWriter, r *http.Request) {
	c, err := ws.widget(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	view, err := c.View()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	var sb strings.Builder
	for _, row := range view.Page.Markup {
		sb.WriteString(string(row))
		sb.WriteString("\n")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, sb.String())
}
