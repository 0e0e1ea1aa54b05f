package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/location-listing/pkg/common"
	"github.com/matst80/location-listing/pkg/coordinator"
	"github.com/matst80/location-listing/pkg/events"
	"github.com/matst80/location-listing/pkg/listing"
	"github.com/matst80/location-listing/pkg/render"
	"github.com/matst80/location-listing/pkg/types"
)

var (
	widgetsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "locationlisting_widgets_created_total",
		Help: "The total number of widgets created over http",
	})
	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "locationlisting_request_errors_total",
		Help: "The total number of failed widget requests by status",
	}, []string{"status"})
)

// WebServer exposes listing widgets over http. Every widget instance has its
// own coordinator; the events it emits during a request are returned with
// the response and also sent to Emitter.
type WebServer struct {
	Registry *coordinator.Registry
	// Listing and Markers are used when a widget is created without a body.
	Listing *types.RawListing
	Markers []types.Marker
	// Options are the base options of every widget.
	Options coordinator.Options
	// Bus, when set, receives every widget event and backs the event stream.
	Bus *events.Bus

	mu        sync.Mutex
	recorders map[string]*events.Recorder
}

func NewWebServer(opts coordinator.Options) *WebServer {
	ws := &WebServer{
		Options:   opts,
		recorders: make(map[string]*events.Recorder),
	}
	ws.Registry = coordinator.NewRegistry(ws.setup)
	return ws
}

func (ws *WebServer) setup(id string) coordinator.Options {
	rec := &events.Recorder{}
	ws.mu.Lock()
	ws.recorders[id] = rec
	ws.mu.Unlock()

	opts := ws.Options
	emitters := events.Multi{rec, ws.Options.Emitter}
	if ws.Bus != nil {
		emitters = append(emitters, ws.Bus)
	}
	opts.Emitter = emitters
	opts.Renderer = render.NewRenderer(render.NewBuffer())
	return opts
}

func (ws *WebServer) recorder(id string) *events.Recorder {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.recorders[id]
}

func (ws *WebServer) forget(id string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.recorders, id)
}

// Prune drops widgets idle for longer than maxAge.
func (ws *WebServer) Prune(maxAge time.Duration) int {
	n := ws.Registry.Prune(maxAge)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for id := range ws.recorders {
		if !ws.Registry.Has(id) {
			delete(ws.recorders, id)
		}
	}
	return n
}

type Response struct {
	Widget string            `json:"widget"`
	View   *coordinator.View `json:"view,omitempty"`
	Events []events.Event    `json:"events"`
}

func (ws *WebServer) respond(c *coordinator.Coordinator) (*Response, error) {
	ret := &Response{Widget: c.ID(), Events: []events.Event{}}
	if rec := ws.recorder(c.ID()); rec != nil {
		if drained := rec.Drain(); drained != nil {
			ret.Events = drained
		}
	}
	view, err := c.View()
	if err == nil {
		ret.View = &view
	}
	return ret, nil
}

func (ws *WebServer) widget(r *http.Request) (*coordinator.Coordinator, error) {
	id := r.PathValue("id")
	c, ok := ws.Registry.Get(id)
	if !ok {
		return nil, common.WithStatus(http.StatusNotFound, fmt.Errorf("%w: %s", ErrUnknownWidget, id))
	}
	return c, nil
}

var ErrUnknownWidget = errors.New("unknown widget")

// statusFor maps listing errors to http status codes.
func statusFor(err error) error {
	if err == nil {
		return nil
	}
	err = classify(err)
	status := http.StatusInternalServerError
	var httpErr *common.HttpError
	if errors.As(err, &httpErr) {
		status = httpErr.Status
	}
	requestErrors.WithLabelValues(strconv.Itoa(status)).Inc()
	return err
}

func classify(err error) error {
	switch {
	case errors.Is(err, coordinator.ErrNotReady), errors.Is(err, coordinator.ErrSuperseded):
		return common.WithStatus(http.StatusConflict, err)
	case errors.Is(err, types.ErrMalformedListing),
		errors.Is(err, types.ErrLengthMismatch),
		errors.Is(err, types.ErrNotASequence),
		errors.Is(err, listing.ErrInvalidPageTarget),
		errors.Is(err, coordinator.ErrRowOutOfRange),
		errors.Is(err, coordinator.ErrUnknownEvent),
		errors.Is(err, coordinator.ErrBadPayload),
		errors.Is(err, ErrBadRequest):
		return common.WithStatus(http.StatusBadRequest, err)
	}
	return err
}

func (ws *WebServer) Handle() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("POST /api/listings", common.JsonHandler(ws.CreateListing))
	srv.HandleFunc("GET /api/listings/{id}", common.JsonHandler(ws.GetListing))
	srv.HandleFunc("DELETE /api/listings/{id}", common.JsonHandler(ws.DeleteListing))
	srv.HandleFunc("GET /api/listings/{id}/html", ws.ListingHtml)
	srv.HandleFunc("POST /api/listings/{id}/markers", common.JsonHandler(ws.MapReady))
	srv.HandleFunc("POST /api/listings/{id}/filter", common.JsonHandler(ws.Filter))
	srv.HandleFunc("POST /api/listings/{id}/clear", common.JsonHandler(ws.ClearTag))
	srv.HandleFunc("POST /api/listings/{id}/page/{target}", common.JsonHandler(ws.Paginate))
	srv.HandleFunc("POST /api/listings/{id}/events/{name}", common.JsonHandler(ws.Event))
	srv.HandleFunc("GET /api/listings/{id}/stream", ws.Stream)
	srv.HandleFunc("OPTIONS /api/", common.RespondToOptions)
	return srv
}
