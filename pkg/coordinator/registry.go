package coordinator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matst80/location-listing/pkg/types"
)

type entry struct {
	coordinator *Coordinator
	lastUsed    time.Time
}

// Registry holds one coordinator per widget instance.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]*entry
	// Setup returns the options for a new widget.
	Setup func(id string) Options
	now   func() time.Time
}

func NewRegistry(setup func(id string) Options) *Registry {
	return &Registry{
		widgets: make(map[string]*entry),
		Setup:   setup,
		now:     time.Now,
	}
}

func (r *Registry) Create(raw *types.RawListing) (*Coordinator, error) {
	id := uuid.NewString()
	opts := Options{}
	if r.Setup != nil {
		opts = r.Setup(id)
	}
	opts.WidgetID = id
	c, err := New(raw, opts)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets[id] = &entry{coordinator: c, lastUsed: r.now()}
	activeWidgets.Set(float64(len(r.widgets)))
	return c, nil
}

func (r *Registry) Get(id string) (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.widgets[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.coordinator, true
}

func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.widgets[id]
	return ok
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.widgets[id]
	delete(r.widgets, id)
	activeWidgets.Set(float64(len(r.widgets)))
	return ok
}

// Prune drops widgets not used within maxAge and returns how many were dropped.
func (r *Registry) Prune(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxAge)
	count := 0
	for id, e := range r.widgets {
		if e.lastUsed.Before(cutoff) {
			delete(r.widgets, id)
			count++
		}
	}
	activeWidgets.Set(float64(len(r.widgets)))
	return count
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}
