package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/location-listing/pkg/types"
)

var (
	ErrNotFound     = errors.New("address not found")
	ErrUnavailable  = errors.New("geocoding service unavailable")
	ErrEmptyAddress = errors.New("empty address")
)

var (
	lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "locationlisting_geocode_lookups_total",
		Help: "The total number of address lookups by source and result",
	}, []string{"source", "result"})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "locationlisting_geocode_cache_hits_total",
		Help: "The total number of address lookups served from cache",
	})
)

// Service resolves a free text address to a place.
type Service interface {
	Resolve(ctx context.Context, address string) (types.Place, error)
}

type ServiceFunc func(ctx context.Context, address string) (types.Place, error)

func (f ServiceFunc) Resolve(ctx context.Context, address string) (types.Place, error) {
	return f(ctx, address)
}

type Error struct {
	Address string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Address, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func observe(source string, err error) {
	switch {
	case err == nil:
		lookups.WithLabelValues(source, "ok").Inc()
	case errors.Is(err, ErrNotFound):
		lookups.WithLabelValues(source, "not_found").Inc()
	default:
		lookups.WithLabelValues(source, "error").Inc()
	}
}
