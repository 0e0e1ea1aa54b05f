package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	handledEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "locationlisting_events_total",
		Help: "The total number of handled listing events by name",
	}, []string{"event"})
	geocodeFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "locationlisting_geocode_fallbacks_total",
		Help: "The total number of location sorts that fell back to alphabetical order",
	})
	supersededRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "locationlisting_superseded_total",
		Help: "The total number of geocoded filters discarded for a newer event",
	})
	activeWidgets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "locationlisting_widgets",
		Help: "The number of listing widgets held in memory",
	})
)
