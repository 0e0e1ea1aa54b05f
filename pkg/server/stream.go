package server

import (
	"log"
	"net/http"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/events"
)

const streamBuffer = 64

// Stream writes the events of one widget as json lines until the client goes
// away. Events are dropped for clients that do not keep up.
func (ws *WebServer) Stream(w http.ResponseWriter, r *http.Request) {
	if ws.Bus == nil {
		http.Error(w, "event stream not enabled", http.StatusNotFound)
		return
	}
	c, err := ws.widget(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, unsubscribe := ws.Bus.Channel(streamBuffer, events.ForWidget(c.ID()))
	defer unsubscribe()

	w.Header().Set("Content-Type", "application/jsonl; charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			b, err := jsoncompat.Marshal(e)
			if err != nil {
				log.Printf("Could not encode %s for widget %s: %v", e.Name, e.Widget, err)
				continue
			}
			if _, err := w.Write(append(b, '\n')); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
