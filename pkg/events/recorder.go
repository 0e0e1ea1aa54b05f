package events

import "sync"

// Recorder keeps every emitted event, mostly for tests and for returning the
// events an http call produced.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]Event, len(r.events))
	copy(ret, r.events)
	return ret
}

// Drain returns the recorded events and forgets them.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := r.events
	r.events = nil
	return ret
}

func (r *Recorder) Names() []Name {
	events := r.Events()
	ret := make([]Name, len(events))
	for i, e := range events {
		ret[i] = e.Name
	}
	return ret
}

func (r *Recorder) Last(name Name) (Event, bool) {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Name == name {
			return events[i], true
		}
	}
	return Event{}, false
}

// Multi fans an event out to several emitters in order.
type Multi []Emitter

func (m Multi) Emit(event Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(event)
		}
	}
}
