package events

import (
	"log"
	"runtime/debug"
	"sync"
)

type Handler func(Event)

// Bus delivers events synchronously to subscribers, in publish order.
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[Name]map[uint64]Handler
	order    map[Name][]uint64
	all      map[uint64]Handler
	allOrder []uint64
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Name]map[uint64]Handler),
		order:    make(map[Name][]uint64),
		all:      make(map[uint64]Handler),
	}
}

// Subscribe registers handler for name and returns a function that removes it.
func (b *Bus) Subscribe(name Name, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	if b.handlers[name] == nil {
		b.handlers[name] = make(map[uint64]Handler)
	}
	b.handlers[name][id] = handler
	b.order[name] = append(b.order[name], id)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[name], id)
		b.order[name] = remove(b.order[name], id)
	}
}

// SubscribeAll registers handler for every event.
func (b *Bus) SubscribeAll(handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.all[id] = handler
	b.allOrder = append(b.allOrder, id)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
		b.allOrder = remove(b.allOrder, id)
	}
}

func (b *Bus) Emit(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order[event.Name])+len(b.allOrder))
	for _, id := range b.order[event.Name] {
		handlers = append(handlers, b.handlers[event.Name][id])
	}
	for _, id := range b.allOrder {
		handlers = append(handlers, b.all[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		call(h, event)
	}
}

// Match selects the events a channel receives.
type Match func(Event) bool

// ForWidget matches the events of one listing instance.
func ForWidget(id string) Match {
	return func(e Event) bool {
		return e.Widget == id
	}
}

// Channel forwards events with the given names that pass match to a buffered
// channel. A nil match passes everything. Events are dropped when the channel
// is full.
func (b *Bus) Channel(size int, match Match, names ...Name) (<-chan Event, func()) {
	ch := make(chan Event, size)
	forward := func(e Event) {
		if match != nil && !match(e) {
			return
		}
		select {
		case ch <- e:
		default:
			log.Printf("event channel full, dropping %s", e.Name)
		}
	}
	unsubs := make([]func(), 0, len(names))
	if len(names) == 0 {
		unsubs = append(unsubs, b.SubscribeAll(forward))
	}
	for _, name := range names {
		unsubs = append(unsubs, b.Subscribe(name, forward))
	}
	return ch, func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func call(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event handler for %s panicked: %v\n%s", event.Name, r, debug.Stack())
		}
	}()
	h(event)
}

func remove(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
