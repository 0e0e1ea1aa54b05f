package coordinator

import (
	"errors"
	"fmt"

	"github.com/matst80/location-listing/pkg/events"
)

var ErrRowOutOfRange = errors.New("row is not on the current page")

func (c *Coordinator) checkRow(index int) error {
	if c.data == nil {
		return ErrNotReady
	}
	if index < 0 || index >= len(c.page.Markup) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, index)
	}
	return nil
}

// OnRowSelected marks a row as active and asks the map to center on its marker.
func (c *Coordinator) OnRowSelected(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	handledEvents.WithLabelValues(string(events.RowClicked)).Inc()
	if err := c.checkRow(index); err != nil {
		return err
	}
	c.activeRow = index
	c.emit(events.MapRecenter, events.RowPayload{Index: index})
	return nil
}

// OnRowFocused bounces the marker of a row the first time focus or the
// pointer enters it. It reports whether the marker was bounced.
func (c *Coordinator) OnRowFocused(index int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	handledEvents.WithLabelValues(string(events.RowFocused)).Inc()
	if err := c.checkRow(index); err != nil {
		return false, err
	}
	c.activeRow = -1
	if c.focusedRow == index {
		return false, nil
	}
	c.focusedRow = index
	c.emit(events.MarkerBounce, events.RowPayload{Index: index})
	return true, nil
}

func (c *Coordinator) OnRowLeft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	handledEvents.WithLabelValues(string(events.RowLeft)).Inc()
	c.focusedRow = -1
}
