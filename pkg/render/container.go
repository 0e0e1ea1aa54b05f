package render

import (
	"strings"
	"sync"

	"github.com/matst80/location-listing/pkg/types"
)

// Container receives the markup of the rows on the current page. Replace
// swaps all rows at once or leaves the content untouched.
type Container interface {
	Replace(rows []types.Markup) error
}

// Buffer is an in-memory Container, used by the http server to return the
// rendered page.
type Buffer struct {
	mu   sync.RWMutex
	rows []types.Markup
}

func NewBuffer() *Buffer {
	return &Buffer{rows: make([]types.Markup, 0)}
}

func (b *Buffer) Replace(rows []types.Markup) error {
	next := make([]types.Markup, len(rows))
	copy(next, rows)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = next
	return nil
}

func (b *Buffer) Markup() []types.Markup {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ret := make([]types.Markup, len(b.rows))
	copy(ret, b.rows)
	return ret
}

func (b *Buffer) HTML() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var sb strings.Builder
	for _, row := range b.rows {
		sb.WriteString(string(row))
	}
	return sb.String()
}
