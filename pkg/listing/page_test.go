package listing

import (
	"errors"
	"testing"

	"github.com/matst80/location-listing/pkg/types"
)

func TestResolvePageTarget(t *testing.T) {
	cases := []struct {
		target   types.PageTarget
		current  int
		expected int
	}{
		{types.NextPage, 0, 2},
		{types.NextPage, 2, 3},
		{types.PreviousPage, 3, 2},
		{types.PageNumber(5), 1, 5},
		{" 4 ", 1, 4},
	}
	for _, c := range cases {
		got, err := ResolvePageTarget(c.target, c.current)
		if err != nil {
			t.Errorf("Expected no error for %q, got %v", c.target, err)
		}
		if got != c.expected {
			t.Errorf("Expected %d for %q from %d, got %d", c.expected, c.target, c.current, got)
		}
	}
	if _, err := ResolvePageTarget("last", 1); !errors.Is(err, ErrInvalidPageTarget) {
		t.Errorf("Expected ErrInvalidPageTarget, got %v", err)
	}
}

func TestActiveMarkers(t *testing.T) {
	data := makeData(numbered(5), nil, 2)
	data.Items[3].IsActive = false
	items, total := Paginate(data.Items, 2)
	data.Items, data.TotalPages = items, total

	markers := ActiveMarkers(data, 2)
	if len(markers) != 2 {
		t.Fatalf("Expected 2 markers on page 2, got %d", len(markers))
	}
	if markers[0].(*types.MapMarker).Id != "2" || markers[1].(*types.MapMarker).Id != "4" {
		t.Errorf("Expected markers 2 and 4, got %v", markers)
	}
	if len(ActiveMarkers(data, 0)) != 2 {
		t.Errorf("Expected page 0 to default to the first page")
	}
}
