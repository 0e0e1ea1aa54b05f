package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matst80/location-listing/pkg/types"
)

var ErrInvalidPageTarget = errors.New("invalid page target")

// ResolvePageTarget turns a pagination request into a page number relative to
// currentPage, which defaults to 1 when unset. The result is not clamped.
func ResolvePageTarget(target types.PageTarget, currentPage int) (int, error) {
	if currentPage < 1 {
		currentPage = 1
	}
	switch target {
	case types.NextPage:
		return currentPage + 1, nil
	case types.PreviousPage:
		return currentPage - 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(target)))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageTarget, target)
	}
	return n, nil
}

// ActiveMarkers returns the markers of the items rendered on page.
func ActiveMarkers(data *types.MasterData, page int) []types.Marker {
	if page < 1 {
		page = 1
	}
	ret := make([]types.Marker, 0, data.MaxItems)
	for i := range data.Items {
		if data.Items[i].IsOnPage(page) && data.Items[i].Marker != nil {
			ret = append(ret, data.Items[i].Marker)
		}
	}
	return ret
}
