package listing

import (
	"fmt"

	"github.com/matst80/location-listing/pkg/types"
)

// TransformResultsHeading recomputes the result counters for page. The active
// filter tags are carried over unchanged.
func TransformResultsHeading(data *types.MasterData, page int) types.TagState {
	heading := data.ResultsHeading.Clone()
	total := data.CountActive()
	heading.TotalResults = total
	if total == 0 {
		heading.NumResults = "0"
		return heading
	}
	page = ClampPage(page, data.TotalPages)
	first := (page-1)*data.MaxItems + 1
	last := min(page*data.MaxItems, total)
	heading.NumResults = fmt.Sprintf("%d - %d", first, last)
	return heading
}
