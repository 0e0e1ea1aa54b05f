package listing

import (
	"fmt"
	"testing"

	"github.com/matst80/location-listing/pkg/types"
)

// makeData builds master data the way the builder does: every item active and
// paged in source order.
func makeData(titles []string, tags [][]string, maxItems int) *types.MasterData {
	items := make([]types.Item, len(titles))
	for i, title := range titles {
		promoTags := types.Sequence[types.PromoTag]{}
		if i < len(tags) {
			for _, t := range tags[i] {
				promoTags = append(promoTags, types.PromoTag{Id: t, Label: t})
			}
		}
		items[i] = types.Item{
			IsActive: true,
			Page:     types.CeilDiv(i+1, maxItems),
			Index:    i,
			Marker:   &types.MapMarker{Id: fmt.Sprint(i), Position: types.Location{Latitude: float64(i), Longitude: 0}},
			Markup:   types.Markup(fmt.Sprintf("<div>%s</div>", title)),
			Data:     types.PromoRecord{Title: types.PromoTitle{Text: title}, Tags: promoTags},
		}
	}
	return &types.MasterData{
		MaxItems:   maxItems,
		TotalPages: types.CeilDiv(len(items), maxItems),
		Items:      items,
		ResultsHeading: types.TagState{
			Tags: types.Sequence[types.Tag]{},
		},
		Pagination: types.PaginationState{CurrentPage: 1},
	}
}

func numbered(n int) []string {
	ret := make([]string, n)
	for i := range ret {
		ret[i] = fmt.Sprintf("Item %02d", i)
	}
	return ret
}

func activeIndexes(data *types.MasterData) []int {
	ret := []int{}
	for _, item := range data.Items {
		if item.IsActive {
			ret = append(ret, item.Index)
		}
	}
	return ret
}

func order(data *types.MasterData) []int {
	ret := make([]int, len(data.Items))
	for i, item := range data.Items {
		ret[i] = item.Index
	}
	return ret
}

func checkTotalPages(t *testing.T, data *types.MasterData) {
	t.Helper()
	expected := types.CeilDiv(data.CountActive(), data.MaxItems)
	if data.TotalPages != expected {
		t.Errorf("Expected totalPages %d, got %d", expected, data.TotalPages)
	}
}
