package listing

import (
	"slices"
	"strconv"

	"github.com/matst80/location-listing/pkg/types"
)

const (
	DefaultVisiblePages = 7
	minVisiblePages     = 5
	// Spacer marks skipped page numbers in the page descriptors.
	Spacer = "..."
)

// Paginate assigns pages to the active items in their current order, maxItems
// per page. Inactive items keep their position but get page 0.
func Paginate(items []types.Item, maxItems int) ([]types.Item, int) {
	maxItems = max(maxItems, 1)
	ret := slices.Clone(items)
	active := 0
	for i := range ret {
		if !ret[i].IsActive {
			ret[i].Page = 0
			continue
		}
		ret[i].Page = active/maxItems + 1
		active++
	}
	return ret, types.CeilDiv(active, maxItems)
}

func repaginate(data *types.MasterData) {
	data.Items, data.TotalPages = Paginate(data.Items, data.MaxItems)
}

// ClampPage bounds page to the existing pages. An empty result still has page 1.
func ClampPage(page, totalPages int) int {
	return types.Clamp(page, 1, max(totalPages, 1))
}

func TransformPaginationData(data *types.MasterData, targetPage int) types.PaginationState {
	return TransformPaginationDataWindow(data, targetPage, DefaultVisiblePages)
}

// TransformPaginationDataWindow builds the pagination state for targetPage,
// listing at most visible page numbers plus spacers around the current page.
func TransformPaginationDataWindow(data *types.MasterData, targetPage, visible int) types.PaginationState {
	current := ClampPage(targetPage, data.TotalPages)
	isFirst := current == 1
	isLast := current >= data.TotalPages
	prev := data.Pagination.Prev
	prev.Hide, prev.Disabled = isFirst, isFirst
	next := data.Pagination.Next
	next.Hide, next.Disabled = isLast, isLast
	return types.PaginationState{
		Prev:        prev,
		Next:        next,
		Pages:       pageDescriptors(current, data.TotalPages, visible),
		CurrentPage: current,
	}
}

func pageDescriptors(current, total, visible int) []types.PageDescriptor {
	ret := make([]types.PageDescriptor, 0, visible+2)
	page := func(n int) {
		ret = append(ret, types.PageDescriptor{Text: strconv.Itoa(n), Active: n == current})
	}
	if total <= 0 {
		return ret
	}
	visible = max(visible, minVisiblePages)
	if total <= visible {
		for n := 1; n <= total; n++ {
			page(n)
		}
		return ret
	}

	inner := visible - 2
	start := max(2, current-inner/2)
	end := start + inner - 1
	if end > total-1 {
		end = total - 1
		start = max(2, end-inner+1)
	}

	page(1)
	if start > 2 {
		ret = append(ret, types.PageDescriptor{Text: Spacer})
	}
	for n := start; n <= end; n++ {
		page(n)
	}
	if end < total-1 {
		ret = append(ret, types.PageDescriptor{Text: Spacer})
	}
	page(total)
	return ret
}
