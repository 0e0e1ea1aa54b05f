package listing

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matst80/location-listing/pkg/types"
)

// SortAlphabetically orders items by title, ignoring case, and drops any
// distance left over from a previous location sort.
func SortAlphabetically(data *types.MasterData) *types.MasterData {
	ret := data.Clone()
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(ret.Items, func(a, b types.Item) int {
		if c := col.CompareString(a.Data.Title.Text, b.Data.Title.Text); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	for i := range ret.Items {
		ret.Items[i].Distance = nil
	}
	repaginate(ret)
	return ret
}

// SortBySource puts items back in the order of the source listing and drops
// any distance.
func SortBySource(data *types.MasterData) *types.MasterData {
	ret := data.Clone()
	slices.SortFunc(ret.Items, func(a, b types.Item) int {
		return cmp.Compare(a.Index, b.Index)
	})
	for i := range ret.Items {
		ret.Items[i].Distance = nil
	}
	repaginate(ret)
	return ret
}

// DefaultOrder is the order used without a location to sort around: the
// source order while no filter is active, alphabetical otherwise.
func DefaultOrder(data *types.MasterData) *types.MasterData {
	if len(data.ResultsHeading.Tags) == 0 {
		return SortBySource(data)
	}
	return SortAlphabetically(data)
}

// SortAroundPlace orders items by distance from place to their marker,
// closest first. Items without a marker sort last.
func SortAroundPlace(place types.Place, data *types.MasterData) *types.MasterData {
	ret := data.Clone()
	for i := range ret.Items {
		d := math.Inf(1)
		if m := ret.Items[i].Marker; m != nil {
			d = place.Location.DistanceTo(m.GetPosition())
		}
		ret.Items[i].Distance = &d
	}
	slices.SortStableFunc(ret.Items, func(a, b types.Item) int {
		if c := cmp.Compare(distance(a), distance(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	repaginate(ret)
	return ret
}

func distance(item types.Item) float64 {
	if item.Distance == nil {
		return math.Inf(1)
	}
	return *item.Distance
}
