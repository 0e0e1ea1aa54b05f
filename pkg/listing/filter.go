package listing

import (
	"slices"

	"github.com/matst80/location-listing/pkg/types"
)

type ChangeKind int

const (
	// ChangeSubmitted replaces the active filters with the submitted form values.
	ChangeSubmitted ChangeKind = iota
	// ChangeCleared removes a single active filter, or all of them for a clearAll tag.
	ChangeCleared
)

type FilterChange struct {
	Kind    ChangeKind
	Tags    []types.Tag
	Cleared types.Tag
}

func Submitted(tags ...types.Tag) FilterChange {
	return FilterChange{Kind: ChangeSubmitted, Tags: tags}
}

func Cleared(tag types.Tag) FilterChange {
	return FilterChange{Kind: ChangeCleared, Cleared: tag}
}

// TransformActiveTags returns the active filter set after applying change to current.
func TransformActiveTags(current []types.Tag, change FilterChange) []types.Tag {
	switch change.Kind {
	case ChangeCleared:
		if change.Cleared.Type == types.TagTypeClearAll {
			return []types.Tag{}
		}
		return slices.DeleteFunc(slices.Clone(current), change.Cleared.Matches)
	default:
		ret := make([]types.Tag, 0, len(change.Tags))
		for _, tag := range change.Tags {
			if tag.Value == "" || slices.ContainsFunc(ret, tag.Matches) {
				continue
			}
			if tag.Label == "" {
				tag.Label = tag.Value
			}
			ret = append(ret, tag)
		}
		return ret
	}
}

func HasFilter(tags []types.Tag, tagType string) bool {
	return slices.ContainsFunc(tags, func(t types.Tag) bool {
		return t.Type == tagType
	})
}

func GetFilterValues(tags []types.Tag, tagType string) []string {
	ret := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Type == tagType {
			ret = append(ret, t.Value)
		}
	}
	return ret
}

// FilterByTags applies change to the active filters and recomputes which
// items are active. An item passes a tag filter when any of its tags equals
// any of the selected tag values. Location filters never deactivate items.
func FilterByTags(data *types.MasterData, change FilterChange) *types.MasterData {
	ret := data.Clone()
	tags := TransformActiveTags(data.ResultsHeading.Tags, change)
	ret.ResultsHeading.Tags = tags

	if HasFilter(tags, types.TagTypeTag) {
		values := GetFilterValues(tags, types.TagTypeTag)
		for i := range ret.Items {
			ret.Items[i].IsActive = ret.Items[i].Data.HasTag(values)
		}
	} else {
		makeAllActive(ret)
	}
	repaginate(ret)
	return ret
}

func MakeAllActive(data *types.MasterData) *types.MasterData {
	ret := data.Clone()
	makeAllActive(ret)
	repaginate(ret)
	return ret
}

func makeAllActive(data *types.MasterData) {
	for i := range data.Items {
		data.Items[i].IsActive = true
	}
}
