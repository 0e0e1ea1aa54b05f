package master

import (
	"fmt"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
	"github.com/matst80/location-listing/pkg/types"
)

// MarkupCompiler turns a promo record into the markup of one listing row.
type MarkupCompiler interface {
	Compile(promo types.PromoRecord) (types.Markup, error)
}

type CompilerFunc func(promo types.PromoRecord) (types.Markup, error)

func (f CompilerFunc) Compile(promo types.PromoRecord) (types.Markup, error) {
	return f(promo)
}

// Decode parses and validates the raw listing embedded by the server.
func Decode(data []byte) (*types.RawListing, error) {
	raw := &types.RawListing{}
	if err := jsoncompat.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedListing, err)
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	return raw, nil
}

func DecodeMarkers(data []byte) ([]types.Marker, error) {
	var markers types.Sequence[types.MapMarker]
	if err := jsoncompat.Unmarshal(data, &markers); err != nil {
		return nil, fmt.Errorf("decode markers: %w", err)
	}
	return types.AsMarkers(markers), nil
}

// Build creates the master data from the raw listing and the markers created
// by the map. Markers are matched to promos by index, so both must have the
// same length. A nil compiler leaves the markup empty.
func Build(raw *types.RawListing, markers []types.Marker, compiler MarkupCompiler) (*types.MasterData, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	promos := raw.ImagePromos.Items
	if len(markers) != len(promos) {
		return nil, fmt.Errorf("%w: %d markers, %d items", types.ErrLengthMismatch, len(markers), len(promos))
	}

	maxItems := raw.MaxItems
	if maxItems <= 0 {
		maxItems = max(len(promos), 1)
	}

	items := make([]types.Item, len(markers))
	for i, marker := range markers {
		var markup types.Markup
		if compiler != nil {
			m, err := compiler.Compile(promos[i])
			if err != nil {
				return nil, fmt.Errorf("compile item %d: %w", i, err)
			}
			markup = m
		}
		items[i] = types.Item{
			IsActive: true,
			Page:     types.CeilDiv(i+1, maxItems),
			Index:    i,
			Marker:   marker,
			Markup:   markup,
			Data:     promos[i],
		}
	}

	totalPages := types.CeilDiv(len(items), maxItems)
	pagination := raw.Pagination.Clone()
	pagination.CurrentPage = 1
	if page, ok := raw.Pagination.ActivePage(); ok {
		pagination.CurrentPage = types.Clamp(page, 1, max(totalPages, 1))
	}

	return &types.MasterData{
		MaxItems:       maxItems,
		TotalPages:     totalPages,
		ResultsHeading: raw.ResultsHeading.Clone(),
		Items:          items,
		Pagination:     pagination,
	}, nil
}
