package geocode

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/matst80/location-listing/pkg/types"
)

const DefaultMaxCityDistance = 2

// PostalCodeIndex resolves addresses offline from a postal code file. An
// address is matched by postal code first, then by city name, and last by
// the closest city name within MaxCityDistance edits.
type PostalCodeIndex struct {
	codes  map[string]PostalCodeLocation
	cities map[string]cityEntry
	// MaxCityDistance is the largest edit distance accepted for a city name.
	MaxCityDistance int
}

type cityEntry struct {
	name     string
	location types.Location
}

func NewPostalCodeIndex(ctx context.Context, r io.Reader, cfg PostalCodeCSVConfig) (*PostalCodeIndex, error) {
	idx := &PostalCodeIndex{
		codes:           make(map[string]PostalCodeLocation),
		cities:          make(map[string]cityEntry),
		MaxCityDistance: DefaultMaxCityDistance,
	}
	type sum struct {
		name     string
		lat, lng float64
		n        int
	}
	sums := make(map[string]*sum)
	err := StreamPostalCodeLocations(ctx, r, cfg, func(p PostalCodeLocation) error {
		if _, ok := idx.codes[p.PostalCode]; !ok {
			idx.codes[p.PostalCode] = p
		}
		key := strings.ToLower(p.City)
		s, ok := sums[key]
		if !ok {
			s = &sum{name: p.City}
			sums[key] = s
		}
		s.lat += p.Location.Latitude
		s.lng += p.Location.Longitude
		s.n++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(idx.codes) == 0 {
		return nil, ErrEmptyInput
	}
	// a city resolves to the centre of its postal codes
	for key, s := range sums {
		idx.cities[key] = cityEntry{
			name:     s.name,
			location: types.Location{Latitude: s.lat / float64(s.n), Longitude: s.lng / float64(s.n)},
		}
	}
	return idx, nil
}

func LoadPostalCodeIndex(ctx context.Context, path string, cfg PostalCodeCSVConfig) (*PostalCodeIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	idx, err := NewPostalCodeIndex(ctx, f, cfg)
	if err != nil {
		return nil, fmt.Errorf("load postal codes %s: %w", path, err)
	}
	return idx, nil
}

func (idx *PostalCodeIndex) Len() int {
	return len(idx.codes)
}

func (idx *PostalCodeIndex) Resolve(ctx context.Context, address string) (types.Place, error) {
	place, err := idx.resolve(ctx, address)
	observe("postal_code", err)
	return place, err
}

func (idx *PostalCodeIndex) resolve(ctx context.Context, address string) (types.Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Place{}, &Error{Address: address, Err: ErrEmptyAddress}
	}
	if err := ctx.Err(); err != nil {
		return types.Place{}, &Error{Address: address, Err: err}
	}

	tokens := strings.FieldsFunc(address, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	candidates := []string{NormalizePostalCode(address)}
	for i, t := range tokens {
		candidates = append(candidates, t)
		if i > 0 {
			// "114 55" style codes are split in two tokens
			candidates = append(candidates, tokens[i-1]+t)
		}
		if before, _, found := strings.Cut(t, "-"); found {
			// zip+4
			candidates = append(candidates, before)
		}
	}
	for _, c := range candidates {
		if p, ok := idx.codes[c]; ok {
			return types.Place{
				Address:  fmt.Sprintf("%s %s", p.PostalCode, p.City),
				Location: p.Location,
			}, nil
		}
	}

	parts := []string{strings.ToLower(address)}
	for _, part := range strings.Split(address, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			parts = append(parts, part)
		}
	}
	for _, part := range parts {
		if c, ok := idx.cities[part]; ok {
			return types.Place{Address: c.name, Location: c.location}, nil
		}
	}

	best, bestDistance := cityEntry{}, idx.MaxCityDistance+1
	for _, part := range parts {
		for key, c := range idx.cities {
			d := levenshtein.ComputeDistance(part, key)
			if d < bestDistance || (d == bestDistance && d <= idx.MaxCityDistance && c.name < best.name) {
				best, bestDistance = c, d
			}
		}
	}
	if bestDistance <= idx.MaxCityDistance {
		return types.Place{Address: best.name, Location: best.location}, nil
	}
	return types.Place{}, &Error{Address: address, Err: ErrNotFound}
}
