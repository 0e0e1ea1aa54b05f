package types

import "math"

const earthRadius = 6371e3 // meters

type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func (loc Location) IsZero() bool {
	return loc.Latitude == 0 && loc.Longitude == 0
}

// DistanceTo returns the great-circle distance in kilometers.
func (loc Location) DistanceTo(other Location) float64 {
	lat1 := loc.Latitude * (math.Pi / 180)
	lat2 := other.Latitude * (math.Pi / 180)
	dLat := (other.Latitude - loc.Latitude) * (math.Pi / 180)
	dLon := (other.Longitude - loc.Longitude) * (math.Pi / 180)

	a := (math.Sin(dLat/2) * math.Sin(dLat/2)) + math.Cos(lat1)*math.Cos(lat2)*(math.Sin(dLon/2)*math.Sin(dLon/2))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c / 1000.0
}

// Place is a resolved address, either picked from the address autocomplete
// or returned by a geocoding service.
type Place struct {
	Address  string   `json:"address"`
	Location Location `json:"location"`
}

func (p *Place) HasLocation() bool {
	return p != nil && !p.Location.IsZero()
}
