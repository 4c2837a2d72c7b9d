package models

import "time"

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeocodeResult is one memoized address lookup. Nil coordinates mean the
// address was looked up and nothing was found; that negative result is as
// valid a cache entry as a successful one.
type GeocodeResult struct {
	Address   string    `json:"address"`
	Lat       *float64  `json:"lat"`
	Lon       *float64  `json:"lon"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Coordinates returns the cached pair, or nil for a cached negative result.
func (g *GeocodeResult) Coordinates() *Coordinates {
	if g.Lat == nil || g.Lon == nil {
		return nil
	}
	return &Coordinates{Lat: *g.Lat, Lon: *g.Lon}
}
