// Package catalog turns the two venue datasets into enriched catalog entries.
package catalog

import (
	"strconv"

	olc "github.com/google/open-location-code/go"

	"vibescout/internal/domain"
	"vibescout/internal/geo"
)

const plusCodeLength = 10

// Merge left-joins base venues with metadata on the synthetic id (index+1).
// Output order follows base; neither input is modified. When several metadata
// records share an id the first one wins.
func Merge(base []RawVenue, meta []Metadata) []domain.Venue {
	byID := make(map[string]Metadata, len(meta))
	for _, m := range meta {
		if _, ok := byID[m.ID]; !ok {
			byID[m.ID] = m
		}
	}

	out := make([]domain.Venue, 0, len(base))
	for i, b := range base {
		v := domain.Venue{
			ID:               strconv.Itoa(i + 1),
			Name:             b.Name,
			Address:          b.Address,
			Coords:           domain.Coords{Lat: b.Coordinates.Lat, Lon: b.Coordinates.Long},
			PlusCode:         olc.Encode(b.Coordinates.Lat, b.Coordinates.Long, plusCodeLength),
			ImageURL:         b.ImageURL,
			ShortDescription: b.ShortDescription,
			Rating:           b.Rating,
		}
		if m, ok := byID[v.ID]; ok {
			v.City = m.City
			v.Category = m.Category
			v.Cuisine = m.Cuisine
			v.Atmosphere = m.Atmosphere
			v.Features = m.Features
			v = v.Clone()
		}
		out = append(out, v)
	}
	return out
}

// WithDistances returns copies of venues annotated with their distance from
// loc. A nil loc yields plain copies with no distance set.
func WithDistances(venues []domain.Venue, loc *domain.UserLocation) []domain.Venue {
	out := make([]domain.Venue, len(venues))
	for i, v := range venues {
		c := v.Clone()
		c.DistanceFromUser = nil
		if loc != nil {
			d := geo.Distance(loc.Lat, loc.Lon, v.Coords.Lat, v.Coords.Lon)
			c.DistanceFromUser = &d
		}
		out[i] = c
	}
	return out
}
