// Package explore implements the explore screen's venue filtering, proximity
// ranking and the map/list view-state machine.
package explore

import (
	"math"
	"slices"
	"sort"
	"strings"

	"vibescout/internal/catalog"
	"vibescout/internal/domain"
)

// Filter applies every active predicate of fs to all and, when loc is known,
// stable-sorts the survivors by distance (venues without one go last).
// Without a location catalog order is preserved and MaxDistance is ignored,
// as is a MaxDistance of zero.
// all is never modified; the result is always a fresh, non-nil slice.
func Filter(all []domain.Venue, fs domain.FilterState, loc *domain.UserLocation) []domain.Venue {
	venues := catalog.WithDistances(all, loc)
	q := strings.ToLower(fs.Query)

	out := make([]domain.Venue, 0, len(venues))
	for _, v := range venues {
		if matches(v, fs, q, loc != nil) {
			out = append(out, v)
		}
	}

	if loc != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return distanceKey(out[i]) < distanceKey(out[j])
		})
	}
	return out
}

func matches(v domain.Venue, fs domain.FilterState, q string, hasLoc bool) bool {
	if q != "" &&
		!strings.Contains(strings.ToLower(v.Name), q) &&
		!strings.Contains(strings.ToLower(v.Address), q) {
		return false
	}
	if len(fs.Cities) > 0 && !memberOf(v.City, fs.Cities) {
		return false
	}
	if len(fs.Categories) > 0 && !memberOf(v.Category, fs.Categories) {
		return false
	}
	if fs.MinRating != nil && v.Rating < *fs.MinRating {
		return false
	}
	if len(fs.Cuisines) > 0 && !intersects(v.Cuisine, fs.Cuisines) {
		return false
	}
	if len(fs.Atmospheres) > 0 && !intersects(v.Atmosphere, fs.Atmospheres) {
		return false
	}
	if len(fs.Features) > 0 && !intersects(v.Features, fs.Features) {
		return false
	}
	// a zero limit counts as unset, like an untouched slider
	if fs.MaxDistance != nil && *fs.MaxDistance > 0 && hasLoc {
		if v.DistanceFromUser == nil || *v.DistanceFromUser > *fs.MaxDistance {
			return false
		}
	}
	return true
}

func memberOf(val *string, set []string) bool {
	return val != nil && slices.Contains(set, *val)
}

func intersects(have, want []string) bool {
	for _, h := range have {
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}

func distanceKey(v domain.Venue) float64 {
	if v.DistanceFromUser == nil {
		return math.Inf(1)
	}
	return *v.DistanceFromUser
}

// Suggestions returns the rows for the search-suggestion overlay: the first
// limit venues of an already filtered list, or none for an empty query.
func Suggestions(filtered []domain.Venue, query string, limit int) []domain.Venue {
	if query == "" || limit <= 0 {
		return nil
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	out := make([]domain.Venue, len(filtered))
	copy(out, filtered)
	return out
}
