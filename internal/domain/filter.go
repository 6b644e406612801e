package domain

// FilterState bundles independent criteria that are AND-combined. An empty set
// means no constraint on that dimension.
type FilterState struct {
	Query       string   `json:"query,omitempty"`
	Cities      []string `json:"cities,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Cuisines    []string `json:"cuisines,omitempty"`
	Atmospheres []string `json:"atmospheres,omitempty"`
	Features    []string `json:"features,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	MaxDistance *float64 `json:"max_distance,omitempty"` // km, inert without a user location
}
