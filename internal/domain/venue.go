package domain

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Venue is one catalog entry after the metadata join. Classification fields stay
// nil when the metadata dataset has no record for the venue.
type Venue struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Coords           Coords   `json:"coords"`
	PlusCode         string   `json:"plus_code,omitempty"`
	ImageURL         string   `json:"image_url"`
	ShortDescription string   `json:"short_description"`
	Rating           float64  `json:"rating"`
	City             *string  `json:"city,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Cuisine          []string `json:"cuisine,omitempty"`
	Atmosphere       []string `json:"atmosphere,omitempty"`
	Features         []string `json:"features,omitempty"`

	// DistanceFromUser is derived per request (km, whole number); never stored.
	DistanceFromUser *float64 `json:"distance_km,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with v.
func (v Venue) Clone() Venue {
	out := v
	out.City = cloneStr(v.City)
	out.Category = cloneStr(v.Category)
	out.Cuisine = cloneSlice(v.Cuisine)
	out.Atmosphere = cloneSlice(v.Atmosphere)
	out.Features = cloneSlice(v.Features)
	if v.DistanceFromUser != nil {
		d := *v.DistanceFromUser
		out.DistanceFromUser = &d
	}
	return out
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

func cloneSlice(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// UserLocation is the home city a user picked in their profile.
type UserLocation struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}
