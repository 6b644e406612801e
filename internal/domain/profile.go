package domain

import "time"

type Profile struct {
	UserID    string     `json:"user_id"`
	Username  *string    `json:"username,omitempty"`
	FullName  *string    `json:"full_name,omitempty"`
	Website   *string    `json:"website,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	City      *string    `json:"city,omitempty"`
	CityLat   *float64   `json:"city_lat,omitempty"`
	CityLong  *float64   `json:"city_long,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Location returns the profile's home city, or nil until city and both
// coordinates are set.
func (p Profile) Location() *UserLocation {
	if p.City == nil || *p.City == "" || p.CityLat == nil || p.CityLong == nil {
		return nil
	}
	return &UserLocation{City: *p.City, Lat: *p.CityLat, Lon: *p.CityLong}
}

type ChatMessage struct {
	Role    string `json:"role"` // user|assistant|system
	Content string `json:"content"`
}
