package geo

import "strings"

type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

var cities = []City{
	{Name: "Bucharest", Lat: 44.4268, Long: 26.1025},
	{Name: "Cluj-Napoca", Lat: 46.7712, Long: 23.6236},
	{Name: "Timișoara", Lat: 45.7489, Long: 21.2087},
	{Name: "Iași", Lat: 47.1585, Long: 27.6014},
	{Name: "Brașov", Lat: 45.6427, Long: 25.5887},
	{Name: "Constanța", Lat: 44.1598, Long: 28.6348},
	{Name: "Sibiu", Lat: 45.7983, Long: 24.1256},
	{Name: "Oradea", Lat: 47.0458, Long: 21.9183},
	{Name: "Galați", Lat: 45.4353, Long: 28.0080},
	{Name: "Craiova", Lat: 44.3302, Long: 23.7949},
	{Name: "Ploiești", Lat: 44.9364, Long: 26.0138},
	{Name: "Alba Iulia", Lat: 46.0677, Long: 23.5700},
	{Name: "Târgu Mureș", Lat: 46.5386, Long: 24.5579},
	{Name: "Arad", Lat: 46.1866, Long: 21.3123},
	{Name: "Pitești", Lat: 44.8565, Long: 24.8692},
	{Name: "Bacău", Lat: 46.5670, Long: 26.9146},
	{Name: "Baia Mare", Lat: 47.6567, Long: 23.5850},
	{Name: "Buzău", Lat: 45.1500, Long: 26.8333},
	{Name: "Satu Mare", Lat: 47.7928, Long: 22.8857},
	{Name: "Suceava", Lat: 47.6514, Long: 26.2556},
}

// Cities returns a copy of the supported home cities.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// CityByName finds a city by exact name, falling back to a case-insensitive match.
func CityByName(name string) (City, bool) {
	for _, c := range cities {
		if c.Name == name {
			return c, true
		}
	}
	for _, c := range cities {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return City{}, false
}
