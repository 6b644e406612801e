package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibescout/internal/geo"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := [][2]float64{{0, 0}, {44.4268, 26.1025}, {-33.86, 151.2}, {89.9, -179.9}}
	for _, p := range points {
		assert.Equal(t, 0.0, geo.Distance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{44.4268, 26.1025, 46.7712, 23.6236},
		{45.7489, 21.2087, 47.1585, 27.6014},
		{51.5, -0.12, 40.71, -74.0},
	}
	for _, p := range pairs {
		assert.Equal(t, geo.Distance(p[0], p[1], p[2], p[3]), geo.Distance(p[2], p[3], p[0], p[1]))
	}
}

func TestDistance_BucharestCluj(t *testing.T) {
	d := geo.Distance(44.4268, 26.1025, 46.7712, 23.6236)
	assert.InDelta(t, 324, d, 2)
	assert.Equal(t, d, float64(int64(d)), "distance is rounded to whole km")
}

func TestDistance_NonNegative(t *testing.T) {
	assert.GreaterOrEqual(t, geo.Distance(10, 10, -10, -10), 0.0)
	assert.InDelta(t, 20015, geo.Distance(0, 0, 0, 180), 1)
}

func TestDistance_AntipodesStayFinite(t *testing.T) {
	points := [][2]float64{
		{18.83885183633153, 158.58327169620446},
		{0, 0},
		{45, 90},
		{-62.5, -71.25},
		{89.999, 12.34},
	}
	for _, p := range points {
		lat, lon := p[0], p[1]
		alon := lon - 180
		if alon < -180 {
			alon += 360
		}
		d := geo.Distance(lat, lon, -lat, alon)
		require.False(t, math.IsNaN(d), "NaN for (%v, %v)", lat, lon)
		assert.InDelta(t, 20015, d, 1, "antipode of (%v, %v)", lat, lon)
		assert.NotEmpty(t, geo.DistanceLabel(d))
	}
}

func TestDistanceLabel(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0, "Less than 1 km"},
		{0.5, "Less than 1 km"},
		{1, "1 km"},
		{7, "7 km"},
		{9.5, "9.5 km"},
		{10, "~10 km"},
		{23, "~25 km"},
		{47, "~45 km"},
		{49, "~50 km"},
		{50, "~50 km"},
		{77, "~80 km"},
		{99, "~100 km"},
		{100, "100 km"},
		{150, "150 km"},
		{324, "324 km"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, geo.DistanceLabel(tc.km), "km=%v", tc.km)
	}
}

func TestCityByName(t *testing.T) {
	c, ok := geo.CityByName("Cluj-Napoca")
	require.True(t, ok)
	assert.Equal(t, 46.7712, c.Lat)
	assert.Equal(t, 23.6236, c.Long)

	c, ok = geo.CityByName("  bucharest ")
	require.True(t, ok)
	assert.Equal(t, "Bucharest", c.Name)

	_, ok = geo.CityByName("Atlantis")
	assert.False(t, ok)
	assert.Len(t, geo.Cities(), 20)
}
