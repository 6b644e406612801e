package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"vibescout/internal/catalog"
	"vibescout/internal/domain"
)

const venuesJSON = `[
  {"name":"Origo","address":"Str. Lipscani 9, Bucharest","coordinates":{"lat":44.4316,"long":26.1003},"image_url":"https://img/1.jpg","short_description":"Specialty coffee","rating":4.8},
  {"name":"Samsara","address":"Str. Cardinal Iuliu Hossu 3, Cluj-Napoca","coordinates":{"lat":46.7705,"long":23.5897},"image_url":"https://img/2.jpg","short_description":"Vegan food","rating":4.2},
  {"name":"Fabrica","address":"Str. Fabricii 2, Timisoara","coordinates":{"lat":45.7489,"long":21.2087},"image_url":"","short_description":"Bar","rating":3.9}
]`

const metadataJSON = `[
  {"id":"2","city":"Cluj-Napoca","category":"Restaurant","cuisine":["Vegan","Asian"],"atmosphere":["Cozy"],"features":["WiFi"]},
  {"id":"1","city":"Bucharest","category":"Cafe","cuisine":["Coffee"],"atmosphere":["Busy"],"features":["Outdoor seating"]}
]`

func load(t *testing.T) ([]catalog.RawVenue, []catalog.Metadata) {
	t.Helper()
	base, err := catalog.LoadVenues(strings.NewReader(venuesJSON))
	require.NoError(t, err)
	meta, err := catalog.LoadMetadata(strings.NewReader(metadataJSON))
	require.NoError(t, err)
	return base, meta
}

func TestMerge_LeftJoinKeepsBaseOrder(t *testing.T) {
	base, meta := load(t)
	out := catalog.Merge(base, meta)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, "Origo", out[0].Name)
	assert.Equal(t, "Bucharest", *out[0].City)
	assert.Equal(t, "Cafe", *out[0].Category)
	assert.Equal(t, []string{"Vegan", "Asian"}, out[1].Cuisine)
	assert.Equal(t, 46.7705, out[1].Coords.Lat)
	assert.Equal(t, 23.5897, out[1].Coords.Lon)
	assert.NotEmpty(t, out[0].PlusCode)

	// venue 3 has no metadata
	assert.Nil(t, out[2].City)
	assert.Nil(t, out[2].Category)
	assert.Nil(t, out[2].Cuisine)
	assert.Nil(t, out[2].DistanceFromUser)
}

func TestMerge_LengthMatchesBaseForAnyMetadataSubset(t *testing.T) {
	base, meta := load(t)
	for _, subset := range [][]catalog.Metadata{nil, meta[:1], meta} {
		out := catalog.Merge(base, subset)
		require.Len(t, out, len(base))
		for i, v := range out {
			assert.Equal(t, base[i].Name, v.Name)
		}
	}
}

func TestMerge_DoesNotMutateOrAliasInputs(t *testing.T) {
	base, meta := load(t)
	first := catalog.Merge(base, meta)
	second := catalog.Merge(base, meta)
	assert.Equal(t, first, second)

	first[1].Cuisine[0] = "Changed"
	*first[0].City = "Elsewhere"
	assert.Equal(t, "Vegan", meta[0].Cuisine[0])
	assert.Equal(t, "Bucharest", *meta[1].City)
}

func TestMerge_Empty(t *testing.T) {
	out := catalog.Merge(nil, nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestWithDistances(t *testing.T) {
	base, meta := load(t)
	venues := catalog.Merge(base, meta)

	plain := catalog.WithDistances(venues, nil)
	for _, v := range plain {
		assert.Nil(t, v.DistanceFromUser)
	}

	loc := &domain.UserLocation{City: "Bucharest", Lat: 44.4268, Lon: 26.1025}
	annotated := catalog.WithDistances(venues, loc)
	require.NotNil(t, annotated[0].DistanceFromUser)
	assert.Equal(t, 1.0, *annotated[0].DistanceFromUser)
	assert.InDelta(t, 325, *annotated[1].DistanceFromUser, 3)
	assert.Nil(t, venues[0].DistanceFromUser, "input is untouched")
}

func TestCheckMetadata(t *testing.T) {
	meta := []catalog.Metadata{{ID: "1"}, {ID: " "}, {ID: "1"}, {ID: "2"}}
	kept, err := catalog.CheckMetadata(meta)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Len(t, kept, 2)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	vp := filepath.Join(dir, "venues.json")
	mp := filepath.Join(dir, "metadata.json")
	require.NoError(t, os.WriteFile(vp, []byte(venuesJSON), 0o600))
	require.NoError(t, os.WriteFile(mp, []byte(metadataJSON), 0o600))

	base, meta, err := catalog.LoadFiles(vp, mp)
	require.NoError(t, err)
	assert.Len(t, base, 3)
	assert.Len(t, meta, 2)

	require.NoError(t, os.WriteFile(mp, []byte(`{not json`), 0o600))
	_, _, err = catalog.LoadFiles(vp, mp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), mp)
}
