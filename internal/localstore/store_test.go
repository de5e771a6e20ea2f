package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"montapulse/internal/domain/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory(zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPolygonsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	polygons := model.DefaultSectorPolygons()
	polygons[model.SectorCentro] = []model.LatLng{
		{Lat: -1.828, Lng: -80.755},
		{Lat: -1.825, Lng: -80.755},
		{Lat: -1.825, Lng: -80.752},
	}
	require.NoError(t, s.SaveSectorPolygons(polygons))

	got := s.LoadSectorPolygons()
	assert.Equal(t, polygons[model.SectorCentro], got[model.SectorCentro])
	assert.Equal(t, polygons[model.SectorPlaya], got[model.SectorPlaya])
}

func TestPolygonsFallBackToDefaultsWhenUnset(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, model.DefaultSectorPolygons(), s.LoadSectorPolygons())
}

func TestSchemaMismatchInvalidatesGeometryAndSiblings(t *testing.T) {
	s := newTestStore(t)

	// Pre-rename schema: retired Malecón key present, Playa missing.
	old := map[string][]model.LatLng{
		"Malecón": {{Lat: -1.82, Lng: -80.75}, {Lat: -1.83, Lng: -80.75}, {Lat: -1.83, Lng: -80.76}},
		"Montaña": {{Lat: -1.82, Lng: -80.74}, {Lat: -1.83, Lng: -80.74}, {Lat: -1.83, Lng: -80.75}},
	}
	require.NoError(t, s.SetJSON(KeyPolygons, old))
	require.NoError(t, s.SetJSON(KeyBusinesses, []string{"stale"}))
	require.NoError(t, s.SetJSON(KeyEvents, []string{"stale"}))

	got := s.LoadSectorPolygons()
	assert.Equal(t, model.DefaultSectorPolygons(), got)

	// The geometry key and both sibling caches are gone.
	for _, key := range []string{KeyPolygons, KeyBusinesses, KeyEvents} {
		var v interface{}
		found, err := s.GetJSON(key, &v)
		require.NoError(t, err)
		assert.False(t, found, key)
	}
}

func TestMalformedGeometryDiscardedSilently(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetJSON(KeyPolygons, "not a polygon map"))
	assert.Equal(t, model.DefaultSectorPolygons(), s.LoadSectorPolygons())
}

func TestSectorLabelsDefaultToOwnNames(t *testing.T) {
	s := newTestStore(t)

	labels := s.LoadSectorLabels()
	assert.Equal(t, "Centro", labels["Centro"])
	assert.Equal(t, "La Punta", labels["La Punta"])

	labels["Centro"] = "Downtown"
	require.NoError(t, s.SaveSectorLabels(labels))
	assert.Equal(t, "Downtown", s.LoadSectorLabels()["Centro"])
}

func TestIDSetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.LoadIDSet(KeyFavorites))

	set := map[string]bool{"e1": true, "e2": true, "gone": false}
	require.NoError(t, s.SaveIDSet(KeyFavorites, set))

	got := s.LoadIDSet(KeyFavorites)
	assert.True(t, got["e1"])
	assert.True(t, got["e2"])
	assert.False(t, got["gone"])
}

func TestJourneyCardsDefaultAndOverride(t *testing.T) {
	s := newTestStore(t)

	cards := s.LoadJourneyCards()
	require.Len(t, cards, 3)
	assert.Equal(t, "CENTRO", cards[0].ID)

	cards[0].Label = "EL CENTRO"
	require.NoError(t, s.SaveJourneyCards(cards))
	assert.Equal(t, "EL CENTRO", s.LoadJourneyCards()[0].Label)
}
