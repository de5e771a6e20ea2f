package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"montapulse/internal/domain/model"
)

func TestConfirmRejectsShortCandidate(t *testing.T) {
	committed := map[model.Sector][]model.LatLng{}
	e := New(func(s model.Sector, coords []model.LatLng) {
		committed[s] = coords
	})

	e.Begin(model.SectorCentro, nil)
	require.NoError(t, e.AddPoint(model.LatLng{Lat: -1.82, Lng: -80.75}))
	require.NoError(t, e.AddPoint(model.LatLng{Lat: -1.83, Lng: -80.75}))

	err := e.Confirm()
	assert.ErrorIs(t, err, ErrTooFewPoints)

	// Rejection must leave the session untouched: still editing the same
	// sector with the same candidate list, nothing committed.
	assert.Equal(t, StateEditing, e.State())
	sector, ok := e.Sector()
	assert.True(t, ok)
	assert.Equal(t, model.SectorCentro, sector)
	assert.Len(t, e.Candidate(), 2)
	assert.Empty(t, committed)
}

func TestConfirmCommitsCandidateInOrder(t *testing.T) {
	var gotSector model.Sector
	var gotCoords []model.LatLng
	e := New(func(s model.Sector, coords []model.LatLng) {
		gotSector = s
		gotCoords = coords
	})

	points := []model.LatLng{
		{Lat: -1.8285, Lng: -80.7555},
		{Lat: -1.8245, Lng: -80.7555},
		{Lat: -1.8245, Lng: -80.7515},
		{Lat: -1.8285, Lng: -80.7515},
	}

	e.Begin(model.SectorPlaya, nil)
	for _, p := range points {
		require.NoError(t, e.AddPoint(p))
	}
	require.NoError(t, e.Confirm())

	assert.Equal(t, model.SectorPlaya, gotSector)
	assert.Equal(t, points, gotCoords)
	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Candidate())
}

func TestUndoRemovesLastPointOnly(t *testing.T) {
	e := New(nil)
	e.Begin(model.SectorLaPunta, nil)

	require.NoError(t, e.AddPoint(model.LatLng{Lat: 1, Lng: 1}))
	require.NoError(t, e.AddPoint(model.LatLng{Lat: 2, Lng: 2}))
	require.NoError(t, e.AddPoint(model.LatLng{Lat: 3, Lng: 3}))

	require.NoError(t, e.Undo())
	got := e.Candidate()
	require.Len(t, got, 2)
	assert.Equal(t, model.LatLng{Lat: 2, Lng: 2}, got[1])

	// Undo on an empty list is a no-op, not an error.
	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	assert.Empty(t, e.Candidate())
	assert.Equal(t, StateEditing, e.State())
}

func TestPointerPreview(t *testing.T) {
	e := New(nil)
	e.Begin(model.SectorMontana, nil)

	// No preview without a committed candidate point.
	require.NoError(t, e.MovePointer(model.LatLng{Lat: -1.82, Lng: -80.75}))
	_, ok := e.PreviewSegment()
	assert.False(t, ok)
	assert.Equal(t, StatePreviewingEdge, e.State())

	require.NoError(t, e.AddPoint(model.LatLng{Lat: -1.81, Lng: -80.74}))
	require.NoError(t, e.MovePointer(model.LatLng{Lat: -1.83, Lng: -80.76}))
	seg, ok := e.PreviewSegment()
	require.True(t, ok)
	assert.Equal(t, model.LatLng{Lat: -1.81, Lng: -80.74}, seg[0])
	assert.Equal(t, model.LatLng{Lat: -1.83, Lng: -80.76}, seg[1])
}

func TestCancelDiscardsCandidate(t *testing.T) {
	called := false
	e := New(func(model.Sector, []model.LatLng) { called = true })

	e.Begin(model.SectorTigrillo, []model.LatLng{{Lat: 1, Lng: 1}})
	require.NoError(t, e.AddPoint(model.LatLng{Lat: 2, Lng: 2}))
	e.Cancel()

	assert.False(t, called)
	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Candidate())
}

func TestOperationsRequireEditing(t *testing.T) {
	e := New(nil)
	assert.ErrorIs(t, e.AddPoint(model.LatLng{}), ErrNotEditing)
	assert.ErrorIs(t, e.MovePointer(model.LatLng{}), ErrNotEditing)
	assert.ErrorIs(t, e.Undo(), ErrNotEditing)
	assert.ErrorIs(t, e.Confirm(), ErrNotEditing)
}

func TestBeginSeedsFromExistingBoundary(t *testing.T) {
	seed := model.DefaultSectorPolygons()[model.SectorCentro]
	e := New(nil)
	e.Begin(model.SectorCentro, seed)
	assert.Equal(t, seed, e.Candidate())

	// The seed is copied; mutating it must not reach the session.
	seed[0] = model.LatLng{Lat: 99, Lng: 99}
	assert.NotEqual(t, seed[0], e.Candidate()[0])
}

func TestConfirmReplacesOnlyTargetSector(t *testing.T) {
	polygons := model.DefaultSectorPolygons()
	playaBefore := append([]model.LatLng(nil), polygons[model.SectorPlaya]...)

	e := New(func(s model.Sector, coords []model.LatLng) {
		polygons[s] = coords
	})

	next := []model.LatLng{
		{Lat: -1.8280, Lng: -80.7550},
		{Lat: -1.8250, Lng: -80.7550},
		{Lat: -1.8250, Lng: -80.7520},
	}
	e.Begin(model.SectorCentro, nil)
	for _, p := range next {
		require.NoError(t, e.AddPoint(p))
	}
	require.NoError(t, e.Confirm())

	assert.Equal(t, next, polygons[model.SectorCentro])
	assert.Equal(t, playaBefore, polygons[model.SectorPlaya])
}
