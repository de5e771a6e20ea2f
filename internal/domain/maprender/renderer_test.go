package maprender

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"montapulse/internal/domain/model"
)

func baseView(businesses []model.Business) ViewState {
	return ViewState{
		Businesses:     businesses,
		SectorPolygons: model.DefaultSectorPolygons(),
		Locality:       model.DefaultLocality,
	}
}

func markerIDs(snap Snapshot) []string {
	ids := make([]string, 0, len(snap.Markers))
	for _, m := range snap.Markers {
		ids = append(ids, m.BusinessID)
	}
	return ids
}

func TestMarkerVisibilityPredicate(t *testing.T) {
	businesses := []model.Business{
		{ID: "ref-centro", Name: "Zona Centro", Sector: model.SectorCentro,
			Description: "landmark", Coordinates: model.LatLng{Lat: -1.827, Lng: -80.7535}},
		{ID: "b1", Name: "Lost Beach Club", Sector: model.SectorCentro,
			Description: "techno temple", Coordinates: model.LatLng{Lat: -1.8265, Lng: -80.753}},
		{ID: "b2", Name: "Balsa Surf Camp", Sector: model.SectorLaPunta,
			Description: "surf school", Coordinates: model.LatLng{Lat: -1.821, Lng: -80.7585}},
		{ID: "b3", Name: "Hostal Olón", Sector: model.SectorOlon, Locality: "Olón",
			Description: "quiet rooms", Coordinates: model.LatLng{Lat: -1.7958, Lng: -80.7569}},
	}

	widget := NewLayerState()
	r := NewRenderer(widget, nil, Callbacks{})
	r.Mount()
	defer r.Close()

	// No filters: everything in the default locality shows; Olón does not.
	r.Render(baseView(businesses))
	assert.ElementsMatch(t, []string{"ref-centro", "b1", "b2"}, markerIDs(widget.Snapshot()))

	// Sector filter keeps landmarks plus matching businesses.
	view := baseView(businesses)
	view.SelectedSector = model.SectorCentro
	r.Render(view)
	assert.ElementsMatch(t, []string{"ref-centro", "b1"}, markerIDs(widget.Snapshot()))

	// Search is a case-insensitive substring over name and description.
	view = baseView(businesses)
	view.SearchQuery = "SURF"
	r.Render(view)
	assert.ElementsMatch(t, []string{"ref-centro", "b2"}, markerIDs(widget.Snapshot()))

	// Switching locality flips the visible set.
	view = baseView(businesses)
	view.Locality = "Olón"
	r.Render(view)
	assert.ElementsMatch(t, []string{"b3"}, markerIDs(widget.Snapshot()))
}

func TestNaNCoordinatesExcludedWithoutPanic(t *testing.T) {
	businesses := []model.Business{
		{ID: "bad", Name: "Broken", Sector: model.SectorCentro,
			Coordinates: model.LatLng{Lat: math.NaN(), Lng: -80.75}},
		{ID: "ok", Name: "Fine", Sector: model.SectorCentro,
			Coordinates: model.LatLng{Lat: -1.826, Lng: -80.753}},
	}

	widget := NewLayerState()
	r := NewRenderer(widget, nil, Callbacks{})
	r.Mount()
	defer r.Close()

	require.NotPanics(t, func() { r.Render(baseView(businesses)) })
	assert.ElementsMatch(t, []string{"ok"}, markerIDs(widget.Snapshot()))
}

func TestBasemapToggleKeepsSingleTileLayer(t *testing.T) {
	widget := NewLayerState()
	r := NewRenderer(widget, nil, Callbacks{})
	r.Mount()
	defer r.Close()

	require.Equal(t, BasemapSatellite, r.Basemap())
	assert.Equal(t, 1, widget.Snapshot().TileLayers)

	assert.Equal(t, BasemapDark, r.ToggleBasemap())
	assert.Equal(t, 1, widget.Snapshot().TileLayers)
	assert.Equal(t, TileURL(BasemapDark), widget.Snapshot().TileURL)

	// Toggling twice returns to the original style with one mounted layer.
	assert.Equal(t, BasemapSatellite, r.ToggleBasemap())
	snap := widget.Snapshot()
	assert.Equal(t, 1, snap.TileLayers)
	assert.Equal(t, BasemapSatellite, snap.Basemap)
}

func TestViewportFollowsSectorThenLocality(t *testing.T) {
	widget := NewLayerState()
	r := NewRenderer(widget, nil, Callbacks{})
	r.Mount()
	defer r.Close()

	view := baseView(nil)
	view.SelectedSector = model.SectorPlaya
	r.Render(view)

	snap := widget.Snapshot()
	require.NotNil(t, snap.Viewport)
	assert.Equal(t, "bounds", snap.Viewport.Kind)
	assert.Equal(t, BoundsPadding, snap.Viewport.Padding)
	assert.Equal(t, FlyDuration, snap.Viewport.Duration)

	// Clearing the sector and switching locality re-centers on its town.
	view = baseView(nil)
	view.Locality = "Manglaralto"
	r.Render(view)

	snap = widget.Snapshot()
	require.NotNil(t, snap.Viewport)
	assert.Equal(t, "center", snap.Viewport.Kind)
	locality, _ := model.LocalityByName("Manglaralto")
	assert.Equal(t, locality.Center, snap.Viewport.Center)
	assert.Equal(t, locality.Zoom, snap.Viewport.Zoom)
}

func TestEditSessionRendersDashedCandidateAndPreview(t *testing.T) {
	widget := NewLayerState()
	r := NewRenderer(widget, nil, Callbacks{})
	r.Mount()
	defer r.Close()

	pointer := model.LatLng{Lat: -1.83, Lng: -80.76}
	view := baseView(nil)
	view.AdminMode = true
	view.Edit = &EditSession{
		Sector: model.SectorCentro,
		Candidate: []model.LatLng{
			{Lat: -1.828, Lng: -80.755},
			{Lat: -1.825, Lng: -80.755},
		},
		Pointer: &pointer,
	}
	r.Render(view)

	snap := widget.Snapshot()
	require.Len(t, snap.Polygons, 1)
	assert.True(t, snap.Polygons[0].Dashed)
	assert.Equal(t, model.SectorCentro, snap.Polygons[0].Sector)
	assert.Len(t, snap.Polygons[0].Coords, 2)

	require.NotNil(t, snap.PreviewLine)
	assert.True(t, snap.PreviewLine.Dashed)
	assert.Equal(t, view.Edit.Candidate[1], snap.PreviewLine.Points[0])
	assert.Equal(t, pointer, snap.PreviewLine.Points[1])

	// An empty candidate falls back to the committed boundary as backdrop.
	view.Edit = &EditSession{Sector: model.SectorCentro}
	r.Render(view)
	snap = widget.Snapshot()
	require.Len(t, snap.Polygons, 1)
	assert.Len(t, snap.Polygons[0].Coords, 4)
	assert.Nil(t, snap.PreviewLine)
}

func TestAdminMarkersDraggableExceptLandmarks(t *testing.T) {
	businesses := []model.Business{
		{ID: "ref-centro", Name: "Zona Centro", Sector: model.SectorCentro,
			Coordinates: model.LatLng{Lat: -1.827, Lng: -80.7535}},
		{ID: "b1", Name: "Lost Beach Club", Sector: model.SectorCentro,
			Coordinates: model.LatLng{Lat: -1.8265, Lng: -80.753}},
	}

	widget := NewLayerState()
	r := NewRenderer(widget, nil, Callbacks{})
	r.Mount()
	defer r.Close()

	view := baseView(businesses)
	view.AdminMode = true
	r.Render(view)

	for _, m := range widget.Snapshot().Markers {
		if m.Landmark {
			assert.False(t, m.Draggable, m.BusinessID)
		} else {
			assert.True(t, m.Draggable, m.BusinessID)
		}
	}
}

type scriptedMenu struct {
	action    AdminAction
	confirmed bool
}

func (m scriptedMenu) ChooseBusinessAction(model.Business) AdminAction { return m.action }
func (m scriptedMenu) ConfirmDelete(model.Business) bool              { return m.confirmed }

func TestMarkerClickRouting(t *testing.T) {
	biz := model.Business{ID: "b1", Name: "Lost Beach Club", Sector: model.SectorCentro,
		Coordinates: model.LatLng{Lat: -1.8265, Lng: -80.753}}

	var selected, edited, deleted string
	cb := Callbacks{
		OnBusinessSelect: func(b model.Business) { selected = b.ID },
		OnEditBusiness:   func(id string) { edited = id },
		OnDeleteBusiness: func(id string) { deleted = id },
	}

	// Visitor click opens the detail view.
	widget := NewLayerState()
	r := NewRenderer(widget, scriptedMenu{action: ActionDelete, confirmed: true}, cb)
	r.Mount()
	r.Render(baseView([]model.Business{biz}))
	r.HandleMarkerClick(biz)
	assert.Equal(t, "b1", selected)
	assert.Empty(t, deleted)
	r.Close()

	// Admin click runs the action menu; delete requires confirmation.
	selected, edited, deleted = "", "", ""
	widget = NewLayerState()
	r = NewRenderer(widget, scriptedMenu{action: ActionDelete, confirmed: false}, cb)
	r.Mount()
	view := baseView([]model.Business{biz})
	view.AdminMode = true
	r.Render(view)
	r.HandleMarkerClick(biz)
	assert.Empty(t, selected)
	assert.Empty(t, deleted)
	r.Close()

	widget = NewLayerState()
	r = NewRenderer(widget, scriptedMenu{action: ActionEdit}, cb)
	r.Mount()
	r.Render(view)
	r.HandleMarkerClick(biz)
	assert.Equal(t, "b1", edited)
	r.Close()
}

func TestMapClickRouting(t *testing.T) {
	var added, traced *model.LatLng
	cb := Callbacks{
		OnAddBusiness: func(p model.LatLng) { added = &p },
		OnEditorClick: func(p model.LatLng) { traced = &p },
	}

	widget := NewLayerState()
	r := NewRenderer(widget, nil, cb)
	r.Mount()
	defer r.Close()

	// Visitor clicks do nothing.
	r.Render(baseView(nil))
	r.HandleMapClick(model.LatLng{Lat: -1.82, Lng: -80.75})
	assert.Nil(t, added)

	// Admin clicks propose a new business.
	view := baseView(nil)
	view.AdminMode = true
	r.Render(view)
	r.HandleMapClick(model.LatLng{Lat: -1.82, Lng: -80.75})
	require.NotNil(t, added)

	// While editing, clicks trace the boundary instead.
	added = nil
	view.Edit = &EditSession{Sector: model.SectorPlaya}
	r.Render(view)
	r.HandleMapClick(model.LatLng{Lat: -1.83, Lng: -80.76})
	assert.Nil(t, added)
	require.NotNil(t, traced)
	assert.Equal(t, model.LatLng{Lat: -1.83, Lng: -80.76}, *traced)
}

func TestDragEndIgnoredForLandmarksAndVisitors(t *testing.T) {
	landmark := model.Business{ID: "ref-centro", Coordinates: model.LatLng{Lat: -1.827, Lng: -80.7535}}
	biz := model.Business{ID: "b1", Coordinates: model.LatLng{Lat: -1.8265, Lng: -80.753}}

	moved := map[string]model.LatLng{}
	cb := Callbacks{OnUpdateCoordinates: func(id string, p model.LatLng) { moved[id] = p }}

	widget := NewLayerState()
	r := NewRenderer(widget, nil, cb)
	r.Mount()
	defer r.Close()

	r.Render(baseView(nil))
	r.HandleMarkerDragEnd(biz, model.LatLng{Lat: -1.8, Lng: -80.7})
	assert.Empty(t, moved)

	view := baseView(nil)
	view.AdminMode = true
	r.Render(view)
	r.HandleMarkerDragEnd(landmark, model.LatLng{Lat: -1.8, Lng: -80.7})
	assert.Empty(t, moved)

	r.HandleMarkerDragEnd(biz, model.LatLng{Lat: -1.8, Lng: -80.7})
	assert.Equal(t, model.LatLng{Lat: -1.8, Lng: -80.7}, moved["b1"])
}

func TestMountIdempotentAndCloseReleasesWidget(t *testing.T) {
	widget := NewLayerState()
	r := NewRenderer(widget, nil, Callbacks{})

	r.Mount()
	first := widget.Invalidations()
	require.GreaterOrEqual(t, first, 1)
	r.Mount()
	assert.Equal(t, first, widget.Invalidations())

	r.Close()
	assert.True(t, widget.Closed())
	require.NotPanics(t, func() { r.Close() })

	// A closed renderer ignores further work.
	r.Render(baseView(nil))
	assert.Empty(t, widget.Snapshot().Markers)
}

func TestBoundsOfSkipsNonFinitePoints(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	_, ok = BoundsOf([]model.LatLng{{Lat: math.NaN(), Lng: 1}})
	assert.False(t, ok)

	bound, ok := BoundsOf([]model.LatLng{
		{Lat: -1.83, Lng: -80.76},
		{Lat: math.Inf(1), Lng: -80.75},
		{Lat: -1.81, Lng: -80.74},
	})
	require.True(t, ok)
	assert.InDelta(t, -1.83, bound.Min.Lat(), 1e-9)
	assert.InDelta(t, -80.76, bound.Min.Lon(), 1e-9)
	assert.InDelta(t, -1.81, bound.Max.Lat(), 1e-9)
	assert.InDelta(t, -80.74, bound.Max.Lon(), 1e-9)
}
