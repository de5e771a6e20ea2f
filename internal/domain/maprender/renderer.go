// Package maprender keeps the map widget's tile, marker and polygon layers
// consistent with the latest businesses, sector boundaries and filters. Every
// change triggers a full clear-and-redraw from current inputs; with tens of
// businesses that is simpler and safer than keyed diffing.
package maprender

import (
	"sync"
	"time"

	"github.com/paulmach/orb"

	"montapulse/internal/domain/model"
)

// FlyDuration is the fixed animation length for viewport transitions.
const FlyDuration = 1200 * time.Millisecond

// BoundsPadding is the pixel padding applied when fitting a sector's bounds.
const BoundsPadding = 50

// The underlying widget caches container dimensions at initialization and
// does not notice deferred layout shifts, so size invalidation is re-run at
// staggered delays after mount and after every resize.
var settleDelays = []time.Duration{
	0,
	100 * time.Millisecond,
	300 * time.Millisecond,
	1000 * time.Millisecond,
}

// EditSession is the renderer's read-only view of an in-progress boundary
// edit.
type EditSession struct {
	Sector    model.Sector
	Candidate []model.LatLng
	Pointer   *model.LatLng
}

// ViewState is the full set of inputs a render pass consumes.
type ViewState struct {
	Businesses     []model.Business
	SectorPolygons map[model.Sector][]model.LatLng
	Locality       string
	SelectedSector model.Sector // empty means no sector filter
	SearchQuery    string
	ActiveFilter   string
	AdminMode      bool
	Edit           *EditSession
}

// AdminAction is the operator's choice from the marker action menu.
type AdminAction int

const (
	ActionNone AdminAction = iota
	ActionEdit
	ActionDelete
)

// ActionMenu lets a human operator pick an administrative action on a
// selected business. Implementations range from blocking text prompts to a
// proper command menu.
type ActionMenu interface {
	ChooseBusinessAction(b model.Business) AdminAction
	ConfirmDelete(b model.Business) bool
}

// Callbacks carry user intents from the rendered layer back to the owning
// controller. Nil members are skipped.
type Callbacks struct {
	OnBusinessSelect    func(b model.Business)
	OnAddBusiness       func(p model.LatLng)
	OnEditBusiness      func(id string)
	OnDeleteBusiness    func(id string)
	OnUpdateCoordinates func(id string, p model.LatLng)
	OnEditorClick       func(p model.LatLng)
	OnEditorPointer     func(p model.LatLng)
}

// Renderer owns a single live widget instance and redraws it from ViewState
// snapshots. It holds no authoritative copy of the data, only a per-render
// read.
type Renderer struct {
	mu        sync.Mutex
	widget    Widget
	menu      ActionMenu
	callbacks Callbacks

	style    BasemapStyle
	mounted  bool
	closed   bool
	timers   []*time.Timer
	lastView ViewState
}

// NewRenderer creates a renderer bound to the given widget. The default
// basemap is the satellite style.
func NewRenderer(w Widget, menu ActionMenu, cb Callbacks) *Renderer {
	return &Renderer{
		widget:    w,
		menu:      menu,
		callbacks: cb,
		style:     BasemapSatellite,
	}
}

// Mount initializes the widget once per container. Calling Mount on a
// mounted renderer is a no-op.
func (r *Renderer) Mount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mounted || r.closed {
		return
	}
	r.mounted = true
	r.widget.SetTileLayer(r.style, TileURL(r.style))
	r.scheduleInvalidationsLocked()
}

// Resize re-runs the staggered size invalidations after a container resize.
func (r *Renderer) Resize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.mounted || r.closed {
		return
	}
	r.scheduleInvalidationsLocked()
}

func (r *Renderer) scheduleInvalidationsLocked() {
	for _, d := range settleDelays {
		if d == 0 {
			r.widget.InvalidateSize()
			continue
		}
		t := time.AfterFunc(d, r.widget.InvalidateSize)
		r.timers = append(r.timers, t)
	}
}

// Basemap returns the active basemap style.
func (r *Renderer) Basemap() BasemapStyle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.style
}

// ToggleBasemap swaps between the dark and satellite tile layers without
// disturbing markers or polygons.
func (r *Renderer) ToggleBasemap() BasemapStyle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.style == BasemapDark {
		r.style = BasemapSatellite
	} else {
		r.style = BasemapDark
	}
	if r.mounted && !r.closed {
		r.widget.SetTileLayer(r.style, TileURL(r.style))
	}
	return r.style
}

// Render clears and redraws the marker and polygon layers from the given
// view state, then moves the viewport. It has no return value; the widget is
// the output.
func (r *Renderer) Render(view ViewState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.mounted || r.closed {
		return
	}
	r.lastView = view

	r.widget.ClearMarkers()
	r.widget.ClearPolygons()

	r.renderEditPolygonLocked(view)
	r.renderMarkersLocked(view)
	r.renderPreviewLocked(view)
	r.flyLocked(view)
}

// renderEditPolygonLocked draws only the sector under edit: its candidate
// list when points exist, otherwise the committed boundary as the tracing
// backdrop.
func (r *Renderer) renderEditPolygonLocked(view ViewState) {
	if view.Edit == nil {
		return
	}
	coords := view.Edit.Candidate
	if len(coords) == 0 {
		coords = view.SectorPolygons[view.Edit.Sector]
	}
	if len(coords) == 0 {
		return
	}
	info := model.InfoForSector(view.Edit.Sector)
	r.widget.AddPolygon(Polygon{
		Sector:      view.Edit.Sector,
		Coords:      coords,
		Hex:         info.Hex,
		FillOpacity: 0.4,
		Weight:      4,
		Dashed:      true,
	})
}

func (r *Renderer) renderMarkersLocked(view ViewState) {
	for _, b := range view.Businesses {
		if !ShouldRenderMarker(&b, view.Locality, view.SelectedSector, view.SearchQuery) {
			continue
		}
		info := model.InfoForSector(b.Sector)
		r.widget.AddMarker(Marker{
			BusinessID: b.ID,
			Name:       b.Name,
			Glyph:      model.GlyphForIcon(b.Icon),
			Hex:        info.Hex,
			Position:   b.Coordinates,
			Draggable:  view.AdminMode && !b.IsLandmark(),
			Landmark:   b.IsLandmark(),
		})
	}
}

func (r *Renderer) renderPreviewLocked(view ViewState) {
	if view.Edit == nil || view.Edit.Pointer == nil || len(view.Edit.Candidate) == 0 {
		r.widget.SetPreviewLine(nil)
		return
	}
	last := view.Edit.Candidate[len(view.Edit.Candidate)-1]
	info := model.InfoForSector(view.Edit.Sector)
	r.widget.SetPreviewLine(&Polyline{
		Points: []model.LatLng{last, *view.Edit.Pointer},
		Hex:    info.Hex,
		Dashed: true,
	})
}

// flyLocked fits the selected sector's bounds, or re-centers on the active
// locality when no sector is selected.
func (r *Renderer) flyLocked(view ViewState) {
	if view.SelectedSector != "" {
		coords := view.SectorPolygons[view.SelectedSector]
		if bound, ok := BoundsOf(coords); ok {
			r.widget.FlyToBounds(bound, BoundsPadding, FlyDuration)
			return
		}
	}
	locality, ok := model.LocalityByName(view.Locality)
	if !ok {
		locality, _ = model.LocalityByName(model.DefaultLocality)
	}
	r.widget.FlyTo(locality.Center, locality.Zoom, FlyDuration)
}

// HandleMapClick routes a map click: while editing it appends a boundary
// point; in admin mode it proposes a new business at the clicked coordinate.
func (r *Renderer) HandleMapClick(p model.LatLng) {
	r.mu.Lock()
	view := r.lastView
	cb := r.callbacks
	r.mu.Unlock()

	if view.Edit != nil {
		if cb.OnEditorClick != nil {
			cb.OnEditorClick(p)
		}
		return
	}
	if view.AdminMode && cb.OnAddBusiness != nil {
		cb.OnAddBusiness(p)
	}
}

// HandlePointerMove feeds the preview edge while editing.
func (r *Renderer) HandlePointerMove(p model.LatLng) {
	r.mu.Lock()
	view := r.lastView
	cb := r.callbacks
	r.mu.Unlock()

	if view.Edit != nil && cb.OnEditorPointer != nil {
		cb.OnEditorPointer(p)
	}
}

// HandleMarkerClick opens the business detail, or in admin mode runs the
// action menu (edit, or delete behind a confirmation).
func (r *Renderer) HandleMarkerClick(b model.Business) {
	r.mu.Lock()
	view := r.lastView
	cb := r.callbacks
	menu := r.menu
	r.mu.Unlock()

	if !view.AdminMode {
		if cb.OnBusinessSelect != nil {
			cb.OnBusinessSelect(b)
		}
		return
	}
	if menu == nil {
		return
	}
	switch menu.ChooseBusinessAction(b) {
	case ActionEdit:
		if cb.OnEditBusiness != nil {
			cb.OnEditBusiness(b.ID)
		}
	case ActionDelete:
		if menu.ConfirmDelete(b) && cb.OnDeleteBusiness != nil {
			cb.OnDeleteBusiness(b.ID)
		}
	}
}

// HandleMarkerDragEnd reports a repositioned marker. Landmarks never drag.
func (r *Renderer) HandleMarkerDragEnd(b model.Business, p model.LatLng) {
	r.mu.Lock()
	view := r.lastView
	cb := r.callbacks
	r.mu.Unlock()

	if !view.AdminMode || b.IsLandmark() {
		return
	}
	if cb.OnUpdateCoordinates != nil {
		cb.OnUpdateCoordinates(b.ID, p)
	}
}

// Close releases the widget and stops pending invalidation timers. It is
// safe to call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.mounted = false
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
	r.widget.Close()
}

// ShouldRenderMarker is the marker visibility rule: landmarks show whenever
// they match the active locality; ordinary businesses must also pass the
// sector filter and the search text. Records with non-finite coordinates are
// excluded outright.
func ShouldRenderMarker(b *model.Business, locality string, selected model.Sector, query string) bool {
	if !b.HasValidCoordinates() {
		return false
	}
	if !model.BusinessMatchesLocality(b, locality) {
		return false
	}
	if b.IsLandmark() {
		return true
	}
	if selected != "" && b.Sector != selected {
		return false
	}
	return b.MatchesSearch(query)
}

// BoundsOf computes the bounding box of a polygon's points, skipping
// non-finite entries. ok is false when no usable point exists.
func BoundsOf(coords []model.LatLng) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, c := range coords {
		if !c.IsFinite() {
			continue
		}
		p := orb.Point{c.Lng, c.Lat}
		if !found {
			bound = orb.Bound{Min: p, Max: p}
			found = true
			continue
		}
		bound = bound.Extend(p)
	}
	return bound, found
}
