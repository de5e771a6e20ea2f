package maprender

import (
	"sync"
	"time"

	"github.com/paulmach/orb"

	"montapulse/internal/domain/model"
)

// BasemapStyle selects the tile layer of the map.
type BasemapStyle string

const (
	BasemapDark      BasemapStyle = "dark"
	BasemapSatellite BasemapStyle = "satellite"
)

// TileURL returns the tile template for a basemap style.
func TileURL(style BasemapStyle) string {
	if style == BasemapDark {
		return "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"
	}
	return "https://mt1.google.com/vt/lyrs=s&x={x}&y={y}&z={z}"
}

// Marker is a rendered business pin.
type Marker struct {
	BusinessID string       `json:"businessId"`
	Name       string       `json:"name"`
	Glyph      string       `json:"glyph"`
	Hex        string       `json:"hex"`
	Position   model.LatLng `json:"position"`
	Draggable  bool         `json:"draggable"`
	Landmark   bool         `json:"landmark"`
}

// Polygon is a rendered sector boundary.
type Polygon struct {
	Sector      model.Sector   `json:"sector"`
	Coords      []model.LatLng `json:"coords"`
	Hex         string         `json:"hex"`
	FillOpacity float64        `json:"fillOpacity"`
	Weight      float64        `json:"weight"`
	Dashed      bool           `json:"dashed"`
}

// Polyline is the dashed preview edge drawn while tracing a boundary.
type Polyline struct {
	Points []model.LatLng `json:"points"`
	Hex    string         `json:"hex"`
	Dashed bool           `json:"dashed"`
}

// Widget is the map surface the renderer draws onto. Implementations wrap a
// real map widget on the client or an in-memory layer state on the server.
type Widget interface {
	// SetTileLayer removes any mounted tile layer and installs the given
	// style without disturbing markers or polygons.
	SetTileLayer(style BasemapStyle, url string)
	ClearMarkers()
	AddMarker(m Marker)
	ClearPolygons()
	AddPolygon(p Polygon)
	// SetPreviewLine replaces the preview polyline; nil removes it.
	SetPreviewLine(line *Polyline)
	FlyTo(center model.LatLng, zoom float64, duration time.Duration)
	FlyToBounds(bound orb.Bound, padding int, duration time.Duration)
	// InvalidateSize tells the widget to recompute its cached container
	// dimensions after a layout change.
	InvalidateSize()
	Close()
}

// Viewport is the last camera movement applied to a widget.
type Viewport struct {
	Kind     string         `json:"kind"` // "center" or "bounds"
	Center   model.LatLng   `json:"center,omitempty"`
	Zoom     float64        `json:"zoom,omitempty"`
	Bounds   [2]model.LatLng `json:"bounds,omitempty"` // south-west, north-east
	Padding  int            `json:"padding,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// LayerState is an in-memory Widget. It backs the rendered-layer snapshot
// endpoint and the renderer tests.
type LayerState struct {
	mu sync.Mutex

	tileStyle   BasemapStyle
	tileURL     string
	tileMounted int

	markers  []Marker
	polygons []Polygon
	preview  *Polyline
	viewport *Viewport

	invalidations int
	closed        bool
}

// NewLayerState creates an empty layer state with no tile layer mounted.
func NewLayerState() *LayerState {
	return &LayerState{}
}

func (l *LayerState) SetTileLayer(style BasemapStyle, url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// The previous layer is removed before the new one mounts, so the
	// count never exceeds one.
	l.tileStyle = style
	l.tileURL = url
	l.tileMounted = 1
}

func (l *LayerState) ClearMarkers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = nil
}

func (l *LayerState) AddMarker(m Marker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = append(l.markers, m)
}

func (l *LayerState) ClearPolygons() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.polygons = nil
}

func (l *LayerState) AddPolygon(p Polygon) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.polygons = append(l.polygons, p)
}

func (l *LayerState) SetPreviewLine(line *Polyline) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.preview = line
}

func (l *LayerState) FlyTo(center model.LatLng, zoom float64, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.viewport = &Viewport{Kind: "center", Center: center, Zoom: zoom, Duration: duration}
}

func (l *LayerState) FlyToBounds(bound orb.Bound, padding int, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.viewport = &Viewport{
		Kind: "bounds",
		Bounds: [2]model.LatLng{
			{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
			{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
		},
		Padding:  padding,
		Duration: duration,
	}
}

func (l *LayerState) InvalidateSize() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidations++
}

func (l *LayerState) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.tileMounted = 0
	l.markers = nil
	l.polygons = nil
	l.preview = nil
}

// Snapshot is a JSON-friendly copy of the rendered layers.
type Snapshot struct {
	Basemap     BasemapStyle `json:"basemap"`
	TileURL     string       `json:"tileUrl"`
	TileLayers  int          `json:"tileLayers"`
	Markers     []Marker     `json:"markers"`
	Polygons    []Polygon    `json:"polygons"`
	PreviewLine *Polyline    `json:"previewLine,omitempty"`
	Viewport    *Viewport    `json:"viewport,omitempty"`
}

// Snapshot returns a copy of the current layers safe to serialize.
func (l *LayerState) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := Snapshot{
		Basemap:    l.tileStyle,
		TileURL:    l.tileURL,
		TileLayers: l.tileMounted,
		Markers:    append([]Marker(nil), l.markers...),
		Polygons:   append([]Polygon(nil), l.polygons...),
	}
	if l.preview != nil {
		p := *l.preview
		snap.PreviewLine = &p
	}
	if l.viewport != nil {
		v := *l.viewport
		snap.Viewport = &v
	}
	return snap
}

// Invalidations reports how many size invalidations have been requested.
func (l *LayerState) Invalidations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.invalidations
}

// Closed reports whether the widget has been torn down.
func (l *LayerState) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
