package model

import "strings"

// SectorInfo is the static visual style of a sector.
type SectorInfo struct {
	Hex         string `json:"hex"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Slogan      string `json:"slogan"`
}

// SectorCatalog maps each styled sector to its visual info. Sectors without
// an entry (the outlying localities) fall back to the Centro style.
var SectorCatalog = map[Sector]SectorInfo{
	SectorPlaya: {
		Hex:         "#60a5fa",
		Symbol:      "🏖️",
		Description: "Deportes, sol y brisa marina",
		Slogan:      "Diversión al Sol • Sports & Vibe",
	},
	SectorCentro: {
		Hex:         "#f43f5e",
		Symbol:      "🍹",
		Description: "Vida nocturna y Calle de los Cócteles",
		Slogan:      "Calle de los Cócteles • 24/7",
	},
	SectorTigrillo: {
		Hex:         "#8b5cf6",
		Symbol:      "⛰️",
		Description: "Vistas panorámicas y sendas ecológicas",
		Slogan:      "Eco-Chill & Paisajes",
	},
	SectorLaPunta: {
		Hex:         "#06b6d4",
		Symbol:      "🏄‍♂️",
		Description: "Surf, atardeceres y ambiente chill",
		Slogan:      "Surf & Sunset Vibes",
	},
	SectorMontana: {
		Hex:         "#10b981",
		Symbol:      "🌿",
		Description: "Yoga, bienestar y zona de silencio",
		Slogan:      "Vistas Épicas & Aventura",
	},
}

// InfoForSector returns the visual style for a sector, falling back to the
// Centro style for sectors without their own entry.
func InfoForSector(s Sector) SectorInfo {
	if info, ok := SectorCatalog[s]; ok {
		return info
	}
	return SectorCatalog[SectorCentro]
}

// DefaultSectorPolygons holds the compiled-in boundary geometry, used to seed
// new installs and as the fallback when cached geometry fails validation.
func DefaultSectorPolygons() map[Sector][]LatLng {
	return map[Sector][]LatLng{
		SectorPlaya: {
			{Lat: -1.8285, Lng: -80.7565},
			{Lat: -1.8245, Lng: -80.7565},
			{Lat: -1.8225, Lng: -80.7585},
			{Lat: -1.8195, Lng: -80.7605},
			{Lat: -1.8195, Lng: -80.7635},
			{Lat: -1.8285, Lng: -80.7605},
		},
		SectorCentro: {
			{Lat: -1.8285, Lng: -80.7555},
			{Lat: -1.8245, Lng: -80.7555},
			{Lat: -1.8245, Lng: -80.7515},
			{Lat: -1.8285, Lng: -80.7515},
		},
		SectorTigrillo: {
			{Lat: -1.8330, Lng: -80.7510},
			{Lat: -1.8290, Lng: -80.7510},
			{Lat: -1.8290, Lng: -80.7450},
			{Lat: -1.8330, Lng: -80.7450},
		},
		SectorLaPunta: {
			{Lat: -1.8240, Lng: -80.7620},
			{Lat: -1.8180, Lng: -80.7620},
			{Lat: -1.8180, Lng: -80.7560},
			{Lat: -1.8240, Lng: -80.7560},
		},
		SectorMontana: {
			{Lat: -1.8245, Lng: -80.7515},
			{Lat: -1.8185, Lng: -80.7515},
			{Lat: -1.8185, Lng: -80.7455},
			{Lat: -1.8245, Lng: -80.7455},
		},
	}
}

// Locality is a town-level grouping of sectors.
type Locality struct {
	Name   string  `json:"name"`
	Center LatLng  `json:"center"`
	Zoom   float64 `json:"zoom"`
}

// DefaultLocality is assumed for records that carry no locality name.
const DefaultLocality = "Montañita"

// Localities lists the towns covered by the app with their map centers.
var Localities = []Locality{
	{Name: "Montañita", Center: LatLng{Lat: -1.825, Lng: -80.753}, Zoom: 15},
	{Name: "Olón", Center: LatLng{Lat: -1.7958, Lng: -80.7569}, Zoom: 15},
	{Name: "Manglaralto", Center: LatLng{Lat: -1.8433, Lng: -80.7456}, Zoom: 15},
}

// LocalityByName resolves a locality case-insensitively. The empty name
// resolves to the default locality.
func LocalityByName(name string) (Locality, bool) {
	if name == "" {
		name = DefaultLocality
	}
	for _, l := range Localities {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Locality{}, false
}

// BusinessMatchesLocality reports whether a business belongs to the given
// locality. Records without a locality count as the default locality.
func BusinessMatchesLocality(b *Business, locality string) bool {
	if locality == "" {
		locality = DefaultLocality
	}
	have := b.Locality
	if have == "" {
		have = DefaultLocality
	}
	return strings.EqualFold(have, locality)
}

// IconGlyphs maps business icon keys to display glyphs.
var IconGlyphs = map[string]string{
	"palmtree": "🏖️",
	"music":    "🍹",
	"leaf":     "🌿",
	"waves":    "🏄‍♂️",
	"mountain": "⛰️",
	"surf":     "🏄",
	"hotel":    "🏨",
	"food":     "🍕",
	"church":   "⛪",
	"bus":      "🚌",
}

// GlyphForIcon returns the display glyph for an icon key, with a generic pin
// fallback for unknown or empty keys.
func GlyphForIcon(icon string) string {
	if g, ok := IconGlyphs[icon]; ok {
		return g
	}
	return "📍"
}

// ReferenceLandmarks are the permanent points of interest seeded into every
// install. They are never user-owned and are always shown on the map.
func ReferenceLandmarks() []Business {
	return []Business{
		{
			ID:          "ref-playa",
			Name:        "Zona Playa",
			Sector:      SectorPlaya,
			Description: "Malecón y costa: El pulso del mar y los deportes.",
			Icon:        "palmtree",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8282, Lng: -80.7570},
		},
		{
			ID:          "ref-centro",
			Name:        "Zona Centro",
			Sector:      SectorCentro,
			Description: "El corazón de Montañita: Calle de los Cócteles y vida nocturna.",
			Icon:        "music",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8270, Lng: -80.7535},
		},
		{
			ID:          "ref-tigrillo",
			Name:        "Sector Montaña",
			Sector:      SectorTigrillo,
			Description: "Vistas Panorámicas: El punto más alto del Pulso.",
			Icon:        "mountain",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8305, Lng: -80.7490},
		},
		{
			ID:          "ref-punta",
			Name:        "La Punta",
			Sector:      SectorLaPunta,
			Description: "Surf Point: Olas legendarias y atardeceres épicos.",
			Icon:        "waves",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8210, Lng: -80.7585},
		},
		{
			ID:          "ref-montana",
			Name:        "Sector Tigrillo",
			Sector:      SectorMontana,
			Description: "Eco-zona: Senderos, paz y reconexión con la naturaleza.",
			Icon:        "leaf",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8195, Lng: -80.7470},
		},
		{
			ID:          "ref-iglesia",
			Name:        "Iglesia de Montañita",
			Sector:      SectorCentro,
			Description: "Punto de encuentro icónico en el centro.",
			Icon:        "church",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8278, Lng: -80.7540},
		},
		{
			ID:          "ref-clp",
			Name:        "Terminal de Bus CLP",
			Sector:      SectorCentro,
			Description: "Llegada y salida de buses (Terminal Principal).",
			Icon:        "bus",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8290, Lng: -80.7530},
		},
		{
			ID:          "ref-escuela-surf",
			Name:        "Escuela de Surf",
			Sector:      SectorLaPunta,
			Description: "Aprende a domar las olas de La Punta.",
			Icon:        "surf",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8215, Lng: -80.7590},
		},
		{
			ID:          "ref-parada-comida",
			Name:        "Zona de Comida",
			Sector:      SectorPlaya,
			Description: "Delicias locales frente al mar.",
			Icon:        "food",
			IsVerified:  true,
			Coordinates: LatLng{Lat: -1.8285, Lng: -80.7560},
		},
	}
}
