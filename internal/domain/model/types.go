package model

import (
	"math"
	"strings"
	"time"
)

// Sector is a named geographic zone within a locality.
type Sector string

const (
	SectorPlaya       Sector = "Playa"
	SectorCentro      Sector = "Centro"
	SectorTigrillo    Sector = "El Tigrillo"
	SectorLaPunta     Sector = "La Punta"
	SectorMontana     Sector = "Montaña"
	SectorOlon        Sector = "Olón"
	SectorManglaralto Sector = "Manglaralto"
)

// AllSectors lists every known sector in display order.
func AllSectors() []Sector {
	return []Sector{
		SectorPlaya,
		SectorCentro,
		SectorTigrillo,
		SectorLaPunta,
		SectorMontana,
		SectorOlon,
		SectorManglaralto,
	}
}

// ParseSector resolves a sector by name, case-insensitively.
func ParseSector(name string) (Sector, bool) {
	for _, s := range AllSectors() {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return "", false
}

// Vibe is a mood tag applied to events and user preferences.
type Vibe string

const (
	VibeAdrenalina Vibe = "Adrenalina"
	VibeRelax      Vibe = "Relax"
	VibeTechno     Vibe = "Techno"
	VibeFamilia    Vibe = "Familia"
	VibeWellness   Vibe = "Wellness"
	VibeFiesta     Vibe = "Fiesta"
)

// SubscriptionPlan is the tier a business or user is subscribed to.
type SubscriptionPlan string

const (
	PlanVisitor SubscriptionPlan = "Visitor"
	PlanBasico  SubscriptionPlan = "Básico"
	PlanPremium SubscriptionPlan = "Premium"
)

// Role is the authorization level of a user profile.
type Role string

const (
	RoleVisitor Role = "visitor"
	RoleHost    Role = "host"
	RoleAdmin   Role = "admin"
)

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (p LatLng) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// LandmarkIDPrefix marks permanent reference landmarks that are always
// rendered regardless of the active sector or search filters.
const LandmarkIDPrefix = "ref-"

// Business is a point of interest on the map.
type Business struct {
	ID                string           `json:"id" firestore:"-"`
	Name              string           `json:"name" firestore:"name"`
	Sector            Sector           `json:"sector" firestore:"sector"`
	Locality          string           `json:"locality,omitempty" firestore:"locality,omitempty"`
	Description       string           `json:"description" firestore:"description"`
	Icon              string           `json:"icon,omitempty" firestore:"icon,omitempty"`
	IsVerified        bool             `json:"isVerified" firestore:"isVerified"`
	Coordinates       LatLng           `json:"coordinates" firestore:"coordinates"`
	ImageURL          string           `json:"imageUrl" firestore:"imageUrl"`
	WhatsApp          string           `json:"whatsapp,omitempty" firestore:"whatsapp,omitempty"`
	Phone             string           `json:"phone,omitempty" firestore:"phone,omitempty"`
	Plan              SubscriptionPlan `json:"plan,omitempty" firestore:"plan,omitempty"`
	MonthlyEventCount int              `json:"monthlyEventCount,omitempty" firestore:"monthlyEventCount,omitempty"`
	LastResetDate     string           `json:"lastResetDate,omitempty" firestore:"lastResetDate,omitempty"`
}

// IsLandmark reports whether the business is a permanent reference landmark.
func (b *Business) IsLandmark() bool {
	return strings.HasPrefix(b.ID, LandmarkIDPrefix)
}

// HasValidCoordinates reports whether the business can be placed on the map.
// Records failing this are excluded from rendering, never an error.
func (b *Business) HasValidCoordinates() bool {
	return b.Coordinates.IsFinite()
}

// MatchesSearch reports whether the name or description contains the query
// as a case-insensitive substring. An empty query matches everything.
func (b *Business) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(b.Name), q) ||
		strings.Contains(strings.ToLower(b.Description), q)
}

// Event is a happening ("pulse") tied to exactly one business.
type Event struct {
	ID              string    `json:"id" firestore:"-"`
	BusinessID      string    `json:"businessId" firestore:"businessId"`
	Title           string    `json:"title" firestore:"title"`
	Locality        string    `json:"locality,omitempty" firestore:"locality,omitempty"`
	Description     string    `json:"description" firestore:"description"`
	StartAt         time.Time `json:"startAt" firestore:"startAt"`
	EndAt           time.Time `json:"endAt" firestore:"endAt"`
	Category        string    `json:"category" firestore:"category"`
	Vibe            Vibe      `json:"vibe" firestore:"vibe"`
	Sector          Sector    `json:"sector" firestore:"sector"`
	ImageURL        string    `json:"imageUrl" firestore:"imageUrl"`
	InterestedCount int       `json:"interestedCount" firestore:"interestedCount"`
}

// IsActive reports whether the event has not yet ended.
func (e *Event) IsActive(now time.Time) bool {
	return !now.After(e.EndAt)
}

// MatchesSearch reports whether the title or description contains the query
// as a case-insensitive substring.
func (e *Event) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// UserProfile is a registered user of the app.
type UserProfile struct {
	ID            string           `json:"id" firestore:"-"`
	Name          string           `json:"name" firestore:"name"`
	Surname       string           `json:"surname,omitempty" firestore:"surname,omitempty"`
	Email         string           `json:"email" firestore:"email"`
	PreferredVibe Vibe             `json:"preferredVibe" firestore:"preferredVibe"`
	Role          Role             `json:"role" firestore:"role"`
	AvatarURL     string           `json:"avatarUrl,omitempty" firestore:"avatarUrl,omitempty"`
	BusinessID    string           `json:"businessId,omitempty" firestore:"businessId,omitempty"`
	Plan          SubscriptionPlan `json:"plan,omitempty" firestore:"plan,omitempty"`
}
