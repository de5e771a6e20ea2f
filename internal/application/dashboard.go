// Package application holds the dashboard controller: the single source of
// truth for cross-view session state, sitting between the live store
// subscriptions on the read side and the persistence mutations on the write
// side.
package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"montapulse/internal/domain/editor"
	"montapulse/internal/domain/maprender"
	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
	"montapulse/internal/infrastructure/auth"
	"montapulse/internal/localstore"
)

// ViewType names the top-level views of the app.
type ViewType string

const (
	ViewExplore      ViewType = "explore"
	ViewCalendar     ViewType = "calendar"
	ViewFavorites    ViewType = "favorites"
	ViewHost         ViewType = "host"
	ViewHistory      ViewType = "history"
	ViewAllFavorites ViewType = "all-favorites"
	ViewPlans        ViewType = "plans"
)

// FilterAll is the vibe/category filter value that matches everything.
const FilterAll = "All"

// defaultBusinessCoordinates places a freshly registered host business until
// the owner repositions it on the map.
var defaultBusinessCoordinates = model.LatLng{Lat: -1.8253, Lng: -80.7523}

// Dashboard owns all cross-cutting UI state and wires the map renderer, the
// boundary editor, the local store and the persistence repositories
// together. All state access is serialized through its mutex.
type Dashboard struct {
	mu     sync.Mutex
	logger *zap.SugaredLogger

	events        repository.EventsRepository
	businesses    repository.BusinessesRepository
	users         repository.UsersRepository
	favoritesSync repository.FavoritesRepository // nil disables write-through
	local         *localstore.Store

	renderer *maprender.Renderer
	layers   *maprender.LayerState
	editor   *editor.Editor

	// canonical collections, replaced wholesale by subscription snapshots
	eventList    []model.Event
	businessList []model.Business

	activeView     ViewType
	locality       string
	selectedSector model.Sector
	searchQuery    string
	activeFilter   string
	favorites      map[string]bool
	rsvp           map[string]bool
	sectorPolygons map[model.Sector][]model.LatLng
	sectorLabels   map[string]string
	journeyCards   []localstore.JourneyCard

	profile   *model.UserProfile
	adminMode bool

	unsubscribes []repository.UnsubscribeFunc
	started      bool

	now func() time.Time
}

// NewDashboard creates a dashboard controller with state seeded from the
// local store.
func NewDashboard(
	events repository.EventsRepository,
	businesses repository.BusinessesRepository,
	users repository.UsersRepository,
	local *localstore.Store,
	logger *zap.SugaredLogger,
) *Dashboard {
	d := &Dashboard{
		logger:         logger,
		events:         events,
		businesses:     businesses,
		users:          users,
		local:          local,
		activeView:     ViewExplore,
		locality:       model.DefaultLocality,
		activeFilter:   FilterAll,
		favorites:      local.LoadIDSet(localstore.KeyFavorites),
		rsvp:           local.LoadIDSet(localstore.KeyRSVP),
		sectorPolygons: local.LoadSectorPolygons(),
		sectorLabels:   local.LoadSectorLabels(),
		journeyCards:   local.LoadJourneyCards(),
		now:            time.Now,
	}

	d.layers = maprender.NewLayerState()
	d.editor = editor.New(d.commitSectorBoundary)
	d.renderer = maprender.NewRenderer(d.layers, nil, maprender.Callbacks{
		OnUpdateCoordinates: func(id string, p model.LatLng) {
			if err := d.UpdateBusinessLocation(context.Background(), id, p); err != nil {
				d.logger.Errorw("failed to reposition business", "id", id, "error", err)
			}
		},
		OnDeleteBusiness: func(id string) {
			if err := d.DeleteBusiness(context.Background(), id); err != nil {
				d.logger.Errorw("failed to delete business", "id", id, "error", err)
			}
		},
		OnEditorClick:   func(p model.LatLng) { _ = d.AddBoundaryPoint(p) },
		OnEditorPointer: func(p model.LatLng) { _ = d.MoveBoundaryPointer(p) },
	})

	return d
}

// Start mounts the renderer and opens the live snapshot subscriptions.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.renderer.Mount()

	unsubEvents := d.events.Subscribe(ctx, func(snapshot []model.Event) {
		d.mu.Lock()
		d.eventList = snapshot
		d.mu.Unlock()
		d.logger.Infow("📡 events snapshot", "count", len(snapshot))
	})
	unsubBusinesses := d.businesses.Subscribe(ctx, func(snapshot []model.Business) {
		d.mu.Lock()
		d.businessList = snapshot
		d.mu.Unlock()
		d.logger.Infow("📡 businesses snapshot", "count", len(snapshot))
		d.render()
	})

	d.mu.Lock()
	d.unsubscribes = append(d.unsubscribes, unsubEvents, unsubBusinesses)
	d.mu.Unlock()

	d.render()
}

// Close tears down the subscriptions and the renderer.
func (d *Dashboard) Close() {
	d.mu.Lock()
	unsubs := d.unsubscribes
	d.unsubscribes = nil
	d.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	d.renderer.Close()
}

// render redraws the map layers from the current state. Full refresh, per
// the renderer's contract.
func (d *Dashboard) render() {
	d.mu.Lock()
	// The renderer reads the view under its own lock, so it must not share
	// the live polygon map with the controller.
	polygons := make(map[model.Sector][]model.LatLng, len(d.sectorPolygons))
	for sector, coords := range d.sectorPolygons {
		polygons[sector] = append([]model.LatLng(nil), coords...)
	}
	view := maprender.ViewState{
		Businesses:     d.visibleBusinessesLocked(),
		SectorPolygons: polygons,
		Locality:       d.locality,
		SelectedSector: d.selectedSector,
		SearchQuery:    d.searchQuery,
		ActiveFilter:   d.activeFilter,
		AdminMode:      d.adminMode,
	}
	if sector, ok := d.editor.Sector(); ok {
		session := &maprender.EditSession{
			Sector:    sector,
			Candidate: d.editor.Candidate(),
		}
		if p, ok := d.editor.Pointer(); ok {
			session.Pointer = &p
		}
		view.Edit = session
	}
	d.mu.Unlock()

	d.renderer.Render(view)
}

// visibleBusinessesLocked merges the permanent reference landmarks with the
// subscribed businesses. Landmarks lose to a persisted record with the same
// ID.
func (d *Dashboard) visibleBusinessesLocked() []model.Business {
	seen := make(map[string]bool, len(d.businessList))
	merged := make([]model.Business, 0, len(d.businessList)+9)
	for _, b := range d.businessList {
		seen[b.ID] = true
		merged = append(merged, b)
	}
	for _, landmark := range model.ReferenceLandmarks() {
		if !seen[landmark.ID] {
			merged = append(merged, landmark)
		}
	}
	return merged
}

// Businesses returns the merged business list: live records plus the
// permanent reference landmarks.
func (d *Dashboard) Businesses() []model.Business {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibleBusinessesLocked()
}

// LayerSnapshot returns the currently rendered map layers.
func (d *Dashboard) LayerSnapshot() maprender.Snapshot {
	return d.layers.Snapshot()
}

// ---- view state mutations ----

// SetActiveView switches the top-level view.
func (d *Dashboard) SetActiveView(v ViewType) {
	d.mu.Lock()
	d.activeView = v
	d.mu.Unlock()
}

// ToggleSector selects a sector, or clears the selection when it is already
// selected.
func (d *Dashboard) ToggleSector(sector model.Sector) {
	d.mu.Lock()
	if d.selectedSector == sector {
		d.selectedSector = ""
	} else {
		d.selectedSector = sector
	}
	d.mu.Unlock()
	d.render()
}

// SetLocality switches the active town. Unknown localities are rejected.
func (d *Dashboard) SetLocality(name string) error {
	locality, ok := model.LocalityByName(name)
	if !ok {
		return fmt.Errorf("unknown locality: %s", name)
	}
	d.mu.Lock()
	d.locality = locality.Name
	d.mu.Unlock()
	d.render()
	return nil
}

// SetSearchQuery updates the search text.
func (d *Dashboard) SetSearchQuery(q string) {
	d.mu.Lock()
	d.searchQuery = q
	d.mu.Unlock()
	d.render()
}

// SetActiveFilter updates the vibe/category filter chip.
func (d *Dashboard) SetActiveFilter(f string) {
	d.mu.Lock()
	d.activeFilter = f
	d.mu.Unlock()
	d.render()
}

// ToggleBasemap swaps the tile style and returns the new one.
func (d *Dashboard) ToggleBasemap() maprender.BasemapStyle {
	return d.renderer.ToggleBasemap()
}

// Resize re-runs the renderer's size invalidation after a layout change.
func (d *Dashboard) Resize() {
	d.renderer.Resize()
}

// ---- event list ----

// EventQuery overrides the controller's active filters for a single read.
// Nil fields fall back to the current state, so a query never mutates it.
type EventQuery struct {
	Sector *model.Sector // empty sector means no sector filter
	Search *string
	Filter *string
}

// QueryEvents applies the event list contract: sector, search text,
// vibe/category filter, and only events that have not ended.
func (d *Dashboard) QueryEvents(q EventQuery) []model.Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	sector := d.selectedSector
	if q.Sector != nil {
		sector = *q.Sector
	}
	search := d.searchQuery
	if q.Search != nil {
		search = *q.Search
	}
	filter := d.activeFilter
	if q.Filter != nil {
		filter = *q.Filter
	}

	now := d.now()
	out := make([]model.Event, 0, len(d.eventList))
	for _, e := range d.eventList {
		if sector != "" && e.Sector != sector {
			continue
		}
		if !e.MatchesSearch(search) {
			continue
		}
		if filter != FilterAll &&
			string(e.Vibe) != filter && e.Category != filter {
			continue
		}
		if !e.IsActive(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilteredEvents reads the event list with the controller's own filters.
func (d *Dashboard) FilteredEvents() []model.Event {
	return d.QueryEvents(EventQuery{})
}

// FavoritedEvents returns the events the user has favorited, regardless of
// filters.
func (d *Dashboard) FavoritedEvents() []model.Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]model.Event, 0, len(d.favorites))
	for _, e := range d.eventList {
		if d.favorites[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// SetFavoritesSync enables write-through of favorite marks to the given
// server-side store for signed-in sessions.
func (d *Dashboard) SetFavoritesSync(repo repository.FavoritesRepository) {
	d.mu.Lock()
	d.favoritesSync = repo
	d.mu.Unlock()
}

// ToggleFavorite flips an event's favorite mark and persists the set. Local
// storage is the source of truth; a signed-in session also writes through to
// the server-side store.
func (d *Dashboard) ToggleFavorite(eventID string) bool {
	d.mu.Lock()
	d.favorites[eventID] = !d.favorites[eventID]
	nowSet := d.favorites[eventID]
	if err := d.local.SaveIDSet(localstore.KeyFavorites, d.favorites); err != nil {
		d.logger.Warnw("failed to persist favorites", "error", err)
	}
	sync := d.favoritesSync
	var userID string
	if d.profile != nil {
		userID = d.profile.ID
	}
	d.mu.Unlock()

	if sync != nil && userID != "" {
		go func() {
			var err error
			if nowSet {
				err = sync.Add(context.Background(), userID, eventID)
			} else {
				err = sync.Remove(context.Background(), userID, eventID)
			}
			if err != nil {
				d.logger.Warnw("favorites write-through failed", "event", eventID, "error", err)
			}
		}()
	}
	return nowSet
}

// ToggleRSVP flips an event's RSVP mark and persists the set.
func (d *Dashboard) ToggleRSVP(eventID string) bool {
	d.mu.Lock()
	d.rsvp[eventID] = !d.rsvp[eventID]
	nowSet := d.rsvp[eventID]
	if err := d.local.SaveIDSet(localstore.KeyRSVP, d.rsvp); err != nil {
		d.logger.Warnw("failed to persist rsvp marks", "error", err)
	}
	d.mu.Unlock()
	return nowSet
}

// IsFavorite reports an event's favorite mark.
func (d *Dashboard) IsFavorite(eventID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.favorites[eventID]
}

// ---- sector boundary editing ----

// BeginSectorEdit starts a boundary editing pass. seedFromExisting copies
// the committed boundary as the starting candidate instead of a blank list.
func (d *Dashboard) BeginSectorEdit(name string, seedFromExisting bool) (model.Sector, error) {
	sector, ok := model.ParseSector(name)
	if !ok {
		return "", fmt.Errorf("sector no válido: %s", name)
	}

	d.mu.Lock()
	var seed []model.LatLng
	if seedFromExisting {
		seed = append(seed, d.sectorPolygons[sector]...)
	}
	d.editor.Begin(sector, seed)
	d.mu.Unlock()

	d.logger.Infow("🖊️ sector edit started", "sector", sector)
	d.render()
	return sector, nil
}

// AddBoundaryPoint appends a clicked coordinate to the candidate boundary.
func (d *Dashboard) AddBoundaryPoint(p model.LatLng) error {
	d.mu.Lock()
	err := d.editor.AddPoint(p)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.render()
	return nil
}

// MoveBoundaryPointer tracks the pointer for the dashed preview edge.
func (d *Dashboard) MoveBoundaryPointer(p model.LatLng) error {
	d.mu.Lock()
	err := d.editor.MovePointer(p)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.render()
	return nil
}

// UndoBoundaryPoint removes the last candidate point.
func (d *Dashboard) UndoBoundaryPoint() error {
	d.mu.Lock()
	err := d.editor.Undo()
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.render()
	return nil
}

// ConfirmSectorEdit commits the candidate boundary. Candidates with fewer
// than three points are rejected and the session stays open.
func (d *Dashboard) ConfirmSectorEdit() error {
	d.mu.Lock()
	err := d.editor.Confirm()
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.render()
	return nil
}

// CancelSectorEdit discards the editing session.
func (d *Dashboard) CancelSectorEdit() {
	d.mu.Lock()
	d.editor.Cancel()
	d.mu.Unlock()
	d.render()
}

// commitSectorBoundary is the editor's confirm callback: the candidate list
// replaces the sector's boundary wholesale and the geometry map is
// persisted. Called with d.mu held.
func (d *Dashboard) commitSectorBoundary(sector model.Sector, coords []model.LatLng) {
	d.sectorPolygons[sector] = coords
	if err := d.local.SaveSectorPolygons(d.sectorPolygons); err != nil {
		d.logger.Warnw("failed to persist sector geometry", "error", err)
	}
	d.logger.Infow("✅ sector boundary replaced", "sector", sector, "points", len(coords))
}

// SectorPolygons returns a copy of the committed boundary geometry.
func (d *Dashboard) SectorPolygons() map[model.Sector][]model.LatLng {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[model.Sector][]model.LatLng, len(d.sectorPolygons))
	for sector, coords := range d.sectorPolygons {
		out[sector] = append([]model.LatLng(nil), coords...)
	}
	return out
}

// RenameSector overrides a sector's display label.
func (d *Dashboard) RenameSector(name, label string) error {
	sector, ok := model.ParseSector(name)
	if !ok {
		return fmt.Errorf("sector no válido: %s", name)
	}
	if label == "" {
		return fmt.Errorf("la etiqueta no puede estar vacía")
	}

	d.mu.Lock()
	d.sectorLabels[string(sector)] = label
	if err := d.local.SaveSectorLabels(d.sectorLabels); err != nil {
		d.logger.Warnw("failed to persist sector labels", "error", err)
	}
	d.mu.Unlock()
	return nil
}

// SectorLabels returns a copy of the display-label overrides.
func (d *Dashboard) SectorLabels() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]string, len(d.sectorLabels))
	for k, v := range d.sectorLabels {
		out[k] = v
	}
	return out
}

// JourneyCards returns the shortcut-card configuration.
func (d *Dashboard) JourneyCards() []localstore.JourneyCard {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]localstore.JourneyCard(nil), d.journeyCards...)
}

// SaveJourneyCards replaces and persists the shortcut-card configuration.
func (d *Dashboard) SaveJourneyCards(cards []localstore.JourneyCard) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.journeyCards = cards
	return d.local.SaveJourneyCards(cards)
}

// ---- business mutations (write side) ----

// AddBusinessAt creates a business at a clicked map coordinate.
func (d *Dashboard) AddBusinessAt(ctx context.Context, name string, p model.LatLng) (string, error) {
	if name == "" {
		return "", fmt.Errorf("el nombre es obligatorio")
	}
	id, err := d.businesses.Create(ctx, &model.Business{
		Name:        name,
		Sector:      model.SectorCentro,
		Description: "Nuevo punto añadido por Administrador",
		IsVerified:  true,
		Coordinates: p,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add business: %w", err)
	}
	return id, nil
}

// UpdateBusinessLocation persists a drag-repositioned coordinate pair.
func (d *Dashboard) UpdateBusinessLocation(ctx context.Context, id string, p model.LatLng) error {
	return d.businesses.Update(ctx, id, map[string]interface{}{
		"coordinates": p,
	})
}

// EditBusiness updates the name and description of a business.
func (d *Dashboard) EditBusiness(ctx context.Context, id, name, description string) error {
	if name == "" {
		return fmt.Errorf("el nombre es obligatorio")
	}
	fields := map[string]interface{}{"name": name}
	if description != "" {
		fields["description"] = description
	}
	return d.businesses.Update(ctx, id, fields)
}

// DeleteBusiness removes a business permanently.
func (d *Dashboard) DeleteBusiness(ctx context.Context, id string) error {
	return d.businesses.Delete(ctx, id)
}

// RegisterHostBusiness creates a business for a host and links the profile
// to it. The business starts at the default coordinates until repositioned.
func (d *Dashboard) RegisterHostBusiness(ctx context.Context, userID string, business *model.Business) (string, error) {
	business.Coordinates = defaultBusinessCoordinates
	businessID, err := d.businesses.Create(ctx, business)
	if err != nil {
		return "", fmt.Errorf("failed to register business: %w", err)
	}

	if err := d.users.Update(ctx, userID, map[string]interface{}{
		"businessId": businessID,
		"role":       model.RoleHost,
	}); err != nil {
		return "", fmt.Errorf("failed to link host profile: %w", err)
	}

	d.logger.Infow("✅ host business registered", "user", userID, "business", businessID)
	return businessID, nil
}

// ---- event mutations (write side) ----

// CreateEvent persists a new event.
func (d *Dashboard) CreateEvent(ctx context.Context, event *model.Event) (string, error) {
	return d.events.Create(ctx, event)
}

// UpdateEvent rewrites an existing event.
func (d *Dashboard) UpdateEvent(ctx context.Context, id string, event *model.Event) error {
	return d.events.Update(ctx, id, event)
}

// DeleteEvent removes an event.
func (d *Dashboard) DeleteEvent(ctx context.Context, id string) error {
	return d.events.Delete(ctx, id)
}

// ToggleInterest flips the local RSVP mark and adjusts the event's public
// interested counter to match.
func (d *Dashboard) ToggleInterest(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	var target *model.Event
	for i := range d.eventList {
		if d.eventList[i].ID == id {
			e := d.eventList[i]
			target = &e
			break
		}
	}
	if target == nil {
		d.mu.Unlock()
		return false, fmt.Errorf("unknown event: %s", id)
	}

	d.rsvp[id] = !d.rsvp[id]
	nowSet := d.rsvp[id]
	if nowSet {
		target.InterestedCount++
	} else if target.InterestedCount > 0 {
		target.InterestedCount--
	}
	if err := d.local.SaveIDSet(localstore.KeyRSVP, d.rsvp); err != nil {
		d.logger.Warnw("failed to persist rsvp marks", "error", err)
	}
	d.mu.Unlock()

	if err := d.events.Update(ctx, id, target); err != nil {
		return nowSet, fmt.Errorf("failed to update interest counter: %w", err)
	}
	return nowSet, nil
}

// ---- profile / role ----

// SyncProfile resolves the stored profile for an authenticated identity,
// applying the role security rule. When no profile exists a default one is
// synthesized from the identity (master account becomes admin, everyone else
// a visitor).
func (d *Dashboard) SyncProfile(ctx context.Context, user *auth.AuthUser, upstreamRole model.Role) (*model.UserProfile, error) {
	if user == nil {
		d.mu.Lock()
		d.profile = nil
		d.adminMode = false
		d.mu.Unlock()
		d.render()
		return nil, nil
	}

	profile, err := d.users.Get(ctx, user.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to sync profile: %w", err)
	}

	if profile == nil {
		role := model.RoleVisitor
		name := user.DisplayName
		if auth.IsSuperAdmin(user.Email) {
			role = model.RoleAdmin
			if name == "" {
				name = "Super Admin"
			}
		} else if name == "" {
			name = "Visitor"
		}
		profile = &model.UserProfile{
			ID:            user.UID,
			Name:          name,
			Email:         user.Email,
			PreferredVibe: model.VibeRelax,
			Role:          role,
			AvatarURL:     user.PhotoURL,
		}
	} else {
		profile.Role = auth.SecureRole(profile.Role, upstreamRole, user.Email, d.logger)
	}

	d.mu.Lock()
	d.profile = profile
	d.adminMode = profile.Role == model.RoleAdmin
	d.mu.Unlock()
	d.render()
	return profile, nil
}

// Profile returns the active profile, or nil when signed out.
func (d *Dashboard) Profile() *model.UserProfile {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.profile == nil {
		return nil
	}
	p := *d.profile
	return &p
}

// IsAdmin reports whether the active profile holds the secured admin role.
func (d *Dashboard) IsAdmin() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adminMode
}
