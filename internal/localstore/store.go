// Package localstore is the durable client-local key/value storage behind the
// dashboard: sector geometry, label overrides, favorites, RSVP marks and the
// journey shortcut cards, each JSON-serialized under a fixed string key.
package localstore

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"montapulse/internal/domain/model"
)

// Fixed storage keys. The businesses/events keys are retired snapshot caches
// that are only ever invalidated together with the polygon geometry.
const (
	KeyPolygons     = "montapulse_polygons"
	KeySectorLabels = "montapulse_sector_labels"
	KeyFavorites    = "montapulse_favorites"
	KeyRSVP         = "montapulse_rsvp"
	KeyJourneyCards = "montapulse_journey_cards_v2"
	KeyBusinesses   = "montapulse_businesses"
	KeyEvents       = "montapulse_events"
)

// retiredSectorKey appearing in cached geometry marks a pre-rename schema.
const retiredSectorKey = "Malecón"

// JourneyCard is one entry of the UI shortcut-card configuration.
type JourneyCard struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
	Color  string `json:"color"`
	Bg     string `json:"bg"`
}

// DefaultJourneyCards is the compiled-in shortcut-card configuration.
func DefaultJourneyCards() []JourneyCard {
	return []JourneyCard{
		{ID: "CENTRO", Label: "CENTRO", Icon: "zap", Active: true, Color: "text-indigo-400", Bg: "bg-indigo-500/10"},
		{ID: "LA PUNTA", Label: "LA PUNTA", Icon: "waves", Active: true, Color: "text-sky-400", Bg: "bg-sky-500/10"},
		{ID: "TIGRILLO", Label: "TIGRILLO", Icon: "leaf", Active: true, Color: "text-emerald-400", Bg: "bg-emerald-500/10"},
	}
}

// Store wraps a badger database holding the fixed keys.
type Store struct {
	db     *badger.DB
	logger *zap.SugaredLogger
}

// Open opens (or creates) the store at the given directory.
func Open(path string, logger *zap.SugaredLogger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// OpenInMemory opens a throwaway store backed by memory only.
func OpenInMemory(logger *zap.SugaredLogger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetJSON unmarshals the value under key into v. found is false when the key
// has never been written.
func (s *Store) GetJSON(key string, v interface{}) (bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func (s *Store) SetJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// LoadSectorPolygons returns the cached boundary geometry, validated against
// a minimal schema fingerprint: the Playa and Montaña keys must be present
// and the retired Malecón key absent. A mismatch (or malformed data) wipes
// the geometry plus the retired snapshot caches and falls back to the
// compiled-in defaults, silently.
func (s *Store) LoadSectorPolygons() map[model.Sector][]model.LatLng {
	stored := map[string][]model.LatLng{}
	found, err := s.GetJSON(KeyPolygons, &stored)
	if err != nil {
		s.logger.Warnw("discarding malformed cached geometry", "error", err)
		s.invalidateGeometry()
		return model.DefaultSectorPolygons()
	}
	if !found {
		return model.DefaultSectorPolygons()
	}

	_, hasPlaya := stored[string(model.SectorPlaya)]
	_, hasMontana := stored[string(model.SectorMontana)]
	_, hasRetired := stored[retiredSectorKey]
	if !hasPlaya || !hasMontana || hasRetired {
		s.invalidateGeometry()
		return model.DefaultSectorPolygons()
	}

	out := make(map[model.Sector][]model.LatLng, len(stored))
	for name, coords := range stored {
		out[model.Sector(name)] = coords
	}
	return out
}

// invalidateGeometry drops the geometry key and its two sibling snapshot
// caches, which were written by the same schema generation.
func (s *Store) invalidateGeometry() {
	for _, key := range []string{KeyPolygons, KeyBusinesses, KeyEvents} {
		if err := s.Delete(key); err != nil {
			s.logger.Warnw("failed to invalidate cached key", "key", key, "error", err)
		}
	}
}

// SaveSectorPolygons persists the full boundary geometry map.
func (s *Store) SaveSectorPolygons(polygons map[model.Sector][]model.LatLng) error {
	stored := make(map[string][]model.LatLng, len(polygons))
	for sector, coords := range polygons {
		stored[string(sector)] = coords
	}
	return s.SetJSON(KeyPolygons, stored)
}

// LoadSectorLabels returns the display-label overrides, defaulting each
// sector's label to its own name.
func (s *Store) LoadSectorLabels() map[string]string {
	labels := map[string]string{}
	found, err := s.GetJSON(KeySectorLabels, &labels)
	if err != nil || !found {
		if err != nil {
			s.logger.Warnw("discarding malformed sector labels", "error", err)
		}
		labels = map[string]string{}
		for _, sec := range model.AllSectors() {
			labels[string(sec)] = string(sec)
		}
	}
	return labels
}

// SaveSectorLabels persists the label override map.
func (s *Store) SaveSectorLabels(labels map[string]string) error {
	return s.SetJSON(KeySectorLabels, labels)
}

// LoadIDSet reads a persisted identifier list (favorites, RSVP) as a set.
func (s *Store) LoadIDSet(key string) map[string]bool {
	var ids []string
	found, err := s.GetJSON(key, &ids)
	if err != nil || !found {
		if err != nil {
			s.logger.Warnw("discarding malformed id list", "key", key, "error", err)
		}
		return map[string]bool{}
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// SaveIDSet persists an identifier set as a JSON list.
func (s *Store) SaveIDSet(key string, set map[string]bool) error {
	ids := make([]string, 0, len(set))
	for id, ok := range set {
		if ok {
			ids = append(ids, id)
		}
	}
	return s.SetJSON(key, ids)
}

// LoadJourneyCards returns the shortcut-card configuration, falling back to
// the compiled-in defaults.
func (s *Store) LoadJourneyCards() []JourneyCard {
	var cards []JourneyCard
	found, err := s.GetJSON(KeyJourneyCards, &cards)
	if err != nil || !found || len(cards) == 0 {
		if err != nil {
			s.logger.Warnw("discarding malformed journey cards", "error", err)
		}
		return DefaultJourneyCards()
	}
	return cards
}

// SaveJourneyCards persists the shortcut-card configuration.
func (s *Store) SaveJourneyCards(cards []JourneyCard) error {
	return s.SetJSON(KeyJourneyCards, cards)
}
