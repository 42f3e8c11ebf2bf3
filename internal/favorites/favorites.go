// Package favorites keeps the persisted set of favorite species.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/abelbrown/pokedex/internal/otel"
	"github.com/abelbrown/pokedex/internal/store"
)

// StorageKey is the slot the whole collection is written to.
const StorageKey = "favorites-storage"

// Entry is a favorite, captured with the name it had when toggled on.
type Entry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Slot is durable key-value storage. *store.Store satisfies it.
// Get returns store.ErrNotFound for a key that was never written.
type Slot interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Store is the in-memory favorites set backed by a Slot.
// Thread-safety: all methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[int]Entry
	slot    Slot
	log     *otel.Logger
}

// New loads the collection from slot. A missing, unreadable or malformed
// payload yields an empty collection; it is logged, never returned.
func New(slot Slot, log *otel.Logger) *Store {
	s := &Store{
		entries: make(map[int]Entry),
		slot:    slot,
		log:     log,
	}

	entries, err := load(slot)
	switch {
	case err == nil:
		s.entries = entries
		log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFavoritesLoad, Comp: "favorites", Count: len(entries)})
	case errors.Is(err, store.ErrNotFound):
		// first run
	default:
		log.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindFavoritesLoad, Comp: "favorites", Err: err.Error(), Msg: "starting with empty favorites"})
	}
	return s
}

// load reads and decodes the persisted collection.
func load(slot Slot) (map[int]Entry, error) {
	if slot == nil {
		return nil, store.ErrNotFound
	}
	data, err := slot.Get(StorageKey)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses the persisted form: a JSON object keyed by decimal id.
// Entries whose key is not an id, or disagrees with the entry's own id,
// are skipped.
func Decode(data []byte) (map[int]Entry, error) {
	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	entries := make(map[int]Entry, len(raw))
	for k, e := range raw {
		id, err := strconv.Atoi(k)
		if err != nil || id < 1 || e.ID != id {
			continue
		}
		entries[id] = e
	}
	return entries, nil
}

// Encode renders entries in the persisted form.
func Encode(entries map[int]Entry) ([]byte, error) {
	raw := make(map[string]Entry, len(entries))
	for id, e := range entries {
		raw[strconv.Itoa(id)] = e
	}
	return json.Marshal(raw)
}

// Toggle removes e if its id is present, otherwise inserts it verbatim.
// Returns whether e is a favorite afterwards. The full collection is
// written on every call; a write failure is logged and swallowed.
func (s *Store) Toggle(e Entry) bool {
	s.mu.Lock()
	_, present := s.entries[e.ID]
	if present {
		delete(s.entries, e.ID)
	} else {
		s.entries[e.ID] = e
	}
	// written under the lock so snapshots reach the slot in toggle order
	data, err := Encode(s.entries)
	if err == nil {
		err = s.persist(data)
	}
	s.mu.Unlock()

	s.log.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFavoriteToggle, Comp: "favorites", EntityID: e.ID, Msg: e.Name, Extra: map[string]any{"favorite": !present}})
	if err != nil {
		s.log.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindFavoritesSave, Comp: "favorites", EntityID: e.ID, Err: err.Error()})
	}
	return !present
}

// persist writes the encoded collection to the slot. Caller holds s.mu.
func (s *Store) persist(data []byte) error {
	if s.slot == nil {
		return nil
	}
	return s.slot.Set(StorageKey, data)
}

// IsFavorite reports whether id is in the collection.
func (s *Store) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// List returns the favorites sorted ascending by id. Recomputed per call.
func (s *Store) List() []Entry {
	s.mu.RLock()
	list := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		list = append(list, e)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
