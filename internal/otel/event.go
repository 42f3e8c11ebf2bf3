// Package otel provides structured observability for the Pokedex.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and background drain goroutine.
// An optional RingBuffer provides live in-memory inspection for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an observability event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Catalog events
	KindCatalogRequest  EventKind = "catalog.request"
	KindCatalogResponse EventKind = "catalog.response"
	KindCatalogError    EventKind = "catalog.error"

	// Query cache events
	KindQueryStart    EventKind = "query.start"
	KindQueryDone     EventKind = "query.done"
	KindQueryError    EventKind = "query.error"
	KindQueryRefresh  EventKind = "query.refresh"
	KindQueryDedupHit EventKind = "query.dedup"

	// Favorites events
	KindFavoriteToggle EventKind = "favorites.toggle"
	KindFavoritesLoad  EventKind = "favorites.load"
	KindFavoritesSave  EventKind = "favorites.save_error"

	// UI events
	KindKeyPress   EventKind = "ui.key"
	KindModeChange EventKind = "ui.mode"
	KindPageCommit EventKind = "ui.page_commit"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal observability record. Every field except Kind and
// Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // component: "catalog", "query", "favorites", "ui", "main"
	SessionID string         `json:"session_id,omitempty"` // same for entire app run
	Key       string         `json:"key,omitempty"`        // query cache key
	Dur       time.Duration  `json:"-"`                    // not serialized directly
	DurMs     float64        `json:"dur_ms,omitempty"`     // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	EntityID  int            `json:"entity_id,omitempty"`
	Status    int            `json:"status,omitempty"` // HTTP status for catalog events
	Query     string         `json:"query,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
