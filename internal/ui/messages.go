// Package ui provides the Bubble Tea TUI for the Pokedex.
package ui

import (
	"github.com/abelbrown/pokedex/internal/catalog"
	"github.com/abelbrown/pokedex/internal/coord"
	"github.com/abelbrown/pokedex/internal/query"
)

// QueryDone is sent when a keyed read settles. The view re-derives from the
// cache, so the payload only names the key.
type QueryDone struct {
	Key query.Key
	Err error
}

// RefreshUpdate is sent by the background refresher.
type RefreshUpdate coord.Update

// DetailLoaded is sent when the detail read of a species settles.
type DetailLoaded struct {
	ID     int
	Detail *catalog.Detail
	Err    error
}
