package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// artworkBase serves official artwork by national dex id.
const artworkBase = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork"

// ExtractID parses the id from a resource URL such as
// "https://pokeapi.co/api/v2/pokemon/25/". The final non-empty path segment
// must be a positive integer.
func ExtractID(url string) (int, bool) {
	segments := strings.FieldsFunc(url, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(segments[len(segments)-1])
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// MapRefs converts list entries to entity references, silently dropping
// entries whose id cannot be extracted.
func MapRefs(items []NamedResource) []EntityRef {
	refs := make([]EntityRef, 0, len(items))
	for _, item := range items {
		id, ok := ExtractID(item.URL)
		if !ok {
			continue
		}
		refs = append(refs, EntityRef{ID: id, Name: item.Name})
	}
	return refs
}

// FormatName turns an API slug like "mr-mime" into "Mr Mime".
func FormatName(name string) string {
	// Casers carry state; one per call keeps this safe across goroutines.
	caser := cases.Title(language.English, cases.NoLower)
	parts := strings.Split(name, "-")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, " ")
}

// ArtworkURL returns the official artwork image for a species id.
func ArtworkURL(id int) string {
	return fmt.Sprintf("%s/%d.png", artworkBase, id)
}
