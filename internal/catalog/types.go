package catalog

// DefaultPageSize is the page window shared by Browse and Category pagination.
const DefaultPageSize = 20

// allLimit is large enough to return every species in a single response.
const allLimit = 10000

// NamedResource is the {name, url} pair PokeAPI uses for list entries.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EntityRef is the minimal {id, name} identification of a species.
type EntityRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PageResponse is the body of GET /pokemon.
type PageResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// CategoryList is the body of GET /type.
type CategoryList struct {
	Count   int             `json:"count"`
	Results []NamedResource `json:"results"`
}

// Names returns the category names in response order.
func (c CategoryList) Names() []string {
	names := make([]string, 0, len(c.Results))
	for _, r := range c.Results {
		names = append(names, r.Name)
	}
	return names
}

// TypeMember is one slot of a type's member list.
type TypeMember struct {
	Pokemon NamedResource `json:"pokemon"`
	Slot    int           `json:"slot"`
}

// TypeMembers is the body of GET /type/{name}.
type TypeMembers struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Pokemon []TypeMember `json:"pokemon"`
}

// Members flattens the member slots into plain resources.
func (t TypeMembers) Members() []NamedResource {
	out := make([]NamedResource, 0, len(t.Pokemon))
	for _, m := range t.Pokemon {
		out = append(out, m.Pokemon)
	}
	return out
}

// Stat is a base stat entry of a species.
type Stat struct {
	BaseStat int `json:"base_stat"`
	Stat     struct {
		Name string `json:"name"`
	} `json:"stat"`
}

// maxStatBar caps stat bars so outliers (e.g. 255 HP) don't overflow.
const maxStatBar = 200

// BarValue is the base stat capped for bar rendering.
func (s Stat) BarValue() int {
	return min(s.BaseStat, maxStatBar)
}

// BarFraction is BarValue as a fraction of the bar width.
func (s Stat) BarFraction() float64 {
	return float64(s.BarValue()) / maxStatBar
}

// TypeSlot is one of a species' types.
type TypeSlot struct {
	Slot int `json:"slot"`
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
}

// AbilitySlot is one of a species' abilities.
type AbilitySlot struct {
	Ability struct {
		Name string `json:"name"`
	} `json:"ability"`
	IsHidden bool `json:"is_hidden"`
}

// Detail is the body of GET /pokemon/{id}, trimmed to what the detail panel shows.
type Detail struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Height  int    `json:"height"` // decimetres
	Weight  int    `json:"weight"` // hectograms
	Sprites struct {
		Other struct {
			OfficialArtwork struct {
				FrontDefault *string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Stats     []Stat        `json:"stats"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
}

// HeightMeters converts the API's decimetres.
func (d Detail) HeightMeters() float64 {
	return float64(d.Height) / 10
}

// WeightKg converts the API's hectograms.
func (d Detail) WeightKg() float64 {
	return float64(d.Weight) / 10
}

// TypeNames returns the species' type names in slot order.
func (d Detail) TypeNames() []string {
	names := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// Artwork returns the official artwork URL, falling back to the sprite CDN path.
func (d Detail) Artwork() string {
	if a := d.Sprites.Other.OfficialArtwork.FrontDefault; a != nil && *a != "" {
		return *a
	}
	return ArtworkURL(d.ID)
}
