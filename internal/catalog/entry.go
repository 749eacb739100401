// Package catalog implements the storefront's browsing core: a read-through
// gateway over the game metadata API, the content filter, the platform
// normalizer, age-based price tiering, and the detail aggregator.
package catalog

import "github.com/gamehub-store/gamehub/internal/rawg"

// Entry is one game's browsable metadata record. Entries that fail the
// content filter never appear in any sequence returned by the Gateway.
type Entry = rawg.Game

// Ref is a lightweight projection of an Entry used for suggestion and series
// listings.
type Ref struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	BackgroundImage *string `json:"background_image"`
	Released        string  `json:"released,omitempty"`
}

// RefOf projects a full entry down to a Ref.
func RefOf(e Entry) Ref {
	return Ref{
		ID:              e.ID,
		Name:            e.Name,
		BackgroundImage: e.BackgroundImage,
		Released:        e.Released,
	}
}

// Detail is an aggregated, denormalized view of one game: the primary detail
// record enriched with screenshots, achievements, and related-entry lists.
// Instances are built per request and never mutated after construction.
type Detail struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	BackgroundImage *string          `json:"background_image"`
	Rating          float64          `json:"rating"`
	Released        string           `json:"released,omitempty"`
	TBA             bool             `json:"tba"`
	Metacritic      *int             `json:"metacritic"`
	Description     string           `json:"description"`
	Website         *string          `json:"website"`
	Genres          []rawg.Genre     `json:"genres"`
	Platforms       []rawg.PlatformRef `json:"platforms"`
	Tags            []rawg.Tag       `json:"tags"`
	Developers      []rawg.Company   `json:"developers"`
	Publishers      []rawg.Company   `json:"publishers"`
	Screenshots     []rawg.Screenshot `json:"screenshots"`
	Achievements    []rawg.Achievement `json:"achievements"`
	Suggested       []Ref            `json:"suggested_games"`
	Series          []Ref            `json:"series_games"`
	DLCs            []Ref            `json:"dlcs"`
	ParentGames     []Ref            `json:"parent_games"`
}

// SearchResult pairs one filtered page of matches with the upstream's total
// count. The count is the unfiltered upstream figure and may exceed the
// number of displayable results; see the Gateway.Search doc comment.
type SearchResult struct {
	Games []Entry `json:"games"`
	Total int     `json:"total"`
}
