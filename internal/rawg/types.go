package rawg

// Page is the upstream list envelope: a total count plus one page of results.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Game is a game record as returned by the upstream metadata API. Optional
// fields use pointers or zero values; list endpoints omit most of the detail
// fields.
type Game struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	BackgroundImage   *string     `json:"background_image"`
	Rating            float64     `json:"rating"`
	Released          string      `json:"released"`
	TBA               bool        `json:"tba"`
	Metacritic        *int        `json:"metacritic"`
	Description       string      `json:"description"`
	DescriptionRaw    string      `json:"description_raw"`
	Website           string      `json:"website"`
	Genres            []Genre     `json:"genres"`
	Platforms         []PlatformRef `json:"platforms"`
	Tags              []Tag       `json:"tags"`
	Developers        []Company   `json:"developers"`
	Publishers        []Company   `json:"publishers"`
	ParentGames       []Game      `json:"parent_games"`
	AchievementsCount int         `json:"achievements_count"`
}

// Genre is a genre tag attached to a game.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PlatformRef is a game-to-platform association.
type PlatformRef struct {
	Platform Platform `json:"platform"`
}

// Platform identifies a vendor platform.
type Platform struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Tag is a user-generated classification slug. Tag slugs drive the content
// filter, so Slug is the field of record.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Company is a developer or publisher reference.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is one trailer or gameplay clip attached to a game. The upstream
// serializes the encodings under numeric quality keys.
type Movie struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Preview string    `json:"preview"`
	Data    MovieData `json:"data"`
}

// MovieData holds the available encodings of a clip.
type MovieData struct {
	Q480 string `json:"480"`
	Max  string `json:"max"`
}

// Screenshot is a single screenshot image for a game.
type Screenshot struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

// Achievement is a single achievement with its global completion percentage.
// The upstream serializes the percentage as a decimal string.
type Achievement struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	Percent     string  `json:"percent"`
}
