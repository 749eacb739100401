package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/gamehub-store/gamehub/internal/rawg"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 20

// carouselSize caps the homepage showcase after filtering.
const carouselSize = 6

// Category selects a browsing shelf, each with its own release-date window
// and ordering.
type Category string

const (
	CategoryPopular  Category = "popular"
	CategoryTrending Category = "trending"
	CategoryTopRated Category = "top-rated"
	CategoryRecent   Category = "recent"
	CategoryUpcoming Category = "upcoming"
)

// ErrUnknownCategory is returned for a category outside the fixed set.
var ErrUnknownCategory = errors.New("unknown catalog category")

// categoryRule is the window and ordering behind one shelf. Lookback and
// lookahead are measured in years from the invocation time.
type categoryRule struct {
	lookbackYears  int
	lookaheadYears int
	ordering       string
}

var categoryRules = map[Category]categoryRule{
	CategoryPopular:  {lookbackYears: 2, ordering: "-added,-rating"},
	CategoryTrending: {lookbackYears: 6, ordering: "-released,-rating"},
	CategoryTopRated: {lookbackYears: 16, ordering: "-rating"},
	CategoryRecent:   {lookbackYears: 1, ordering: "-released"},
	CategoryUpcoming: {lookaheadYears: 2, ordering: "released"},
}

// platformFilters maps a storefront platform category to its upstream query
// parameters. Mobile excludes the console parent platforms so cross-listed
// console titles don't flood the shelf.
type platformFilter struct {
	parents        string
	excludeParents string
}

var platformFilters = map[string]platformFilter{
	"pc":          {parents: "1"},
	"playstation": {parents: "2"},
	"xbox":        {parents: "3"},
	"nintendo":    {parents: "7"},
	"linux":       {parents: "6"},
	"mobile":      {parents: "4,8", excludeParents: "1,2,3"},
}

// Gateway is the read-through façade over the metadata API. It applies the
// content filter to every game listing and keeps no per-request state; the
// response cache lives transparently beneath the client.
type Gateway struct {
	client *rawg.Client
	now    func() time.Time
}

// NewGateway creates a Gateway.
func NewGateway(client *rawg.Client) *Gateway {
	return &Gateway{client: client, now: time.Now}
}

// NewGatewayWithClock is NewGateway with an injectable clock, for tests.
func NewGatewayWithClock(client *rawg.Client, now func() time.Time) *Gateway {
	return &Gateway{client: client, now: now}
}

// Carousel returns up to six filtered entries for the homepage showcase,
// drawn from a window of four months back to eight months ahead, most added
// first.
func (g *Gateway) Carousel(ctx context.Context) ([]Entry, error) {
	now := g.now()
	page, err := g.client.Games(ctx, rawg.GamesQuery{
		DatesFrom: now.AddDate(0, -4, 0),
		DatesTo:   now.AddDate(0, 8, 0),
		Ordering:  "-added",
		Page:      1,
		PageSize:  carouselSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch carousel")
	}

	entries := Presentable(page.Results)
	if len(entries) > carouselSize {
		entries = entries[:carouselSize]
	}
	return entries, nil
}

// ByCategory returns one filtered page of the given shelf.
func (g *Gateway) ByCategory(ctx context.Context, category Category, page, pageSize int) ([]Entry, error) {
	rule, ok := categoryRules[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	now := g.now()
	q := rawg.GamesQuery{
		Ordering: rule.ordering,
		Page:     page,
		PageSize: pageSize,
	}
	if rule.lookaheadYears > 0 {
		q.DatesFrom = now
		q.DatesTo = now.AddDate(rule.lookaheadYears, 0, 0)
	} else {
		q.DatesFrom = now.AddDate(-rule.lookbackYears, 0, 0)
		q.DatesTo = now
	}

	res, err := g.client.Games(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s games", category)
	}
	return Presentable(res.Results), nil
}

// ByPlatform returns one filtered page for a platform category. Unrecognized
// categories fall back to an unfiltered "most added" listing.
func (g *Gateway) ByPlatform(ctx context.Context, category string, page, pageSize int) ([]Entry, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	q := rawg.GamesQuery{
		Ordering: "-added",
		Page:     page,
		PageSize: pageSize,
	}
	if f, ok := platformFilters[strings.ToLower(category)]; ok {
		q.ParentPlatforms = f.parents
		q.ExcludeParents = f.excludeParents
	}

	res, err := g.client.Games(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s platform games", category)
	}
	return Presentable(res.Results), nil
}

// Search runs a full-text query against the upstream. An empty query
// succeeds immediately with no results and no network I/O.
//
// The returned Total is the upstream's unfiltered match count: it may exceed
// len(Games) because the content filter runs only on the returned page.
func (g *Gateway) Search(ctx context.Context, query string, page, pageSize int) (*SearchResult, error) {
	if query == "" {
		return &SearchResult{Games: []Entry{}}, nil
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	res, err := g.client.Games(ctx, rawg.GamesQuery{
		Search:   query,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "search games")
	}
	return &SearchResult{
		Games: Presentable(res.Results),
		Total: res.Count,
	}, nil
}

// Screenshots returns the raw screenshot list for a game. The content filter
// does not apply to screenshots.
func (g *Gateway) Screenshots(ctx context.Context, id int64) ([]rawg.Screenshot, error) {
	page, err := g.client.Screenshots(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch screenshots for game %d", id)
	}
	return page.Results, nil
}

// Trailer is the first clip attached to a game. Video prefers the 480p
// encoding and falls back to the maximum-quality one.
type Trailer struct {
	Video   string `json:"video"`
	Preview string `json:"preview"`
	Name    string `json:"name"`
}

// Trailer returns the lead clip for a game, or nil when the game has none.
// Trailers are decorative: an upstream error status degrades to nil instead
// of failing the request.
func (g *Gateway) Trailer(ctx context.Context, id int64) (*Trailer, error) {
	page, err := g.client.Movies(ctx, id)
	if err != nil {
		var statusErr *rawg.StatusError
		if errors.As(err, &statusErr) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "fetch trailer for game %d", id)
	}
	if len(page.Results) == 0 {
		return nil, nil
	}

	movie := page.Results[0]
	video := movie.Data.Q480
	if video == "" {
		video = movie.Data.Max
	}
	return &Trailer{
		Video:   video,
		Preview: movie.Preview,
		Name:    movie.Name,
	}, nil
}

// Achievements returns a game's achievements sorted by descending completion
// percentage, up to pageSize entries.
func (g *Gateway) Achievements(ctx context.Context, id int64, pageSize int) ([]rawg.Achievement, error) {
	page, err := g.client.Achievements(ctx, id, pageSize)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch achievements for game %d", id)
	}
	achievements := page.Results
	sortAchievements(achievements)
	return achievements, nil
}

// sortAchievements orders by descending completion percentage, keeping the
// upstream order for ties. The upstream serializes percentages as decimal
// strings; unparseable values sort last.
func sortAchievements(achievements []rawg.Achievement) {
	percent := func(a rawg.Achievement) float64 {
		p, err := strconv.ParseFloat(a.Percent, 64)
		if err != nil {
			return -1
		}
		return p
	}
	sort.SliceStable(achievements, func(i, j int) bool {
		return percent(achievements[i]) > percent(achievements[j])
	})
}
