package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gamehub-store/gamehub/internal/rawg"
)

const (
	suggestionLimit     = 6
	achievementPageSize = 100
)

// Detail builds the aggregated detail view for one game.
//
// The primary detail fetch is a hard dependency: if it fails, the whole
// aggregation fails. The four enrichment fetches (screenshots, suggestions,
// series, achievements) run concurrently and are best-effort: a failing one
// degrades to an empty list instead of failing the aggregate.
func (g *Gateway) Detail(ctx context.Context, id int64) (*Detail, error) {
	game, err := g.client.GameByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch game %d", id)
	}

	var (
		screenshots  []rawg.Screenshot
		suggested    []Ref
		series       []Ref
		achievements []rawg.Achievement
	)

	// Enrichment failures are swallowed: each goroutine records its result
	// and returns nil, so eg.Wait never fails here.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if page, err := g.client.Screenshots(egCtx, id); err == nil {
			screenshots = page.Results
		}
		return nil
	})
	eg.Go(func() error {
		suggested = g.suggestionsFor(egCtx, game)
		return nil
	})
	eg.Go(func() error {
		if page, err := g.client.Series(egCtx, id); err == nil {
			series = refsOf(page.Results)
		}
		return nil
	})
	eg.Go(func() error {
		if page, err := g.client.Achievements(egCtx, id, achievementPageSize); err == nil {
			achievements = page.Results
			sortAchievements(achievements)
		}
		return nil
	})
	_ = eg.Wait()

	return mergeDetail(game, screenshots, suggested, series, achievements), nil
}

// suggestionsFor fetches related games for the detail page. When the primary
// entry carries genres, the query is narrowed to its first two genre ids;
// otherwise it falls back to a plain popularity listing. Additions, parent
// games, and series entries are excluded upstream, and the primary entry
// itself is excluded here in case the upstream includes it anyway.
func (g *Gateway) suggestionsFor(ctx context.Context, game *rawg.Game) []Ref {
	q := rawg.GamesQuery{
		Ordering:          "-added",
		PageSize:          suggestionLimit,
		ExcludeAdditions:  true,
		ExcludeParentGame: true,
		ExcludeGameSeries: true,
	}
	if len(game.Genres) > 0 {
		ids := make([]string, 0, 2)
		for _, genre := range game.Genres {
			ids = append(ids, strconv.FormatInt(genre.ID, 10))
			if len(ids) == 2 {
				break
			}
		}
		q.Genres = strings.Join(ids, ",")
	}

	page, err := g.client.Games(ctx, q)
	if err != nil {
		return nil
	}

	refs := make([]Ref, 0, len(page.Results))
	for _, e := range page.Results {
		if e.ID == game.ID {
			continue
		}
		refs = append(refs, RefOf(e))
	}
	return refs
}

func refsOf(entries []Entry) []Ref {
	refs := make([]Ref, len(entries))
	for i, e := range entries {
		refs[i] = RefOf(e)
	}
	return refs
}

// mergeDetail denormalizes the primary record and its enrichments into one
// Detail, applying the documented fallbacks for absent upstream fields.
func mergeDetail(
	game *rawg.Game,
	screenshots []rawg.Screenshot,
	suggested []Ref,
	series []Ref,
	achievements []rawg.Achievement,
) *Detail {
	description := game.Description
	if description == "" {
		description = game.DescriptionRaw
	}

	var website *string
	if game.Website != "" {
		website = &game.Website
	}

	d := &Detail{
		ID:              game.ID,
		Name:            game.Name,
		BackgroundImage: game.BackgroundImage,
		Rating:          game.Rating,
		Released:        game.Released,
		TBA:             game.TBA,
		Metacritic:      game.Metacritic,
		Description:     description,
		Website:         website,
		Genres:          emptyIfNil(game.Genres),
		Platforms:       emptyIfNil(game.Platforms),
		Tags:            emptyIfNil(game.Tags),
		Developers:      emptyIfNil(game.Developers),
		Publishers:      emptyIfNil(game.Publishers),
		Screenshots:     emptyIfNil(screenshots),
		Achievements:    emptyIfNil(achievements),
		Suggested:       emptyIfNil(suggested),
		Series:          emptyIfNil(series),
		DLCs:            []Ref{},
		ParentGames:     refsOf(game.ParentGames),
	}
	return d
}

// emptyIfNil normalizes nil slices to empty ones so detail responses always
// serialize list fields as arrays.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
