// Package rawg is a minimal client for the RAWG-compatible game metadata API.
//
// Every request is a GET authenticated by a static key query parameter.
// Responses are memoized in a TTL cache keyed by the full request URL, so two
// identical queries within the TTL observe the same upstream payload. The
// client performs no retries: every failure surfaces to the caller on first
// attempt.
package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gamehub-store/gamehub/internal/cache"
)

// DefaultBaseURL is the production endpoint of the metadata API.
const DefaultBaseURL = "https://api.rawg.io/api"

// ErrMissingKey is returned before any network I/O when the client was
// constructed without an API key.
var ErrMissingKey = errors.New("rawg: API key is not configured")

// StatusError is returned when the upstream responds with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rawg: upstream returned status %d", e.Code)
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream endpoint. Used by tests to point the
// client at a local fake.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithCache sets the response cache. Defaults to cache.Nop.
func WithCache(store cache.Store) Option {
	return func(c *Client) { c.store = store }
}

// Client issues authenticated GET requests against the metadata API.
type Client struct {
	baseURL string
	key     string
	httpc   *http.Client
	store   cache.Store
}

// New creates a Client. The key may be empty, in which case every call fails
// with ErrMissingKey without touching the network.
func New(key string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		key:     key,
		httpc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		store: cache.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GamesQuery holds the query surface of the /games list endpoint. Zero-value
// fields are omitted from the request.
type GamesQuery struct {
	// DatesFrom/DatesTo bound the release date window (inclusive).
	DatesFrom time.Time
	DatesTo   time.Time
	// Ordering is the upstream sort expression, e.g. "-added,-rating".
	Ordering string
	Page     int
	PageSize int
	Search   string
	// ParentPlatforms is a comma-separated list of parent platform ids.
	ParentPlatforms string
	// ExcludeParents lists parent platform ids to exclude (used with the
	// mobile category to drop cross-listed console titles).
	ExcludeParents string
	// Genres is a comma-separated list of genre ids.
	Genres string
	// Exclusion flags for the suggestions query.
	ExcludeAdditions  bool
	ExcludeParentGame bool
	ExcludeGameSeries bool
}

const dateLayout = "2006-01-02"

func (q GamesQuery) values() url.Values {
	v := url.Values{}
	if !q.DatesFrom.IsZero() || !q.DatesTo.IsZero() {
		v.Set("dates", q.DatesFrom.Format(dateLayout)+","+q.DatesTo.Format(dateLayout))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.ParentPlatforms != "" {
		v.Set("parent_platforms", q.ParentPlatforms)
	}
	if q.ExcludeParents != "" {
		v.Set("exclude_parents", q.ExcludeParents)
	}
	if q.Genres != "" {
		v.Set("genres", q.Genres)
	}
	if q.ExcludeAdditions {
		v.Set("exclude_additions", "true")
	}
	if q.ExcludeParentGame {
		v.Set("exclude_parents", "true")
	}
	if q.ExcludeGameSeries {
		v.Set("exclude_game_series", "true")
	}
	return v
}

// Games lists games matching the query.
func (c *Client) Games(ctx context.Context, q GamesQuery) (*Page[Game], error) {
	var page Page[Game]
	if err := c.get(ctx, "/games", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GameByID fetches the full detail record for one game.
func (c *Client) GameByID(ctx context.Context, id int64) (*Game, error) {
	var g Game
	if err := c.get(ctx, fmt.Sprintf("/games/%d", id), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Screenshots lists the screenshots of a game.
func (c *Client) Screenshots(ctx context.Context, id int64) (*Page[Screenshot], error) {
	var page Page[Screenshot]
	if err := c.get(ctx, fmt.Sprintf("/games/%d/screenshots", id), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Achievements lists a game's achievements, up to pageSize entries.
func (c *Client) Achievements(ctx context.Context, id int64, pageSize int) (*Page[Achievement], error) {
	v := url.Values{}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
	var page Page[Achievement]
	if err := c.get(ctx, fmt.Sprintf("/games/%d/achievements", id), v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Movies lists the trailers and clips attached to a game.
func (c *Client) Movies(ctx context.Context, id int64) (*Page[Movie], error) {
	var page Page[Movie]
	if err := c.get(ctx, fmt.Sprintf("/games/%d/movies", id), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Series lists the other games in the same series as the given game.
func (c *Client) Series(ctx context.Context, id int64) (*Page[Game], error) {
	var page Page[Game]
	if err := c.get(ctx, fmt.Sprintf("/games/%d/game-series", id), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// get performs one cached GET. The cache key is the full URL including the
// query string but excluding the API key, so rotating the key does not
// invalidate the cache.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.key == "" {
		return ErrMissingKey
	}

	if query == nil {
		query = url.Values{}
	}
	cacheKey := c.baseURL + path + "?" + query.Encode()

	if body, ok := c.store.Get(cacheKey); ok {
		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrap(err, "decode cached response")
		}
		return nil
	}

	query.Set("key", c.key)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode response")
	}

	c.store.Set(cacheKey, body)
	return nil
}
