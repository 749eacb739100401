package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamehub-store/gamehub/internal/cache"
	"github.com/gamehub-store/gamehub/internal/catalog"
	"github.com/gamehub-store/gamehub/internal/domain/auth"
	"github.com/gamehub-store/gamehub/internal/domain/cart"
	"github.com/gamehub-store/gamehub/internal/domain/order"
	"github.com/gamehub-store/gamehub/internal/domain/user"
	"github.com/gamehub-store/gamehub/internal/rawg"
)

type memUserRepo struct {
	byEmail map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*user.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

type memSessionRepo struct {
	sessions map[uuid.UUID]*auth.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*auth.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, s *auth.Session) error {
	r.sessions[s.Token] = s
	return nil
}

func (r *memSessionRepo) GetByToken(_ context.Context, token uuid.UUID) (*auth.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return s, nil
}

func (r *memSessionRepo) Delete(_ context.Context, token uuid.UUID) error {
	delete(r.sessions, token)
	return nil
}

type memCartRepo struct {
	items map[uuid.UUID][]cart.Item
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{items: make(map[uuid.UUID][]cart.Item)}
}

func (r *memCartRepo) List(_ context.Context, userID uuid.UUID) ([]cart.Item, error) {
	return r.items[userID], nil
}

func (r *memCartRepo) Add(_ context.Context, userID uuid.UUID, item cart.Item) error {
	for _, it := range r.items[userID] {
		if it.GameID == item.GameID {
			return nil
		}
	}
	r.items[userID] = append(r.items[userID], item)
	return nil
}

func (r *memCartRepo) Remove(_ context.Context, userID uuid.UUID, gameID int64) error {
	kept := r.items[userID][:0]
	for _, it := range r.items[userID] {
		if it.GameID != gameID {
			kept = append(kept, it)
		}
	}
	r.items[userID] = kept
	return nil
}

func (r *memCartRepo) Clear(_ context.Context, userID uuid.UUID) error {
	delete(r.items, userID)
	return nil
}

type memOrderRepo struct {
	carts  *memCartRepo
	orders map[uuid.UUID][]order.Order
}

func newMemOrderRepo(carts *memCartRepo) *memOrderRepo {
	return &memOrderRepo{carts: carts, orders: make(map[uuid.UUID][]order.Order)}
}

func (r *memOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.orders[o.UserID] = append([]order.Order{*o}, r.orders[o.UserID]...)
	return r.carts.Clear(ctx, o.UserID)
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]order.Order, error) {
	return r.orders[userID], nil
}

type testServer struct {
	handler *Handler
	mux     *http.ServeMux
}

func newTestServer(t *testing.T, upstreamURL string) *testServer {
	t.Helper()

	client := rawg.New("test-key",
		rawg.WithBaseURL(upstreamURL),
		rawg.WithCache(cache.Nop{}),
	)
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	carts := newMemCartRepo()
	orders := newMemOrderRepo(carts)

	authSvc := auth.NewService(users, sessions, bcrypt.MinCost)
	orderSvc := order.NewService(carts, orders)
	h := New(catalog.NewGateway(client), authSvc, carts, orderSvc)
	return &testServer{handler: h, mux: h.Routes()}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (success bool, data json.RawMessage, errMsg string) {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Success, env.Data, env.Error
}

func registerAndLogin(t *testing.T, s *testServer) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "player@example.com", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "player@example.com", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, data, _ := decodeEnvelope(t, rec)
	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(data, &sess))
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

// recentRelease is a release date a few months old, so its price lands in the
// newest tier regardless of when the test runs.
func recentRelease() string {
	return time.Now().AddDate(0, -3, 0).Format("2006-01-02")
}

func catalogUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"count": 3,
			"results": [
				{"id": 1, "name": "Starfall", "rating": 4.4, "released": %q,
				 "achievements_count": 12,
				 "platforms": [{"platform": {"id": 4, "name": "PC", "slug": "pc"}}]},
				{"id": 2, "name": "Forbidden", "rating": 4.0, "released": "2020-05-05",
				 "achievements_count": 3,
				 "tags": [{"id": 9, "name": "NSFW", "slug": "nsfw"}]},
				{"id": 3, "name": "Shovelware", "rating": 1.0, "released": ""}
			]
		}`, recentRelease())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCategoryEndpointFiltersAndPrices(t *testing.T) {
	upstream := catalogUpstream(t)
	s := newTestServer(t, upstream.URL)

	rec := s.do(t, http.MethodGet, "/api/catalog/popular", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	success, data, _ := decodeEnvelope(t, rec)
	require.True(t, success)

	var games []struct {
		ID        int64    `json:"id"`
		Price     string   `json:"price"`
		Platforms []string `json:"platform_keys"`
	}
	require.NoError(t, json.Unmarshal(data, &games))
	require.Len(t, games, 1)
	assert.Equal(t, int64(1), games[0].ID)
	assert.Equal(t, "59.99", games[0].Price)
	assert.Equal(t, []string{"pc"}, games[0].Platforms)
}

func TestUnknownCategoryIs404(t *testing.T) {
	upstream := catalogUpstream(t)
	s := newTestServer(t, upstream.URL)

	rec := s.do(t, http.MethodGet, "/api/catalog/bogus", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	success, _, errMsg := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "unknown category", errMsg)
}

func TestSearchKeepsUpstreamTotal(t *testing.T) {
	upstream := catalogUpstream(t)
	s := newTestServer(t, upstream.URL)

	rec := s.do(t, http.MethodGet, "/api/search?q=star", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, data, _ := decodeEnvelope(t, rec)
	var res struct {
		Games []json.RawMessage `json:"games"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Games, 1)
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)
	s := newTestServer(t, upstream.URL)

	rec := s.do(t, http.MethodGet, "/api/catalog/trending", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")
	token := registerAndLogin(t, s)

	rec := s.do(t, http.MethodGet, "/api/cart", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/cart", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")
	creds := map[string]string{"email": "dup@example.com", "password": "hunter2hunter2"}

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCartRequiresAuth(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")

	rec := s.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/cart", uuid.NewString(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAddListRemove(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")
	token := registerAndLogin(t, s)

	rec := s.do(t, http.MethodPost, "/api/cart", token, map[string]any{
		"game_id": int64(7), "name": "Starfall", "released": recentRelease(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, data, _ := decodeEnvelope(t, rec)
	var view struct {
		Items []struct {
			GameID int64  `json:"game_id"`
			Price  string `json:"price"`
		} `json:"items"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(data, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "59.99", view.Items[0].Price)
	assert.Equal(t, "59.99", view.Total)

	rec = s.do(t, http.MethodDelete, "/api/cart/7", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/cart", token, nil)
	_, data, _ = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Empty(t, view.Items)
	assert.Equal(t, "0.00", view.Total)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")
	token := registerAndLogin(t, s)

	rec := s.do(t, http.MethodPost, "/api/orders", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutClearsCartAndFillsLibrary(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")
	token := registerAndLogin(t, s)

	for id, released := range map[int64]string{7: recentRelease(), 8: "1999-03-01"} {
		rec := s.do(t, http.MethodPost, "/api/cart", token, map[string]any{
			"game_id": id, "name": fmt.Sprintf("Game %d", id), "released": released,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/orders", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, data, _ := decodeEnvelope(t, rec)
	var o struct {
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(data, &o))
	assert.Equal(t, "69.98", o.Total)

	rec = s.do(t, http.MethodGet, "/api/cart", token, nil)
	_, data, _ = decodeEnvelope(t, rec)
	var cartBody struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &cartBody))
	assert.Empty(t, cartBody.Items)

	rec = s.do(t, http.MethodGet, "/api/library", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, data, _ = decodeEnvelope(t, rec)
	var library []struct {
		GameID int64 `json:"game_id"`
	}
	require.NoError(t, json.Unmarshal(data, &library))
	assert.Len(t, library, 2)
}

func TestInvalidGameIDIsBadRequest(t *testing.T) {
	s := newTestServer(t, "http://unused.invalid")

	rec := s.do(t, http.MethodGet, "/api/games/not-a-number", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingPriceForUnknownRelease(t *testing.T) {
	price := catalog.PriceFor("")
	assert.True(t, price.Equal(decimal.RequireFromString("19.99")))
}

func TestGameTrailerEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/games/42/movies" {
			fmt.Fprint(w, `{"count": 1, "results": [
				{"id": 9, "name": "Reveal", "preview": "https://cdn.example/p.jpg",
				 "data": {"480": "https://cdn.example/480.mp4", "max": "https://cdn.example/max.mp4"}}
			]}`)
			return
		}
		fmt.Fprint(w, `{"count": 0, "results": []}`)
	}))
	t.Cleanup(upstream.Close)
	s := newTestServer(t, upstream.URL)

	rec := s.do(t, http.MethodGet, "/api/games/42/trailer", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	success, data, _ := decodeEnvelope(t, rec)
	require.True(t, success)
	var trailer struct {
		Video   string `json:"video"`
		Preview string `json:"preview"`
		Name    string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(data, &trailer))
	assert.Equal(t, "https://cdn.example/480.mp4", trailer.Video)
	assert.Equal(t, "Reveal", trailer.Name)

	// A game without clips still succeeds, with null data.
	rec = s.do(t, http.MethodGet, "/api/games/7/trailer", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	success, data, _ = decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.Equal(t, "null", string(data))
}
