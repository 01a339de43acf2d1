package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gomovies/internal/cache"
	"github.com/amaumene/gomovies/internal/config"
	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/internal/controller"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/internal/services"
	"github.com/amaumene/gomovies/internal/session"
	"github.com/amaumene/gomovies/internal/trending"
	"github.com/amaumene/gomovies/internal/view"
	"github.com/amaumene/gomovies/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTMDB struct {
	fail bool
}

func (f *fakeTMDB) FetchPage(_ context.Context, query string, page int) (*models.MoviePage, error) {
	if f.fail {
		return nil, apperrors.NewTMDBStatusError(http.StatusUnauthorized, "401 Unauthorized")
	}
	if query == "zzzz" {
		return &models.MoviePage{Page: 1, Results: []models.Movie{}}, nil
	}
	results := make([]models.Movie, 20)
	for i := range results {
		results[i] = models.Movie{ID: page*1000 + i, Title: fmt.Sprintf("%s %d", query, i)}
	}
	return &models.MoviePage{Page: page, TotalPages: 3, TotalResults: 60, Results: results}, nil
}

func (f *fakeTMDB) SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	return f.FetchPage(ctx, query, page)
}

func (f *fakeTMDB) DiscoverMovies(ctx context.Context, page int) (*models.MoviePage, error) {
	return f.FetchPage(ctx, "", page)
}

type fakeStore struct {
	mu       sync.Mutex
	recorded []string
	entries  []models.TrendingEntry
}

func (s *fakeStore) TopSearchTerms(_ context.Context, limit int) ([]models.TrendingEntry, error) {
	if len(s.entries) > limit {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

func (s *fakeStore) RecordSearch(_ context.Context, term string, _ models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, term)
	return nil
}

func (s *fakeStore) GetSearchTerm(context.Context, string) (*models.TrendingEntry, error) {
	return nil, apperrors.ErrNotFound
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) terms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recorded...)
}

type testEnv struct {
	router   *gin.Engine
	services *services.Container
	sessions *session.Manager
	store    *fakeStore
}

func newTestEnv(t *testing.T, tmdb *fakeTMDB) *testEnv {
	t.Helper()

	log := logger.NewDiscard()
	store := &fakeStore{entries: []models.TrendingEntry{
		{ID: "1", SearchTerm: "batman", Title: "Batman", PosterURL: "/batman.jpg", Count: 4},
		{ID: "2", SearchTerm: "heat", Title: "Heat", Count: 2},
	}}

	container := &services.Container{
		TMDB:     tmdb,
		Cache:    cache.New[*models.MoviePage](10, time.Minute),
		Store:    store,
		Logger:   log,
		Trending: trending.NewLoader(store, constants.TrendingLimit, log),
		Recorder: controller.NewAsyncRecorder(store, log, 2),
	}
	container.Trending.Load(context.Background())

	sessions := session.NewManager(func() *controller.Controller {
		return container.NewController(controller.Options{Logger: log})
	}, 10, time.Minute, log)
	t.Cleanup(sessions.Close)

	cfg := config.Default()
	h := New(container, sessions, cfg)
	r := gin.New()
	h.RegisterRoutes(r)

	return &testEnv{router: r, services: container, sessions: sessions, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHomeAndHealth(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})

	w := env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), constants.AppName)

	w = env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, true, health["trending_loaded"])
	assert.Equal(t, float64(0), health["cached_pages"])
}

func TestMoviesSearchRecordsTopResult(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})

	w := env.do(t, http.MethodGet, "/api/movies?query=batman", "")
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[view.List](t, w)
	assert.Len(t, list.Movies, 20)
	assert.Equal(t, 1, list.Page)
	require.NotNil(t, list.LoadMore)
	assert.Equal(t, constants.LabelLoadMore, list.LoadMore.Label)

	env.services.Recorder.Wait()
	assert.Equal(t, []string{"batman"}, env.store.terms())
}

func TestMoviesDiscoverDoesNotRecord(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})

	w := env.do(t, http.MethodGet, "/api/movies?page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[view.List](t, w).Movies, 20)

	env.services.Recorder.Wait()
	assert.Empty(t, env.store.terms())
}

func TestMoviesOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		tmdb      *fakeTMDB
		path      string
		wantCode  int
		wantError string
	}{
		{"no results", &fakeTMDB{}, "/api/movies?query=zzzz", http.StatusOK, constants.MsgNoMovies},
		{"upstream failure", &fakeTMDB{fail: true}, "/api/movies?query=batman", http.StatusOK, constants.MsgFetchError},
		{"bad page", &fakeTMDB{}, "/api/movies?page=abc", http.StatusBadRequest, `"abc"`},
		{"zero page", &fakeTMDB{}, "/api/movies?page=0", http.StatusBadRequest, `"0"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.tmdb)
			w := env.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				body := decode[map[string]string](t, w)
				assert.Contains(t, body["error"], tt.wantError)
				return
			}
			list := decode[view.List](t, w)
			assert.Equal(t, tt.wantError, list.Error)
			assert.Empty(t, list.Movies)
			assert.Nil(t, list.LoadMore)
		})
	}
}

func TestTrending(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})

	w := env.do(t, http.MethodGet, "/api/trending", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Trending []view.TrendingItem `json:"trending"`
	}](t, w)
	require.Len(t, body.Trending, 2)
	assert.Equal(t, 1, body.Trending[0].Rank)
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/batman.jpg", body.Trending[0].PosterURL)
}

func waitSessionIdle(t *testing.T, env *testEnv, id string) {
	t.Helper()
	s, err := env.sessions.Get(id)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = s.Controller.WaitIdle(ctx)
	require.NoError(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})

	w := env.do(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[SessionResponse](t, w)
	require.NotEmpty(t, created.ID)
	waitSessionIdle(t, env, created.ID)

	w = env.do(t, http.MethodPut, "/api/sessions/"+created.ID+"/input", `{"query":"batman"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "batman", decode[SessionResponse](t, w).View.Input)
	waitSessionIdle(t, env, created.ID)

	w = env.do(t, http.MethodGet, "/api/sessions/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[SessionResponse](t, w)
	assert.Equal(t, "batman", got.View.Term)
	assert.Len(t, got.View.Movies, 20)

	w = env.do(t, http.MethodPost, "/api/sessions/"+created.ID+"/more", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[MoreResponse](t, w).Started)
	waitSessionIdle(t, env, created.ID)

	w = env.do(t, http.MethodGet, "/api/sessions/"+created.ID, "")
	got = decode[SessionResponse](t, w)
	assert.Equal(t, 2, got.View.Page)
	assert.Len(t, got.View.Movies, 40)

	w = env.do(t, http.MethodDelete, "/api/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionInputRejectsBadBody(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})
	created := decode[SessionResponse](t, env.do(t, http.MethodPost, "/api/sessions", ""))

	w := env.do(t, http.MethodPut, "/api/sessions/"+created.ID+"/input", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/api/sessions/nope"},
		{http.MethodPost, "/api/sessions/nope/more"},
		{http.MethodGet, "/api/sessions/nope/ws"},
	} {
		w := env.do(t, req.method, req.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, req.path)
	}
}

func TestSessionWebSocket(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	created := decode[SessionResponse](t, env.do(t, http.MethodPost, "/api/sessions", ""))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + created.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readUntil := func(match func(view.List) bool) view.List {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for {
			require.NoError(t, conn.SetReadDeadline(deadline))
			var list view.List
			require.NoError(t, conn.ReadJSON(&list))
			if match(list) {
				return list
			}
		}
	}

	readUntil(func(l view.List) bool { return l.Term == "" && len(l.Movies) == 20 })

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "submit", Query: "dune"}))
	list := readUntil(func(l view.List) bool { return l.Term == "dune" && len(l.Movies) == 20 })
	assert.Equal(t, "dune 0", list.Movies[0].Title)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "more"}))
	list = readUntil(func(l view.List) bool { return len(l.Movies) == 40 })
	assert.Equal(t, 2, list.Page)

	env.sessions.Delete(created.ID)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var l view.List
		if err := conn.ReadJSON(&l); err != nil {
			var closeErr *websocket.CloseError
			require.True(t, errors.As(err, &closeErr), "unexpected error: %v", err)
			assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
			break
		}
	}
}

type stalledRecorder struct {
	release chan struct{}
}

func (s *stalledRecorder) RecordSearch(ctx context.Context, _ string, _ models.Movie) error {
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestMoviesRespondWhileStoreIsStalled(t *testing.T) {
	env := newTestEnv(t, &fakeTMDB{})
	stalled := &stalledRecorder{release: make(chan struct{})}
	env.services.Recorder = controller.NewAsyncRecorder(stalled, logger.NewDiscard(), 1)
	defer func() {
		close(stalled.release)
		env.services.Recorder.Wait()
	}()

	for _, query := range []string{"a", "b", "c"} {
		done := make(chan int, 1)
		go func() {
			done <- env.do(t, http.MethodGet, "/api/movies?query="+query, "").Code
		}()

		select {
		case code := <-done:
			assert.Equal(t, http.StatusOK, code, query)
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("request for %q still pending while the store is stalled", query)
		}
	}
}
