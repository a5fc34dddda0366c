package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perflab/perfapi/internal/compute"
	"github.com/perflab/perfapi/internal/config"
	"github.com/perflab/perfapi/internal/db"
	"github.com/perflab/perfapi/internal/hash"
	"github.com/perflab/perfapi/internal/store"
)

// newTestServer stands up a full router over a fresh store file for the given
// mode, with small seed sizes to keep tests quick.
func newTestServer(t *testing.T, mode string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Mode:   mode,
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	}

	conn, err := db.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(conn, mode))

	var (
		st    store.Store
		heavy func(int) int64
	)
	if mode == config.ModeOptimized {
		memo, err := hash.NewMemoized(hash.SinglePass{}, 100)
		require.NoError(t, err)
		st = store.NewOptimized(conn, memo)
		heavy = compute.SumOfSquares
	} else {
		// A short iterated digest keeps the deliberate bottleneck shape
		// without slowing the suite down.
		st = store.NewNaive(conn, hash.Iterated{Rounds: 10})
		heavy = compute.SumOfSquaresWasteful
	}

	h := NewHandler(st, mode, heavy, 5, 10, zerolog.Nop())

	r := chi.NewRouter()
	h.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestIndexNamesMode(t *testing.T) {
	for _, mode := range []string{config.ModeNaive, config.ModeOptimized} {
		t.Run(mode, func(t *testing.T) {
			srv := newTestServer(t, mode)

			resp, err := http.Get(srv.URL + "/")
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]interface{}
			decodeBody(t, resp, &body)
			assert.Equal(t, mode, body["mode"])
			assert.Contains(t, body, "endpoints")
		})
	}
}

func TestCreateUserFlow(t *testing.T) {
	srv := newTestServer(t, config.ModeOptimized)

	t.Run("missing field", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/users", `{"username": "alice", "email": "a@example.com"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Contains(t, body["error"], "Missing")
	})

	t.Run("invalid json", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/users", `{not json`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("success returns id and username", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/users",
			`{"username": "alice", "email": "a@example.com", "password": "pw"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "alice", body.Username)
		assert.Positive(t, body.ID)

		// Immediately retrievable by the returned id.
		got, err := http.Get(srv.URL + "/users/" + strconv.FormatInt(body.ID, 10))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, got.StatusCode)
		got.Body.Close()
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/users",
			`{"username": "alice", "email": "b@example.com", "password": "pw"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Contains(t, body["error"], "exists")
	})
}

func TestDuplicateUsernameAllowedNaive(t *testing.T) {
	srv := newTestServer(t, config.ModeNaive)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, srv.URL+"/users",
			`{"username": "bob", "email": "b@example.com", "password": "pw"}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv := newTestServer(t, config.ModeNaive)

	resp, err := http.Get(srv.URL + "/users/9999")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "User not found", body["error"])
}

func TestGetPostNotFound(t *testing.T) {
	srv := newTestServer(t, config.ModeNaive)

	resp, err := http.Get(srv.URL + "/posts/9999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSeedThenRead(t *testing.T) {
	for _, mode := range []string{config.ModeNaive, config.ModeOptimized} {
		t.Run(mode, func(t *testing.T) {
			srv := newTestServer(t, mode)

			resp := postJSON(t, srv.URL+"/seed", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var seeded struct {
				Message string `json:"message"`
				Users   int    `json:"users"`
				Posts   int    `json:"posts"`
			}
			decodeBody(t, resp, &seeded)
			assert.Equal(t, 5, seeded.Users)
			assert.Equal(t, 10, seeded.Posts)

			users, err := http.Get(srv.URL + "/users")
			require.NoError(t, err)
			var userList []map[string]interface{}
			decodeBody(t, users, &userList)
			assert.Len(t, userList, 5)
			for _, u := range userList {
				assert.Contains(t, u, "post_count")
			}

			posts, err := http.Get(srv.URL + "/posts")
			require.NoError(t, err)
			var postList []map[string]interface{}
			decodeBody(t, posts, &postList)
			assert.Len(t, postList, 10)
			for _, p := range postList {
				assert.Contains(t, p, "username")
			}
		})
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t, config.ModeOptimized)

	resp := postJSON(t, srv.URL+"/seed", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	t.Run("match", func(t *testing.T) {
		got, err := http.Get(srv.URL + "/search?q=user2")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, got.StatusCode)

		var results []map[string]interface{}
		decodeBody(t, got, &results)
		require.Len(t, results, 1)
		assert.Equal(t, "user2", results[0]["username"])
	})

	t.Run("no match is an empty array", func(t *testing.T) {
		got, err := http.Get(srv.URL + "/search?q=nobody")
		require.NoError(t, err)

		var results []map[string]interface{}
		decodeBody(t, got, &results)
		assert.Empty(t, results)
	})
}

func TestHeavyEndpoint(t *testing.T) {
	for _, mode := range []string{config.ModeNaive, config.ModeOptimized} {
		t.Run(mode, func(t *testing.T) {
			srv := newTestServer(t, mode)

			resp, err := http.Get(srv.URL + "/heavy")
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				Result     int64 `json:"result"`
				Iterations int   `json:"iterations"`
			}
			decodeBody(t, resp, &body)
			assert.Equal(t, int64(333328333350000), body.Result)
			assert.Equal(t, compute.DefaultIterations, body.Iterations)
		})
	}
}
