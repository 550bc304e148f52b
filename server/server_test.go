package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxstack/provider/fixed"
	"github.com/sig-0/fxstack/provider/stored"
	"github.com/sig-0/fxstack/resolver"
	"github.com/sig-0/fxstack/server/config"
	"github.com/sig-0/fxstack/storage/memory"
	"github.com/sig-0/fxstack/types"
)

// newTestServer creates a server backed by a fixed EUR/NLG peg,
// followed by an in-memory quote store holding USD/VES
func newTestServer(t *testing.T) *Server {
	t.Helper()

	peg, err := types.ParseExchangeRate(types.EUR, types.NLG, "2.20371")
	require.NoError(t, err)

	pegged, err := fixed.New([]types.ExchangeRate{peg})
	require.NoError(t, err)

	store := memory.NewStorage()
	require.NoError(t, store.SaveQuote(context.Background(), &types.Quote{
		AsOf:      time.Now().Add(-time.Hour),
		FetchedAt: time.Now().Add(-time.Hour),
		Base:      types.USD,
		Target:    types.VES,
		RateType:  types.RateTypeMID,
		Source:    "BCV",
		Rate:      decimal.RequireFromString("36.7215"),
	}))

	registry, err := resolver.NewRegistry(
		resolver.Entry{ID: "pegged", Provider: pegged},
		resolver.Entry{ID: "stored", Provider: stored.New(store)},
	)
	require.NoError(t, err)

	s, err := New(resolver.New(resolver.Static(registry)), store)
	require.NoError(t, err)

	return s
}

func TestServer_New(t *testing.T) {
	t.Parallel()

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.ListenAddress = "nope"

		_, err := New(&mockResolver{}, nil, WithConfig(cfg))

		assert.ErrorIs(t, err, config.ErrInvalidListenAddress)
	})

	t.Run("custom routes", func(t *testing.T) {
		t.Parallel()

		s, err := New(&mockResolver{}, nil)
		require.NoError(t, err)

		s.Routes(func(r chi.Router) {
			r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})
		})

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request

		if body == "" {
			req = httptest.NewRequest(method, path, http.NoBody)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}

		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		return w
	}

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/health", "").Code)
	})

	t.Run("openapi", func(t *testing.T) {
		t.Parallel()

		w := serve(http.MethodGet, "/openapi.yaml", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/v1/rates/{source}/{destination}")
	})

	t.Run("single pair, first provider", func(t *testing.T) {
		t.Parallel()

		w := serve(http.MethodGet, "/v1/rates/EUR/NLG", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(
			t,
			`{"source":"EUR","destination":"NLG","rate":"2.20371","provider":"pegged"}`,
			w.Body.String(),
		)
	})

	t.Run("single pair, second provider", func(t *testing.T) {
		t.Parallel()

		w := serve(http.MethodGet, "/v1/rates/usd/ves", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(
			t,
			`{"source":"USD","destination":"VES","rate":"36.7215","provider":"stored"}`,
			w.Body.String(),
		)
	})

	t.Run("single pair, identity", func(t *testing.T) {
		t.Parallel()

		w := serve(http.MethodGet, "/v1/rates/TRY/TRY", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"source":"TRY","destination":"TRY","rate":"1"}`, w.Body.String())
	})

	t.Run("single pair, unresolved", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/v1/rates/NLG/EUR", "").Code)
	})

	t.Run("batch", func(t *testing.T) {
		t.Parallel()

		w := serve(
			http.MethodPost,
			"/v1/rates",
			`{"requests":{"EUR":["NLG","EUR"],"NLG":["EUR"],"USD":["VES"]}}`,
		)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":{
			"EUR":{
				"NLG":{"source":"EUR","destination":"NLG","rate":"2.20371","provider":"pegged"},
				"EUR":{"source":"EUR","destination":"EUR","rate":"1"}
			},
			"NLG":{"EUR":null},
			"USD":{"VES":{"source":"USD","destination":"VES","rate":"36.7215","provider":"stored"}}
		}}`, w.Body.String())
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		w := serve(http.MethodPost, "/v1/rates", `{"requests":{}}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":{}}`, w.Body.String())
	})

	t.Run("providers", func(t *testing.T) {
		t.Parallel()

		w := serve(http.MethodGet, "/v1/providers", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":["pegged","stored"]}`, w.Body.String())
	})

	t.Run("currencies", func(t *testing.T) {
		t.Parallel()

		w := serve(http.MethodGet, "/v1/currencies", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":["USD","VES"]}`, w.Body.String())
	})
}

func TestServer_Serve(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.ListenAddress = "127.0.0.1:0"

	s, err := New(&mockResolver{}, nil, WithConfig(cfg))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.Serve(ctx)
	}()

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
