package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFinnhubTestServer(t *testing.T, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote", r.URL.Path)
		require.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		require.Equal(t, "key", r.URL.Query().Get("token"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestFinnhubQuoteRepository_GetPrice(t *testing.T) {
	t.Run("current price", func(t *testing.T) {
		server := newFinnhubTestServer(t, 200, `{"c":189.84,"d":1.2,"dp":0.63,"h":190.1,"l":187.5,"o":188,"pc":188.64,"t":1700000000}`)
		defer server.Close()

		h := finnhubQuoteRepositoryHandler{BaseUrl: server.URL, ApiKey: "key", HttpClient: server.Client()}
		price, err := h.GetPrice(context.Background(), "AAPL")
		require.NoError(t, err)
		require.True(t, price.Equal(dec("189.84")))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		server := newFinnhubTestServer(t, 200, `{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`)
		defer server.Close()

		h := finnhubQuoteRepositoryHandler{BaseUrl: server.URL, ApiKey: "key", HttpClient: server.Client()}
		_, err := h.GetPrice(context.Background(), "AAPL")
		require.True(t, errors.Is(err, ErrQuoteNotFound))
	})

	t.Run("missing field", func(t *testing.T) {
		server := newFinnhubTestServer(t, 200, `{"error":"nope"}`)
		defer server.Close()

		h := finnhubQuoteRepositoryHandler{BaseUrl: server.URL, ApiKey: "key", HttpClient: server.Client()}
		_, err := h.GetPrice(context.Background(), "AAPL")
		require.True(t, errors.Is(err, ErrQuoteNotFound))
	})

	t.Run("http error", func(t *testing.T) {
		server := newFinnhubTestServer(t, 429, `{"error":"API limit reached"}`)
		defer server.Close()

		h := finnhubQuoteRepositoryHandler{BaseUrl: server.URL, ApiKey: "key", HttpClient: server.Client()}
		_, err := h.GetPrice(context.Background(), "AAPL")
		require.Error(t, err)
		require.Contains(t, err.Error(), "429")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		h := finnhubQuoteRepositoryHandler{BaseUrl: server.URL, ApiKey: "key", HttpClient: &http.Client{Timeout: 20 * time.Millisecond}}
		_, err := h.GetPrice(context.Background(), "AAPL")
		require.Error(t, err)
	})
}
