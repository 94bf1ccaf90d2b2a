package coinpaprika

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins", r.URL.Path)
		w.Write([]byte(`[
			{"id":"btc-bitcoin","name":"Bitcoin","symbol":"BTC","rank":1,"is_new":false,"is_active":true,"type":"coin"},
			{"id":"eth-ethereum","name":"Ethereum","symbol":"ETH","rank":2,"is_new":false,"is_active":true,"type":"coin"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	coins, err := c.Coins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "btc-bitcoin", coins[0].ID)
	assert.Equal(t, "Bitcoin", coins[0].Name)
	assert.Equal(t, "BTC", coins[0].Symbol)
	assert.Equal(t, 1, coins[0].Rank)
	assert.True(t, coins[0].IsActive)
}

func TestCoinsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	_, err := c.Coins(context.Background())
	assert.Error(t, err)
}

func TestTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tickers/btc-bitcoin", r.URL.Path)
		// Trimmed-down real ticker payload; only quotes.USD.price is read.
		w.Write([]byte(`{
			"id":"btc-bitcoin","name":"Bitcoin","symbol":"BTC","rank":1,
			"quotes":{"USD":{"price":50000,"volume_24h":1.2e10,"market_cap":9.8e11}}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	q, err := c.Ticker(context.Background(), "btc-bitcoin")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(50000)), "got %s", q.Price)
}

func TestTickerMissingPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"btc-bitcoin","quotes":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	_, err := c.Ticker(context.Background(), "btc-bitcoin")
	assert.Error(t, err)
}

func TestTickerTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, zerolog.Nop())
	_, err := c.Ticker(context.Background(), "btc-bitcoin")
	assert.Error(t, err)
}
