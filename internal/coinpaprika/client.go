// Package coinpaprika is a thin read-only client for the public CoinPaprika
// REST API. Two endpoints are used: the coin catalog and per-coin tickers.
// No authentication, no retries, no caching.
package coinpaprika

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"coinfolio/internal/model"
)

// DefaultBaseURL is the public CoinPaprika v1 endpoint.
const DefaultBaseURL = "https://api.coinpaprika.com/v1"

// usdPricePath locates the unit price inside a ticker payload. The payload
// carries dozens of other fields we never read, so it is decoded loosely and
// queried instead of being fully typed.
const usdPricePath = "$.quotes.USD.price"

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New returns a client against baseURL, or the public endpoint when empty.
func New(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    new(http.Client),
		log:     log,
	}
}

// Coins fetches the full coin catalog. The feed returns thousands of entries
// and no pagination; truncation is the caller's concern.
func (c *Client) Coins(ctx context.Context) ([]model.Coin, error) {
	var coins []model.Coin
	if err := c.getJSON(ctx, "/coins", &coins); err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	return coins, nil
}

// Ticker fetches the current USD quote for one coin.
func (c *Client) Ticker(ctx context.Context, coinID string) (model.Quote, error) {
	var jobj any
	if err := c.getJSON(ctx, "/tickers/"+coinID, &jobj); err != nil {
		return model.Quote{}, fmt.Errorf("ticker %q: %w", coinID, err)
	}
	jval, err := jsonpath.Get(usdPricePath, jobj)
	if err != nil {
		return model.Quote{}, fmt.Errorf("ticker %q: %q: %w", coinID, usdPricePath, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return model.Quote{}, fmt.Errorf("ticker %q: price is not a number: %v", coinID, jval)
	}
	return model.Quote{Price: decimal.NewFromFloat(val)}, nil
}

// getJSON performs an HTTP GET and unmarshals the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("coinpaprika GET")
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
