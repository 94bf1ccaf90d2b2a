package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfolio/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, zerolog.Nop()), dir
}

func TestPortfolioRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	items := []model.PortfolioItem{
		{ID: "a", CoinID: "btc-bitcoin", CoinName: "Bitcoin", Amount: decimal.RequireFromString("2"), Price: decimal.RequireFromString("50000")},
		{ID: "b", CoinID: "eth-ethereum", CoinName: "Ethereum", Amount: decimal.RequireFromString("0.5")},
	}
	require.NoError(t, s.SavePortfolio(items))

	got, err := s.LoadPortfolio()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("2")))
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("50000")))
	assert.True(t, got[1].Price.IsZero())
}

func TestLoadPortfolioMissingFile(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.LoadPortfolio()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLoadPortfolioCorrupt(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio.json"), []byte("{not json"), 0o644))

	got, err := s.LoadPortfolio()
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.Empty(t, got)
}

func TestDarkModeRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	assert.False(t, s.LoadDarkMode())
	require.NoError(t, s.SaveDarkMode(true))
	assert.True(t, s.LoadDarkMode())
	require.NoError(t, s.SaveDarkMode(false))
	assert.False(t, s.LoadDarkMode())
}

// Malformed theme data is silently ignored, unlike the portfolio.
func TestDarkModeCorruptIsSilentFalse(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "darkmode.json"), []byte("maybe"), 0o644))

	assert.False(t, s.LoadDarkMode())
}
