// Package jsonstore persists session state as JSON files under a data
// directory, one file per key. Human-readable, portable. No locking; fine
// for a local single-user app.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"coinfolio/internal/model"
)

const (
	portfolioKey = "portfolio"
	darkModeKey  = "darkmode"
)

// ErrCorrupt reports stored data that exists but cannot be read or parsed.
// Callers treat it as "no data" and may surface a recoverable notice.
var ErrCorrupt = errors.New("corrupt stored data")

type Store struct {
	dir string
	log zerolog.Logger
}

func New(dir string, log zerolog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// LoadPortfolio reads the persisted holdings list. A missing file means a
// fresh session and yields an empty list with no error; anything else that
// goes wrong degrades to an empty list plus ErrCorrupt.
func (s *Store) LoadPortfolio() ([]model.PortfolioItem, error) {
	b, err := os.ReadFile(s.path(portfolioKey))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.PortfolioItem{}, nil
		}
		return []model.PortfolioItem{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var items []model.PortfolioItem
	if err := json.Unmarshal(b, &items); err != nil {
		return []model.PortfolioItem{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if items == nil {
		items = []model.PortfolioItem{}
	}
	return items, nil
}

// SavePortfolio overwrites the stored holdings list unconditionally.
func (s *Store) SavePortfolio(items []model.PortfolioItem) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.path(portfolioKey), b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// LoadDarkMode reads the theme flag. Missing or malformed data is silently
// treated as false; unlike the portfolio this never surfaces a notice.
func (s *Store) LoadDarkMode() bool {
	b, err := os.ReadFile(s.path(darkModeKey))
	if err != nil {
		return false
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		s.log.Debug().Err(err).Msg("ignoring malformed theme flag")
		return false
	}
	return v
}

// SaveDarkMode overwrites the stored theme flag.
func (s *Store) SaveDarkMode(v bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.path(darkModeKey), b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
