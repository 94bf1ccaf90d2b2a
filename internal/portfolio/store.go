// Package portfolio owns all application state for the tracker: the coin
// catalog, the user's holdings, input text, selection, loading flags and the
// current error notice. It knows nothing about how it is rendered; consumers
// read snapshots and register a listener to learn about committed changes.
package portfolio

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"coinfolio/internal/model"
)

const (
	// catalogCap bounds the in-memory catalog to a prefix of the feed.
	catalogCap = 100
	// filterCap bounds the derived suggestion view.
	filterCap = 10
)

// CatalogClient is the read-only pricing API surface the store needs.
type CatalogClient interface {
	Coins(ctx context.Context) ([]model.Coin, error)
	Ticker(ctx context.Context, coinID string) (model.Quote, error)
}

// Persister stores the holdings list and the theme flag between sessions.
type Persister interface {
	LoadPortfolio() ([]model.PortfolioItem, error)
	SavePortfolio(items []model.PortfolioItem) error
	LoadDarkMode() bool
	SaveDarkMode(v bool) error
}

// State is a point-in-time copy of everything the presentation layer renders.
type State struct {
	SearchText string
	AmountText string
	Amount     decimal.Decimal
	Coins      []model.Coin
	Loading    bool
	Err        string
	Items      []model.PortfolioItem
	Selected   *model.Coin
	Adding     bool
	DarkMode   bool
}

// Store is the single state container for one session. Safe for concurrent
// use: network operations run in whatever goroutine the caller chooses, and
// every mutation commits under the lock before listeners fire.
type Store struct {
	client CatalogClient
	disk   Persister
	log    zerolog.Logger

	mu         sync.Mutex
	searchText string
	amountText string
	amount     decimal.Decimal
	coins      []model.Coin
	loading    bool
	err        string
	items      []model.PortfolioItem
	selected   *model.Coin
	adding     bool
	darkMode   bool
	listeners  []func()
}

// New wires a store to its catalog client and persistence adapter. Call
// Init (or Rehydrate) before reading state.
func New(client CatalogClient, disk Persister, log zerolog.Logger) *Store {
	return &Store{
		client: client,
		disk:   disk,
		log:    log,
		amount: decimal.Zero,
	}
}

// Subscribe registers fn to run after every committed state change. There is
// no unsubscribe; listeners live as long as the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Init rehydrates persisted state and then fetches the coin catalog. It
// blocks for the catalog fetch; run it in a goroutine when a UI is watching.
func (s *Store) Init(ctx context.Context) {
	s.Rehydrate()
	s.RefreshCatalog(ctx)
}

// Rehydrate loads the persisted holdings and theme flag. Persistence
// problems never fail the session; they degrade to an empty portfolio plus
// a dismissable notice. A malformed theme flag is silently false.
func (s *Store) Rehydrate() {
	items, err := s.disk.LoadPortfolio()
	dark := s.disk.LoadDarkMode()

	s.mu.Lock()
	s.items = items
	s.darkMode = dark
	if err != nil {
		s.err = "Stored portfolio could not be read; starting empty"
		s.log.Warn().Err(err).Msg("portfolio rehydrate failed")
	}
	s.mu.Unlock()
	s.notify()
}

// RefreshCatalog replaces the in-memory catalog with at most the first 100
// entries of the feed. Feed order is trusted; no re-sorting by rank. On
// failure the catalog is left as it was and an error notice is raised.
func (s *Store) RefreshCatalog(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	coins, err := s.client.Coins(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = "Failed to fetch coins"
		s.log.Error().Err(err).Msg("catalog fetch failed")
	} else {
		if len(coins) > catalogCap {
			coins = coins[:catalogCap]
		}
		s.coins = coins
	}
	s.mu.Unlock()
	s.notify()
}

// SetSearchText updates the search input. Editing the text does not clear a
// prior selection; the sync runs one way, selection to text.
func (s *Store) SetSearchText(text string) {
	s.mu.Lock()
	s.searchText = text
	s.mu.Unlock()
	s.notify()
}

// SetAmount parses text as a decimal quantity. Empty or unparsable input
// coerces to zero rather than erroring.
func (s *Store) SetAmount(text string) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		d = decimal.Zero
	}
	s.mu.Lock()
	s.amountText = text
	s.amount = d
	s.mu.Unlock()
	s.notify()
}

// SelectCoin records the selection and overwrites the search text with the
// coin's display name. Passing nil clears the selection only.
func (s *Store) SelectCoin(coin *model.Coin) {
	s.mu.Lock()
	if coin == nil {
		s.selected = nil
	} else {
		c := *coin
		s.selected = &c
		s.searchText = c.Name
	}
	s.mu.Unlock()
	s.notify()
}

// FilteredCoins derives the suggestion view: at most ten catalog entries in
// catalog order whose name or symbol contains the search text
// case-insensitively. Empty text yields the first ten entries.
func (s *Store) FilteredCoins() []model.Coin {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Coin, 0, filterCap)
	needle := strings.ToLower(s.searchText)
	for _, c := range s.coins {
		if len(out) == filterCap {
			break
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Symbol), needle) {
			out = append(out, c)
		}
	}
	return out
}

// AddToPortfolio records a holding for the selected coin at the current
// amount, quoted at the current price. Reports whether an item was added.
//
// A failed quote fetch still records the item, at price zero; that mirrors
// the tracker's long-standing behavior and the holding can be re-quoted
// later with RefreshPrice.
func (s *Store) AddToPortfolio(ctx context.Context) bool {
	s.mu.Lock()
	if s.selected == nil || !s.amount.IsPositive() {
		s.mu.Unlock()
		return false
	}
	coin := *s.selected
	amount := s.amount
	s.adding = true
	s.mu.Unlock()
	s.notify()

	price := s.fetchPrice(ctx, coin.ID)

	s.mu.Lock()
	s.items = append(s.items, model.PortfolioItem{
		ID:       uuid.NewString(),
		CoinID:   coin.ID,
		CoinName: coin.Name,
		Amount:   amount,
		Price:    price,
	})
	s.searchText = ""
	s.amountText = ""
	s.amount = decimal.Zero
	s.selected = nil
	s.adding = false
	items := copyItems(s.items)
	s.mu.Unlock()
	s.notify()

	s.persist(items)
	return true
}

// RemoveFromPortfolio drops the holding with the given id. Unknown ids are a
// silent no-op, and the result is persisted either way.
func (s *Store) RemoveFromPortfolio(itemID string) {
	s.mu.Lock()
	kept := make([]model.PortfolioItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	items := copyItems(kept)
	s.mu.Unlock()
	s.notify()

	s.persist(items)
}

// RefreshPrice re-quotes a single holding in place. Absent ids are a no-op;
// a failed quote records price zero like AddToPortfolio.
func (s *Store) RefreshPrice(ctx context.Context, itemID string) {
	s.mu.Lock()
	var coinID string
	found := false
	for _, it := range s.items {
		if it.ID == itemID {
			coinID = it.CoinID
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return
	}

	price := s.fetchPrice(ctx, coinID)

	s.mu.Lock()
	// The item may have been removed while the quote was in flight.
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Price = price
			break
		}
	}
	items := copyItems(s.items)
	s.mu.Unlock()
	s.notify()

	s.persist(items)
}

// RefreshAllPrices re-quotes every holding concurrently and applies the
// results in one step, so readers never observe a half-updated list. The
// shared loading flag covers the whole fan-out.
func (s *Store) RefreshAllPrices(ctx context.Context) {
	type ref struct{ id, coinID string }

	s.mu.Lock()
	refs := make([]ref, 0, len(s.items))
	for _, it := range s.items {
		refs = append(refs, ref{id: it.ID, coinID: it.CoinID})
	}
	s.loading = true
	s.mu.Unlock()
	s.notify()

	prices := make([]decimal.Decimal, len(refs))
	var wg sync.WaitGroup
	for i, r := range refs {
		wg.Add(1)
		go func(i int, coinID string) {
			defer wg.Done()
			prices[i] = s.fetchPrice(ctx, coinID)
		}(i, r.coinID)
	}
	wg.Wait()

	s.mu.Lock()
	byID := make(map[string]decimal.Decimal, len(refs))
	for i, r := range refs {
		byID[r.id] = prices[i]
	}
	for i := range s.items {
		if p, ok := byID[s.items[i].ID]; ok {
			s.items[i].Price = p
		}
	}
	s.loading = false
	items := copyItems(s.items)
	s.mu.Unlock()
	s.notify()

	s.persist(items)
}

// ToggleDarkMode flips and persists the theme flag.
func (s *Store) ToggleDarkMode() {
	s.mu.Lock()
	s.darkMode = !s.darkMode
	v := s.darkMode
	s.mu.Unlock()
	s.notify()

	if err := s.disk.SaveDarkMode(v); err != nil {
		s.log.Warn().Err(err).Msg("persist theme flag failed")
	}
}

// ClearError dismisses the current error notice.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// ClearPortfolio empties the holdings list and persists immediately.
func (s *Store) ClearPortfolio() {
	s.mu.Lock()
	s.items = []model.PortfolioItem{}
	s.mu.Unlock()
	s.notify()

	s.persist([]model.PortfolioItem{})
}

// CoinByName returns the first catalog entry with exactly this display name.
func (s *Store) CoinByName(name string) (model.Coin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coins {
		if c.Name == name {
			return c, true
		}
	}
	return model.Coin{}, false
}

// CoinByID returns the catalog entry with this feed id.
func (s *Store) CoinByID(id string) (model.Coin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coins {
		if c.ID == id {
			return c, true
		}
	}
	return model.Coin{}, false
}

// TotalValue is the sum of amount times last known price over all holdings.
// Unpriced holdings carry a zero price and contribute nothing.
func (s *Store) TotalValue() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Value())
	}
	return total
}

// Snapshot copies the full state for rendering.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		SearchText: s.searchText,
		AmountText: s.amountText,
		Amount:     s.amount,
		Coins:      append([]model.Coin(nil), s.coins...),
		Loading:    s.loading,
		Err:        s.err,
		Items:      copyItems(s.items),
		Adding:     s.adding,
		DarkMode:   s.darkMode,
	}
	if s.selected != nil {
		c := *s.selected
		st.Selected = &c
	}
	return st
}

// fetchPrice absorbs quote failures into a zero price.
func (s *Store) fetchPrice(ctx context.Context, coinID string) decimal.Decimal {
	q, err := s.client.Ticker(ctx, coinID)
	if err != nil {
		s.log.Warn().Err(err).Str("coin", coinID).Msg("quote fetch failed, recording zero price")
		return decimal.Zero
	}
	return q.Price
}

func (s *Store) persist(items []model.PortfolioItem) {
	if err := s.disk.SavePortfolio(items); err != nil {
		s.log.Warn().Err(err).Msg("persist portfolio failed")
	}
}

func copyItems(items []model.PortfolioItem) []model.PortfolioItem {
	out := make([]model.PortfolioItem, len(items))
	copy(out, items)
	return out
}
