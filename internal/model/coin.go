package model

import "github.com/shopspring/decimal"

// Coin is one entry of the CoinPaprika catalog feed. Field names follow the
// feed's snake_case JSON.
type Coin struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Rank     int    `json:"rank"`
	IsNew    bool   `json:"is_new"`
	IsActive bool   `json:"is_active"`
	Type     string `json:"type"`
}

// PortfolioItem is one user-recorded holding. CoinName is a display copy
// captured at add time and never refreshed. A zero Price means the holding
// was never successfully quoted; it contributes nothing to totals.
type PortfolioItem struct {
	ID       string          `json:"id"`
	CoinID   string          `json:"coin_id"`
	CoinName string          `json:"coin_name"`
	Amount   decimal.Decimal `json:"amount"`
	Price    decimal.Decimal `json:"price"`
}

// Value is the fiat value of the holding at the last known price.
func (p PortfolioItem) Value() decimal.Decimal {
	return p.Amount.Mul(p.Price)
}

// Quote is a point-in-time USD price for one coin.
type Quote struct {
	Price decimal.Decimal
}
