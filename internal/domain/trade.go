package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trade represents a single simulated trade owned by the ledger
type Trade struct {
	ID         uuid.UUID  `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       string     `json:"side"`
	Size       float64    `json:"size"` // Notional size in units of account (USDT)
	EntryPrice float64    `json:"entry_price"`
	Confidence float64    `json:"confidence"` // Signal confidence at entry (0.0-1.0)
	Leverage   float64    `json:"leverage"`
	ExitPrice  *float64   `json:"exit_price,omitempty"`
	PnL        *float64   `json:"pnl,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// TradeSide constants
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// TradeStatus constants
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// TradingMode constants
const (
	ModePaper = "PAPER"
	ModeLive  = "LIVE"
)

// IsBuy checks if the trade is on the buy side
func (t *Trade) IsBuy() bool {
	return t.Side == SideBuy
}

// IsClosed checks if the trade has been resolved
func (t *Trade) IsClosed() bool {
	return t.Status == StatusClosed
}

// CalculatePnL calculates the realized PnL for a given exit price.
// Size is notional, so the quantity is size/entry regardless of leverage
// already folded into size.
func (t *Trade) CalculatePnL(exitPrice float64) float64 {
	if t.EntryPrice == 0 {
		return 0
	}

	qty := t.Size / t.EntryPrice
	if t.IsBuy() {
		return (exitPrice - t.EntryPrice) * qty
	}
	// Sell side profits when price falls
	return (t.EntryPrice - exitPrice) * qty
}
