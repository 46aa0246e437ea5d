package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"papertrader/internal/domain"
)

// TradeLedger owns the set of open and closed simulated trades and the
// aggregate counters derived from them. It is the engine's only shared
// mutable resource: every mutation runs inside one critical section so
// concurrent resolutions never interleave partial counter updates. Reads
// return copies, never interior pointers.
type TradeLedger struct {
	mu          sync.Mutex
	open        map[uuid.UUID]*domain.Trade
	closed      []*domain.Trade
	totalOpened int
	totalClosed int
	wins        int
	totalProfit float64
}

// NewTradeLedger creates an empty TradeLedger
func NewTradeLedger() *TradeLedger {
	return &TradeLedger{
		open: make(map[uuid.UUID]*domain.Trade),
	}
}

// Open constructs an open trade from a candidate, assigns its id and entry
// timestamp, and adds it to the open set
func (l *TradeLedger) Open(candidate domain.Candidate) *domain.Trade {
	leverage := candidate.Leverage
	if leverage < 1 {
		leverage = 1
	}

	trade := &domain.Trade{
		ID:         uuid.New(),
		Symbol:     candidate.Symbol,
		Side:       candidate.Side,
		Size:       candidate.Size,
		EntryPrice: candidate.Price,
		Confidence: candidate.Confidence,
		Leverage:   leverage,
		Status:     domain.StatusOpen,
		CreatedAt:  time.Now(),
	}

	l.mu.Lock()
	l.open[trade.ID] = trade
	l.totalOpened++
	l.mu.Unlock()

	return copyTrade(trade)
}

// Close resolves an open trade at the given exit price, setting exit price,
// PnL, and close time exactly once and updating the aggregate counters.
// Returns domain.ErrTradeNotFound for an unknown or already-closed id.
func (l *TradeLedger) Close(id uuid.UUID, exitPrice float64) (*domain.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trade, ok := l.open[id]
	if !ok {
		return nil, fmt.Errorf("close trade %s: %w", id, domain.ErrTradeNotFound)
	}

	pnl := trade.CalculatePnL(exitPrice)
	now := time.Now()

	trade.ExitPrice = &exitPrice
	trade.PnL = &pnl
	trade.ClosedAt = &now
	trade.Status = domain.StatusClosed

	delete(l.open, id)
	l.closed = append(l.closed, trade)

	l.totalClosed++
	l.totalProfit += pnl
	if pnl > 0 {
		l.wins++
	}

	return copyTrade(trade), nil
}

// OpenPositions returns a point-in-time snapshot of all open trades
func (l *TradeLedger) OpenPositions() []*domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	positions := make([]*domain.Trade, 0, len(l.open))
	for _, trade := range l.open {
		positions = append(positions, copyTrade(trade))
	}
	return positions
}

// ClosedHistory returns a point-in-time snapshot of all closed trades in
// close order
func (l *TradeLedger) ClosedHistory() []*domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	history := make([]*domain.Trade, 0, len(l.closed))
	for _, trade := range l.closed {
		history = append(history, copyTrade(trade))
	}
	return history
}

// Counters returns the aggregate counters as a consistent snapshot. The
// learning fields of the returned Performance are zero; the engine fills
// them from the learning model.
func (l *TradeLedger) Counters() domain.Performance {
	l.mu.Lock()
	defer l.mu.Unlock()

	return domain.Performance{
		TotalOpened: l.totalOpened,
		TotalClosed: l.totalClosed,
		Wins:        l.wins,
		TotalProfit: l.totalProfit,
	}
}

// copyTrade returns a deep copy so callers never hold a reference into the
// ledger's critical section
func copyTrade(t *domain.Trade) *domain.Trade {
	clone := *t
	if t.ExitPrice != nil {
		v := *t.ExitPrice
		clone.ExitPrice = &v
	}
	if t.PnL != nil {
		v := *t.PnL
		clone.PnL = &v
	}
	if t.ClosedAt != nil {
		v := *t.ClosedAt
		clone.ClosedAt = &v
	}
	return &clone
}
