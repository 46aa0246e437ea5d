package domain

import "context"

// TradeArchiveRepository persists resolved trades so history survives a
// restart. The in-memory ledger stays the source of truth; archive writes
// are best-effort and never sit on the close critical path.
type TradeArchiveRepository interface {
	// SaveClosed stores a closed trade
	SaveClosed(ctx context.Context, trade *Trade) error

	// GetRecentClosed retrieves the most recently closed trades
	GetRecentClosed(ctx context.Context, limit int) ([]*Trade, error)
}
