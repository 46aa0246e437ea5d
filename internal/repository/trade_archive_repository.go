package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"papertrader/internal/domain"
)

// TradeArchiveRepositoryImpl implements the TradeArchiveRepository interface
// on PostgreSQL
type TradeArchiveRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeArchiveRepository creates a new TradeArchiveRepository
func NewTradeArchiveRepository(db *pgxpool.Pool) domain.TradeArchiveRepository {
	return &TradeArchiveRepositoryImpl{db: db}
}

// SaveClosed stores a closed trade
func (r *TradeArchiveRepositoryImpl) SaveClosed(ctx context.Context, trade *domain.Trade) error {
	if trade.ExitPrice == nil || trade.PnL == nil || trade.ClosedAt == nil {
		return fmt.Errorf("refusing to archive trade %s: not closed", trade.ID)
	}

	query := `
		INSERT INTO paper_trades (
			id, symbol, side, size, entry_price, confidence,
			leverage, exit_price, pnl, created_at, closed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.Exec(ctx, query,
		trade.ID,
		trade.Symbol,
		trade.Side,
		trade.Size,
		trade.EntryPrice,
		trade.Confidence,
		trade.Leverage,
		*trade.ExitPrice,
		*trade.PnL,
		trade.CreatedAt,
		*trade.ClosedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to archive trade: %w", err)
	}

	return nil
}

// GetRecentClosed retrieves the most recently closed trades
func (r *TradeArchiveRepositoryImpl) GetRecentClosed(ctx context.Context, limit int) ([]*domain.Trade, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, symbol, side, size, entry_price, confidence,
		       leverage, exit_price, pnl, created_at, closed_at
		FROM paper_trades
		ORDER BY closed_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		trade := &domain.Trade{Status: domain.StatusClosed}
		trade.ExitPrice = new(float64)
		trade.PnL = new(float64)
		trade.ClosedAt = new(time.Time)

		err := rows.Scan(
			&trade.ID,
			&trade.Symbol,
			&trade.Side,
			&trade.Size,
			&trade.EntryPrice,
			&trade.Confidence,
			&trade.Leverage,
			trade.ExitPrice,
			trade.PnL,
			&trade.CreatedAt,
			trade.ClosedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archived trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archived trades: %w", err)
	}

	return trades, nil
}
