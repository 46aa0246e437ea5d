package service

import "papertrader/internal/domain"

// GraduationPolicy decides when the agent has earned the right to switch
// from paper to live trading. It is a pure function over performance
// counters: no side effects, safe to evaluate at any rate.
type GraduationPolicy struct {
	MinClosedTrades int
	MinWinRate      float64
	MinProfit       float64
}

// DefaultGraduationPolicy returns the stock thresholds: 50 closed trades,
// 75% win rate, 500 units of cumulative profit
func DefaultGraduationPolicy() GraduationPolicy {
	return GraduationPolicy{
		MinClosedTrades: 50,
		MinWinRate:      0.75,
		MinProfit:       500,
	}
}

// CanGraduate reports whether the performance counters clear every threshold
func (p GraduationPolicy) CanGraduate(perf domain.Performance) bool {
	return perf.TotalClosed >= p.MinClosedTrades &&
		perf.WinRate() >= p.MinWinRate &&
		perf.TotalProfit > p.MinProfit
}
