package service

import (
	"testing"

	"papertrader/internal/domain"
)

func TestCanGraduateScenario(t *testing.T) {
	policy := DefaultGraduationPolicy()

	// 50 closed, 38 wins (76%), 600 profit: every threshold clears
	perf := domain.Performance{TotalClosed: 50, Wins: 38, TotalProfit: 600}
	if !policy.CanGraduate(perf) {
		t.Fatalf("expected graduation for %+v", perf)
	}
}

func TestCanGraduateTradeCountBoundary(t *testing.T) {
	policy := DefaultGraduationPolicy()

	// Identical ratios at 49 closed trades must fail regardless of win
	// rate and profit
	at49 := domain.Performance{TotalClosed: 49, Wins: 38, TotalProfit: 600}
	if policy.CanGraduate(at49) {
		t.Fatalf("graduated at 49 closed trades: %+v", at49)
	}

	at50 := domain.Performance{TotalClosed: 50, Wins: 38, TotalProfit: 600}
	if !policy.CanGraduate(at50) {
		t.Fatalf("did not graduate at 50 closed trades: %+v", at50)
	}
}

func TestCanGraduateRequiresEveryThreshold(t *testing.T) {
	policy := DefaultGraduationPolicy()

	cases := []struct {
		name string
		perf domain.Performance
	}{
		{"low win rate", domain.Performance{TotalClosed: 60, Wins: 30, TotalProfit: 1000}},
		{"low profit", domain.Performance{TotalClosed: 60, Wins: 50, TotalProfit: 500}},
		{"no trades", domain.Performance{}},
	}

	for _, tc := range cases {
		if policy.CanGraduate(tc.perf) {
			t.Errorf("%s: unexpected graduation for %+v", tc.name, tc.perf)
		}
	}
}

func TestCanGraduateOverridableThresholds(t *testing.T) {
	policy := GraduationPolicy{MinClosedTrades: 2, MinWinRate: 0.5, MinProfit: 1}

	perf := domain.Performance{TotalClosed: 2, Wins: 1, TotalProfit: 2}
	if !policy.CanGraduate(perf) {
		t.Fatalf("custom thresholds not honored for %+v", perf)
	}
}
