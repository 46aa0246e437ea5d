package service

import (
	"math"
	"testing"

	"papertrader/internal/domain"
)

func TestProgressZeroWithoutClosedTrades(t *testing.T) {
	learning := NewLearningService(0.01, 0.95, 100, 0.75)

	if got := learning.Progress(domain.Performance{}); got != 0 {
		t.Fatalf("progress=%f want=0 with no closed trades", got)
	}
}

func TestConfidenceIncrementAndCeiling(t *testing.T) {
	learning := NewLearningService(0.01, 0.95, 100, 0.75)

	if got := learning.Confidence(); got != 0.5 {
		t.Fatalf("initial confidence=%f want=0.5", got)
	}

	loss := -5.0
	losing := &domain.Trade{PnL: &loss}

	// Confidence rises even on losing trades; the asymmetry is intentional
	learning.Observe(losing)
	if got := learning.Confidence(); math.Abs(got-0.51) > 1e-9 {
		t.Fatalf("confidence=%f want=0.51 after one observation", got)
	}

	prev := learning.Confidence()
	for i := 0; i < 200; i++ {
		learning.Observe(losing)
		cur := learning.Confidence()
		if cur < prev {
			t.Fatalf("confidence decreased: %f -> %f", prev, cur)
		}
		prev = cur
	}

	if got := learning.Confidence(); got != 0.95 {
		t.Fatalf("confidence=%f want ceiling 0.95", got)
	}
}

func TestProgressMonotonicInConfidence(t *testing.T) {
	counters := domain.Performance{TotalClosed: 20, Wins: 10}

	low := NewLearningService(0.01, 0.95, 100, 0.75)
	high := NewLearningService(0.01, 0.95, 100, 0.75)
	pnl := 1.0
	for i := 0; i < 10; i++ {
		high.Observe(&domain.Trade{PnL: &pnl})
	}

	if low.Progress(counters) >= high.Progress(counters) {
		t.Fatalf("progress not monotonic in confidence: low=%f high=%f",
			low.Progress(counters), high.Progress(counters))
	}
}

func TestProgressFactorsAreCapped(t *testing.T) {
	learning := NewLearningService(0.01, 0.95, 100, 0.75)

	// Far past both targets: each factor caps at 1, so progress is bounded
	// by the confidence term
	counters := domain.Performance{TotalClosed: 1000, Wins: 1000}
	got := learning.Progress(counters)
	want := (1 + 1 + 0.5) / 3 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("progress=%f want=%f", got, want)
	}
	if got > 100 {
		t.Fatalf("progress=%f exceeds 100", got)
	}
}
