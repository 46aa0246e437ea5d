package service

import (
	"sync"

	"papertrader/internal/domain"
)

// LearningService adjusts the agent's confidence scalar from closed-trade
// outcomes and computes the composite learning-progress score.
//
// The confidence level only ever steps up, even after a losing trade. That
// asymmetry comes from the source behavior and is kept on purpose; see
// DESIGN.md before changing it.
type LearningService struct {
	mu         sync.Mutex
	confidence float64

	step          float64
	ceiling       float64
	targetTrades  int
	targetWinRate float64
}

// NewLearningService creates a LearningService. step is the per-trade
// confidence increment, ceiling its upper bound; targetTrades and
// targetWinRate are the progress-score denominators.
func NewLearningService(step, ceiling float64, targetTrades int, targetWinRate float64) *LearningService {
	return &LearningService{
		confidence:    0.5,
		step:          step,
		ceiling:       ceiling,
		targetTrades:  targetTrades,
		targetWinRate: targetWinRate,
	}
}

// Observe consumes one closed-trade outcome and bumps the confidence level
func (s *LearningService) Observe(trade *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.confidence += s.step
	if s.confidence > s.ceiling {
		s.confidence = s.ceiling
	}
}

// Confidence returns the current confidence level (0.0-1.0)
func (s *LearningService) Confidence() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confidence
}

// Progress returns the composite learning-progress score in [0,100]: the
// average of the capped trade-count ratio, the capped win-rate ratio, and
// the current confidence level, scaled to 100. Returns exactly 0 while no
// trades have closed.
func (s *LearningService) Progress(counters domain.Performance) float64 {
	if counters.TotalClosed == 0 {
		return 0
	}

	tradeRatio := float64(counters.TotalClosed) / float64(s.targetTrades)
	if tradeRatio > 1 {
		tradeRatio = 1
	}

	winRatio := counters.WinRate() / s.targetWinRate
	if winRatio > 1 {
		winRatio = 1
	}

	progress := (tradeRatio + winRatio + s.Confidence()) / 3 * 100
	if progress > 100 {
		progress = 100
	}
	return progress
}
