package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"papertrader/internal/domain"
)

// Candidate sizing bounds in units of account
const (
	minCandidateSize = 100.0
	maxCandidateSize = 400.0 // Added on top of the minimum: sizes land in [100, 500]
)

// Base reference prices used to derive synthetic quotes
var defaultBasePrices = map[string]float64{
	"BTCUSDT": 45000,
	"ETHUSDT": 2800,
	"SOLUSDT": 110,
}

const fallbackBasePrice = 100.0

// MockSignalService generates scored trade candidates from synthetic
// sentiment and technical sub-scores. It implements domain.SignalGenerator
// and carries no state beyond the symbol base-price table, so each call is
// independent.
type MockSignalService struct {
	basePrices map[string]float64
	mu         sync.Mutex
	rng        *rand.Rand
}

// NewMockSignalService creates a new MockSignalService
func NewMockSignalService() *MockSignalService {
	return &MockSignalService{
		basePrices: defaultBasePrices,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewMockSignalServiceWithSeed creates a generator with a fixed seed for
// reproducible runs
func NewMockSignalServiceWithSeed(seed int64) *MockSignalService {
	return &MockSignalService{
		basePrices: defaultBasePrices,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Generate produces a scored candidate for the given symbol. Price is the
// symbol's base reference perturbed by up to ±5%; confidence is the average
// of independent sentiment and technical scores in [0,1].
func (s *MockSignalService) Generate(ctx context.Context, symbol string) (*domain.Candidate, error) {
	base, ok := s.basePrices[symbol]
	if !ok {
		base = fallbackBasePrice
	}

	s.mu.Lock()
	priceFactor := 0.95 + s.rng.Float64()*0.10
	sentiment := s.rng.Float64()
	technical := s.rng.Float64()
	sideRoll := s.rng.Float64()
	sizeRoll := s.rng.Float64()
	s.mu.Unlock()

	side := domain.SideBuy
	if sideRoll > 0.5 {
		side = domain.SideSell
	}

	return &domain.Candidate{
		Symbol:     symbol,
		Price:      base * priceFactor,
		Confidence: (sentiment + technical) / 2,
		Side:       side,
		Size:       minCandidateSize + sizeRoll*maxCandidateSize,
		Leverage:   1,
	}, nil
}
