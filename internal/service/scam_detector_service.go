package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"papertrader/internal/domain"
)

// Lexical red flags checked against symbols, case-insensitive
var redFlagTokens = []string{"fake", "scam", "rug", "honey", "test"}

// ScamDetectorService vets asset identifiers and symbols for known or
// heuristically suspicious markers. A positive verdict increments the
// process-wide blocked counter; the counter is append-only for the process
// lifetime.
type ScamDetectorService struct {
	knownScams   map[string]struct{}
	randFlagRate float64
	blocked      atomic.Int64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScamDetectorService creates a new ScamDetectorService. randFlagRate is
// the probability of the random heuristic flag standing in for a real
// contract scan; pass 0 to disable it.
func NewScamDetectorService(randFlagRate float64) *ScamDetectorService {
	return &ScamDetectorService{
		knownScams:   make(map[string]struct{}),
		randFlagRate: randFlagRate,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddKnownScam registers an asset identifier in the known-bad set
func (s *ScamDetectorService) AddKnownScam(assetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knownScams[strings.ToLower(assetID)] = struct{}{}
}

// Vet evaluates an asset identifier and symbol. The decision is the logical
// OR of the known-bad set, the lexical screen, and the random heuristic flag.
func (s *ScamDetectorService) Vet(ctx context.Context, assetID, symbol string) (*domain.Verdict, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, fmt.Errorf("vet %q: %w", symbol, domain.ErrUnsupportedAsset)
	}

	s.mu.Lock()
	_, isKnownScam := s.knownScams[strings.ToLower(assetID)]
	randomFlag := s.randFlagRate > 0 && s.rng.Float64() < s.randFlagRate
	s.mu.Unlock()

	suspiciousName := false
	lowerSymbol := strings.ToLower(symbol)
	for _, token := range redFlagTokens {
		if strings.Contains(lowerSymbol, token) {
			suspiciousName = true
			break
		}
	}

	isScam := isKnownScam || suspiciousName || randomFlag

	verdict := &domain.Verdict{
		IsScam:     isScam,
		IsHoneypot: randomFlag,
		Confidence: 0.1,
		Warnings:   []string{},
	}

	if isScam {
		verdict.Confidence = 0.9
		verdict.Warnings = append(verdict.Warnings, "Potential scam detected")
		s.blocked.Add(1)
		log.Printf("[WARN] Scam detector: blocked %s (%s)", symbol, assetID)
	}

	return verdict, nil
}

// BlockedCount returns the number of assets rejected so far
func (s *ScamDetectorService) BlockedCount() int64 {
	return s.blocked.Load()
}
