package usecase

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"papertrader/configs"
	"papertrader/internal/domain"
	"papertrader/internal/service"
)

// PaperTradingService is the engine orchestrator. It pulls candidates from
// the signal generator, vets them, opens simulated trades in the ledger,
// schedules their randomized resolution, feeds outcomes to the learning
// model, and gates the paper/live mode switch on the graduation policy.
//
// The cron driver in internal/infra calls RunCycle and EvaluateGraduation;
// everything else is invoked by the HTTP delivery layer.
type PaperTradingService struct {
	cfg      configs.TradingConfig
	signals  domain.SignalGenerator
	filter   domain.AssetFilter
	ledger   *service.TradeLedger
	learning *service.LearningService
	policy   service.GraduationPolicy
	events   domain.EventSink
	archive  domain.TradeArchiveRepository // nil when persistence is disabled

	mu        sync.Mutex
	mode      string
	running   bool
	lastReady bool

	rngMu sync.Mutex
	rng   *rand.Rand

	resMu     sync.Mutex
	resolvers map[uuid.UUID]*time.Timer
	resolveWG sync.WaitGroup
}

// StatusSnapshot is the engine status exposed to the caller boundary
type StatusSnapshot struct {
	Running          bool    `json:"running"`
	Mode             string  `json:"mode"`
	Balance          float64 `json:"balance"`
	TotalTrades      int     `json:"total_trades"`
	SuccessRate      float64 `json:"success_rate"` // Percent
	TotalProfit      float64 `json:"total_profit"`
	Confidence       float64 `json:"confidence"` // Percent
	LearningProgress float64 `json:"learning_progress"`
	ReadyForLive     bool    `json:"ready_for_live"`
}

// LearningSnapshot is the learning-model status exposed to the caller boundary
type LearningSnapshot struct {
	Mode             string  `json:"mode"`
	TotalClosed      int     `json:"total_closed"`
	WinRate          float64 `json:"win_rate"`
	Confidence       float64 `json:"confidence"`
	LearningProgress float64 `json:"learning_progress"`
	ReadyForLive     bool    `json:"ready_for_live"`
	BlockedAssets    int64   `json:"blocked_assets"`
}

// NewPaperTradingService wires the engine from its injected capabilities.
// events and archive may be nil.
func NewPaperTradingService(
	cfg configs.TradingConfig,
	signals domain.SignalGenerator,
	filter domain.AssetFilter,
	ledger *service.TradeLedger,
	learning *service.LearningService,
	policy service.GraduationPolicy,
	events domain.EventSink,
	archive domain.TradeArchiveRepository,
) *PaperTradingService {
	s := &PaperTradingService{
		cfg:       cfg,
		signals:   signals,
		filter:    filter,
		ledger:    ledger,
		learning:  learning,
		policy:    policy,
		events:    events,
		archive:   archive,
		mode:      domain.ModePaper,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		resolvers: make(map[uuid.UUID]*time.Timer),
	}

	s.publish(domain.EventInitialized, "Paper trading engine initialized", nil)
	return s
}

// Start switches the engine to running. Idempotent.
func (s *PaperTradingService) Start() bool {
	s.mu.Lock()
	wasRunning := s.running
	s.running = true
	mode := s.mode
	s.mu.Unlock()

	if !wasRunning {
		log.Printf("[OK] Trading started in %s mode", mode)
		s.publish(domain.EventTradingStarted, fmt.Sprintf("Trading started in %s mode", mode), nil)
	}
	return true
}

// Stop halts new candidate generation. Already-scheduled trade resolutions
// keep running and post their outcomes regardless; that is deliberate, it
// keeps the ledger counters consistent.
func (s *PaperTradingService) Stop() bool {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	if wasRunning {
		log.Println("[OK] Trading stopped")
		s.publish(domain.EventTradingStopped, "Trading stopped", nil)
	}
	return true
}

// IsRunning reports whether the periodic driver should generate candidates
func (s *PaperTradingService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Mode returns the current trading mode (PAPER or LIVE)
func (s *PaperTradingService) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// RunCycle performs one candidate-generation pass over the tracked symbols.
// A scam verdict or a failed gate is a skip, not an error; a generator
// failure skips the symbol and the cycle continues.
func (s *PaperTradingService) RunCycle(ctx context.Context) error {
	if !s.IsRunning() {
		return nil
	}

	if s.Mode() != domain.ModePaper {
		log.Println("[WARN] Live mode: automated execution is not wired, skipping cycle")
		return nil
	}

	for _, symbol := range s.cfg.Symbols {
		candidate, err := s.signals.Generate(ctx, symbol)
		if err != nil {
			log.Printf("ERROR: Signal generation failed for %s: %v", symbol, err)
			continue
		}

		if candidate.Confidence <= s.cfg.MinConfidence {
			continue
		}

		// Rarity gate: a passing signal still only trades occasionally
		if s.roll() > s.cfg.TradeChance {
			continue
		}

		verdict, err := s.filter.Vet(ctx, symbol, symbol)
		if err != nil {
			log.Printf("ERROR: Asset filter failed for %s: %v", symbol, err)
			continue
		}
		if verdict.IsScam {
			log.Printf("[WARN] Rejected %s: %v", symbol, verdict.Warnings)
			continue
		}

		trade := s.ledger.Open(*candidate)
		log.Printf("[OK] PAPER TRADE: %s %s | $%.2f @ %.2f | confidence %.2f",
			trade.Side, trade.Symbol, trade.Size, trade.EntryPrice, trade.Confidence)
		s.publish(domain.EventTradeOpened, fmt.Sprintf("Opened %s %s", trade.Side, trade.Symbol), trade)

		s.scheduleResolution(trade)
	}

	return nil
}

// SubmitOrder routes a caller-initiated order through the same open path the
// scheduler uses. A nil price means market execution at the generator's
// quote; a non-nil price is a limit entry. Leverage is folded into the
// effective size. Refused in live mode.
func (s *PaperTradingService) SubmitOrder(ctx context.Context, symbol, side string, size float64, price *float64, leverage float64) (*domain.Trade, error) {
	if side != domain.SideBuy && side != domain.SideSell {
		return nil, fmt.Errorf("submit order: invalid side %q", side)
	}
	if size <= 0 {
		return nil, fmt.Errorf("submit order: size must be positive")
	}
	if leverage < 1 {
		leverage = 1
	}

	if s.Mode() != domain.ModePaper {
		return nil, fmt.Errorf("submit order for %s: %w", symbol, domain.ErrLiveExecutionUnavailable)
	}

	candidate := domain.Candidate{
		Symbol:   symbol,
		Side:     side,
		Size:     size * leverage,
		Leverage: leverage,
	}

	if price != nil {
		candidate.Price = *price
		candidate.Confidence = 0.8
	} else {
		generated, err := s.signals.Generate(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("submit order for %s: %w", symbol, err)
		}
		candidate.Price = generated.Price
		candidate.Confidence = generated.Confidence
	}

	trade := s.ledger.Open(candidate)
	log.Printf("[OK] ORDER: %s %s | $%.2f @ %.2f (leverage %.0fx)",
		trade.Side, trade.Symbol, trade.Size, trade.EntryPrice, leverage)
	s.publish(domain.EventTradeOpened, fmt.Sprintf("Opened %s %s", trade.Side, trade.Symbol), trade)

	s.scheduleResolution(trade)
	return trade, nil
}

// scheduleResolution arms an independent timer that resolves the trade after
// a delay drawn uniformly from the configured holding window. The timer is
// keyed by trade id so shutdown can cancel stragglers.
func (s *PaperTradingService) scheduleResolution(trade *domain.Trade) {
	window := s.cfg.MaxHoldTime - s.cfg.MinHoldTime
	delay := s.cfg.MinHoldTime
	if window > 0 {
		delay += time.Duration(s.roll() * float64(window))
	}

	id := trade.ID
	entryPrice := trade.EntryPrice

	s.resolveWG.Add(1)
	s.resMu.Lock()
	s.resolvers[id] = time.AfterFunc(delay, func() {
		defer s.resolveWG.Done()

		s.resMu.Lock()
		delete(s.resolvers, id)
		s.resMu.Unlock()

		s.resolveTrade(id, entryPrice)
	})
	s.resMu.Unlock()
}

// resolveTrade draws the simulated exit price, closes the trade, and feeds
// the outcome to the learning model. No lock is held while the delay runs;
// only the ledger's own critical section serializes the close.
func (s *PaperTradingService) resolveTrade(id uuid.UUID, entryPrice float64) {
	exitPrice := entryPrice * (0.98 + s.roll()*0.04)

	closed, err := s.ledger.Close(id, exitPrice)
	if err != nil {
		log.Printf("ERROR: Failed to resolve trade %s: %v", id, err)
		return
	}

	s.learning.Observe(closed)

	log.Printf("[OK] PAPER TRADE CLOSED: %s | entry %.2f exit %.2f | PnL %.2f",
		closed.Symbol, closed.EntryPrice, exitPrice, *closed.PnL)
	s.publish(domain.EventTradeClosed, fmt.Sprintf("Closed %s, PnL %.2f", closed.Symbol, *closed.PnL), closed)

	if s.archive != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.archive.SaveClosed(ctx, closed); err != nil {
			log.Printf("[WARN] Failed to archive trade %s: %v", closed.ID, err)
		}
	}
}

// EvaluateGraduation checks the graduation policy and raises a notification
// when it has newly become true
func (s *PaperTradingService) EvaluateGraduation(ctx context.Context) {
	ready := s.policy.CanGraduate(s.Performance())

	s.mu.Lock()
	newlyReady := ready && !s.lastReady
	s.lastReady = ready
	s.mu.Unlock()

	if newlyReady {
		log.Println("[OK] Graduation criteria met: agent is ready for live trading")
		s.publish(domain.EventReadyForLive, "Agent is ready for live trading", nil)
	}
}

// ToggleMode flips between paper and live mode. Switching out of paper mode
// is refused with ErrNotReadyForLive unless the graduation policy currently
// holds; switching back to paper is always allowed.
func (s *PaperTradingService) ToggleMode() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == domain.ModePaper {
		if !s.policy.CanGraduate(s.snapshotPerformance()) {
			return s.mode, domain.ErrNotReadyForLive
		}
		s.mode = domain.ModeLive
	} else {
		s.mode = domain.ModePaper
	}

	log.Printf("[OK] Switched to %s trading mode", s.mode)
	s.publish(domain.EventModeChanged, fmt.Sprintf("Switched to %s mode", s.mode), map[string]string{"mode": s.mode})
	return s.mode, nil
}

// Performance returns a consistent snapshot of the counters with the
// learning fields filled in
func (s *PaperTradingService) Performance() domain.Performance {
	return s.snapshotPerformance()
}

// snapshotPerformance composes ledger counters and learning state. The ledger
// snapshot is internally consistent; confidence and progress are read after
// it, which only ever lags, never tears.
func (s *PaperTradingService) snapshotPerformance() domain.Performance {
	perf := s.ledger.Counters()
	perf.ConfidenceLevel = s.learning.Confidence()
	perf.LearningProgress = s.learning.Progress(perf)
	return perf
}

// Status returns the caller-facing status snapshot
func (s *PaperTradingService) Status() StatusSnapshot {
	perf := s.Performance()

	s.mu.Lock()
	running := s.running
	mode := s.mode
	s.mu.Unlock()

	return StatusSnapshot{
		Running:          running,
		Mode:             mode,
		Balance:          s.cfg.InitialBalance + perf.TotalProfit,
		TotalTrades:      perf.TotalOpened,
		SuccessRate:      perf.WinRate() * 100,
		TotalProfit:      perf.TotalProfit,
		Confidence:       perf.ConfidenceLevel * 100,
		LearningProgress: perf.LearningProgress,
		ReadyForLive:     s.policy.CanGraduate(perf),
	}
}

// LearningStatus returns the caller-facing learning snapshot
func (s *PaperTradingService) LearningStatus() LearningSnapshot {
	perf := s.Performance()

	return LearningSnapshot{
		Mode:             s.Mode(),
		TotalClosed:      perf.TotalClosed,
		WinRate:          perf.WinRate(),
		Confidence:       perf.ConfidenceLevel,
		LearningProgress: perf.LearningProgress,
		ReadyForLive:     s.policy.CanGraduate(perf),
		BlockedAssets:    s.filter.BlockedCount(),
	}
}

// OpenPositions returns snapshots of all open trades
func (s *PaperTradingService) OpenPositions() []*domain.Trade {
	return s.ledger.OpenPositions()
}

// ClosedHistory returns recently closed trades. The archive is preferred
// when configured since it survives restarts; the ledger serves as fallback.
func (s *PaperTradingService) ClosedHistory(ctx context.Context, limit int) ([]*domain.Trade, error) {
	if s.archive != nil {
		trades, err := s.archive.GetRecentClosed(ctx, limit)
		if err == nil {
			return trades, nil
		}
		log.Printf("[WARN] Trade archive read failed, serving in-memory history: %v", err)
	}

	history := s.ledger.ClosedHistory()
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

// Drain waits for in-flight trade resolutions to finish. If the context
// expires first, timers that have not fired yet are cancelled so shutdown
// never leaks them.
func (s *PaperTradingService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.resolveWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.resMu.Lock()
		for id, timer := range s.resolvers {
			if timer.Stop() {
				s.resolveWG.Done()
			}
			delete(s.resolvers, id)
		}
		s.resMu.Unlock()
		return ctx.Err()
	}
}

// publish sends a lifecycle event to the configured sink, if any
func (s *PaperTradingService) publish(eventType domain.EventType, message string, data interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.LifecycleEvent{
		Type:    eventType,
		Message: message,
		At:      time.Now(),
		Data:    data,
	})
}

// roll draws a uniform value in [0,1) from the engine's RNG
func (s *PaperTradingService) roll() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}
