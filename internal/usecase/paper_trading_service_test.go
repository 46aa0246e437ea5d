package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"papertrader/configs"
	"papertrader/internal/domain"
	"papertrader/internal/service"
)

// recordingSink captures published lifecycle events for assertions
type recordingSink struct {
	mu     sync.Mutex
	events []domain.LifecycleEvent
}

func (r *recordingSink) Publish(event domain.LifecycleEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) count(eventType domain.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type engineFixture struct {
	engine   *PaperTradingService
	ledger   *service.TradeLedger
	learning *service.LearningService
	sink     *recordingSink
}

func newEngineFixture(cfg configs.TradingConfig) *engineFixture {
	ledger := service.NewTradeLedger()
	learning := service.NewLearningService(cfg.ConfidenceStep, cfg.ConfidenceCeiling, cfg.TargetTrades, cfg.TargetWinRate)
	policy := service.GraduationPolicy{
		MinClosedTrades: cfg.GraduationMinTrades,
		MinWinRate:      cfg.GraduationMinWinRate,
		MinProfit:       cfg.GraduationMinProfit,
	}
	sink := &recordingSink{}

	engine := NewPaperTradingService(
		cfg,
		service.NewMockSignalServiceWithSeed(42),
		service.NewScamDetectorService(0),
		ledger,
		learning,
		policy,
		sink,
		nil,
	)

	return &engineFixture{engine: engine, ledger: ledger, learning: learning, sink: sink}
}

func testConfig() configs.TradingConfig {
	return configs.TradingConfig{
		Symbols:        []string{"BTCUSDT"},
		InitialBalance: 10000,
		MinConfidence:  0.0,
		TradeChance:    1.0,

		MinHoldTime: time.Millisecond,
		MaxHoldTime: 5 * time.Millisecond,

		ConfidenceStep:    0.01,
		ConfidenceCeiling: 0.95,
		TargetTrades:      100,
		TargetWinRate:     0.75,

		GraduationMinTrades:  50,
		GraduationMinWinRate: 0.75,
		GraduationMinProfit:  500,
	}
}

func TestStartStopIdempotent(t *testing.T) {
	f := newEngineFixture(testConfig())

	if !f.engine.Start() || !f.engine.Start() {
		t.Fatal("start must report success on repeat calls")
	}
	if !f.engine.IsRunning() {
		t.Fatal("engine not running after start")
	}

	f.engine.Stop()
	f.engine.Stop()
	if f.engine.IsRunning() {
		t.Fatal("engine running after stop")
	}

	// Only the transitions emit events
	if got := f.sink.count(domain.EventTradingStarted); got != 1 {
		t.Fatalf("trading-started events=%d want=1", got)
	}
	if got := f.sink.count(domain.EventTradingStopped); got != 1 {
		t.Fatalf("trading-stopped events=%d want=1", got)
	}
}

func TestRunCycleOpensAndResolvesTrades(t *testing.T) {
	f := newEngineFixture(testConfig())
	f.engine.Start()

	ctx := context.Background()
	if err := f.engine.RunCycle(ctx); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	counters := f.ledger.Counters()
	if counters.TotalOpened != 1 {
		t.Fatalf("opened=%d want=1", counters.TotalOpened)
	}

	// The millisecond holding window lets the resolution timer fire quickly
	drainCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := f.engine.Drain(drainCtx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	counters = f.ledger.Counters()
	if counters.TotalClosed != 1 {
		t.Fatalf("closed=%d want=1", counters.TotalClosed)
	}
	if counters.Wins > counters.TotalClosed || counters.TotalClosed > counters.TotalOpened {
		t.Fatalf("invariant violated: %+v", counters)
	}

	// The learning model observed the close
	if got := f.learning.Confidence(); math.Abs(got-0.51) > 1e-9 {
		t.Fatalf("confidence=%f want=0.51 after one resolution", got)
	}
	if got := f.sink.count(domain.EventTradeClosed); got != 1 {
		t.Fatalf("trade-closed events=%d want=1", got)
	}
}

func TestRunCycleSkipsWhileStopped(t *testing.T) {
	f := newEngineFixture(testConfig())

	if err := f.engine.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if got := f.ledger.Counters().TotalOpened; got != 0 {
		t.Fatalf("stopped engine opened %d trades", got)
	}
}

func TestRunCycleRejectsScamSymbols(t *testing.T) {
	cfg := testConfig()
	cfg.Symbols = []string{"TESTCOIN"}
	f := newEngineFixture(cfg)
	f.engine.Start()

	if err := f.engine.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}

	if got := f.ledger.Counters().TotalOpened; got != 0 {
		t.Fatalf("scam symbol opened %d trades", got)
	}
	if got := f.engine.LearningStatus().BlockedAssets; got != 1 {
		t.Fatalf("blocked assets=%d want=1", got)
	}
}

func TestSubmitOrderFoldsLeverageIntoSize(t *testing.T) {
	f := newEngineFixture(testConfig())

	price := 100.0
	trade, err := f.engine.SubmitOrder(context.Background(), "BTCUSDT", domain.SideBuy, 200, &price, 5)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if trade.Size != 1000 {
		t.Fatalf("size=%f want=1000 (200 x 5)", trade.Size)
	}
	if trade.EntryPrice != 100 {
		t.Fatalf("entry=%f want limit price 100", trade.EntryPrice)
	}
	if trade.Status != domain.StatusOpen {
		t.Fatalf("status=%s want=OPEN", trade.Status)
	}
}

func TestSubmitOrderValidation(t *testing.T) {
	f := newEngineFixture(testConfig())
	ctx := context.Background()

	if _, err := f.engine.SubmitOrder(ctx, "BTCUSDT", "HOLD", 100, nil, 1); err == nil {
		t.Fatal("invalid side accepted")
	}
	if _, err := f.engine.SubmitOrder(ctx, "BTCUSDT", domain.SideBuy, -10, nil, 1); err == nil {
		t.Fatal("negative size accepted")
	}
}

func TestToggleModeRefusedBeforeGraduation(t *testing.T) {
	f := newEngineFixture(testConfig())

	mode, err := f.engine.ToggleMode()
	if !errors.Is(err, domain.ErrNotReadyForLive) {
		t.Fatalf("err=%v want ErrNotReadyForLive", err)
	}
	if mode != domain.ModePaper {
		t.Fatalf("mode=%s want unchanged PAPER", mode)
	}

	// The refusal is idempotent
	if _, err := f.engine.ToggleMode(); !errors.Is(err, domain.ErrNotReadyForLive) {
		t.Fatalf("second refusal err=%v want ErrNotReadyForLive", err)
	}
	if f.engine.Mode() != domain.ModePaper {
		t.Fatal("mode changed by refused toggle")
	}
}

// graduate drives the ledger past every graduation threshold
func graduate(t *testing.T, f *engineFixture) {
	t.Helper()
	for i := 0; i < 60; i++ {
		trade := f.ledger.Open(domain.Candidate{
			Symbol: "BTCUSDT", Side: domain.SideBuy, Price: 100, Size: 1000, Leverage: 1,
		})
		exit := 102.0 // win: +20 each
		if i >= 55 {
			exit = 99.0 // a few losses keep the win rate realistic
		}
		if _, err := f.ledger.Close(trade.ID, exit); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}
}

func TestToggleModeAfterGraduation(t *testing.T) {
	f := newEngineFixture(testConfig())
	graduate(t, f)

	mode, err := f.engine.ToggleMode()
	if err != nil {
		t.Fatalf("toggle failed after graduation: %v", err)
	}
	if mode != domain.ModeLive {
		t.Fatalf("mode=%s want=LIVE", mode)
	}

	// Live mode refuses simulated order entry
	if _, err := f.engine.SubmitOrder(context.Background(), "BTCUSDT", domain.SideBuy, 100, nil, 1); !errors.Is(err, domain.ErrLiveExecutionUnavailable) {
		t.Fatalf("err=%v want ErrLiveExecutionUnavailable", err)
	}

	// Switching back to paper is always allowed
	mode, err = f.engine.ToggleMode()
	if err != nil || mode != domain.ModePaper {
		t.Fatalf("toggle back: mode=%s err=%v", mode, err)
	}
}

func TestGraduationNotifiedOnce(t *testing.T) {
	f := newEngineFixture(testConfig())
	ctx := context.Background()

	f.engine.EvaluateGraduation(ctx)
	if got := f.sink.count(domain.EventReadyForLive); got != 0 {
		t.Fatalf("ready-for-live events=%d before graduation", got)
	}

	graduate(t, f)

	f.engine.EvaluateGraduation(ctx)
	f.engine.EvaluateGraduation(ctx)
	if got := f.sink.count(domain.EventReadyForLive); got != 1 {
		t.Fatalf("ready-for-live events=%d want exactly 1", got)
	}
}

func TestStatusSnapshot(t *testing.T) {
	f := newEngineFixture(testConfig())
	graduate(t, f)

	status := f.engine.Status()
	if status.Mode != domain.ModePaper {
		t.Fatalf("mode=%s want=PAPER", status.Mode)
	}
	if !status.ReadyForLive {
		t.Fatal("status should report ready for live after graduation")
	}
	if status.TotalTrades != 60 {
		t.Fatalf("total trades=%d want=60", status.TotalTrades)
	}
	if status.Balance <= f.engine.cfg.InitialBalance {
		t.Fatalf("balance=%f should exceed initial after net wins", status.Balance)
	}

	learning := f.engine.LearningStatus()
	if learning.TotalClosed != 60 {
		t.Fatalf("closed=%d want=60", learning.TotalClosed)
	}
	if learning.WinRate <= 0.75 {
		t.Fatalf("win rate=%f should exceed 0.75", learning.WinRate)
	}
}

func TestStopDoesNotCancelPendingResolutions(t *testing.T) {
	cfg := testConfig()
	cfg.MinHoldTime = 20 * time.Millisecond
	cfg.MaxHoldTime = 40 * time.Millisecond
	f := newEngineFixture(cfg)
	f.engine.Start()

	if err := f.engine.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	f.engine.Stop()

	drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := f.engine.Drain(drainCtx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	if got := f.ledger.Counters().TotalClosed; got != 1 {
		t.Fatalf("closed=%d want=1; stop must not cancel scheduled resolutions", got)
	}
}
