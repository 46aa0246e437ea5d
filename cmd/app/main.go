package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"papertrader/configs"
	"papertrader/internal/adapter/telegram"
	"papertrader/internal/database"
	delivery "papertrader/internal/delivery/http"
	"papertrader/internal/domain"
	"papertrader/internal/infra"
	"papertrader/internal/repository"
	"papertrader/internal/service"
	"papertrader/internal/telemetry"
	"papertrader/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := configs.Load()
	ctx := context.Background()

	// Optional trade archive: the engine runs fully in-memory without it
	var archive domain.TradeArchiveRepository
	if cfg.Database.URL != "" {
		db, err := infra.NewDatabase(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		archive = repository.NewTradeArchiveRepository(db)
	} else {
		log.Println("[WARN] DATABASE_URL not set, closed trades will not be archived")
	}

	// Lifecycle event hub and its transports
	hub := telemetry.NewHub()
	go hub.Run()
	defer hub.Close()

	notifier := telegram.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	go notifier.Consume(hub.Subscribe())

	// Engine capabilities
	signals := service.NewMockSignalService()
	filter := service.NewScamDetectorService(cfg.Trading.ScamFlagRate)
	ledger := service.NewTradeLedger()
	learning := service.NewLearningService(
		cfg.Trading.ConfidenceStep,
		cfg.Trading.ConfidenceCeiling,
		cfg.Trading.TargetTrades,
		cfg.Trading.TargetWinRate,
	)
	policy := service.GraduationPolicy{
		MinClosedTrades: cfg.Trading.GraduationMinTrades,
		MinWinRate:      cfg.Trading.GraduationMinWinRate,
		MinProfit:       cfg.Trading.GraduationMinProfit,
	}

	engine := usecase.NewPaperTradingService(
		cfg.Trading, signals, filter, ledger, learning, policy, hub, archive,
	)
	engine.Start()

	// Periodic driver
	scheduler := infra.NewScheduler(engine)
	if err := scheduler.Start(cfg.Trading.ScanInterval, cfg.Trading.GraduationGap); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// HTTP delivery
	e := echo.New()
	e.HideBanner = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:   delivery.NewAuthHandler(cfg.Auth),
		EngineHandler: delivery.NewEngineHandler(engine, hub),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Paper trading service starting on %s", addr)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Symbols: %v | Min confidence: %.2f | Initial balance: $%.2f",
		cfg.Trading.Symbols, cfg.Trading.MinConfidence, cfg.Trading.InitialBalance)

	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Stop generating new candidates, then give in-flight resolutions a
	// bounded window to post their outcomes
	scheduler.Stop()
	engine.Stop()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer drainCancel()
	if err := engine.Drain(drainCtx); err != nil {
		log.Printf("[WARN] Shutdown drain: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
