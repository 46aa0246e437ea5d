package configs

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Telegram TelegramConfig
	Trading  TradingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration. URL may be empty, in which
// case the closed-trade archive is disabled.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds operator authentication configuration
type AuthConfig struct {
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string // bcrypt hash; login is disabled when empty
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TradingConfig holds all engine thresholds. Every value the policy,
// learning model, and scheduler use is a named, overridable parameter.
type TradingConfig struct {
	Symbols        []string
	InitialBalance float64
	MinConfidence  float64 // Candidate gate: confidence must exceed this
	TradeChance    float64 // Rarity gate: probability a passing candidate is acted on
	ScamFlagRate   float64 // Random heuristic flag rate in the scam filter

	ScanInterval  time.Duration // Candidate generation period
	MinHoldTime   time.Duration // Lower bound of the randomized resolution delay
	MaxHoldTime   time.Duration // Upper bound of the randomized resolution delay
	GraduationGap time.Duration // How often the graduation policy is evaluated

	ConfidenceStep    float64 // Learning increment per closed trade
	ConfidenceCeiling float64
	TargetTrades      int     // Trade-count progress denominator
	TargetWinRate     float64 // Win-rate progress denominator

	GraduationMinTrades  int
	GraduationMinWinRate float64
	GraduationMinProfit  float64
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		Trading: TradingConfig{
			Symbols:        getEnvList("TRADING_SYMBOLS", "BTCUSDT,ETHUSDT,SOLUSDT"),
			InitialBalance: getEnvFloat("INITIAL_BALANCE", 10000),
			MinConfidence:  getEnvFloat("MIN_CONFIDENCE", 0.7),
			TradeChance:    getEnvFloat("TRADE_CHANCE", 0.1),
			ScamFlagRate:   getEnvFloat("SCAM_FLAG_RATE", 0.05),

			ScanInterval:  getEnvDuration("SCAN_INTERVAL", 5*time.Second),
			MinHoldTime:   getEnvDuration("MIN_HOLD_TIME", 30*time.Second),
			MaxHoldTime:   getEnvDuration("MAX_HOLD_TIME", 5*time.Minute),
			GraduationGap: getEnvDuration("GRADUATION_CHECK_INTERVAL", 5*time.Minute),

			ConfidenceStep:    getEnvFloat("CONFIDENCE_STEP", 0.01),
			ConfidenceCeiling: getEnvFloat("CONFIDENCE_CEILING", 0.95),
			TargetTrades:      getEnvInt("TARGET_TRADES", 100),
			TargetWinRate:     getEnvFloat("TARGET_WIN_RATE", 0.75),

			GraduationMinTrades:  getEnvInt("GRADUATION_MIN_TRADES", 50),
			GraduationMinWinRate: getEnvFloat("GRADUATION_MIN_WIN_RATE", 0.75),
			GraduationMinProfit:  getEnvFloat("GRADUATION_MIN_PROFIT", 500),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable (e.g. "30s", "5m")
// or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable as a slice
func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
