package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"papertrader/internal/domain"
)

// NotificationService pushes selected lifecycle events to a Telegram chat.
// It consumes the event hub's subscription channel so the engine never knows
// it exists.
type NotificationService struct {
	botToken   string
	chatID     string
	enabled    bool
	httpClient *http.Client
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// NewNotificationService creates a new NotificationService. It is disabled
// (and silently drops everything) when either credential is empty.
func NewNotificationService(botToken, chatID string) *NotificationService {
	return &NotificationService{
		botToken: botToken,
		chatID:   chatID,
		enabled:  botToken != "" && chatID != "",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Consume forwards events from the subscription channel until it closes.
// Run it in its own goroutine.
func (s *NotificationService) Consume(events <-chan domain.LifecycleEvent) {
	for event := range events {
		if err := s.notify(event); err != nil {
			log.Printf("[WARN] Telegram notification failed: %v", err)
		}
	}
}

// notify formats and sends one event. Only transitions an operator cares
// about go out; per-trade noise stays in the logs.
func (s *NotificationService) notify(event domain.LifecycleEvent) error {
	if !s.enabled {
		return nil
	}

	var message string
	switch event.Type {
	case domain.EventReadyForLive:
		message = fmt.Sprintf(
			"🎓 *READY FOR LIVE TRADING*\n\n"+
				"The paper-trading agent has met every graduation threshold.\n"+
				"🕒 `%s`",
			event.At.Format("2006-01-02 15:04:05"),
		)
	case domain.EventModeChanged:
		message = fmt.Sprintf(
			"🔄 *TRADING MODE CHANGED*\n\n%s\n🕒 `%s`",
			event.Message,
			event.At.Format("2006-01-02 15:04:05"),
		)
	case domain.EventTradingStarted, domain.EventTradingStopped:
		message = fmt.Sprintf("ℹ️ %s", event.Message)
	default:
		return nil
	}

	return s.sendMessage(message)
}

// sendMessage sends a message to Telegram using the Bot API
func (s *NotificationService) sendMessage(text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	payload := telegramMessage{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "Markdown",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	resp, err := s.httpClient.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
