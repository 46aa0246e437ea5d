package domain

import "time"

// EventType identifies a lifecycle event emitted by the engine
type EventType string

// Lifecycle event types
const (
	EventInitialized    EventType = "initialized"
	EventTradingStarted EventType = "trading-started"
	EventTradingStopped EventType = "trading-stopped"
	EventTradeOpened    EventType = "trade-opened"
	EventTradeClosed    EventType = "trade-closed"
	EventModeChanged    EventType = "mode-changed"
	EventReadyForLive   EventType = "ready-for-live"
)

// LifecycleEvent is a typed notification of an engine state transition.
// Transports (websocket hub, Telegram) subscribe to these instead of the
// engine knowing about any particular delivery channel.
type LifecycleEvent struct {
	Type    EventType   `json:"type"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
	Data    interface{} `json:"data,omitempty"`
}

// EventSink receives lifecycle events. Publish must not block the engine;
// slow consumers drop events, they never stall a trading cycle.
type EventSink interface {
	Publish(event LifecycleEvent)
}
