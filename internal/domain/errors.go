package domain

import "errors"

// Recoverable engine errors. Callers match with errors.Is; services wrap
// them with context via fmt.Errorf and %w.
var (
	// ErrTradeNotFound is returned when closing an unknown or already-closed trade id
	ErrTradeNotFound = errors.New("trade not found or already closed")

	// ErrNotReadyForLive is returned when a live-mode toggle is attempted
	// before the graduation policy holds
	ErrNotReadyForLive = errors.New("graduation criteria not met, live trading not authorized")

	// ErrUnsupportedAsset is returned when the scam filter cannot evaluate a
	// malformed asset identifier
	ErrUnsupportedAsset = errors.New("asset identifier cannot be evaluated")

	// ErrLiveExecutionUnavailable is returned for order submissions while in
	// live mode; real exchange execution is not wired in this build
	ErrLiveExecutionUnavailable = errors.New("live order execution is not available")
)
