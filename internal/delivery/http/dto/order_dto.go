package dto

// MarketOrderRequest is the payload for a market order
type MarketOrderRequest struct {
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`
	Size   float64 `json:"size"`
}

// LimitOrderRequest is the payload for a limit order
type LimitOrderRequest struct {
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`
	Size   float64 `json:"size"`
	Price  float64 `json:"price"`
}

// FuturesOrderRequest is the payload for a leveraged futures order
type FuturesOrderRequest struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Size     float64 `json:"size"`
	Leverage float64 `json:"leverage"`
}

// LoginRequest is the payload for operator login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
