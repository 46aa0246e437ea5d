package domain

// Candidate is a scored, not-yet-committed trade suggestion produced by the
// signal generator for one evaluation cycle
type Candidate struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"` // 0.0-1.0
	Side       string  `json:"side"`
	Size       float64 `json:"size"` // Units of account (USDT)
	Leverage   float64 `json:"leverage"`
}

// Verdict is the scam filter's assessment of one asset
type Verdict struct {
	IsScam     bool     `json:"is_scam"`
	IsHoneypot bool     `json:"is_honeypot"`
	Confidence float64  `json:"confidence"`
	Warnings   []string `json:"warnings"`
}
