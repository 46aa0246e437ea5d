package domain

// Performance holds the aggregate counters derived from the ledger plus the
// learning model's current state. Invariant: Wins <= TotalClosed <= TotalOpened.
type Performance struct {
	TotalOpened      int     `json:"total_opened"`
	TotalClosed      int     `json:"total_closed"`
	Wins             int     `json:"wins"`
	TotalProfit      float64 `json:"total_profit"`
	ConfidenceLevel  float64 `json:"confidence_level"`  // 0.0-1.0, non-decreasing
	LearningProgress float64 `json:"learning_progress"` // 0-100
}

// WinRate returns wins/closed, 0 when nothing has closed
func (p Performance) WinRate() float64 {
	if p.TotalClosed == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.TotalClosed)
}
