// Package backtest replays stored ticks through the pair engine and
// simulates position transitions with cash accounting.
package backtest

import (
	"sync"
	"time"
)

// Trade records one executed transition during a replay.
type Trade struct {
	Ts        time.Time `json:"ts"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	LeaderOBI float64   `json:"leader_obi"`
}

// Trade actions emitted by the runner.
const (
	ActionLongEntry         = "long_entry"
	ActionLongClose         = "long_close"
	ActionShortEntry        = "short_entry"
	ActionShortCoverAndLong = "short_cover_long_entry"
	ActionLongCloseAndShort = "long_close_short_entry"
)

// TradeRecorder captures executed trades for later inspection.
type TradeRecorder interface {
	Record(Trade)
}

// TradeLog stores trades in memory for quick inspection.
type TradeLog struct {
	mu     sync.Mutex
	trades []Trade
}

// NewTradeLog creates an empty log optionally pre-sizing storage.
func NewTradeLog(capacity int) *TradeLog {
	if capacity < 0 {
		capacity = 0
	}
	return &TradeLog{trades: make([]Trade, 0, capacity)}
}

// Record appends a trade to the log.
func (l *TradeLog) Record(trade Trade) {
	l.mu.Lock()
	l.trades = append(l.trades, trade)
	l.mu.Unlock()
}

// Snapshot returns a copy of the recorded trades.
func (l *TradeLog) Snapshot() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Reset clears all stored trades.
func (l *TradeLog) Reset() {
	l.mu.Lock()
	l.trades = l.trades[:0]
	l.mu.Unlock()
}
