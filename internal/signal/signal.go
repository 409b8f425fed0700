// Package signal standardizes payloads shared between data ingestion, the
// pair engine, and the backtest layer.
package signal

import "time"

// Role identifies which leg of the traded pair a market event belongs to.
type Role int

const (
	// RoleLeader marks the reference instrument whose order flow drives signals.
	RoleLeader Role = 0
	// RoleFollower marks the dependent instrument the signal trades.
	RoleFollower Role = 1
)

// String renders the role for logs.
func (r Role) String() string {
	switch r {
	case RoleLeader:
		return "leader"
	case RoleFollower:
		return "follower"
	default:
		return "unknown"
	}
}

// Decision is the discrete output of the pair engine.
type Decision int

const (
	// BuyFollower signals long pressure on the leader; buy the follower.
	BuyFollower Decision = 1
	// SellFollower signals sell pressure on the leader; sell the follower.
	SellFollower Decision = -1
	// Hold signals no actionable imbalance.
	Hold Decision = 0
)

// String renders the decision for logs.
func (d Decision) String() string {
	switch d {
	case BuyFollower:
		return "buy_follower"
	case SellFollower:
		return "sell_follower"
	default:
		return "hold"
	}
}

// Tick models one normalized market trade consumed by the engine.
type Tick struct {
	Symbol   string
	Price    float64
	Quantity float64
	Side     int // +1 buy, -1 sell (aggressor)
	Ts       time.Time
}
