// Package strategy contains the lead-lag pair engine that turns order-flow
// imbalance on the leader instrument into directional signals for the follower.
package strategy

import (
	"errors"
	"math"

	"leadlag-go/internal/flow"
	"leadlag-go/internal/signal"
)

// ErrUnknownRole is returned when a market event carries a role outside the
// leader/follower enumeration.
var ErrUnknownRole = errors.New("unknown pair role")

// ErrInvalidQuantity is returned when a market event carries a negative or
// non-finite quantity. The underlying ledger would accept it, but a skewed
// imbalance is worse than a rejected tick.
var ErrInvalidQuantity = errors.New("invalid quantity")

// LeadLag owns one flow ledger per pair leg and evaluates a threshold rule
// against the leader's imbalance. The follower ledger is accumulated but not
// consulted by CheckSignal; it is kept for a future confirmation rule.
type LeadLag struct {
	leaderLedger   *flow.Ledger
	followerLedger *flow.Ledger
	entryThreshold float64
}

// NewLeadLag builds an engine with two fresh ledgers. The threshold is stored
// as given; values outside [0, 1] are the caller's problem.
func NewLeadLag(entryThreshold float64) *LeadLag {
	return &LeadLag{
		leaderLedger:   flow.NewLedger(),
		followerLedger: flow.NewLedger(),
		entryThreshold: entryThreshold,
	}
}

// Name returns the identifier for the engine implementation.
func (e *LeadLag) Name() string { return "LeadLag" }

// OnMarketData routes one normalized event into the ledger matching its role.
func (e *LeadLag) OnMarketData(role signal.Role, price, quantity float64, buySide bool) error {
	if quantity < 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return ErrInvalidQuantity
	}
	switch role {
	case signal.RoleLeader:
		e.leaderLedger.Record(price, quantity, buySide)
	case signal.RoleFollower:
		e.followerLedger.Record(price, quantity, buySide)
	default:
		return ErrUnknownRole
	}
	return nil
}

// CheckSignal evaluates the leader imbalance against the entry threshold.
// Both comparisons are strict, so an imbalance exactly at the threshold holds.
// The query is stateless: with no intervening market data it always returns
// the same decision.
func (e *LeadLag) CheckSignal() signal.Decision {
	obi := e.leaderLedger.Imbalance()
	if obi > e.entryThreshold {
		return signal.BuyFollower
	}
	if obi < -e.entryThreshold {
		return signal.SellFollower
	}
	return signal.Hold
}

// LeaderImbalance exposes the raw leader statistic behind the discretized
// decision.
func (e *LeadLag) LeaderImbalance() float64 {
	return e.leaderLedger.Imbalance()
}

// FollowerCounts reports follower-side accumulation for inspection; the
// decision rule never reads it.
func (e *LeadLag) FollowerCounts() (bids, asks int) {
	return e.followerLedger.BidCount(), e.followerLedger.AskCount()
}

// Reset clears both ledgers, typically at a session or bar boundary.
func (e *LeadLag) Reset() {
	e.leaderLedger.Clear()
	e.followerLedger.Clear()
}

// OnTick records a tick under the given role and, for leader ticks only,
// evaluates the signal. Follower ticks always yield Hold so callers keep the
// look-ahead-free gating of evaluating after leader flow.
func (e *LeadLag) OnTick(role signal.Role, t signal.Tick) (signal.Decision, error) {
	if err := e.OnMarketData(role, t.Price, t.Quantity, t.Side >= 0); err != nil {
		return signal.Hold, err
	}
	if role != signal.RoleLeader {
		return signal.Hold, nil
	}
	return e.CheckSignal(), nil
}
