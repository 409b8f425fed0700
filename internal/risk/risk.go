// Package risk provides guard-rails consulted before acting on a signal.
package risk

// Limits caps how much notional a single entry may commit. A zero limit
// means unlimited.
type Limits struct {
	MaxNotionalPerTrade float64
}

// Allow reports whether a trade of the given notional fits within limits.
func (l Limits) Allow(notional float64) bool {
	if l.MaxNotionalPerTrade <= 0 {
		return true
	}
	return notional <= l.MaxNotionalPerTrade
}
