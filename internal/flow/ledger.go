// Package flow accumulates resting order quantity per side and exposes the
// aggregate order-flow imbalance used by the pair engine.
package flow

import "sync"

type entry struct {
	price    float64
	quantity float64
}

// Ledger is an append-only, thread-safe accumulator of reported liquidity.
// Entries are never matched or individually removed; the only way to shrink
// the ledger is Clear. One mutex guards both sides, so a concurrent Record
// and Imbalance on the same ledger never interleave.
type Ledger struct {
	mu       sync.Mutex
	buySide  []entry
	sellSide []entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Record appends one liquidity entry to the buy or sell side. Inputs are not
// validated: negative or zero values are stored as given and will skew the
// imbalance statistic.
func (l *Ledger) Record(price, quantity float64, buySide bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := entry{price: price, quantity: quantity}
	if buySide {
		l.buySide = append(l.buySide, e)
	} else {
		l.sellSide = append(l.sellSide, e)
	}
}

// Imbalance returns (buyQty - sellQty) / (buyQty + sellQty), bounded to
// [-1, 1] for non-negative quantities, or exactly 0.0 when the ledger holds
// no net quantity.
func (l *Ledger) Imbalance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var totalBuy, totalSell float64
	for _, e := range l.buySide {
		totalBuy += e.quantity
	}
	for _, e := range l.sellSide {
		totalSell += e.quantity
	}
	total := totalBuy + totalSell
	if total == 0 {
		return 0.0
	}
	return (totalBuy - totalSell) / total
}

// Clear atomically empties both sides. Callers use it as a rolling-window or
// session boundary reset.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buySide = l.buySide[:0]
	l.sellSide = l.sellSide[:0]
}

// BidCount returns the number of buy-side entries.
func (l *Ledger) BidCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buySide)
}

// AskCount returns the number of sell-side entries.
func (l *Ledger) AskCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sellSide)
}
