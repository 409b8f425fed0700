package flow

import (
	"math"
	"sync"
	"testing"
)

func TestEmptyLedgerNeutral(t *testing.T) {
	ledger := NewLedger()
	if obi := ledger.Imbalance(); obi != 0.0 {
		t.Fatalf("expected 0.0 imbalance on empty ledger, got %f", obi)
	}
	if ledger.BidCount() != 0 || ledger.AskCount() != 0 {
		t.Fatalf("expected zero counts, got %d/%d", ledger.BidCount(), ledger.AskCount())
	}
}

func TestPureBuySideSaturation(t *testing.T) {
	ledger := NewLedger()
	for i := 0; i < 10; i++ {
		ledger.Record(100.0, 5.0, true)
	}
	if obi := ledger.Imbalance(); obi != 1.0 {
		t.Fatalf("expected imbalance 1.0 with empty sell side, got %f", obi)
	}
	if ledger.BidCount() != 10 || ledger.AskCount() != 0 {
		t.Fatalf("unexpected counts %d/%d", ledger.BidCount(), ledger.AskCount())
	}
}

func TestSymmetricQuantitiesCancel(t *testing.T) {
	ledger := NewLedger()
	ledger.Record(100.0, 1.0, true)
	ledger.Record(101.0, 1.0, false)
	if obi := ledger.Imbalance(); obi != 0.0 {
		t.Fatalf("expected 0.0 imbalance for equal quantities, got %f", obi)
	}
}

func TestImbalanceBounded(t *testing.T) {
	ledger := NewLedger()
	quantities := []float64{0.1, 2.5, 0, 7.75, 1}
	for i, q := range quantities {
		ledger.Record(50.0+float64(i), q, i%2 == 0)
		obi := ledger.Imbalance()
		if obi < -1 || obi > 1 {
			t.Fatalf("imbalance %f out of [-1, 1]", obi)
		}
	}
}

func TestImbalanceIdempotentQuery(t *testing.T) {
	ledger := NewLedger()
	ledger.Record(100.0, 2.0, true)
	ledger.Record(100.5, 1.0, false)
	first := ledger.Imbalance()
	second := ledger.Imbalance()
	if first != second {
		t.Fatalf("imbalance changed between reads: %f vs %f", first, second)
	}
	want := (2.0 - 1.0) / 3.0
	if math.Abs(first-want) > 1e-12 {
		t.Fatalf("expected %f, got %f", want, first)
	}
}

func TestClearResetsFully(t *testing.T) {
	ledger := NewLedger()
	for i := 0; i < 5; i++ {
		ledger.Record(100.0, 1.0, i%2 == 0)
	}
	ledger.Clear()
	if obi := ledger.Imbalance(); obi != 0.0 {
		t.Fatalf("expected 0.0 after clear, got %f", obi)
	}
	if ledger.BidCount() != 0 || ledger.AskCount() != 0 {
		t.Fatalf("expected zero counts after clear, got %d/%d", ledger.BidCount(), ledger.AskCount())
	}
}

func TestConcurrentRecordLosesNothing(t *testing.T) {
	const (
		writers          = 8
		recordsPerWriter = 500
	)
	ledger := NewLedger()

	done := make(chan struct{})
	var readerDone sync.WaitGroup
	readerDone.Add(1)

	// One reader hammers Imbalance while writers append.
	go func() {
		defer readerDone.Done()
		for {
			select {
			case <-done:
				return
			default:
				obi := ledger.Imbalance()
				if obi < -1 || obi > 1 {
					t.Errorf("imbalance %f out of [-1, 1] during concurrent writes", obi)
					return
				}
			}
		}
	}()

	var writersDone sync.WaitGroup
	writersDone.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer writersDone.Done()
			for i := 0; i < recordsPerWriter; i++ {
				ledger.Record(100.0+float64(i%10), 1.0, (w+i)%2 == 0)
			}
		}(w)
	}

	writersDone.Wait()
	close(done)
	readerDone.Wait()

	total := ledger.BidCount() + ledger.AskCount()
	if total != writers*recordsPerWriter {
		t.Fatalf("expected %d entries, got %d", writers*recordsPerWriter, total)
	}
}
