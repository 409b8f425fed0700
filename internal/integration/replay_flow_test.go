package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"leadlag-go/internal/backtest"
	sig "leadlag-go/internal/signal"
	"leadlag-go/internal/store"
)

// End-to-end flow: persist trades, reload them chronologically, and replay
// through the pair engine.
func TestStoreReplayProducesSignal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := store.Open(filepath.Join(t.TempDir(), "ticks.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	trades := []sig.Tick{
		// Inserted out of order on purpose; LoadTrades must restore chronology.
		{Symbol: "ETH-USD", Price: 3000, Quantity: 1, Side: 1, Ts: base.Add(2 * time.Second)},
		{Symbol: "BTC-USD", Price: 50000, Quantity: 1.5, Side: 1, Ts: base},
		{Symbol: "BTC-USD", Price: 50010, Quantity: 2.5, Side: 1, Ts: base.Add(time.Second)},
	}
	if _, err := db.SaveTrades(ctx, trades); err != nil {
		t.Fatalf("SaveTrades returned error: %v", err)
	}

	loaded, err := db.LoadTrades(ctx, "BTC-USD", "ETH-USD")
	if err != nil {
		t.Fatalf("LoadTrades returned error: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(loaded))
	}

	runner, err := backtest.NewRunner(backtest.Config{
		Leader:         "BTC-USD",
		Follower:       "ETH-USD",
		EntryThreshold: 0.3,
		InitialCapital: 10000,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	res, err := runner.Run(ctx, loaded)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Buys) != 1 || res.Buys[0].Action != backtest.ActionLongEntry {
		t.Fatalf("expected the leader buy pressure to open a long, got %+v", res.Buys)
	}
	if res.LeaderOBI[0] != 1.0 {
		t.Fatalf("expected pure buy imbalance 1.0, got %f", res.LeaderOBI[0])
	}
	if res.FinalPosition != 1 {
		t.Fatalf("expected long final position, got %d", res.FinalPosition)
	}
}
