package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"leadlag-go/internal/signal"
)

func TestStubFeedEmitsTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	feed := NewFeed(ProviderStub, []string{"BTC-USD", "ETH-USD"}, zerolog.Nop())
	ticks := make(chan signal.Tick, 16)
	go func() { _ = feed.Run(ctx, ticks) }()

	seen := map[string]bool{}
	for len(seen) < 2 {
		select {
		case tk := <-ticks:
			if tk.Price <= 0 || tk.Quantity <= 0 {
				t.Fatalf("stub emitted degenerate tick: %+v", tk)
			}
			if tk.Side != 1 && tk.Side != -1 {
				t.Fatalf("stub emitted invalid side: %d", tk.Side)
			}
			seen[tk.Symbol] = true
		case <-ctx.Done():
			t.Fatalf("timed out waiting for stub ticks, saw %v", seen)
		}
	}
}

func TestFeedDeduplicatesSymbols(t *testing.T) {
	feed := NewFeed(ProviderStub, []string{"BTC-USD", " BTC-USD ", "", "ETH-USD"}, zerolog.Nop())
	syms := feed.snapshotSymbols()
	if len(syms) != 2 {
		t.Fatalf("expected 2 unique symbols, got %v", syms)
	}
	if syms[0] != "BTC-USD" || syms[1] != "ETH-USD" {
		t.Fatalf("expected sorted symbols, got %v", syms)
	}
}

func TestWithPollInterval(t *testing.T) {
	feed := NewFeed(ProviderStub, []string{"BTC-USD"}, zerolog.Nop(), WithPollInterval(50*time.Millisecond))
	if feed.pollInterval != 50*time.Millisecond {
		t.Fatalf("expected 50ms poll interval, got %v", feed.pollInterval)
	}

	feed = NewFeed(ProviderStub, []string{"BTC-USD"}, zerolog.Nop(), WithPollInterval(-1))
	if feed.pollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval for invalid input, got %v", feed.pollInterval)
	}
}

func TestBinanceStreamName(t *testing.T) {
	if got := binanceStream("BTC-USD"); got != "btcusd@trade" {
		t.Fatalf("expected btcusd@trade, got %s", got)
	}
}
