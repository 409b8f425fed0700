package backtest

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONLRecorderWritesTrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "signals.jsonl")
	rec, err := NewJSONLRecorder(path)
	if err != nil {
		t.Fatalf("NewJSONLRecorder returned error: %v", err)
	}

	trade := Trade{
		Ts:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Symbol:    "ETH-USD",
		Action:    ActionLongEntry,
		Price:     10,
		Quantity:  1,
		LeaderOBI: 0.85,
	}
	rec.Record(trade)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open recorded file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatalf("expected one recorded line")
	}
	var got Trade
	if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
		t.Fatalf("decode recorded trade: %v", err)
	}
	if got.Action != ActionLongEntry || got.Price != 10 || got.LeaderOBI != 0.85 {
		t.Fatalf("unexpected recorded trade: %+v", got)
	}
}
