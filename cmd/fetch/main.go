// Binary fetch pulls recent public trades for both pair legs and persists
// them into the tick store for later replay.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"leadlag-go/internal/config"
	"leadlag-go/internal/exchange"
	"leadlag-go/internal/metrics"
	"leadlag-go/internal/store"
	"leadlag-go/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	if v := os.Getenv("LEADLAG_DB_PATH"); v != "" {
		cfg.Data.DBPath = v
	}

	db, err := store.Open(cfg.Data.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open tick store")
	}
	defer db.Close()

	if cfg.Data.Exchange != "" && cfg.Data.Exchange != "kraken" {
		log.Fatal().Str("exchange", cfg.Data.Exchange).Msg("unsupported exchange")
	}
	client := exchange.NewKrakenClient(log)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, symbol := range []string{cfg.Pair.Leader, cfg.Pair.Follower} {
		trades, err := client.RecentTrades(ctx, symbol, cfg.Data.FetchLimit)
		if err != nil {
			log.Fatal().Err(err).Str("symbol", symbol).Msg("fetch trades")
		}
		written, err := db.SaveTrades(ctx, trades)
		if err != nil {
			log.Fatal().Err(err).Str("symbol", symbol).Msg("store trades")
		}
		metrics.TradesStored.WithLabelValues(symbol).Add(float64(written))
		log.Info().
			Str("symbol", symbol).
			Int("fetched", len(trades)).
			Int64("written", written).
			Msg("stored trades")
	}

	total, err := db.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("count trades")
	}
	log.Info().Int64("total", total).Str("db", cfg.Data.DBPath).Msg("tick store ready")
}
