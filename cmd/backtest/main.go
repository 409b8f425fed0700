// Binary backtest replays stored ticks through the pair engine and reports
// the simulated performance.
package main

import (
	"context"
	"flag"

	"leadlag-go/internal/backtest"
	"leadlag-go/internal/config"
	"leadlag-go/internal/risk"
	"leadlag-go/internal/store"
	"leadlag-go/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	db, err := store.Open(cfg.Data.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open tick store")
	}
	defer db.Close()

	ctx := context.Background()
	ticks, err := db.LoadTrades(ctx, cfg.Pair.Leader, cfg.Pair.Follower)
	if err != nil {
		log.Fatal().Err(err).Msg("load trades")
	}
	if len(ticks) == 0 {
		log.Fatal().Msg("no trade data found, run the fetch binary first")
	}
	log.Info().Int("ticks", len(ticks)).Msg("loaded trades for simulation")

	runner, err := backtest.NewRunner(backtest.Config{
		Leader:            cfg.Pair.Leader,
		Follower:          cfg.Pair.Follower,
		EntryThreshold:    cfg.Pair.EntryThreshold,
		InitialCapital:    cfg.Backtest.InitialCapital,
		AllowShortSelling: cfg.Pair.AllowShortSelling,
		Limits:            risk.Limits{MaxNotionalPerTrade: cfg.Risk.MaxNotionalPerTrade},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build runner")
	}

	if cfg.Backtest.SignalsPath != "" {
		rec, err := backtest.NewJSONLRecorder(cfg.Backtest.SignalsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open signals recorder")
		}
		defer rec.Close()
		runner.SetRecorder(rec)
	}

	res, err := runner.Run(ctx, ticks)
	if err != nil {
		log.Fatal().Err(err).Msg("run backtest")
	}

	log.Info().
		Str("leader", cfg.Pair.Leader).
		Str("follower", cfg.Pair.Follower).
		Float64("entry_threshold", cfg.Pair.EntryThreshold).
		Bool("short_selling", cfg.Pair.AllowShortSelling).
		Int("samples", len(res.Timestamps)).
		Int("trades", res.TotalTrades).
		Int("final_position", res.FinalPosition).
		Float64("final_cash", res.FinalCash).
		Float64("final_equity", res.FinalEquity).
		Float64("roi_pct", res.ROI).
		Msg("backtest complete")
}
