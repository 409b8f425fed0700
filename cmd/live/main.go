// Binary live streams ticks from the configured feed through the pair engine
// and logs paper orders whenever the signal flips.
package main

import (
	"context"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"leadlag-go/internal/config"
	"leadlag-go/internal/exchange"
	"leadlag-go/internal/execution"
	"leadlag-go/internal/metrics"
	"leadlag-go/internal/risk"
	sig "leadlag-go/internal/signal"
	"leadlag-go/internal/strategy"
	"leadlag-go/internal/util"
)

// resetInterval bounds ledger growth: the engine accumulates entries without
// ever removing them, so live runs clear both ledgers periodically.
const resetInterval = 60 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	feed := exchange.NewFeed(cfg.Feed.Provider, []string{cfg.Pair.Leader, cfg.Pair.Follower}, log,
		exchange.WithPollInterval(time.Duration(cfg.Feed.PollIntervalMs)*time.Millisecond))
	ticks := make(chan sig.Tick, 1024)

	go func() {
		if err := feed.Run(ctx, ticks); err != nil {
			log.Error().Err(err).Msg("feed stopped")
			cancel()
		}
	}()

	engine := strategy.NewLeadLag(cfg.Pair.EntryThreshold)
	limits := risk.Limits{MaxNotionalPerTrade: cfg.Risk.MaxNotionalPerTrade}
	exec := execution.NewExecutor(log)

	resetTicker := time.NewTicker(resetInterval)
	defer resetTicker.Stop()

	lastDecision := sig.Hold
	lastFollowerPrice := 0.0

	log.Info().
		Str("leader", cfg.Pair.Leader).
		Str("follower", cfg.Pair.Follower).
		Float64("entry_threshold", cfg.Pair.EntryThreshold).
		Msg("live engine started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-resetTicker.C:
			engine.Reset()
			lastDecision = sig.Hold
			log.Debug().Msg("cleared pair ledgers")
		case tk := <-ticks:
			var role sig.Role
			switch tk.Symbol {
			case cfg.Pair.Leader:
				role = sig.RoleLeader
			case cfg.Pair.Follower:
				role = sig.RoleFollower
				lastFollowerPrice = tk.Price
			default:
				continue
			}

			decision, err := engine.OnTick(role, tk)
			if err != nil {
				log.Warn().Err(err).Str("symbol", tk.Symbol).Msg("dropping invalid tick")
				continue
			}
			if role != sig.RoleLeader || decision == lastDecision {
				continue
			}

			metrics.SignalsTotal.WithLabelValues(decision.String()).Inc()
			log.Info().
				Str("decision", decision.String()).
				Float64("leader_obi", engine.LeaderImbalance()).
				Msg("signal flipped")
			lastDecision = decision

			if decision == sig.Hold || lastFollowerPrice <= 0 {
				continue
			}
			if !limits.Allow(lastFollowerPrice) {
				log.Debug().Float64("notional", lastFollowerPrice).Msg("signal vetoed by risk limits")
				continue
			}
			_ = exec.Submit(execution.Order{
				Symbol: cfg.Pair.Follower,
				Side:   execution.SideFor(decision),
				Qty:    1,
				Price:  lastFollowerPrice,
			})
		}
	}
}
