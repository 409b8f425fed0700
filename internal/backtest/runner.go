package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"leadlag-go/internal/risk"
	"leadlag-go/internal/signal"
	"leadlag-go/internal/strategy"
)

// Config bundles the replay parameters.
type Config struct {
	Leader            string
	Follower          string
	EntryThreshold    float64
	InitialCapital    float64
	AllowShortSelling bool
	Limits            risk.Limits
}

// Result holds the simulation output: per-follower-tick history series,
// executed trades, and final accounting.
type Result struct {
	Timestamps    []time.Time
	LeaderOBI     []float64
	FollowerPrice []float64
	LeaderPrice   []float64
	Equity        []float64
	Buys          []Trade
	Sells         []Trade
	FinalPosition int
	FinalCash     float64
	FinalEquity   float64
	ROI           float64
	TotalTrades   int
}

// Runner drives the event-driven backtest. A fresh engine is built per Run so
// consecutive runs never share ledger state.
type Runner struct {
	cfg      Config
	log      zerolog.Logger
	recorder TradeRecorder
}

// NewRunner validates the pair configuration and returns a runner.
func NewRunner(cfg Config, log zerolog.Logger) (*Runner, error) {
	if cfg.Leader == "" || cfg.Follower == "" {
		return nil, fmt.Errorf("backtest requires leader and follower symbols")
	}
	if cfg.Leader == cfg.Follower {
		return nil, fmt.Errorf("leader and follower must differ")
	}
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive")
	}
	return &Runner{cfg: cfg, log: log}, nil
}

// SetRecorder attaches an optional sink for executed trades.
func (r *Runner) SetRecorder(rec TradeRecorder) { r.recorder = rec }

// Run replays ticks (which must be ordered by timestamp ascending) through a
// fresh engine. Leader flow accumulates; on each follower tick the runner
// records history, marks equity, evaluates the signal, and applies the
// position transition for the active mode.
func (r *Runner) Run(ctx context.Context, ticks []signal.Tick) (*Result, error) {
	engine := strategy.NewLeadLag(r.cfg.EntryThreshold)
	res := &Result{}

	position := 0 // 0 flat, +1 long, -1 short
	cash := r.cfg.InitialCapital
	lastLeaderPrice := 0.0
	lastFollowerPrice := 0.0

	for _, tk := range ticks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var role signal.Role
		switch tk.Symbol {
		case r.cfg.Leader:
			role = signal.RoleLeader
			lastLeaderPrice = tk.Price
		case r.cfg.Follower:
			role = signal.RoleFollower
		default:
			r.log.Debug().Str("symbol", tk.Symbol).Msg("skipping tick outside the pair")
			continue
		}

		if err := engine.OnMarketData(role, tk.Price, tk.Quantity, tk.Side >= 0); err != nil {
			r.log.Warn().Err(err).Str("symbol", tk.Symbol).Msg("dropping invalid tick")
			continue
		}

		// History and decisions are sampled on follower updates only, once
		// the leader has printed at least one price.
		if role != signal.RoleFollower || lastLeaderPrice <= 0 {
			continue
		}
		lastFollowerPrice = tk.Price
		obi := engine.LeaderImbalance()

		res.Timestamps = append(res.Timestamps, tk.Ts)
		res.LeaderOBI = append(res.LeaderOBI, obi)
		res.FollowerPrice = append(res.FollowerPrice, tk.Price)
		res.LeaderPrice = append(res.LeaderPrice, lastLeaderPrice)
		res.Equity = append(res.Equity, cash+float64(position)*tk.Price)

		decision := engine.CheckSignal()
		if decision == signal.Hold {
			continue
		}
		// Limits gate new exposure only; closing an open position is never vetoed.
		entering := (decision == signal.BuyFollower && position <= 0) ||
			(decision == signal.SellFollower && r.cfg.AllowShortSelling && position >= 0)
		if entering && !r.cfg.Limits.Allow(tk.Price) {
			r.log.Debug().Float64("notional", tk.Price).Msg("entry vetoed by risk limits")
			continue
		}

		if r.cfg.AllowShortSelling {
			position, cash = r.applyShortCapable(res, tk, obi, decision, position, cash)
		} else {
			position, cash = r.applyLongOnly(res, tk, obi, decision, position, cash)
		}
	}

	res.FinalPosition = position
	res.FinalCash = cash
	res.FinalEquity = cash + float64(position)*lastFollowerPrice
	res.ROI = (res.FinalEquity - r.cfg.InitialCapital) / r.cfg.InitialCapital * 100
	res.TotalTrades = len(res.Buys) + len(res.Sells)
	return res, nil
}

func (r *Runner) applyLongOnly(res *Result, tk signal.Tick, obi float64, decision signal.Decision, position int, cash float64) (int, float64) {
	switch {
	case decision == signal.BuyFollower && position == 0:
		position = 1
		cash -= tk.Price
		r.execute(res, tk, obi, ActionLongEntry, 1.0, true)
	case decision == signal.SellFollower && position > 0:
		position = 0
		cash += tk.Price
		r.execute(res, tk, obi, ActionLongClose, 1.0, false)
	}
	return position, cash
}

func (r *Runner) applyShortCapable(res *Result, tk signal.Tick, obi float64, decision signal.Decision, position int, cash float64) (int, float64) {
	switch decision {
	case signal.BuyFollower:
		switch position {
		case 0: // flat -> long
			position = 1
			cash -= tk.Price
			r.execute(res, tk, obi, ActionLongEntry, 1.0, true)
		case -1: // short -> long, cover then enter
			position = 1
			cash -= tk.Price * 2
			r.execute(res, tk, obi, ActionShortCoverAndLong, 2.0, true)
		}
	case signal.SellFollower:
		switch position {
		case 0: // flat -> short
			position = -1
			cash += tk.Price
			r.execute(res, tk, obi, ActionShortEntry, 1.0, false)
		case 1: // long -> short, close then enter
			position = -1
			cash += tk.Price * 2
			r.execute(res, tk, obi, ActionLongCloseAndShort, 2.0, false)
		}
	}
	return position, cash
}

func (r *Runner) execute(res *Result, tk signal.Tick, obi float64, action string, qty float64, buy bool) {
	trade := Trade{
		Ts:        tk.Ts,
		Symbol:    tk.Symbol,
		Action:    action,
		Price:     tk.Price,
		Quantity:  qty,
		LeaderOBI: obi,
	}
	if buy {
		res.Buys = append(res.Buys, trade)
	} else {
		res.Sells = append(res.Sells, trade)
	}
	if r.recorder != nil {
		r.recorder.Record(trade)
	}
	r.log.Debug().
		Str("action", action).
		Float64("price", tk.Price).
		Float64("leader_obi", obi).
		Msg("executed transition")
}
