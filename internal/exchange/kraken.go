package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"leadlag-go/internal/signal"
)

const defaultKrakenBaseURL = "https://api.kraken.com"

// KrakenClient fetches recent public trades used to seed the tick store.
type KrakenClient struct {
	client *resty.Client
	log    zerolog.Logger
}

// KrakenOption configures client construction.
type KrakenOption func(*KrakenClient)

// WithKrakenBaseURL overrides the API host, mainly for tests.
func WithKrakenBaseURL(baseURL string) KrakenOption {
	return func(c *KrakenClient) {
		c.client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	}
}

// NewKrakenClient builds a REST client with retry and timeout defaults suited
// to the public trades endpoint.
func NewKrakenClient(log zerolog.Logger, opts ...KrakenOption) *KrakenClient {
	client := resty.New().
		SetBaseURL(defaultKrakenBaseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	c := &KrakenClient{client: client, log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type krakenTradesResponse struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

// RecentTrades returns up to limit of the most recent public trades for the
// given symbol (e.g. "BTC-USD"), normalized into ticks.
func (c *KrakenClient) RecentTrades(ctx context.Context, symbol string, limit int) ([]signal.Tick, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	pair := krakenPair(symbol)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("pair", pair).
		SetQueryParam("count", strconv.Itoa(limit)).
		Get("/0/public/Trades")
	if err != nil {
		return nil, fmt.Errorf("kraken trades request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("kraken trades: unexpected status %d", resp.StatusCode())
	}

	var payload krakenTradesResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode kraken response: %w", err)
	}
	if len(payload.Error) > 0 {
		return nil, fmt.Errorf("kraken error: %s", strings.Join(payload.Error, "; "))
	}

	for key, raw := range payload.Result {
		if key == "last" {
			continue
		}
		return c.parseTrades(symbol, raw)
	}
	return nil, fmt.Errorf("kraken trades: no pair data for %s", pair)
}

func (c *KrakenClient) parseTrades(symbol string, raw json.RawMessage) ([]signal.Tick, error) {
	var rows [][]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode kraken trades: %w", err)
	}

	out := make([]signal.Tick, 0, len(rows))
	for _, row := range rows {
		// [price, volume, time, buy/sell, market/limit, misc, (id)]
		if len(row) < 4 {
			c.log.Warn().Int("fields", len(row)).Msg("skipping short kraken trade row")
			continue
		}
		price, okP := parseKrakenFloat(row[0])
		qty, okQ := parseKrakenFloat(row[1])
		ts, okT := row[2].(float64)
		sideRaw, okS := row[3].(string)
		if !okP || !okQ || !okT || !okS {
			c.log.Warn().Msg("skipping malformed kraken trade row")
			continue
		}
		side := 1
		if sideRaw == "s" {
			side = -1
		}
		sec, frac := int64(ts), ts-float64(int64(ts))
		out = append(out, signal.Tick{
			Symbol:   symbol,
			Price:    price,
			Quantity: qty,
			Side:     side,
			Ts:       time.Unix(sec, int64(frac*1e9)).UTC(),
		})
	}
	return out, nil
}

func parseKrakenFloat(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// krakenPair converts a normalized symbol like "BTC-USD" into Kraken's pair
// naming ("XBTUSD").
func krakenPair(symbol string) string {
	pair := strings.ReplaceAll(strings.ToUpper(symbol), "-", "")
	pair = strings.ReplaceAll(pair, "BTC", "XBT")
	return pair
}
