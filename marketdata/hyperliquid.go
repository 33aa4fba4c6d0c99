// Package marketdata fetches prices and candles from the Hyperliquid
// public info API and derives the indicator context the decision
// providers consume.
package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultURL is Hyperliquid's public info endpoint. All requests are
// POSTs with a JSON body selecting the query type.
const DefaultURL = "https://api.hyperliquid.xyz/info"

// ErrNoData reports that the exchange returned nothing usable for a
// symbol. Callers skip the symbol for the tick; it is never fatal.
var ErrNoData = errors.New("no market data")

// Candle is one OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Client is a Hyperliquid market data client. Construct one and pass it
// where it is needed; there is no package-level shared instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public API.
func NewClient() *Client {
	return NewClientWithURL(DefaultURL)
}

// NewClientWithURL creates a client against a specific endpoint,
// primarily for tests.
func NewClientWithURL(url string) *Client {
	return &Client{
		baseURL: url,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// intervals supported by the candleSnapshot query.
var intervals = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
}

// LastPrice returns the latest mid price for a coin via the allMids
// query.
func (c *Client) LastPrice(ctx context.Context, coin string) (float64, error) {
	var mids map[string]string
	if err := c.post(ctx, map[string]any{"type": "allMids"}, &mids); err != nil {
		return 0, fmt.Errorf("fetch mids: %w", err)
	}

	raw, ok := mids[coin]
	if !ok {
		return 0, fmt.Errorf("%w: no mid for %s", ErrNoData, coin)
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse mid for %s: %w", coin, err)
	}
	return price, nil
}

// apiCandle is a candleSnapshot row. Prices and volume arrive as
// strings.
type apiCandle struct {
	OpenMillis  int64  `json:"t"`
	CloseMillis int64  `json:"T"`
	Symbol      string `json:"s"`
	Interval    string `json:"i"`
	Open        string `json:"o"`
	Close       string `json:"c"`
	High        string `json:"h"`
	Low         string `json:"l"`
	Volume      string `json:"v"`
	Trades      int    `json:"n"`
}

// Candles fetches the latest count bars for a coin at the given
// interval.
func (c *Client) Candles(ctx context.Context, coin, interval string, count int) ([]Candle, error) {
	step, ok := intervals[interval]
	if !ok {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(count+1) * step)

	req := map[string]any{
		"type": "candleSnapshot",
		"req": map[string]any{
			"coin":      coin,
			"interval":  interval,
			"startTime": start.UnixMilli(),
			"endTime":   end.UnixMilli(),
		},
	}

	var rows []apiCandle
	if err := c.post(ctx, req, &rows); err != nil {
		return nil, fmt.Errorf("fetch candles %s %s: %w", coin, interval, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoData, coin, interval)
	}

	candles := make([]Candle, 0, len(rows))
	for _, row := range rows {
		candle, err := row.parse()
		if err != nil {
			return nil, fmt.Errorf("parse candle %s: %w", coin, err)
		}
		candles = append(candles, candle)
	}

	if len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

func (row apiCandle) parse() (Candle, error) {
	var (
		candle Candle
		err    error
	)
	candle.Time = time.UnixMilli(row.OpenMillis).UTC()

	if candle.Open, err = strconv.ParseFloat(row.Open, 64); err != nil {
		return Candle{}, fmt.Errorf("open %q: %w", row.Open, err)
	}
	if candle.High, err = strconv.ParseFloat(row.High, 64); err != nil {
		return Candle{}, fmt.Errorf("high %q: %w", row.High, err)
	}
	if candle.Low, err = strconv.ParseFloat(row.Low, 64); err != nil {
		return Candle{}, fmt.Errorf("low %q: %w", row.Low, err)
	}
	if candle.Close, err = strconv.ParseFloat(row.Close, 64); err != nil {
		return Candle{}, fmt.Errorf("close %q: %w", row.Close, err)
	}
	if candle.Volume, err = strconv.ParseFloat(row.Volume, 64); err != nil {
		return Candle{}, fmt.Errorf("volume %q: %w", row.Volume, err)
	}
	return candle, nil
}

func (c *Client) post(ctx context.Context, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("info API status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
