// FILE: broker_bridge.go
// Package main – HTTP backend that talks to the local exchange sidecar.
//
// The sidecar fronts the venue's REST API with normalized JSON; this client
// implements both ports against it:
//   • GetNowPrice:      GET /price?product_id=...
//   • GetRecentCandles: GET /candles?product_id=...&granularity=...&limit=...
//   • PlaceMarketOrder: POST /order/market {product_id, side, quote_size|base_size}
//
// Vendor-shape probing lives entirely here: candle fields may arrive as
// strings or numbers and in either sort order; everything is normalized
// into the core's fixed value types before returning.
//
// A minimal client-side rate limiter enforces a minimum spacing between
// outbound requests by blocking briefly before a request that would
// otherwise exceed the rate. Every call is bounded by the client timeout.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// minRequestSpacing is the floor between outbound sidecar requests.
const minRequestSpacing = 100 * time.Millisecond

// BridgeBroker talks to the local exchange sidecar.
type BridgeBroker struct {
	base string
	hc   *http.Client

	mu      sync.Mutex
	lastReq time.Time
}

func NewBridgeBroker(base string) *BridgeBroker {
	base = strings.TrimSpace(base)
	if i := strings.IndexAny(base, " \t#"); i >= 0 { // cut trailing comment/space
		base = strings.TrimSpace(base[:i])
	}
	if base == "" {
		base = "http://127.0.0.1:8787"
	}
	return &BridgeBroker{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (bb *BridgeBroker) Name() string { return "bridge" }

// rateLimit blocks until the minimum spacing since the previous request
// has elapsed.
func (bb *BridgeBroker) rateLimit() {
	bb.mu.Lock()
	wait := minRequestSpacing - time.Since(bb.lastReq)
	if wait > 0 {
		time.Sleep(wait)
	}
	bb.lastReq = time.Now()
	bb.mu.Unlock()
}

// --- Price ---

func (bb *BridgeBroker) GetNowPrice(ctx context.Context, product string) (float64, error) {
	bb.rateLimit()
	u := fmt.Sprintf("%s/price?product_id=%s", bb.base, url.QueryEscape(product))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("newrequest price: %w", err)
	}
	req.Header.Set("User-Agent", "spotbot/bridge")

	res, err := bb.hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("price %d: %s", res.StatusCode, string(b))
	}
	var out struct {
		Price any `json:"price"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	px := parseNumeric(out.Price)
	if px <= 0 {
		return 0, fmt.Errorf("no valid price in response")
	}
	return px, nil
}

// --- Candles ---

func (bb *BridgeBroker) GetRecentCandles(ctx context.Context, product, granularity string, limit int) ([]Candle, error) {
	bb.rateLimit()
	q := url.Values{}
	q.Set("product_id", product)
	q.Set("granularity", granularity)
	if limit <= 0 {
		limit = 30
	}
	q.Set("limit", strconv.Itoa(limit))

	u := fmt.Sprintf("%s/candles?%s", bb.base, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("newrequest candles: %w", err)
	}
	req.Header.Set("User-Agent", "spotbot/bridge")

	res, err := bb.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("candles %d: %s", res.StatusCode, string(b))
	}

	// The sidecar returns normalized rows with string/number fields;
	// parse defensively.
	type row struct {
		Time   string `json:"time"`
		Open   any    `json:"open"`
		High   any    `json:"high"`
		Low    any    `json:"low"`
		Close  any    `json:"close"`
		Volume any    `json:"volume"`
	}
	var rows []row
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, err
	}

	candles := make([]Candle, 0, len(rows))
	for _, r := range rows {
		candles = append(candles, Candle{
			Time:   parseCandleTime(r.Time),
			Open:   parseNumeric(r.Open),
			High:   parseNumeric(r.High),
			Low:    parseNumeric(r.Low),
			Close:  parseNumeric(r.Close),
			Volume: parseNumeric(r.Volume),
		})
	}
	// sort to chronological if needed (stable pass)
	for i := 1; i < len(candles); i++ {
		if candles[i].Time.Before(candles[i-1].Time) {
			for j := i; j > 0 && candles[j].Time.Before(candles[j-1].Time); j-- {
				candles[j], candles[j-1] = candles[j-1], candles[j]
			}
		}
	}
	return candles, nil
}

// --- Orders ---

func (bb *BridgeBroker) PlaceMarketOrder(ctx context.Context, product string, side OrderSide, sizeSpec float64) (*PlacedOrder, error) {
	bb.rateLimit()
	u := bb.base + "/order/market"
	body := map[string]any{
		"product_id":      product,
		"side":            strings.ToUpper(string(side)),
		"client_order_id": uuid.New().String(), // dedupe-safe ID for retries
	}
	// Venues take market BUYs by quote notional and SELLs by base quantity.
	if side == SideBuy {
		body["quote_size"] = fmt.Sprintf("%.2f", sizeSpec)
	} else {
		body["base_size"] = strconv.FormatFloat(sizeSpec, 'f', -1, 64)
	}
	bs, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("newrequest order: %w", err)
	}
	req.Header.Set("User-Agent", "spotbot/bridge")
	req.Header.Set("Content-Type", "application/json")

	res, err := bb.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("bridge order %d: %s", res.StatusCode, string(b))
	}

	var norm struct {
		OrderID    string `json:"order_id"`
		AvgPrice   any    `json:"avg_price"`
		FilledBase any    `json:"filled_base"`
		QuoteSpent any    `json:"quote_spent"`
	}
	if err := json.Unmarshal(b, &norm); err != nil {
		return nil, fmt.Errorf("bridge order decode: %w", err)
	}
	if strings.TrimSpace(norm.OrderID) == "" {
		return nil, fmt.Errorf("bridge order rejected: %s", string(b))
	}
	return &PlacedOrder{
		ID:         norm.OrderID,
		ProductID:  product,
		Side:       side,
		Price:      parseNumeric(norm.AvgPrice),
		BaseSize:   parseNumeric(norm.FilledBase),
		QuoteSpent: parseNumeric(norm.QuoteSpent),
		CreateTime: time.Now().UTC(),
	}, nil
}

// --- small helpers local to this file ---

// parseNumeric accepts JSON numbers or numeric strings.
func parseNumeric(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	default:
		return 0
	}
}

// parseCandleTime accepts RFC3339 or unix seconds.
func parseCandleTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC()
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC()
	}
	return time.Time{}
}
