// FILE: broker.go
// Package main – Port interfaces shared by all execution backends.
//
// This file defines the two surfaces the trading loop needs from the outside
// world, plus the normalized value types that cross them:
//   • MarketData:   current price lookup + recent candles (startup bootstrap)
//   • OrderGateway: place a market order by side + size spec
//   • Common types: OrderSide, Candle, PlacedOrder
//
// Adapters normalize whatever the venue returns into these fixed types before
// the core ever sees it; the loop never inspects vendor payloads.
//
// Two concrete implementations live in separate files:
//   • broker_paper.go   – in-memory paper gateway (no external calls)
//   • broker_bridge.go  – HTTP client for the exchange sidecar
//
// Error contract (the loop branches on these outcomes):
//   - MarketData errors are transient: the loop logs, sleeps briefly, and
//     retries; no bot state is mutated.
//   - OrderGateway errors mean NO FILL happened: the ledger and daily
//     counters stay untouched for that attempt.
package main

import (
	"context"
	"time"
)

// OrderSide is the side of a trade.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// Candle is the normalized OHLCV row used for the startup bootstrap.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PlacedOrder is a normalized view of a filled market order.
// A non-nil PlacedOrder with nil error means the order filled.
type PlacedOrder struct {
	ID         string
	ProductID  string
	Side       OrderSide
	Price      float64 // average execution price
	BaseSize   float64 // filled base (e.g., BTC)
	QuoteSpent float64 // spent quote (e.g., USDC)
	CreateTime time.Time
}

// MarketData supplies prices to the loop. Implementations must bound every
// call with their own timeout; a hanging call would stall the whole loop.
type MarketData interface {
	// GetNowPrice returns the latest trade/ticker price for product.
	GetNowPrice(ctx context.Context, product string) (float64, error)

	// GetRecentCandles returns up to limit recent candles in chronological
	// order. Used once at startup to seed price history; a failure here is
	// non-fatal (the bot starts with an empty series and accumulates live).
	GetRecentCandles(ctx context.Context, product, granularity string, limit int) ([]Candle, error)
}

// OrderGateway executes orders. sizeSpec is a quote-currency notional for
// BUY and a base-currency quantity for SELL, mirroring how spot venues
// accept market orders.
type OrderGateway interface {
	Name() string
	PlaceMarketOrder(ctx context.Context, product string, side OrderSide, sizeSpec float64) (*PlacedOrder, error)
}
