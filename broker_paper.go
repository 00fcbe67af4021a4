// FILE: broker_paper.go
// Package main – In-memory paper backend (no external calls).
//
// PaperBroker simulates execution against the latest known price. It is the
// default backend for dry runs: in live dry runs the real sidecar still
// supplies prices while orders stay in-process, and in tests it plays both
// ports.
//
// Methods:
//   • GetNowPrice(ctx, product) (float64, error)
//   • GetRecentCandles(...) ([]Candle, error)  // unsupported in paper mode
//   • PlaceMarketOrder(ctx, product, side, sizeSpec) (*PlacedOrder, error)
package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PaperBroker keeps a single mutable price used to simulate fills.
type PaperBroker struct {
	mu    sync.Mutex
	price float64
}

func NewPaperBroker() *PaperBroker { return &PaperBroker{} }

func (p *PaperBroker) Name() string { return "paper" }

// SetPrice updates the simulated market price.
func (p *PaperBroker) SetPrice(px float64) {
	p.mu.Lock()
	p.price = px
	p.mu.Unlock()
}

func (p *PaperBroker) GetNowPrice(ctx context.Context, product string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.price <= 0 {
		return 0, errors.New("paper broker has no price yet")
	}
	return p.price, nil
}

// GetRecentCandles is not supported in paper mode; use the bridge for
// market data.
func (p *PaperBroker) GetRecentCandles(ctx context.Context, product, granularity string, limit int) ([]Candle, error) {
	return nil, errors.New("paper broker has no candles (use bridge)")
}

// PlaceMarketOrder simulates a fill at the current price. sizeSpec is a
// quote notional for BUY and a base quantity for SELL.
func (p *PaperBroker) PlaceMarketOrder(ctx context.Context, product string, side OrderSide, sizeSpec float64) (*PlacedOrder, error) {
	if sizeSpec <= 0 {
		return nil, errors.New("sizeSpec must be > 0")
	}
	p.mu.Lock()
	price := p.price
	p.mu.Unlock()
	if price <= 0 {
		return nil, errors.New("paper broker has no price to fill against")
	}

	var base, quote float64
	if side == SideBuy {
		quote = sizeSpec
		base = sizeSpec / price
	} else {
		base = sizeSpec
		quote = sizeSpec * price
	}
	return &PlacedOrder{
		ID:         uuid.New().String(),
		ProductID:  product,
		Side:       side,
		Price:      price,
		BaseSize:   base,
		QuoteSpent: quote,
		CreateTime: time.Now().UTC(),
	}, nil
}
