// FILE: helpers_test.go
// Shared fakes and fixtures for the package tests.

package main

import (
	"context"
	"time"
)

// testConfig mirrors the shipped defaults so tests exercise realistic knobs.
func testConfig() Config {
	return Config{
		ProductID:          "BTC-USDC",
		Granularity:        "ONE_MINUTE",
		TradeAmountUSD:     25,
		MaxPositionSizeUSD: 400,
		StopLossPct:        1.5,
		TakeProfitPct:      2.5,
		RiskPerTradePct:    1.0,
		MaxDailyTrades:     15,
		USDEquity:          500,
		DryRun:             true,
		RSIOversold:        35,
		RSIOverbought:      65,
		RSIPeriod:          14,
		SMAShortPeriod:     5,
		SMALongPeriod:      15,
		BollPeriod:         20,
		BollStdDev:         2.0,
		CheckIntervalSec:   30,
		MaxHistoryPrices:   50,
	}
}

// seriesBuySignal is a 16-price series that yields a BUY from the fusion:
// the short SMA sits above the long SMA after the late recovery while RSI
// is still depressed by the earlier slide, and the Bollinger window is not
// yet full so it abstains.
func seriesBuySignal() []float64 {
	return []float64{100, 100, 100, 60, 58, 56, 54, 52, 50, 48, 46, 62, 63, 64, 65, 66}
}

// seriesSellSignal is a flat series: SMA short == long votes SELL, RSI on a
// gainless/lossless window pins at 100 (overbought), and the collapsed
// Bollinger bands put the price at the upper band.
func seriesSellSignal() []float64 {
	s := make([]float64, 20)
	for i := range s {
		s[i] = 100
	}
	return s
}

type placedCall struct {
	side OrderSide
	size float64
}

// scriptGateway fills every market order at a fixed price, or rejects all
// orders when err is set. Calls are recorded either way.
type scriptGateway struct {
	fillPrice float64
	err       error
	calls     []placedCall
}

func (g *scriptGateway) Name() string { return "script" }

func (g *scriptGateway) PlaceMarketOrder(_ context.Context, product string, side OrderSide, sizeSpec float64) (*PlacedOrder, error) {
	g.calls = append(g.calls, placedCall{side: side, size: sizeSpec})
	if g.err != nil {
		return nil, g.err
	}
	var base, quote float64
	if side == SideBuy {
		quote = sizeSpec
		base = sizeSpec / g.fillPrice
	} else {
		base = sizeSpec
		quote = sizeSpec * g.fillPrice
	}
	return &PlacedOrder{
		ID:         "test-order",
		ProductID:  product,
		Side:       side,
		Price:      g.fillPrice,
		BaseSize:   base,
		QuoteSpent: quote,
		CreateTime: time.Now().UTC(),
	}, nil
}

// fakeMarket serves a fixed price and candle set.
type fakeMarket struct {
	price   float64
	err     error
	candles []Candle
}

func (m *fakeMarket) GetNowPrice(context.Context, string) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.price, nil
}

func (m *fakeMarket) GetRecentCandles(context.Context, string, string, int) ([]Candle, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.candles, nil
}
