package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideInsufficientHistory(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	// minFusionWindow is max(SMALongPeriod, 10) = 15
	prices := make([]float64, 14)
	for i := range prices {
		prices[i] = 100
	}
	d := decide(prices, cfg)
	assert.Equal(t, Hold, d.Signal)
	assert.Equal(t, "insufficient_data", d.Reason)
	assert.Zero(t, d.BuyVotes)
	assert.Zero(t, d.SellVotes)

	// one more price crosses the threshold and the fusion runs
	d = decide(append(prices, 100), cfg)
	assert.NotEqual(t, "insufficient_data", d.Reason)
}

func TestDecideBuyMajority(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	prices := seriesBuySignal()
	d := decide(prices, cfg)

	require.Equal(t, Buy, d.Signal)
	assert.Equal(t, 2, d.BuyVotes) // SMA crossover + depressed RSI
	assert.Equal(t, 0, d.SellVotes)

	snap := d.Indicators
	require.True(t, snap.SMAShortOk)
	require.True(t, snap.SMALongOk)
	assert.Greater(t, snap.SMAShort, snap.SMALong)
	require.True(t, snap.RSIOk)
	assert.Less(t, snap.RSI, cfg.RSIOversold)
	assert.False(t, snap.BollOk, "20-period bands undefined on 16 prices")
}

func TestDecideSellMajority(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	// Flat series: SMA short==long votes SELL, RSI pins at 100 on a
	// lossless window, collapsed bands put the price at the upper band.
	d := decide(seriesSellSignal(), cfg)

	require.Equal(t, Sell, d.Signal)
	assert.Equal(t, 0, d.BuyVotes)
	assert.Equal(t, 3, d.SellVotes)
	assert.Equal(t, 100.0, d.Indicators.RSI)
}

func TestDecideTieHolds(t *testing.T) {
	t.Parallel()

	// Silence RSI and tighten the bands so SMA (BUY) and Bollinger (SELL)
	// split 1-1.
	cfg := testConfig()
	cfg.RSIOversold = -1
	cfg.RSIOverbought = 101
	cfg.BollPeriod = 5
	cfg.BollStdDev = 1.5

	prices := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 104, 104, 104, 104, 120}
	d := decide(prices, cfg)

	assert.Equal(t, Hold, d.Signal)
	assert.Equal(t, 1, d.BuyVotes)
	assert.Equal(t, 1, d.SellVotes)
}

func TestSignalStringAndSide(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BUY", Buy.String())
	assert.Equal(t, "SELL", Sell.String())
	assert.Equal(t, "HOLD", Hold.String())
	assert.Equal(t, SideBuy, Buy.SignalToSide())
	assert.Equal(t, SideSell, Sell.SignalToSide())
}
