package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendBounded(t *testing.T) {
	t.Parallel()

	var prices []float64
	for i := 1; i <= 7; i++ {
		prices = appendBounded(prices, float64(i), 5)
	}
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, prices)
}

func TestBootstrapPrices(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	t.Run("uses candle closes, skipping empty rows", func(t *testing.T) {
		t.Parallel()
		base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
		market := &fakeMarket{candles: []Candle{
			{Time: base, Close: 101},
			{Time: base.Add(time.Minute), Close: 0}, // gap row, no close
			{Time: base.Add(2 * time.Minute), Close: 103},
		}}
		prices := bootstrapPrices(context.Background(), market, cfg)
		assert.Equal(t, []float64{101, 103}, prices)
	})

	t.Run("starts empty on fetch failure", func(t *testing.T) {
		t.Parallel()
		market := &fakeMarket{err: errors.New("sidecar down")}
		prices := bootstrapPrices(context.Background(), market, cfg)
		assert.Empty(t, prices)
	})

	t.Run("trims to the history bound", func(t *testing.T) {
		t.Parallel()
		small := cfg
		small.MaxHistoryPrices = 3
		candles := make([]Candle, 10)
		for i := range candles {
			candles[i] = Candle{Close: float64(i + 1)}
		}
		prices := bootstrapPrices(context.Background(), &fakeMarket{candles: candles}, small)
		assert.Equal(t, []float64{8, 9, 10}, prices)
	})
}

func TestTickContainsPanic(t *testing.T) {
	t.Parallel()
	gw := &scriptGateway{fillPrice: 100}
	tr := newTestTrader(testConfig(), gw)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // the backoff sleep returns immediately

	require.NotPanics(t, func() {
		tick(ctx, tr, nil) // empty series would index out of range in step
	})
}
