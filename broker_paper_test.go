package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperBrokerPriceLifecycle(t *testing.T) {
	t.Parallel()
	p := NewPaperBroker()

	_, err := p.GetNowPrice(context.Background(), "BTC-USDC")
	require.Error(t, err, "no price seeded yet")

	p.SetPrice(50000)
	px, err := p.GetNowPrice(context.Background(), "BTC-USDC")
	require.NoError(t, err)
	assert.Equal(t, 50000.0, px)

	_, err = p.GetRecentCandles(context.Background(), "BTC-USDC", "ONE_MINUTE", 30)
	assert.Error(t, err, "paper mode has no candle history")
}

func TestPaperBrokerFills(t *testing.T) {
	t.Parallel()
	p := NewPaperBroker()
	p.SetPrice(200)

	t.Run("buy by quote notional", func(t *testing.T) {
		t.Parallel()
		o, err := p.PlaceMarketOrder(context.Background(), "BTC-USDC", SideBuy, 50)
		require.NoError(t, err)
		assert.Equal(t, SideBuy, o.Side)
		assert.InDelta(t, 200.0, o.Price, 1e-12)
		assert.InDelta(t, 0.25, o.BaseSize, 1e-12)
		assert.InDelta(t, 50.0, o.QuoteSpent, 1e-12)
		assert.NotEmpty(t, o.ID)
	})

	t.Run("sell by base quantity", func(t *testing.T) {
		t.Parallel()
		o, err := p.PlaceMarketOrder(context.Background(), "BTC-USDC", SideSell, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, o.BaseSize, 1e-12)
		assert.InDelta(t, 100.0, o.QuoteSpent, 1e-12)
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		t.Parallel()
		_, err := p.PlaceMarketOrder(context.Background(), "BTC-USDC", SideBuy, 0)
		assert.Error(t, err)
	})

	t.Run("rejects without a price", func(t *testing.T) {
		t.Parallel()
		empty := NewPaperBroker()
		_, err := empty.PlaceMarketOrder(context.Background(), "BTC-USDC", SideBuy, 50)
		assert.Error(t, err)
	})
}
