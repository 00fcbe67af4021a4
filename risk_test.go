package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSize(t *testing.T) {
	t.Parallel()
	cfg := testConfig()

	tests := []struct {
		name      string
		price     float64
		portfolio float64
		want      float64
	}{
		{
			// risk budget 5 USD over a 750 USD stop distance allows far
			// more than the 25 USD notional buys; notional cap wins
			name:      "notional cap binds at high price",
			price:     50000,
			portfolio: 500,
			want:      25.0 / 50000,
		},
		{
			// price does not move which bound wins, only the base size
			name:      "notional cap binds at low price",
			price:     10,
			portfolio: 500,
			want:      25.0 / 10,
		},
		{"zero price", 0, 500, 0},
		{"negative price", -3, 500, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewRiskManager(cfg)
			got := r.PositionSize(tt.price, tt.portfolio)
			assert.InDelta(t, tt.want, got, 1e-12)

			if tt.price > 0 {
				riskBudget := tt.portfolio * cfg.RiskPerTradePct / 100
				stopDistance := tt.price * cfg.StopLossPct / 100
				assert.LessOrEqual(t, got, riskBudget/stopDistance+1e-12)
				assert.LessOrEqual(t, got, cfg.TradeAmountUSD/tt.price+1e-12)
			}
		})
	}
}

func TestPositionSizeRiskBudgetBinds(t *testing.T) {
	t.Parallel()

	// A wide stop against a small portfolio shrinks the risk-derived size
	// below what the fixed notional would buy.
	cfg := testConfig()
	cfg.StopLossPct = 5
	r := NewRiskManager(cfg)

	got := r.PositionSize(100, 50)
	// riskBudget = 0.50 USD, stopDistance = 5 USD -> 0.1 base
	assert.InDelta(t, 0.1, got, 1e-12)
	assert.Less(t, got, cfg.TradeAmountUSD/100)
}

func TestPositionSizeZeroStopDistance(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.StopLossPct = 0
	r := NewRiskManager(cfg)
	assert.Zero(t, r.PositionSize(100, 500))
}

func TestCanTrade(t *testing.T) {
	t.Parallel()

	t.Run("allows under limits", func(t *testing.T) {
		t.Parallel()
		r := NewRiskManager(testConfig())
		assert.True(t, r.CanTrade(500))
	})

	t.Run("blocks at daily trade cap", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.MaxDailyTrades = 2
		r := NewRiskManager(cfg)
		r.RecordOpen()
		assert.True(t, r.CanTrade(500))
		r.RecordOpen()
		assert.False(t, r.CanTrade(500))
	})

	t.Run("blocks when notional exceeds max position", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.TradeAmountUSD = 500
		cfg.MaxPositionSizeUSD = 400
		r := NewRiskManager(cfg)
		assert.False(t, r.CanTrade(500))
	})
}

func TestDailyCounterReset(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	clock := day1
	r := NewRiskManager(testConfig())
	r.now = func() time.Time { return clock }
	r.lastResetDate = midnightUTC(day1)

	r.RecordOpen()
	r.RecordPnL(-2.5)

	// same calendar day: counters survive the gate check
	clock = day1.Add(6 * time.Hour)
	require.True(t, r.CanTrade(500))
	st := r.State()
	assert.Equal(t, 1, st.DailyTrades)
	assert.InDelta(t, -2.5, st.DailyPnL, 1e-12)

	// date advance: reset fires exactly once
	clock = day2
	require.True(t, r.CanTrade(500))
	st = r.State()
	assert.Zero(t, st.DailyTrades)
	assert.Zero(t, st.DailyPnL)
	assert.Equal(t, midnightUTC(day2), st.LastResetDate)

	// a clock that jumps backwards never rewinds the reset date
	r.RecordOpen()
	clock = day1
	require.True(t, r.CanTrade(500))
	st = r.State()
	assert.Equal(t, 1, st.DailyTrades)
	assert.Equal(t, midnightUTC(day2), st.LastResetDate)
}
