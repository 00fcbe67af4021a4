// FILE: risk.go
// Package main – Daily trade limiting and volatility-aware position sizing.
//
// RiskManager owns the daily counters (trade count, daily P&L) and the
// per-trade sizing math. It has no side effects beyond the once-per-day
// counter reset that fires when the observed calendar date advances.
//
// Only the loop goroutine mutates a RiskManager; readers see its numbers
// through the trader's published snapshot, never directly.

package main

import (
	"log"
	"time"
)

// RiskState is the externally visible view of the risk counters.
type RiskState struct {
	DailyTrades   int       `json:"daily_trades"`
	DailyPnL      float64   `json:"daily_pnl"`
	LastResetDate time.Time `json:"last_reset_date"`
}

// RiskManager enforces daily limits and computes position sizes.
type RiskManager struct {
	cfg Config

	dailyTrades   int
	dailyPnL      float64
	lastResetDate time.Time // midnight UTC of the current trading day

	now func() time.Time // injectable clock for tests
}

func NewRiskManager(cfg Config) *RiskManager {
	return &RiskManager{
		cfg:           cfg,
		lastResetDate: midnightUTC(time.Now().UTC()),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func midnightUTC(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// resetDailyCounters zeroes the daily counters exactly once when the
// calendar date advances. The reset date only moves forward.
func (r *RiskManager) resetDailyCounters() {
	today := midnightUTC(r.now())
	if today.After(r.lastResetDate) {
		r.dailyTrades = 0
		r.dailyPnL = 0
		r.lastResetDate = today
		mtxDailyTrades.Set(0)
		log.Printf("[RISK] daily counters reset for new trading day %s", today.Format("2006-01-02"))
	}
}

// CanTrade reports whether a new entry is allowed right now. It recomputes
// the date-based reset first, then applies the daily trade cap and the
// fixed-notional vs max-position check.
func (r *RiskManager) CanTrade(portfolioValue float64) bool {
	r.resetDailyCounters()

	if r.dailyTrades >= r.cfg.MaxDailyTrades {
		log.Printf("[RISK] daily trade limit reached: %d", r.dailyTrades)
		return false
	}
	if r.cfg.TradeAmountUSD > r.cfg.MaxPositionSizeUSD {
		log.Printf("[RISK] trade amount %.2f exceeds max position %.2f",
			r.cfg.TradeAmountUSD, r.cfg.MaxPositionSizeUSD)
		return false
	}
	_ = portfolioValue // the caps above are notional-based; value feeds sizing
	return true
}

// PositionSize returns the base quantity to open: the tighter of a
// volatility-scaled risk budget and the fixed notional cap.
//
//	riskBudget   = portfolioValue × riskPerTradePct
//	stopDistance = price × stopLossPct
//	min(riskBudget/stopDistance, tradeAmountUSD/price)
func (r *RiskManager) PositionSize(currentPrice, portfolioValue float64) float64 {
	if currentPrice <= 0 {
		return 0
	}
	riskBudget := portfolioValue * (r.cfg.RiskPerTradePct / 100.0)
	stopDistance := currentPrice * (r.cfg.StopLossPct / 100.0)
	if stopDistance <= 0 {
		return 0
	}
	sizeByRisk := riskBudget / stopDistance
	sizeByNotional := r.cfg.TradeAmountUSD / currentPrice
	if sizeByRisk < sizeByNotional {
		return sizeByRisk
	}
	return sizeByNotional
}

// RecordOpen counts a successful entry fill against the daily budget.
// Attempts that never filled must not reach here.
func (r *RiskManager) RecordOpen() {
	r.dailyTrades++
	mtxDailyTrades.Set(float64(r.dailyTrades))
}

// RecordPnL adds realized P&L from a close fill to the daily tally.
func (r *RiskManager) RecordPnL(pnl float64) {
	r.dailyPnL += pnl
}

// State returns a copy of the current counters for the snapshot.
func (r *RiskManager) State() RiskState {
	return RiskState{
		DailyTrades:   r.dailyTrades,
		DailyPnL:      r.dailyPnL,
		LastResetDate: r.lastResetDate,
	}
}
