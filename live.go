// FILE: live.go
// Package main – The real-time control loop.
//
// runLive drives the trading loop:
//   • Bootstrap the price series from recent candle closes (best-effort;
//     a failure just means starting empty and accumulating live data).
//   • Every tick: fetch the current price, append it to the bounded
//     series, run the trader step, and sleep CHECK_INTERVAL_SEC.
//
// Failure policy:
//   - Price fetch failures are transient: log, short sleep, retry; no bot
//     state is touched.
//   - Order rejections surface as step errors: logged, the tick's attempt
//     is abandoned, the loop keeps its normal cadence.
//   - Anything that panics inside a tick is contained at the loop boundary
//     and answered with a longer backoff sleep before continuing.
//   - The loop exits only when ctx is cancelled; it then attempts a
//     best-effort close of any open position and logs the summary.

package main

import (
	"context"
	"log"
	"time"
)

const (
	bootstrapCandles = 30 // ~30 minutes of ONE_MINUTE closes
	retrySleep       = 10 * time.Second
	backoffSleep     = 30 * time.Second
	priceTimeout     = 5 * time.Second
)

// runLive executes the trading loop until ctx is cancelled.
func runLive(ctx context.Context, trader *Trader) {
	cfg := trader.cfg
	log.Printf("Starting %s — product=%s dry_run=%v interval=%ds",
		trader.gateway.Name(), cfg.ProductID, cfg.DryRun, cfg.CheckIntervalSec)

	// Safety banner for operators
	log.Printf("[SAFETY] TRADE_AMOUNT_USD=%.2f | MAX_POSITION_SIZE_USD=%.2f | STOP_LOSS_PCT=%.2f | TAKE_PROFIT_PCT=%.2f | MAX_DAILY_TRADES=%d | RISK_PER_TRADE_PCT=%.2f",
		cfg.TradeAmountUSD, cfg.MaxPositionSizeUSD, cfg.StopLossPct,
		cfg.TakeProfitPct, cfg.MaxDailyTrades, cfg.RiskPerTradePct)

	prices := bootstrapPrices(ctx, trader.market, cfg)

	interval := time.Duration(cfg.CheckIntervalSec) * time.Second
	for {
		// Cancellation is cooperative, checked once per tick boundary.
		select {
		case <-ctx.Done():
			log.Println("shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			trader.closeOnShutdown(shutdownCtx)
			cancel()
			trader.logSummary()
			return
		default:
		}

		ctxPx, cancelPx := context.WithTimeout(ctx, priceTimeout)
		price, err := trader.market.GetNowPrice(ctxPx, cfg.ProductID)
		cancelPx()
		if err != nil || price <= 0 {
			log.Printf("[WARN] failed to get market data, retrying: %v", err)
			sleepOrDone(ctx, retrySleep)
			continue
		}

		prices = appendBounded(prices, price, cfg.MaxHistoryPrices)

		tick(ctx, trader, prices)

		sleepOrDone(ctx, interval)
	}
}

// tick runs one trader step with the loop-boundary panic guard.
func tick(ctx context.Context, trader *Trader, prices []float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] tick panic contained: %v", r)
			sleepOrDone(ctx, backoffSleep)
		}
	}()
	msg, err := trader.step(ctx, prices)
	if err != nil {
		log.Printf("step err: %v", err)
		return
	}
	log.Printf("Price: %.2f | %s", prices[len(prices)-1], msg)
}

// bootstrapPrices seeds the series from recent candle closes. Best-effort:
// on any failure the bot starts with an empty series.
func bootstrapPrices(ctx context.Context, market MarketData, cfg Config) []float64 {
	ctxBoot, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	candles, err := market.GetRecentCandles(ctxBoot, cfg.ProductID, cfg.Granularity, bootstrapCandles)
	if err != nil {
		log.Printf("[BOOT] could not fetch historical data, will collect live data: %v", err)
		return nil
	}
	prices := make([]float64, 0, len(candles))
	for _, c := range candles {
		if c.Close > 0 {
			prices = append(prices, c.Close)
		}
	}
	if len(prices) > cfg.MaxHistoryPrices {
		prices = prices[len(prices)-cfg.MaxHistoryPrices:]
	}
	log.Printf("[BOOT] bootstrapped with %d historical prices", len(prices))
	return prices
}

// appendBounded appends p and evicts the oldest entries beyond max.
func appendBounded(prices []float64, p float64, max int) []float64 {
	prices = append(prices, p)
	if len(prices) > max {
		prices = prices[len(prices)-max:]
	}
	return prices
}

func sleepOrDone(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
