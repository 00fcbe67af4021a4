// FILE: indicators.go
// Package main – Technical indicators for the trading bot.
//
// This file implements the TA helpers the strategy votes on:
//   • SMA(prices, n)          – Simple Moving Average of the last n prices
//   • EMA(prices, n)          – Exponential Moving Average (SMA-seeded)
//   • RSIValue(prices, n)     – Relative Strength Index (simple averages)
//   • Bollinger(prices, n, k) – mid ± k·σ volatility envelope
//
// Notes
//   - All functions take the raw price series (oldest first) and return the
//     latest value plus an ok flag. ok=false means "insufficient history";
//     callers must abstain, never substitute zero.
//   - Keep these fast and allocation-light; they run every tick.
package main

import "math"

// SMA returns the arithmetic mean of the last n prices.
func SMA(prices []float64, n int) (float64, bool) {
	if n <= 0 || len(prices) < n {
		return 0, false
	}
	sum := 0.0
	for _, p := range prices[len(prices)-n:] {
		sum += p
	}
	return sum / float64(n), true
}

// EMA returns the exponential moving average with smoothing k = 2/(n+1),
// seeded with the SMA of the first n prices.
func EMA(prices []float64, n int) (float64, bool) {
	if n <= 0 || len(prices) < n {
		return 0, false
	}
	k := 2.0 / float64(n+1)
	ema := 0.0
	for _, p := range prices[:n] {
		ema += p
	}
	ema /= float64(n)
	for _, p := range prices[n:] {
		ema = p*k + ema*(1-k)
	}
	return ema, true
}

// RSIValue returns the n-period RSI using simple averages of the last n
// gains and losses. Needs n+1 prices (n deltas). When the window has no
// losses the value is pinned at 100, which keeps the result in [0,100]
// without dividing by zero.
func RSIValue(prices []float64, n int) (float64, bool) {
	if n <= 0 || len(prices) < n+1 {
		return 0, false
	}
	var gain, loss float64
	for i := len(prices) - n; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(n)
	avgLoss := loss / float64(n)
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), true
}

// Bollinger returns (upper, mid, lower) where mid is the n-period SMA and
// the bands sit k population standard deviations away.
func Bollinger(prices []float64, n int, k float64) (upper, mid, lower float64, ok bool) {
	mid, ok = SMA(prices, n)
	if !ok {
		return 0, 0, 0, false
	}
	variance := 0.0
	for _, p := range prices[len(prices)-n:] {
		d := p - mid
		variance += d * d
	}
	variance /= float64(n)
	sigma := math.Sqrt(variance)
	return mid + k*sigma, mid, mid - k*sigma, true
}
