// FILE: strategy.go
// Package main – Signal types and the indicator vote fusion.
//
// This file declares the signal enum (Buy/Sell/Hold), the per-tick indicator
// snapshot, and the `decide` function that turns the price series into a
// trading intent.
//
// Three indicators each cast a vote:
//   • SMA crossover: always votes — BUY if short > long, else SELL.
//   • RSI: BUY below the oversold threshold, SELL above overbought,
//     abstains in between.
//   • Bollinger: BUY at/below the lower band, SELL at/above the upper,
//     abstains inside the envelope.
//
// The aggregate is a strict majority of cast votes; any tie (including
// zero votes) is HOLD. A series shorter than max(smaLongPeriod, 10) forces
// HOLD regardless of votes.

package main

import "fmt"

// Signal is the high-level intent.
type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

// String implements fmt.Stringer for pretty logging.
func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// SignalToSide converts the intent into a gateway side.
func (s Signal) SignalToSide() OrderSide {
	if s == Sell {
		return SideSell
	}
	return SideBuy
}

// IndicatorSnapshot carries the per-tick indicator values. Each Ok flag
// marks whether the value is defined for the current history length;
// undefined values mean the indicator abstained, not that it read zero.
type IndicatorSnapshot struct {
	SMAShort   float64 `json:"sma_short"`
	SMAShortOk bool    `json:"sma_short_ok"`
	SMALong    float64 `json:"sma_long"`
	SMALongOk  bool    `json:"sma_long_ok"`
	RSI        float64 `json:"rsi"`
	RSIOk      bool    `json:"rsi_ok"`
	BollUpper  float64 `json:"bollinger_upper"`
	BollMid    float64 `json:"bollinger_middle"`
	BollLower  float64 `json:"bollinger_lower"`
	BollOk     bool    `json:"bollinger_ok"`
}

// Decision captures what to do and why, including the raw vote counts for
// observability.
type Decision struct {
	Signal     Signal
	BuyVotes   int
	SellVotes  int
	Reason     string
	Indicators IndicatorSnapshot
}

// minFusionWindow is the shortest history the fusion will act on.
func minFusionWindow(cfg Config) int {
	if cfg.SMALongPeriod > 10 {
		return cfg.SMALongPeriod
	}
	return 10
}

// computeSnapshot evaluates every indicator against the current series.
func computeSnapshot(prices []float64, cfg Config) IndicatorSnapshot {
	var snap IndicatorSnapshot
	snap.SMAShort, snap.SMAShortOk = SMA(prices, cfg.SMAShortPeriod)
	snap.SMALong, snap.SMALongOk = SMA(prices, cfg.SMALongPeriod)
	snap.RSI, snap.RSIOk = RSIValue(prices, cfg.RSIPeriod)
	snap.BollUpper, snap.BollMid, snap.BollLower, snap.BollOk = Bollinger(prices, cfg.BollPeriod, cfg.BollStdDev)
	return snap
}

// decide fuses the indicator votes into a single intent for the latest price.
func decide(prices []float64, cfg Config) Decision {
	if len(prices) < minFusionWindow(cfg) {
		return Decision{Signal: Hold, Reason: "insufficient_data"}
	}

	price := prices[len(prices)-1]
	snap := computeSnapshot(prices, cfg)

	buy, sell := 0, 0

	// SMA crossover always casts a vote once both averages exist.
	if snap.SMAShortOk && snap.SMALongOk {
		if snap.SMAShort > snap.SMALong {
			buy++
		} else {
			sell++
		}
	}

	// RSI votes only at the extremes.
	if snap.RSIOk {
		if snap.RSI < cfg.RSIOversold {
			buy++
		} else if snap.RSI > cfg.RSIOverbought {
			sell++
		}
	}

	// Bollinger votes only outside the envelope.
	if snap.BollOk {
		if price <= snap.BollLower {
			buy++
		} else if price >= snap.BollUpper {
			sell++
		}
	}

	d := Decision{BuyVotes: buy, SellVotes: sell, Indicators: snap}
	switch {
	case buy > sell:
		d.Signal = Buy
		d.Reason = fmt.Sprintf("buy_votes=%d sell_votes=%d", buy, sell)
	case sell > buy:
		d.Signal = Sell
		d.Reason = fmt.Sprintf("sell_votes=%d buy_votes=%d", sell, buy)
	default:
		d.Signal = Hold
		d.Reason = fmt.Sprintf("mixed buy=%d sell=%d", buy, sell)
	}
	return d
}
