// FILE: config.go
// Package main – Runtime configuration model and loader.
//
// This file defines the Config struct (all the knobs the bot uses) and a
// helper to populate it from environment variables. The .env file is read
// by loadBotEnv() (see env.go), so you can tune behavior without exports.
// There is no hot-reload: a strategy change requires a restart.
//
// Typical flow (see main.go):
//   loadBotEnv()
//   cfg := loadConfigFromEnv()
//   if err := cfg.Validate(); err != nil { log.Fatalf(...) }

package main

import "fmt"

// Config holds all runtime knobs for trading and operations. Read once at
// construction, immutable for the run.
type Config struct {
	// Trading target
	ProductID   string // e.g., "BTC-USDC"
	Granularity string // bootstrap candle granularity, e.g., "ONE_MINUTE"

	// Sizing & safety
	TradeAmountUSD     float64 // fixed quote notional per entry
	MaxPositionSizeUSD float64 // hard cap on the entry notional
	StopLossPct        float64 // % below entry for the stop
	TakeProfitPct      float64 // % above entry for the target
	RiskPerTradePct    float64 // % of portfolio risked per trade
	MaxDailyTrades     int
	USDEquity          float64 // starting portfolio value
	DryRun             bool    // paper gateway regardless of BRIDGE_URL

	// Strategy thresholds
	RSIOversold    float64
	RSIOverbought  float64
	RSIPeriod      int
	SMAShortPeriod int
	SMALongPeriod  int
	BollPeriod     int
	BollStdDev     float64

	// Loop control
	CheckIntervalSec int // cadence of the trading loop
	MaxHistoryPrices int // bounded price series length

	// Ops
	Port      int
	BridgeURL string // exchange sidecar base URL; empty means paper only
}

// loadConfigFromEnv reads the process env (already hydrated by loadBotEnv())
// and returns a Config with sane defaults if keys are missing.
func loadConfigFromEnv() Config {
	return Config{
		ProductID:   getEnv("PRODUCT_ID", "BTC-USDC"),
		Granularity: getEnv("GRANULARITY", "ONE_MINUTE"),

		TradeAmountUSD:     getEnvFloat("TRADE_AMOUNT_USD", 25.0),
		MaxPositionSizeUSD: getEnvFloat("MAX_POSITION_SIZE_USD", 400.0),
		StopLossPct:        getEnvFloat("STOP_LOSS_PCT", 1.5),
		TakeProfitPct:      getEnvFloat("TAKE_PROFIT_PCT", 2.5),
		RiskPerTradePct:    getEnvFloat("RISK_PER_TRADE_PCT", 1.0),
		MaxDailyTrades:     getEnvInt("MAX_DAILY_TRADES", 15),
		USDEquity:          getEnvFloat("USD_EQUITY", 500.0),
		DryRun:             getEnvBool("DRY_RUN", true),

		RSIOversold:    getEnvFloat("RSI_OVERSOLD", 35),
		RSIOverbought:  getEnvFloat("RSI_OVERBOUGHT", 65),
		RSIPeriod:      getEnvInt("RSI_PERIOD", 14),
		SMAShortPeriod: getEnvInt("SMA_SHORT_PERIOD", 5),
		SMALongPeriod:  getEnvInt("SMA_LONG_PERIOD", 15),
		BollPeriod:     getEnvInt("BB_PERIOD", 20),
		BollStdDev:     getEnvFloat("BB_STD_DEV", 2.0),

		CheckIntervalSec: getEnvInt("CHECK_INTERVAL_SEC", 30),
		MaxHistoryPrices: getEnvInt("MAX_HISTORY_PRICES", 50),

		Port:      getEnvInt("PORT", 8080),
		BridgeURL: getEnv("BRIDGE_URL", ""),
	}
}

// ConfigError is a fatal startup fault; the loop never starts when one is
// raised.
type ConfigError struct {
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Detail)
}

// Validate checks the invariants the engine depends on. It also clamps the
// history bound up to the longest indicator window so the series can never
// be too short to ever produce a signal.
func (c *Config) Validate() error {
	if c.ProductID == "" {
		return &ConfigError{Field: "PRODUCT_ID", Detail: "must not be empty"}
	}
	if c.TradeAmountUSD <= 0 {
		return &ConfigError{Field: "TRADE_AMOUNT_USD", Detail: "must be > 0"}
	}
	if c.StopLossPct <= 0 || c.StopLossPct >= 100 {
		return &ConfigError{Field: "STOP_LOSS_PCT", Detail: "must be in (0,100)"}
	}
	if c.TakeProfitPct <= 0 {
		return &ConfigError{Field: "TAKE_PROFIT_PCT", Detail: "must be > 0"}
	}
	if c.SMAShortPeriod <= 0 || c.SMALongPeriod <= 0 || c.SMAShortPeriod >= c.SMALongPeriod {
		return &ConfigError{Field: "SMA_SHORT_PERIOD/SMA_LONG_PERIOD", Detail: "need 0 < short < long"}
	}
	if c.RSIPeriod <= 0 {
		return &ConfigError{Field: "RSI_PERIOD", Detail: "must be > 0"}
	}
	if c.BollPeriod <= 0 || c.BollStdDev <= 0 {
		return &ConfigError{Field: "BB_PERIOD/BB_STD_DEV", Detail: "must be > 0"}
	}
	if c.MaxDailyTrades <= 0 {
		return &ConfigError{Field: "MAX_DAILY_TRADES", Detail: "must be > 0"}
	}
	if c.CheckIntervalSec <= 0 {
		return &ConfigError{Field: "CHECK_INTERVAL_SEC", Detail: "must be > 0"}
	}
	if !c.DryRun && c.BridgeURL == "" {
		return &ConfigError{Field: "BRIDGE_URL", Detail: "required when DRY_RUN=false"}
	}

	// The series must hold at least the longest window any indicator needs.
	longest := c.SMALongPeriod
	if c.BollPeriod > longest {
		longest = c.BollPeriod
	}
	if c.RSIPeriod+1 > longest {
		longest = c.RSIPeriod + 1
	}
	if c.MaxHistoryPrices < longest {
		c.MaxHistoryPrices = longest
	}
	return nil
}
