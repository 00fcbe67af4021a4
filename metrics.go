// FILE: metrics.go
// Package main – Prometheus metrics for observability.
//
// Exposes the primary metrics the bot updates during operation:
//   • bot_decisions_total{signal}       – Count of decisions (buy|sell|hold)
//   • bot_orders_total{gateway,side}    – Count of orders placed
//   • bot_trades_total{result}          – Trades by result (open|win|loss)
//   • bot_exit_reasons_total{reason}    – Exits split by reason
//   • bot_equity_usd                    – Current equity snapshot (gauge)
//   • bot_total_pnl_usd                 – Cumulative realized P&L (gauge)
//   • bot_daily_trades                  – Trades counted today (gauge)
//   • bot_price                         – Last observed price (gauge)
//
// These are registered in init() and served by the HTTP handler started in
// main.go at /metrics (Prometheus text exposition format).

package main

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Decisions taken",
		},
		[]string{"signal"},
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Orders placed",
		},
		[]string{"gateway", "side"},
	)

	mtxTrades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_trades_total",
			Help: "Trades counted by result (open|win|loss).",
		},
		[]string{"result"},
	)

	// Reasons are take_profit, stop_loss, signal, shutdown.
	mtxExitReasons = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_exit_reasons_total",
			Help: "Total exits split by reason",
		},
		[]string{"reason"},
	)

	mtxEquity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_equity_usd",
			Help: "Equity in USD",
		},
	)

	mtxTotalPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_total_pnl_usd",
			Help: "Cumulative realized P&L in USD",
		},
	)

	mtxDailyTrades = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_daily_trades",
			Help: "Trades filled during the current UTC day",
		},
	)

	mtxPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_price",
			Help: "Last observed product price",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxDecisions, mtxOrders, mtxTrades, mtxExitReasons)
	prometheus.MustRegister(mtxEquity, mtxTotalPnL, mtxDailyTrades, mtxPrice)
}
