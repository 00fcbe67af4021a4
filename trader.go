// FILE: trader.go
// Package main – The position ledger and the per-tick decision step.
//
// What's here:
//   • Position state (entry price/size/stop/take)
//   • Trader: holds config, ports, risk manager, equity/P&L, trade ring
//   • step(): the core tick that may OPEN, HOLD, or EXIT
//   • StatusSnapshot: the immutable state view published for readers
//
// Ledger rules:
//   - Exactly FLAT or LONG, never more than one open position.
//   - A transition commits only after the gateway reports a successful
//     fill; a failed order leaves state and daily counters unchanged.
//   - The exit check runs before any entry logic, so a tick performs at
//     most one transition and a stop-loss always beats a fresh signal.
//
// Concurrency design:
//   - Only the loop goroutine mutates the Trader; no locks are needed for
//     its own bookkeeping. External readers (the /status handler) get a
//     fresh immutable StatusSnapshot swapped in atomically after every
//     tick, so they can never observe a half-updated position.

package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Position exists only while the ledger is LONG.
type Position struct {
	EntryPrice float64   `json:"entry_price"`
	SizeBase   float64   `json:"size"`
	OpenedAt   time.Time `json:"opened_at"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
}

// TradeRecord captures a compact view of an executed entry or exit.
type TradeRecord struct {
	Time     time.Time `json:"time"`
	Side     OrderSide `json:"side"`
	Price    float64   `json:"price"`
	SizeBase float64   `json:"size"`
	PnLUSD   float64   `json:"pnl_usd,omitempty"`
	Reason   string    `json:"reason"`
}

// tradeRingCap bounds the in-memory trade log; there is no durable store.
const tradeRingCap = 32

// StatusSnapshot is the read-only state the presentation layer consumes.
// Built fresh each tick and swapped atomically; treat as immutable.
type StatusSnapshot struct {
	Time        time.Time         `json:"time"`
	Price       float64           `json:"price"`
	Signal      string            `json:"signal"`
	BuyVotes    int               `json:"buy_votes"`
	SellVotes   int               `json:"sell_votes"`
	Reason      string            `json:"reason"`
	Indicators  IndicatorSnapshot `json:"indicators"`
	Position    *Position         `json:"position,omitempty"`
	EquityUSD   float64           `json:"equity_usd"`
	TotalPnLUSD float64           `json:"total_pnl_usd"`
	Risk        RiskState         `json:"risk"`
	Trades      []TradeRecord     `json:"trades"`
}

// Trader drives the ledger each tick.
type Trader struct {
	cfg     Config
	market  MarketData
	gateway OrderGateway
	risk    *RiskManager

	pos       *Position // nil == FLAT
	equityUSD float64
	totalPnL  float64
	trades    []TradeRecord

	snapshot atomic.Pointer[StatusSnapshot]

	now func() time.Time
}

func NewTrader(cfg Config, market MarketData, gateway OrderGateway) *Trader {
	t := &Trader{
		cfg:       cfg,
		market:    market,
		gateway:   gateway,
		risk:      NewRiskManager(cfg),
		equityUSD: cfg.USDEquity,
		now:       func() time.Time { return time.Now().UTC() },
	}
	mtxEquity.Set(t.equityUSD)
	return t
}

// EquityUSD is the portfolio value fed to the risk gate: starting equity
// plus realized P&L.
func (t *Trader) EquityUSD() float64 { return t.equityUSD }

// Status returns the latest published snapshot, or nil before the first tick.
func (t *Trader) Status() *StatusSnapshot { return t.snapshot.Load() }

// step runs one tick against the bounded price series (oldest first). The
// last element is the freshly fetched price. Returns an operator-readable
// status line; a non-nil error means an order attempt was rejected and the
// tick's transition was abandoned with no state change.
func (t *Trader) step(ctx context.Context, prices []float64) (string, error) {
	price := prices[len(prices)-1]
	mtxPrice.Set(price)

	// Exit check first: a triggered stop/take commits this tick's single
	// transition before any fresh entry signal is considered.
	if t.pos != nil {
		if price <= t.pos.StopLoss || price >= t.pos.TakeProfit {
			reason := "stop_loss"
			if price >= t.pos.TakeProfit {
				reason = "take_profit"
			}
			pnl, err := t.closePosition(ctx, price, reason)
			if err != nil {
				return "", fmt.Errorf("%s close: %w", reason, err)
			}
			d := decide(prices, t.cfg)
			t.publish(d, price)
			return fmt.Sprintf("EXIT %s at %.2f P/L=%.2f", reason, price, pnl), nil
		}
	}

	d := decide(prices, t.cfg)
	mtxDecisions.WithLabelValues(signalLabel(d.Signal)).Inc()

	var msg string
	switch d.Signal {
	case Buy:
		switch {
		case t.pos != nil:
			// No pyramiding or averaging: BUY while LONG is a no-op.
			msg = fmt.Sprintf("HOLD long entry=%.2f (BUY ignored: position open)", t.pos.EntryPrice)
		case !t.risk.CanTrade(t.equityUSD):
			msg = "HOLD (risk gate blocked entry)"
		default:
			opened, err := t.openPosition(ctx, price, d.Reason)
			if err != nil {
				t.publish(d, price)
				return "", fmt.Errorf("open: %w", err)
			}
			msg = fmt.Sprintf("OPEN long at %.2f size=%.8f stop=%.2f take=%.2f",
				opened.EntryPrice, opened.SizeBase, opened.StopLoss, opened.TakeProfit)
		}
	case Sell:
		if t.pos == nil {
			msg = "FLAT (SELL ignored: no position to close)"
		} else {
			pnl, err := t.closePosition(ctx, price, "signal")
			if err != nil {
				t.publish(d, price)
				return "", fmt.Errorf("close: %w", err)
			}
			msg = fmt.Sprintf("EXIT signal at %.2f P/L=%.2f", price, pnl)
		}
	default:
		msg = fmt.Sprintf("HOLD (%s)", d.Reason)
	}

	t.publish(d, price)
	return msg, nil
}

// openPosition places the entry order and, only on a successful fill,
// commits FLAT→LONG and counts the trade against the daily budget.
func (t *Trader) openPosition(ctx context.Context, price float64, reason string) (*Position, error) {
	size := t.risk.PositionSize(price, t.equityUSD)
	if size <= 0 {
		return nil, fmt.Errorf("position size computed as %.8f", size)
	}

	// BUY is specified as a quote notional; the risk-derived base size is
	// what the ledger tracks for stops and P&L.
	placed, err := t.gateway.PlaceMarketOrder(ctx, t.cfg.ProductID, SideBuy, t.cfg.TradeAmountUSD)
	if err != nil {
		return nil, err
	}
	mtxOrders.WithLabelValues(t.gateway.Name(), "buy").Inc()

	entry := price
	if placed != nil && placed.Price > 0 {
		entry = placed.Price
	}
	t.pos = &Position{
		EntryPrice: entry,
		SizeBase:   size,
		OpenedAt:   t.now(),
		StopLoss:   entry * (1 - t.cfg.StopLossPct/100.0),
		TakeProfit: entry * (1 + t.cfg.TakeProfitPct/100.0),
	}
	t.risk.RecordOpen()
	t.recordTrade(TradeRecord{Time: t.now(), Side: SideBuy, Price: entry, SizeBase: size, Reason: reason})
	mtxTrades.WithLabelValues("open").Inc()
	log.Printf("[INFO] opened long position at %.2f size=%.8f", entry, size)
	return t.pos, nil
}

// closePosition places the exit order and, only on a successful fill,
// commits LONG→FLAT and realizes P&L. On error the position is untouched.
func (t *Trader) closePosition(ctx context.Context, price float64, reason string) (float64, error) {
	pos := t.pos
	placed, err := t.gateway.PlaceMarketOrder(ctx, t.cfg.ProductID, SideSell, pos.SizeBase)
	if err != nil {
		return 0, err
	}
	mtxOrders.WithLabelValues(t.gateway.Name(), "sell").Inc()

	exit := price
	if placed != nil && placed.Price > 0 {
		exit = placed.Price
	}
	pnl := (exit - pos.EntryPrice) * pos.SizeBase
	t.totalPnL += pnl
	t.equityUSD += pnl
	t.risk.RecordPnL(pnl)
	t.pos = nil

	t.recordTrade(TradeRecord{Time: t.now(), Side: SideSell, Price: exit, SizeBase: pos.SizeBase, PnLUSD: pnl, Reason: reason})
	if pnl >= 0 {
		mtxTrades.WithLabelValues("win").Inc()
	} else {
		mtxTrades.WithLabelValues("loss").Inc()
	}
	mtxExitReasons.WithLabelValues(reason).Inc()
	mtxEquity.Set(t.equityUSD)
	mtxTotalPnL.Set(t.totalPnL)
	log.Printf("[EXIT] %s at %.2f, P/L: %.2f", reason, exit, pnl)
	return pnl, nil
}

// closeOnShutdown attempts a best-effort exit of an open LONG before the
// process stops. Failures are logged and shutdown proceeds; the position
// is reconciled on the next startup.
func (t *Trader) closeOnShutdown(ctx context.Context) {
	if t.pos == nil {
		return
	}
	log.Printf("[INFO] closing open position before shutdown...")
	price, err := t.market.GetNowPrice(ctx, t.cfg.ProductID)
	if err != nil || price <= 0 {
		price = t.pos.EntryPrice // last resort mark for the close attempt
	}
	if _, err := t.closePosition(ctx, price, "shutdown"); err != nil {
		log.Printf("[WARN] shutdown close failed, position left open: %v", err)
	}
}

func (t *Trader) recordTrade(rec TradeRecord) {
	t.trades = append(t.trades, rec)
	if len(t.trades) > tradeRingCap {
		t.trades = t.trades[len(t.trades)-tradeRingCap:]
	}
}

// publish builds a fresh snapshot and swaps it in for readers.
func (t *Trader) publish(d Decision, price float64) {
	snap := &StatusSnapshot{
		Time:        t.now(),
		Price:       price,
		Signal:      d.Signal.String(),
		BuyVotes:    d.BuyVotes,
		SellVotes:   d.SellVotes,
		Reason:      d.Reason,
		Indicators:  d.Indicators,
		EquityUSD:   t.equityUSD,
		TotalPnLUSD: t.totalPnL,
		Risk:        t.risk.State(),
		Trades:      append([]TradeRecord(nil), t.trades...),
	}
	if t.pos != nil {
		p := *t.pos
		snap.Position = &p
	}
	t.snapshot.Store(snap)
}

// logSummary prints the performance summary on shutdown.
func (t *Trader) logSummary() {
	rs := t.risk.State()
	log.Printf("=== PERFORMANCE SUMMARY ===")
	log.Printf("Total trades executed: %d", len(t.trades))
	log.Printf("Total P&L: %.2f", t.totalPnL)
	log.Printf("Daily trades: %d", rs.DailyTrades)
	log.Printf("Daily P&L: %.2f", rs.DailyPnL)
}

// ---- labels ----

func signalLabel(s Signal) string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}
