// FILE: main.go
// Package main – Program entrypoint and HTTP ops server.
//
// Boot sequence:
//   1) loadBotEnv()           – read .env (no shell exports required)
//   2) cfg := loadConfigFromEnv() + cfg.Validate() – fatal on bad config
//   3) wire market-data / order-gateway ports (bridge or paper)
//   4) start /metrics, /healthz, /status server on cfg.Port
//   5) runLive until SIGINT/SIGTERM
//
// Flags:
//   -interval <sec>   Loop interval override (default CHECK_INTERVAL_SEC)
//
// Notes:
//   - The sidecar must be running for live prices (BRIDGE_URL in .env).
//   - DRY_RUN=true keeps order execution on the in-process paper gateway
//     while prices still come from the bridge when configured.
//   - /status serves the read-only state snapshot for the dashboard; it
//     is rebuilt each tick and safe to poll concurrently.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var intervalSec int
	flag.IntVar(&intervalSec, "interval", 0, "Loop interval in seconds (overrides CHECK_INTERVAL_SEC)")
	flag.Parse()

	// ---- Environment & Config ----
	loadBotEnv()
	cfg := loadConfigFromEnv()
	if intervalSec > 0 {
		cfg.CheckIntervalSec = intervalSec
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// ---- Port wiring ----
	// Market data needs the bridge; order execution stays on paper when
	// DRY_RUN is set.
	var market MarketData
	var gateway OrderGateway
	paper := NewPaperBroker()
	if cfg.BridgeURL != "" {
		bridge := NewBridgeBroker(cfg.BridgeURL)
		market = bridge
		if cfg.DryRun {
			gateway = &paperFillAtMarket{paper: paper, market: bridge}
		} else {
			gateway = bridge
		}
	} else {
		market = paper
		gateway = paper
	}

	trader := NewTrader(cfg, market, gateway)

	// ---- HTTP metrics/health/status ----
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		snap := trader.Status()
		if snap == nil {
			http.Error(w, `{"error":"no tick yet"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		log.Printf("serving metrics on :%d/metrics", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	// ---- Run loop until interrupted ----
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runLive(ctx, trader)

	// ---- Graceful shutdown for HTTP server ----
	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)
}

// paperFillAtMarket simulates fills at the live bridge price so dry runs
// track the real market without touching the exchange.
type paperFillAtMarket struct {
	paper  *PaperBroker
	market MarketData
}

func (g *paperFillAtMarket) Name() string { return "paper" }

func (g *paperFillAtMarket) PlaceMarketOrder(ctx context.Context, product string, side OrderSide, sizeSpec float64) (*PlacedOrder, error) {
	if px, err := g.market.GetNowPrice(ctx, product); err == nil && px > 0 {
		g.paper.SetPrice(px)
	}
	return g.paper.PlaceMarketOrder(ctx, product, side, sizeSpec)
}
