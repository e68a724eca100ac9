package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"

	"bdc-storefront/internal/config"
	"bdc-storefront/internal/deposit"
	"bdc-storefront/internal/observability"
	"bdc-storefront/internal/pricing"
	"bdc-storefront/internal/referral"
	"bdc-storefront/internal/sale"
	"bdc-storefront/internal/server"
	"bdc-storefront/internal/solana"
	"bdc-storefront/internal/storage"
	"bdc-storefront/internal/storage/clickhouse"
	"bdc-storefront/internal/storage/memory"
	"bdc-storefront/internal/storage/postgres"
	"bdc-storefront/pkg/logx"
	"bdc-storefront/pkg/middlewarex"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load", logx.Error(err))
		os.Exit(1)
	}

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	// Stores. Empty DSNs keep everything in memory.
	var (
		purchases storage.PurchaseStore
		accounts  storage.AccountStore
		history   storage.PriceHistoryStore
	)

	if dsn := cfg.Storage.Postgres.DSN; dsn != "" {
		pool, err := postgres.NewPool(ctx, postgresDSN(cfg.Storage.Postgres))
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()

		purchases = postgres.NewPurchaseStore(pool)
		accounts = postgres.NewAccountStore(pool)
		log.Info("postgres connection OK")
	} else {
		purchases = memory.NewPurchaseStore()
		accounts = memory.NewAccountStore()
		log.Info("using in-memory purchase and account stores")
	}

	if dsn := cfg.Storage.ClickHouse.DSN; dsn != "" {
		conn, err := clickhouse.NewConn(ctx, dsn)
		if err != nil {
			return fmt.Errorf("clickhouse: %w", err)
		}
		defer conn.Close()

		history = clickhouse.NewPriceHistoryStore(conn)
		log.Info("clickhouse connection OK")
	} else {
		history = memory.NewPriceHistoryStore()
		log.Info("using in-memory price history store")
	}

	// Pricing
	engine := pricing.NewEngine(history)

	if cfg.Sale.SeedHistory {
		samples, err := engine.History(ctx, 1)
		if err != nil {
			return fmt.Errorf("read price history: %w", err)
		}
		if len(samples) == 0 {
			if err := engine.SeedHistory(ctx); err != nil {
				return fmt.Errorf("seed price history: %w", err)
			}
			log.Info("seeded price history")
		}
	}

	// Balance oracle
	oracle := solana.NewHTTPClient(cfg.Solana.RPCURL,
		solana.WithTimeout(cfg.Solana.Timeout),
		solana.WithMaxRetries(cfg.Solana.MaxRetries),
	)

	// Core services
	referrals := referral.NewLedger(accounts)
	saleService := sale.NewService(
		engine, purchases, referrals, oracle,
		cfg.Sale.DepositAddress, cfg.Solana.USDCMint,
		log,
	)

	sessions := deposit.NewManager(saleService, nil, log)
	defer sessions.Stop()

	// Optional push hints over WebSocket; polling still covers everything.
	if cfg.Solana.WSURL != "" {
		ws, err := solana.NewWSClient(ctx, cfg.Solana.WSURL, nil)
		if err != nil {
			return fmt.Errorf("solana ws: %w", err)
		}
		defer ws.Close()

		hints, err := ws.SubscribeAccount(ctx, cfg.Sale.DepositAddress)
		if err != nil {
			return fmt.Errorf("subscribe deposit account: %w", err)
		}
		go sessions.WatchHints(ctx, hints)
		log.Info("watching deposit account over websocket", "address", cfg.Sale.DepositAddress)
	}

	// HTTP
	router := chi.NewRouter()
	router.Use(middlewarex.TraceID)
	router.Use(middlewarex.Logger)
	router.Use(middlewarex.Recovery)

	srv := server.NewServer(
		server.NewSaleServer(saleService),
		server.NewDepositServer(saleService, sessions),
	)
	srv.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:              cfg.HTTP.MetricsAddr,
		Handler:           observability.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				observability.DefaultMetrics.UptimeSeconds.Inc()
			}
		}
	}()

	errCh := make(chan error, 2)

	go func() {
		log.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		log.Info("metrics server listening", "addr", cfg.HTTP.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("application stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", logx.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown", logx.Error(err))
	}

	return nil
}

// postgresDSN appends pool settings to the DSN unless the DSN already
// carries them. pgxpool reads pool_* parameters from the connection string.
func postgresDSN(cfg config.Postgres) string {
	dsn := cfg.DSN
	if strings.Contains(dsn, "pool_max_conns") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%spool_max_conns=%d&pool_max_conn_lifetime=%s",
		dsn, sep, cfg.MaxConns, cfg.ConnMaxLifetime)
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
