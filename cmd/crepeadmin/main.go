package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crepe_admin/internal/app"
	"crepe_admin/internal/domain"
	"crepe_admin/internal/infra"
	"crepe_admin/internal/infra/upbit"
	"crepe_admin/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; missing file is fine
	_ = godotenv.Load()

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Background coin metadata seeding
	go bootstrap.SeedCoins(ctx)

	// 4. Session (login or restore)
	if err := bootstrap.EnsureSession(ctx); err != nil {
		slog.Error("❌ Login failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.InfoContext(ctx, "✅ Session established")

	// 5. Fetch bank accounts and start live revaluation
	accounts, err := bootstrap.Banks.AllAccounts(ctx)
	if err != nil {
		slog.Error("Failed to fetch bank accounts", slog.Any("error", err))
	} else {
		bootstrap.Accounts.SetAccounts(accounts)
	}
	bootstrap.Accounts.Start(ctx)
	defer bootstrap.Accounts.Stop()

	// 6. Price feed worker
	cfg := bootstrap.Config
	codes := make([]string, len(cfg.Feed.Symbols))
	for i, s := range cfg.Feed.Symbols {
		codes[i] = domain.MarketCode(s)
	}
	worker := upbit.NewWorker(cfg.Feed.WSURL, codes, bootstrap.Store,
		time.Duration(cfg.Feed.PingIntervalSec)*time.Second)
	if err := worker.Connect(ctx); err != nil {
		slog.Error("Failed to connect price feed", slog.Any("error", err))
	}
	defer worker.Disconnect()
	slog.InfoContext(ctx, "✅ Feed worker started", slog.Int("codes", len(codes)))

	// 7. Bank token price poller
	poller := service.NewTokenPricePoller(bootstrap.Tokens.Price, nil)
	if err := poller.Start(ctx); err != nil {
		slog.Error("Failed to start token price poller", slog.Any("error", err))
	}
	defer poller.Stop()

	// 8. Periodic status logging
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m := infra.GlobalMetrics.Snapshot()
				slog.Info("Status",
					slog.Uint64("frames", m.FramesReceived),
					slog.Uint64("dropped", m.FramesDropped),
					slog.Uint64("api_errors", m.APIErrors),
					slog.Bool("feed_connected", m.FeedConnected),
					slog.Int("markets", bootstrap.Store.Len()),
					slog.Bool("stale", bootstrap.Store.IsStale()),
				)
			}
		}
	}()

	slog.InfoContext(ctx, "✨ Crepe Admin fully operational. Press Ctrl+C to exit.")

	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
